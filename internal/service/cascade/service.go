// Package cascade implements the entity delete orchestrator: a five-step
// resumable state machine with a persisted cursor. Steps are forward-only
// and individually retryable; completed work is never re-run and never
// rolled back.
package cascade

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/funnelforge/graphcore-backend/internal/domain"
)

type cascadeRepo interface {
	GetOrCreate(ctx context.Context, tenantID, entityID uuid.UUID) (domain.CascadeState, error)
	Advance(ctx context.Context, s domain.CascadeState) (domain.CascadeState, error)
	ListIncomplete(ctx context.Context, tenantID *uuid.UUID, limit int) ([]domain.CascadeState, error)
}

type entityRepo interface {
	MarkDeleted(ctx context.Context, tenantID, id uuid.UUID, at time.Time) (domain.Entity, error)
}

type connectionRepo interface {
	HardDeleteForEntity(ctx context.Context, tenantID, entityID uuid.UUID) (int64, error)
}

type eventRepo interface {
	Append(ctx context.Context, e domain.Event) (domain.Event, error)
	ArchiveForEntity(ctx context.Context, tenantID, entityID uuid.UUID) (int64, error)
}

type knowledgeRepo interface {
	DeleteLinksForEntity(ctx context.Context, entityID uuid.UUID) (int64, []uuid.UUID, error)
	CountLinks(ctx context.Context, knowledgeID uuid.UUID) (int64, error)
	SoftDelete(ctx context.Context, tenantID, id uuid.UUID, at time.Time) error
}

type actorResolver interface {
	ResolveActor(ctx context.Context, tenantID uuid.UUID) (*uuid.UUID, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service drives delete cascades to completion.
type Service struct {
	cascades    cascadeRepo
	entities    entityRepo
	connections connectionRepo
	events      eventRepo
	knowledge   knowledgeRepo
	actors      actorResolver
	tx          txManager
	now         func() time.Time
	log         *slog.Logger
}

// NewService creates a new Cascade service.
func NewService(
	log *slog.Logger,
	cascades cascadeRepo,
	entities entityRepo,
	connections connectionRepo,
	events eventRepo,
	knowledge knowledgeRepo,
	actors actorResolver,
	tx txManager,
) *Service {
	return &Service{
		cascades:    cascades,
		entities:    entities,
		connections: connections,
		events:      events,
		knowledge:   knowledge,
		actors:      actors,
		tx:          tx,
		now:         time.Now,
		log:         log.With("service", "cascade"),
	}
}
