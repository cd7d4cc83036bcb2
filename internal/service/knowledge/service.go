// Package knowledge implements the knowledge store: unstructured content
// records linked to entities through typed junction rows. A record with no
// remaining links is orphaned and soft-deleted.
package knowledge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/funnelforge/graphcore-backend/internal/domain"
)

type knowledgeRepo interface {
	Create(ctx context.Context, k domain.Knowledge) (domain.Knowledge, error)
	BulkCreate(ctx context.Context, items []domain.Knowledge) ([]uuid.UUID, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (domain.Knowledge, error)
	Link(ctx context.Context, j domain.EntityKnowledge) (domain.EntityKnowledge, error)
	Unlink(ctx context.Context, entityID, knowledgeID uuid.UUID, role domain.KnowledgeRole) (int64, error)
	ListLinks(ctx context.Context, entityID uuid.UUID) ([]domain.EntityKnowledge, error)
	CountLinks(ctx context.Context, knowledgeID uuid.UUID) (int64, error)
	SoftDelete(ctx context.Context, tenantID, id uuid.UUID, at time.Time) error
}

type entityRepo interface {
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (domain.Entity, error)
}

type tenantRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Tenant, error)
}

type eventRepo interface {
	Append(ctx context.Context, e domain.Event) (domain.Event, error)
}

type quotaTracker interface {
	EnforceQuota(ctx context.Context, tenantID uuid.UUID, metric string, requested int64) error
	RecordUsage(ctx context.Context, tenantID uuid.UUID, metric string, amount int64) (domain.UsageRecord, error)
}

type actorResolver interface {
	ResolveActor(ctx context.Context, tenantID uuid.UUID) (*uuid.UUID, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service provides knowledge store operations.
type Service struct {
	knowledge knowledgeRepo
	entities  entityRepo
	tenants   tenantRepo
	events    eventRepo
	quotas    quotaTracker
	actors    actorResolver
	tx        txManager
	maxBulk   int
	log       *slog.Logger
}

// NewService creates a new Knowledge service. maxBulk caps the item count
// per BulkCreate call; zero or negative applies the package default.
func NewService(
	log *slog.Logger,
	knowledge knowledgeRepo,
	entities entityRepo,
	tenants tenantRepo,
	events eventRepo,
	quotas quotaTracker,
	actors actorResolver,
	tx txManager,
	maxBulk int,
) *Service {
	if maxBulk <= 0 {
		maxBulk = maxBulkItems
	}
	return &Service{
		knowledge: knowledge,
		entities:  entities,
		tenants:   tenants,
		events:    events,
		quotas:    quotas,
		actors:    actors,
		tx:        tx,
		maxBulk:   maxBulk,
		log:       log.With("service", "knowledge"),
	}
}

func (s *Service) activeTenant(ctx context.Context, tenantID uuid.UUID) (domain.Tenant, error) {
	t, err := s.tenants.GetByID(ctx, tenantID)
	if err != nil {
		if isNotFound(err) {
			return domain.Tenant{}, domain.ErrTenantNotFound
		}
		return domain.Tenant{}, fmt.Errorf("get tenant: %w", err)
	}
	if !t.IsActive() {
		return domain.Tenant{}, domain.ErrTenantInactive
	}
	return t, nil
}

// checkEntity verifies the entity side of a link is visible inside the
// tenant. An entity that cannot be found there is treated as a
// cross-tenant reference: the caller cannot distinguish another tenant's
// entity from a nonexistent one.
func (s *Service) checkEntity(ctx context.Context, tenantID, entityID uuid.UUID) error {
	e, err := s.entities.GetByID(ctx, tenantID, entityID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("entity %s: %w", entityID, domain.ErrCrossTenantReference)
		}
		return fmt.Errorf("get entity: %w", err)
	}
	if e.IsDeleted() {
		return fmt.Errorf("entity %s is deleted: %w", entityID, domain.ErrNotFound)
	}
	return nil
}

// checkKnowledge is the knowledge side of checkEntity, with the same
// cross-tenant policy.
func (s *Service) checkKnowledge(ctx context.Context, tenantID, knowledgeID uuid.UUID) (domain.Knowledge, error) {
	k, err := s.knowledge.GetByID(ctx, tenantID, knowledgeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Knowledge{}, fmt.Errorf("knowledge %s: %w", knowledgeID, domain.ErrCrossTenantReference)
		}
		return domain.Knowledge{}, fmt.Errorf("get knowledge: %w", err)
	}
	if k.IsDeleted() {
		return domain.Knowledge{}, fmt.Errorf("knowledge %s is deleted: %w", knowledgeID, domain.ErrNotFound)
	}
	return k, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
