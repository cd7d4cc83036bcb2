// Package connection implements the relationship store: typed directed
// edges between entities of the same tenant with temporal validity.
package connection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/funnelforge/graphcore-backend/internal/domain"
)

type connectionRepo interface {
	Create(ctx context.Context, c domain.Connection) (domain.Connection, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (domain.Connection, error)
	ExistsActive(ctx context.Context, tenantID, from, to uuid.UUID, connType string) (bool, error)
	Expire(ctx context.Context, tenantID, id uuid.UUID, at time.Time) (int64, error)
	List(ctx context.Context, f domain.ConnectionFilter) ([]domain.Connection, error)
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

// Service provides relationship store operations.
type Service struct {
	connections connectionRepo
	entities    entityRepo
	tenants     tenantRepo
	events      eventRepo
	quotas      quotaTracker
	actors      actorResolver
	tx          txManager
	log         *slog.Logger
}

// NewService creates a new Connection service.
func NewService(
	log *slog.Logger,
	connections connectionRepo,
	entities entityRepo,
	tenants tenantRepo,
	events eventRepo,
	quotas quotaTracker,
	actors actorResolver,
	tx txManager,
) *Service {
	return &Service{
		connections: connections,
		entities:    entities,
		tenants:     tenants,
		events:      events,
		quotas:      quotas,
		actors:      actors,
		tx:          tx,
		log:         log.With("service", "connection"),
	}
}

// checkEndpoint verifies an endpoint entity is visible inside the
// connection's tenant. An endpoint that cannot be found there is treated
// as a cross-tenant reference: the entity either lives in another tenant
// or does not exist, and the two cases are deliberately indistinguishable
// to the caller.
func (s *Service) checkEndpoint(ctx context.Context, tenantID, entityID uuid.UUID, side string) error {
	e, err := s.entities.GetByID(ctx, tenantID, entityID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%s entity %s: %w", side, entityID, domain.ErrCrossTenantReference)
		}
		return fmt.Errorf("get %s entity: %w", side, err)
	}
	if e.IsDeleted() {
		return fmt.Errorf("%s entity %s is deleted: %w", side, entityID, domain.ErrNotFound)
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
