// Package entity implements the entity store: typed business objects
// scoped to a tenant, with merge-patch updates and guarded lifecycle
// transitions. Archiving an entity hands off to the delete cascade.
package entity

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/funnelforge/graphcore-backend/internal/domain"
)

type entityRepo interface {
	Create(ctx context.Context, e domain.Entity) (domain.Entity, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (domain.Entity, error)
	List(ctx context.Context, f domain.EntityFilter) ([]domain.Entity, error)
	Update(ctx context.Context, e domain.Entity) (domain.Entity, error)
	SetStatus(ctx context.Context, tenantID, id uuid.UUID, status domain.EntityStatus) (domain.Entity, error)
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

type cascadeRunner interface {
	Run(ctx context.Context, tenantID, entityID uuid.UUID) (domain.CascadeResult, error)
}

type actorResolver interface {
	ResolveActor(ctx context.Context, tenantID uuid.UUID) (*uuid.UUID, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service provides entity store operations.
type Service struct {
	entities entityRepo
	tenants  tenantRepo
	events   eventRepo
	quotas   quotaTracker
	cascades cascadeRunner
	actors   actorResolver
	registry *domain.TypeRegistry
	tx       txManager
	log      *slog.Logger
}

// NewService creates a new Entity service.
func NewService(
	log *slog.Logger,
	entities entityRepo,
	tenants tenantRepo,
	events eventRepo,
	quotas quotaTracker,
	cascades cascadeRunner,
	actors actorResolver,
	registry *domain.TypeRegistry,
	tx txManager,
) *Service {
	return &Service{
		entities: entities,
		tenants:  tenants,
		events:   events,
		quotas:   quotas,
		cascades: cascades,
		actors:   actors,
		registry: registry,
		tx:       tx,
		log:      log.With("service", "entity"),
	}
}

// activeTenant loads the tenant and rejects archived ones. Every write
// path goes through this check.
func (s *Service) activeTenant(ctx context.Context, tenantID uuid.UUID) (domain.Tenant, error) {
	t, err := s.tenants.GetByID(ctx, tenantID)
	if err != nil {
		if isNotFound(err) {
			return domain.Tenant{}, domain.ErrTenantNotFound
		}
		return domain.Tenant{}, err
	}
	if !t.IsActive() {
		return domain.Tenant{}, domain.ErrTenantInactive
	}
	return t, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
