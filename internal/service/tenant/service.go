// Package tenant implements the tenant registry: lifecycle of the isolated
// multi-tenant containers everything else in the graph is scoped to.
package tenant

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/funnelforge/graphcore-backend/internal/domain"
)

type tenantRepo interface {
	Create(ctx context.Context, t domain.Tenant) (domain.Tenant, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (domain.Tenant, error)
	UpdateSettings(ctx context.Context, id uuid.UUID, s domain.TenantSettings) (domain.Tenant, error)
	SetStatus(ctx context.Context, id uuid.UUID, status domain.TenantStatus) (domain.Tenant, error)
}

type entityRepo interface {
	Create(ctx context.Context, e domain.Entity) (domain.Entity, error)
	FindByTypeAndName(ctx context.Context, tenantID uuid.UUID, entityType, name string) (domain.Entity, error)
}

type eventRepo interface {
	Append(ctx context.Context, e domain.Event) (domain.Event, error)
}

type actorResolver interface {
	ResolveActor(ctx context.Context, tenantID uuid.UUID) (*uuid.UUID, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service provides tenant registry operations.
type Service struct {
	tenants  tenantRepo
	entities entityRepo
	events   eventRepo
	actors   actorResolver
	tx       txManager
	log      *slog.Logger
}

// NewService creates a new Tenant service.
func NewService(
	log *slog.Logger,
	tenants tenantRepo,
	entities entityRepo,
	events eventRepo,
	actors actorResolver,
	tx txManager,
) *Service {
	return &Service{
		tenants:  tenants,
		entities: entities,
		events:   events,
		actors:   actors,
		tx:       tx,
		log:      log.With("service", "tenant"),
	}
}
