// Package quota implements the per-tenant usage tracker: period-bucketed
// counters with plan-derived limits. Enforcement is advisory — callers
// check before writing, and two concurrent writers can together overshoot
// the limit by at most one unit of work.
package quota

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/funnelforge/graphcore-backend/internal/domain"
)

type usageRepo interface {
	Increment(ctx context.Context, rec domain.UsageRecord, amount int64) (domain.UsageRecord, error)
	GetBucket(ctx context.Context, tenantID uuid.UUID, metric string, periodStart time.Time) (domain.UsageRecord, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.UsageRecord, error)
	ListExpired(ctx context.Context, now time.Time, limit int) ([]domain.UsageRecord, error)
	DeleteExpired(ctx context.Context, tenantID uuid.UUID, metric string, now time.Time) (int64, error)
}

type tenantRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Tenant, error)
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

// Service provides quota tracking operations.
type Service struct {
	usage   usageRepo
	tenants tenantRepo
	events  eventRepo
	actors  actorResolver
	tx      txManager
	now     func() time.Time
	log     *slog.Logger
}

// NewService creates a new Quota service.
func NewService(
	log *slog.Logger,
	usage usageRepo,
	tenants tenantRepo,
	events eventRepo,
	actors actorResolver,
	tx txManager,
) *Service {
	return &Service{
		usage:   usage,
		tenants: tenants,
		events:  events,
		actors:  actors,
		tx:      tx,
		now:     time.Now,
		log:     log.With("service", "quota"),
	}
}

// bucketFor builds the current period bucket for a tenant metric, seeded
// with the tenant's plan-derived limit.
func (s *Service) bucketFor(t domain.Tenant, metric string) domain.UsageRecord {
	period := domain.PeriodForMetric(metric)
	start, end := domain.PeriodBounds(period, s.now())
	return domain.UsageRecord{
		TenantID:    t.ID,
		Metric:      metric,
		PeriodType:  period,
		Limit:       t.Settings.LimitForMetric(metric),
		PeriodStart: start,
		PeriodEnd:   end,
	}
}

func (s *Service) tenantByID(ctx context.Context, tenantID uuid.UUID) (domain.Tenant, error) {
	t, err := s.tenants.GetByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Tenant{}, domain.ErrTenantNotFound
		}
		return domain.Tenant{}, err
	}
	return t, nil
}
