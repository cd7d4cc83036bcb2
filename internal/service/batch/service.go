// Package batch implements bulk writes with per-item isolation: one bad
// item is recorded with its index and does not abort the rest of the
// batch. Each call appends a single summarizing event instead of one
// event per item.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/funnelforge/graphcore-backend/internal/domain"
)

type entityRepo interface {
	Create(ctx context.Context, e domain.Entity) (domain.Entity, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (domain.Entity, error)
	Update(ctx context.Context, e domain.Entity) (domain.Entity, error)
	ExistByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]bool, error)
}

type connectionRepo interface {
	Create(ctx context.Context, c domain.Connection) (domain.Connection, error)
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

// Service provides batch write operations.
type Service struct {
	entities    entityRepo
	connections connectionRepo
	tenants     tenantRepo
	events      eventRepo
	quotas      quotaTracker
	actors      actorResolver
	tx          txManager
	registry    *domain.TypeRegistry
	maxItems    int
	log         *slog.Logger
}

// NewService creates a new Batch service. maxItems caps the item count per
// call; zero or negative applies the package default.
func NewService(
	log *slog.Logger,
	entities entityRepo,
	connections connectionRepo,
	tenants tenantRepo,
	events eventRepo,
	quotas quotaTracker,
	actors actorResolver,
	tx txManager,
	registry *domain.TypeRegistry,
	maxItems int,
) *Service {
	if maxItems <= 0 {
		maxItems = maxBatchItems
	}
	return &Service{
		entities:    entities,
		connections: connections,
		tenants:     tenants,
		events:      events,
		quotas:      quotas,
		actors:      actors,
		tx:          tx,
		registry:    registry,
		maxItems:    maxItems,
		log:         log.With("service", "batch"),
	}
}

// ItemError records the failure of a single batch item by its position in
// the request.
type ItemError struct {
	Index int
	Err   error
}

func (e ItemError) Error() string {
	return fmt.Sprintf("item %d: %v", e.Index, e.Err)
}

func (e ItemError) Unwrap() error { return e.Err }

// Result summarizes a batch call. CreatedIDs holds the IDs of the items
// that succeeded, in request order with failed items skipped.
type Result struct {
	CreatedIDs  []uuid.UUID
	FailedCount int
	Errors      []ItemError
	SuccessRate float64
}

func buildResult(createdIDs []uuid.UUID, itemErrs []ItemError, total int) Result {
	rate := 0.0
	if total > 0 {
		rate = float64(total-len(itemErrs)) / float64(total)
	}
	return Result{
		CreatedIDs:  createdIDs,
		FailedCount: len(itemErrs),
		Errors:      itemErrs,
		SuccessRate: rate,
	}
}

// finishBatch records quota usage for the succeeded items and appends the
// single batch_completed event, in one transaction.
func (s *Service) finishBatch(ctx context.Context, tenantID uuid.UUID, actorID *uuid.UUID, operation, metric string, succeeded, failed int) error {
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if metric != "" && succeeded > 0 {
			if _, err := s.quotas.RecordUsage(txCtx, tenantID, metric, int64(succeeded)); err != nil {
				return fmt.Errorf("record usage: %w", err)
			}
		}

		_, err := s.events.Append(txCtx, domain.Event{
			TenantID:      &tenantID,
			Type:          domain.EventBatchCompleted,
			ActorEntityID: actorID,
			Metadata: map[string]any{
				"operation": operation,
				"succeeded": int64(succeeded),
				"failed":    int64(failed),
			},
		})
		if err != nil {
			return fmt.Errorf("append batch_completed: %w", err)
		}
		return nil
	})
}

func (s *Service) activeTenant(ctx context.Context, tenantID uuid.UUID) (domain.Tenant, error) {
	t, err := s.tenants.GetByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Tenant{}, domain.ErrTenantNotFound
		}
		return domain.Tenant{}, fmt.Errorf("get tenant: %w", err)
	}
	if !t.IsActive() {
		return domain.Tenant{}, domain.ErrTenantInactive
	}
	return t, nil
}
