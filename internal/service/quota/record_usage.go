package quota

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/funnelforge/graphcore-backend/internal/domain"
)

// RecordUsage adds usage to the current period bucket of a tenant metric,
// creating the bucket when it does not exist yet. The period is derived
// from the metric name: cumulative *_total counters live in annual
// buckets, *_monthly counters in monthly buckets, everything else daily.
// Usage only ever grows within a bucket; negative amounts are rejected.
func (s *Service) RecordUsage(ctx context.Context, tenantID uuid.UUID, metric string, amount int64) (domain.UsageRecord, error) {
	if tenantID == uuid.Nil {
		return domain.UsageRecord{}, domain.NewValidationError("tenant_id", "required")
	}
	if strings.TrimSpace(metric) == "" {
		return domain.UsageRecord{}, domain.NewValidationError("metric", "required")
	}
	if amount < 0 {
		return domain.UsageRecord{}, domain.NewValidationError("amount", "must not be negative")
	}

	t, err := s.tenantByID(ctx, tenantID)
	if err != nil {
		return domain.UsageRecord{}, err
	}

	rec, err := s.usage.Increment(ctx, s.bucketFor(t, metric), amount)
	if err != nil {
		return domain.UsageRecord{}, fmt.Errorf("increment usage: %w", err)
	}
	return rec, nil
}

// EnforceQuota checks whether requested additional usage would exceed the
// tenant's limit for a metric. It is read-only and advisory: callers are
// expected to invoke it before the write it guards and accept the race
// window under concurrency. A zero limit means unlimited.
func (s *Service) EnforceQuota(ctx context.Context, tenantID uuid.UUID, metric string, requested int64) error {
	if tenantID == uuid.Nil {
		return domain.NewValidationError("tenant_id", "required")
	}
	if strings.TrimSpace(metric) == "" {
		return domain.NewValidationError("metric", "required")
	}
	if requested <= 0 {
		return domain.NewValidationError("requested", "must be positive")
	}

	t, err := s.tenantByID(ctx, tenantID)
	if err != nil {
		return err
	}

	limit := t.Settings.LimitForMetric(metric)
	if limit == 0 {
		return nil
	}

	bucket := s.bucketFor(t, metric)
	var current int64
	rec, err := s.usage.GetBucket(ctx, tenantID, metric, bucket.PeriodStart)
	switch {
	case err == nil:
		current = rec.Value
	case isNotFound(err):
		current = 0
	default:
		return fmt.Errorf("get usage bucket: %w", err)
	}

	if current+requested > limit {
		return &domain.QuotaExceededError{Metric: metric, Current: current, Limit: limit}
	}
	return nil
}

// CurrentUsage returns all usage buckets recorded for a tenant.
func (s *Service) CurrentUsage(ctx context.Context, tenantID uuid.UUID) ([]domain.UsageRecord, error) {
	if tenantID == uuid.Nil {
		return nil, domain.NewValidationError("tenant_id", "required")
	}

	out, err := s.usage.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list usage: %w", err)
	}
	return out, nil
}
