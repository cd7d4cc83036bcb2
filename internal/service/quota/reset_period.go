package quota

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/funnelforge/graphcore-backend/internal/domain"
)

// ResetPeriod removes a metric's expired usage buckets and opens a fresh
// zero-value bucket for the current period, so a new period always starts
// counting from zero. A quota_period_reset event records the rollover.
// cmd/reset-quotas invokes this on a schedule.
func (s *Service) ResetPeriod(ctx context.Context, tenantID uuid.UUID, metric string) (domain.UsageRecord, error) {
	if tenantID == uuid.Nil {
		return domain.UsageRecord{}, domain.NewValidationError("tenant_id", "required")
	}
	if strings.TrimSpace(metric) == "" {
		return domain.UsageRecord{}, domain.NewValidationError("metric", "required")
	}

	t, err := s.tenantByID(ctx, tenantID)
	if err != nil {
		return domain.UsageRecord{}, err
	}

	actorID, err := s.actors.ResolveActor(ctx, tenantID)
	if err != nil {
		return domain.UsageRecord{}, err
	}

	var fresh domain.UsageRecord
	var removed int64
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var txErr error
		removed, txErr = s.usage.DeleteExpired(txCtx, tenantID, metric, s.now())
		if txErr != nil {
			return fmt.Errorf("delete expired buckets: %w", txErr)
		}

		fresh, txErr = s.usage.Increment(txCtx, s.bucketFor(t, metric), 0)
		if txErr != nil {
			return fmt.Errorf("open fresh bucket: %w", txErr)
		}

		_, txErr = s.events.Append(txCtx, domain.Event{
			TenantID:      &tenantID,
			Type:          domain.EventQuotaPeriodReset,
			ActorEntityID: actorID,
			Metadata: map[string]any{
				"metric":          metric,
				"buckets_removed": removed,
			},
		})
		if txErr != nil {
			return fmt.Errorf("append quota_period_reset: %w", txErr)
		}
		return nil
	})
	if err != nil {
		return domain.UsageRecord{}, err
	}

	s.log.InfoContext(ctx, "quota period reset",
		slog.String("tenant_id", tenantID.String()),
		slog.String("metric", metric),
		slog.Int64("buckets_removed", removed),
	)

	return fresh, nil
}

// ResetExpired finds buckets whose period has ended, across all tenants,
// and rolls each one over via ResetPeriod. A failing rollover is logged
// and skipped so one broken tenant cannot stall the schedule. It returns
// the freshly opened buckets.
func (s *Service) ResetExpired(ctx context.Context, limit int) ([]domain.UsageRecord, error) {
	expired, err := s.usage.ListExpired(ctx, s.now(), limit)
	if err != nil {
		return nil, fmt.Errorf("list expired buckets: %w", err)
	}

	fresh := make([]domain.UsageRecord, 0, len(expired))
	for _, rec := range expired {
		opened, err := s.ResetPeriod(ctx, rec.TenantID, rec.Metric)
		if err != nil {
			s.log.ErrorContext(ctx, "period rollover failed",
				slog.String("tenant_id", rec.TenantID.String()),
				slog.String("metric", rec.Metric),
				slog.Any("error", err),
			)
			continue
		}
		fresh = append(fresh, opened)
	}

	s.log.InfoContext(ctx, "expired buckets rolled over",
		slog.Int("expired", len(expired)),
		slog.Int("reset", len(fresh)),
	)

	return fresh, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
