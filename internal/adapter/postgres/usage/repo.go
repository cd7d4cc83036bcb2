// Package usage implements the quota bucket repository using PostgreSQL.
package usage

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/funnelforge/graphcore-backend/internal/adapter/postgres"
	"github.com/funnelforge/graphcore-backend/internal/domain"
)

const table = "usage_records"

var columns = []string{
	"id", "tenant_id", "metric", "period_type", "value", "usage_limit",
	"period_start", "period_end", "updated_at",
}

// Repo provides usage bucket persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new usage repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

type row struct {
	ID          uuid.UUID `db:"id"`
	TenantID    uuid.UUID `db:"tenant_id"`
	Metric      string    `db:"metric"`
	PeriodType  string    `db:"period_type"`
	Value       int64     `db:"value"`
	Limit       int64     `db:"usage_limit"`
	PeriodStart time.Time `db:"period_start"`
	PeriodEnd   time.Time `db:"period_end"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r row) toDomain() domain.UsageRecord {
	return domain.UsageRecord{
		ID:          r.ID,
		TenantID:    r.TenantID,
		Metric:      r.Metric,
		PeriodType:  domain.PeriodType(r.PeriodType),
		Value:       r.Value,
		Limit:       r.Limit,
		PeriodStart: r.PeriodStart,
		PeriodEnd:   r.PeriodEnd,
		UpdatedAt:   r.UpdatedAt,
	}
}

// Increment atomically adds amount to the (tenant, metric, period) bucket,
// creating it seeded with the given limit when absent. The single upsert
// keeps concurrent writers from double-creating a bucket; the unique
// constraint on (tenant_id, metric, period_start) is the bucket key.
func (r *Repo) Increment(ctx context.Context, rec domain.UsageRecord, amount int64) (domain.UsageRecord, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := postgres.Builder.
		Insert(table).
		Columns("tenant_id", "metric", "period_type", "value", "usage_limit", "period_start", "period_end").
		Values(rec.TenantID, rec.Metric, rec.PeriodType.String(), amount, rec.Limit, rec.PeriodStart, rec.PeriodEnd).
		Suffix("ON CONFLICT ON CONSTRAINT usage_records_bucket_key DO UPDATE SET "+
			"value = usage_records.value + EXCLUDED.value, updated_at = now() "+
			"RETURNING "+strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return domain.UsageRecord{}, fmt.Errorf("build increment usage: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, q, &rw, query, args...); err != nil {
		return domain.UsageRecord{}, postgres.MapError(err, "usage_record", rec.TenantID)
	}
	return rw.toDomain(), nil
}

// GetBucket returns the bucket starting at periodStart, or ErrNotFound.
func (r *Repo) GetBucket(ctx context.Context, tenantID uuid.UUID, metric string, periodStart time.Time) (domain.UsageRecord, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := postgres.Builder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"tenant_id": tenantID, "metric": metric, "period_start": periodStart}).
		ToSql()
	if err != nil {
		return domain.UsageRecord{}, fmt.Errorf("build select usage bucket: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, q, &rw, query, args...); err != nil {
		return domain.UsageRecord{}, postgres.MapError(err, "usage_record", tenantID)
	}
	return rw.toDomain(), nil
}

// ListByTenant returns all buckets for a tenant, newest period first.
func (r *Repo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.UsageRecord, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := postgres.Builder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"tenant_id": tenantID}).
		OrderBy("period_start DESC, metric ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list usage buckets: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list usage buckets: %w", err)
	}

	out := make([]domain.UsageRecord, len(rows))
	for i, rw := range rows {
		out[i] = rw.toDomain()
	}
	return out, nil
}

// ListExpired returns buckets across all tenants whose period ended at or
// before now, oldest first. limit <= 0 applies a default of 500.
func (r *Repo) ListExpired(ctx context.Context, now time.Time, limit int) ([]domain.UsageRecord, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if limit <= 0 {
		limit = 500
	}

	query, args, err := postgres.Builder.
		Select(columns...).
		From(table).
		Where(sq.LtOrEq{"period_end": now}).
		OrderBy("period_end ASC, tenant_id ASC, metric ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list expired usage buckets: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list expired usage buckets: %w", err)
	}

	out := make([]domain.UsageRecord, len(rows))
	for i, rw := range rows {
		out[i] = rw.toDomain()
	}
	return out, nil
}

// DeleteExpired removes buckets whose period ended at or before now.
func (r *Repo) DeleteExpired(ctx context.Context, tenantID uuid.UUID, metric string, now time.Time) (int64, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := postgres.Builder.
		Delete(table).
		Where(sq.Eq{"tenant_id": tenantID, "metric": metric}).
		Where(sq.LtOrEq{"period_end": now}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete expired usage buckets: %w", err)
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return 0, postgres.MapError(err, "usage_record", tenantID)
	}
	return tag.RowsAffected(), nil
}
