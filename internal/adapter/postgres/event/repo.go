// Package event implements the append-only audit log repository using
// PostgreSQL. Events are inserted, optionally archived, and never deleted.
package event

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

const table = "events"

var columns = []string{
	"id", "tenant_id", "type", "actor_entity_id", "target_entity_id",
	"occurred_at", "metadata", "archived",
}

// Repo provides audit event persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new event repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

type row struct {
	ID             uuid.UUID      `db:"id"`
	TenantID       *uuid.UUID     `db:"tenant_id"`
	Type           string         `db:"type"`
	ActorEntityID  *uuid.UUID     `db:"actor_entity_id"`
	TargetEntityID *uuid.UUID     `db:"target_entity_id"`
	OccurredAt     time.Time      `db:"occurred_at"`
	Metadata       map[string]any `db:"metadata"`
	Archived       bool           `db:"archived"`
}

func (r row) toDomain() domain.Event {
	return domain.Event{
		ID:             r.ID,
		TenantID:       r.TenantID,
		Type:           domain.EventType(r.Type),
		ActorEntityID:  r.ActorEntityID,
		TargetEntityID: r.TargetEntityID,
		OccurredAt:     r.OccurredAt,
		Metadata:       r.Metadata,
		Archived:       r.Archived,
	}
}

// Append inserts a new event. It is a pure insert and fails only on
// storage-layer errors.
func (r *Repo) Append(ctx context.Context, e domain.Event) (domain.Event, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	meta := e.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	occurredAt := e.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	query, args, err := postgres.Builder.
		Insert(table).
		Columns("tenant_id", "type", "actor_entity_id", "target_entity_id", "occurred_at", "metadata").
		Values(e.TenantID, e.Type.String(), e.ActorEntityID, e.TargetEntityID, occurredAt, meta).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return domain.Event{}, fmt.Errorf("build insert event: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, q, &rw, query, args...); err != nil {
		return domain.Event{}, postgres.MapError(err, "event", e.ID)
	}
	return rw.toDomain(), nil
}

// Archive sets archived=true on the given events. Already-archived events
// are skipped, so the returned count is the number of newly archived rows
// and re-archiving is a no-op rather than an error.
func (r *Repo) Archive(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := postgres.Builder.
		Update(table).
		Set("archived", true).
		Where(sq.Eq{"id": ids, "archived": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build archive events: %w", err)
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("archive events: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ArchiveForEntity archives every unarchived event that references the
// entity as actor or target, scoped to the entity's tenant. Returns the
// number of newly archived rows; invoked by the delete cascade.
func (r *Repo) ArchiveForEntity(ctx context.Context, tenantID, entityID uuid.UUID) (int64, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := postgres.Builder.
		Update(table).
		Set("archived", true).
		Where(sq.Eq{"tenant_id": tenantID, "archived": false}).
		Where(sq.Or{
			sq.Eq{"actor_entity_id": entityID},
			sq.Eq{"target_entity_id": entityID},
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build archive events for entity: %w", err)
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return 0, postgres.MapError(err, "event", entityID)
	}
	return tag.RowsAffected(), nil
}

// List returns events matching the filter, newest first. A filter without
// an explicit limit gets a default page of 100.
func (r *Repo) List(ctx context.Context, f domain.EventFilter) ([]domain.Event, error) {
	if f.Limit <= 0 {
		f.Limit = 100
	}
	return r.list(ctx, f, "occurred_at DESC, id DESC")
}

// ListForReplay returns events for a target in ascending order, oldest
// first, for point-in-time audit reconstruction. Replay must see the full
// history, so no default limit is applied; an explicit f.Limit still caps
// the result.
func (r *Repo) ListForReplay(ctx context.Context, f domain.EventFilter) ([]domain.Event, error) {
	return r.list(ctx, f, "occurred_at ASC, id ASC")
}

func (r *Repo) list(ctx context.Context, f domain.EventFilter, order string) ([]domain.Event, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	b := postgres.Builder.
		Select(columns...).
		From(table).
		OrderBy(order)

	if f.Limit > 0 {
		b = b.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		b = b.Offset(uint64(f.Offset))
	}

	if f.TenantID != nil {
		b = b.Where(sq.Eq{"tenant_id": *f.TenantID})
	}
	if f.Type != nil {
		b = b.Where(sq.Eq{"type": f.Type.String()})
	}
	if f.Target != nil {
		b = b.Where(sq.Eq{"target_entity_id": *f.Target})
	}
	if f.From != nil {
		b = b.Where(sq.GtOrEq{"occurred_at": *f.From})
	}
	if f.To != nil {
		b = b.Where(sq.Lt{"occurred_at": *f.To})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list events: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	out := make([]domain.Event, len(rows))
	for i, rw := range rows {
		out[i] = rw.toDomain()
	}
	return out, nil
}
