// Package cascade implements the persisted cursor of the entity delete
// state machine using PostgreSQL.
package cascade

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/funnelforge/graphcore-backend/internal/adapter/postgres"
	"github.com/funnelforge/graphcore-backend/internal/domain"
)

const table = "cascades"

var columns = []string{
	"entity_id", "tenant_id", "step",
	"connections_removed", "events_archived", "links_removed",
	"started_at", "updated_at", "completed_at",
}

type row struct {
	EntityID           uuid.UUID  `db:"entity_id"`
	TenantID           uuid.UUID  `db:"tenant_id"`
	Step               int        `db:"step"`
	ConnectionsRemoved int64      `db:"connections_removed"`
	EventsArchived     int64      `db:"events_archived"`
	LinksRemoved       int64      `db:"links_removed"`
	StartedAt          time.Time  `db:"started_at"`
	UpdatedAt          time.Time  `db:"updated_at"`
	CompletedAt        *time.Time `db:"completed_at"`
}

func (r row) toDomain() domain.CascadeState {
	return domain.CascadeState{
		EntityID:           r.EntityID,
		TenantID:           r.TenantID,
		Step:               r.Step,
		ConnectionsRemoved: r.ConnectionsRemoved,
		EventsArchived:     r.EventsArchived,
		LinksRemoved:       r.LinksRemoved,
		StartedAt:          r.StartedAt,
		UpdatedAt:          r.UpdatedAt,
		CompletedAt:        r.CompletedAt,
	}
}

// Repo provides cascade cursor persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new cascade repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetOrCreate returns the cascade state for an entity, inserting a fresh
// zero-step row when none exists. Concurrent callers converge on the same
// row via the primary key.
func (r *Repo) GetOrCreate(ctx context.Context, tenantID, entityID uuid.UUID) (domain.CascadeState, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := postgres.Builder.
		Insert(table).
		Columns("entity_id", "tenant_id").
		Values(entityID, tenantID).
		Suffix("ON CONFLICT (entity_id) DO UPDATE SET updated_at = now() " +
			"RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return domain.CascadeState{}, fmt.Errorf("build upsert cascade: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, q, &rw, query, args...); err != nil {
		return domain.CascadeState{}, postgres.MapError(err, "cascade", entityID)
	}
	return rw.toDomain(), nil
}

// Get returns the cascade state for an entity, or ErrNotFound.
func (r *Repo) Get(ctx context.Context, entityID uuid.UUID) (domain.CascadeState, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := postgres.Builder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"entity_id": entityID}).
		ToSql()
	if err != nil {
		return domain.CascadeState{}, fmt.Errorf("build select cascade: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, q, &rw, query, args...); err != nil {
		return domain.CascadeState{}, postgres.MapError(err, "cascade", entityID)
	}
	return rw.toDomain(), nil
}

// Advance persists the completion of a step together with its counts. The
// update only matches a row still sitting at the previous step, so two
// concurrent runners cannot both commit the same step: the loser's update
// matches nothing and fails with ErrInvalidStateTransition.
func (r *Repo) Advance(ctx context.Context, s domain.CascadeState) (domain.CascadeState, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := postgres.Builder.
		Update(table).
		Set("step", s.Step).
		Set("connections_removed", s.ConnectionsRemoved).
		Set("events_archived", s.EventsArchived).
		Set("links_removed", s.LinksRemoved).
		Set("completed_at", s.CompletedAt).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"entity_id": s.EntityID, "step": s.Step - 1}).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return domain.CascadeState{}, fmt.Errorf("build advance cascade: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, q, &rw, query, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.CascadeState{}, fmt.Errorf("cascade %s advanced past step %d elsewhere: %w",
				s.EntityID, s.Step-1, domain.ErrInvalidStateTransition)
		}
		return domain.CascadeState{}, postgres.MapError(err, "cascade", s.EntityID)
	}
	return rw.toDomain(), nil
}

// ListIncomplete returns cascades that have not reached completion,
// oldest first. Used by the cascade-runner to resume interrupted work.
func (r *Repo) ListIncomplete(ctx context.Context, tenantID *uuid.UUID, limit int) ([]domain.CascadeState, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if limit <= 0 {
		limit = 100
	}

	b := postgres.Builder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"completed_at": nil}).
		OrderBy("started_at ASC").
		Limit(uint64(limit))

	if tenantID != nil {
		b = b.Where(sq.Eq{"tenant_id": *tenantID})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list incomplete cascades: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list incomplete cascades: %w", err)
	}

	out := make([]domain.CascadeState, 0, len(rows))
	for _, rw := range rows {
		out = append(out, rw.toDomain())
	}
	return out, nil
}
