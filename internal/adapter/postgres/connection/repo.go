// Package connection implements the relationship store repository using
// PostgreSQL.
package connection

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

const table = "connections"

var columns = []string{
	"id", "tenant_id", "from_entity_id", "to_entity_id", "type",
	"metadata", "valid_from", "valid_to", "created_at",
}

// Repo provides connection persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new connection repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

type row struct {
	ID           uuid.UUID      `db:"id"`
	TenantID     uuid.UUID      `db:"tenant_id"`
	FromEntityID uuid.UUID      `db:"from_entity_id"`
	ToEntityID   uuid.UUID      `db:"to_entity_id"`
	Type         string         `db:"type"`
	Metadata     map[string]any `db:"metadata"`
	ValidFrom    time.Time      `db:"valid_from"`
	ValidTo      *time.Time     `db:"valid_to"`
	CreatedAt    time.Time      `db:"created_at"`
}

func (r row) toDomain() domain.Connection {
	return domain.Connection{
		ID:           r.ID,
		TenantID:     r.TenantID,
		FromEntityID: r.FromEntityID,
		ToEntityID:   r.ToEntityID,
		Type:         r.Type,
		Metadata:     r.Metadata,
		ValidFrom:    r.ValidFrom,
		ValidTo:      r.ValidTo,
		CreatedAt:    r.CreatedAt,
	}
}

// Create inserts a new connection and returns the persisted record.
func (r *Repo) Create(ctx context.Context, c domain.Connection) (domain.Connection, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	meta := c.Metadata
	if meta == nil {
		meta = map[string]any{}
	}

	query, args, err := postgres.Builder.
		Insert(table).
		Columns("tenant_id", "from_entity_id", "to_entity_id", "type", "metadata", "valid_from").
		Values(c.TenantID, c.FromEntityID, c.ToEntityID, c.Type, meta, c.ValidFrom).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return domain.Connection{}, fmt.Errorf("build insert connection: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, q, &rw, query, args...); err != nil {
		return domain.Connection{}, postgres.MapError(err, "connection", c.ID)
	}
	return rw.toDomain(), nil
}

// GetByID returns a connection scoped to its tenant.
func (r *Repo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (domain.Connection, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := postgres.Builder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"tenant_id": tenantID, "id": id}).
		ToSql()
	if err != nil {
		return domain.Connection{}, fmt.Errorf("build select connection: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, q, &rw, query, args...); err != nil {
		return domain.Connection{}, postgres.MapError(err, "connection", id)
	}
	return rw.toDomain(), nil
}

// ExistsActive reports whether an in-effect connection with the same
// (from, to, type) already exists in the tenant.
func (r *Repo) ExistsActive(ctx context.Context, tenantID, from, to uuid.UUID, connType string) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := postgres.Builder.
		Select("1").
		From(table).
		Where(sq.Eq{
			"tenant_id":      tenantID,
			"from_entity_id": from,
			"to_entity_id":   to,
			"type":           connType,
			"valid_to":       nil,
		}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists connection: %w", err)
	}

	var one int
	err = pgxscan.Get(ctx, q, &one, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("exists connection: %w", err)
	}
	return true, nil
}

// Expire sets valid_to on a currently in-effect connection. Returns the
// number of rows affected: 0 means the connection was missing or already
// expired — the caller decides which.
func (r *Repo) Expire(ctx context.Context, tenantID, id uuid.UUID, at time.Time) (int64, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := postgres.Builder.
		Update(table).
		Set("valid_to", at).
		Where(sq.Eq{"tenant_id": tenantID, "id": id, "valid_to": nil}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build expire connection: %w", err)
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return 0, postgres.MapError(err, "connection", id)
	}
	return tag.RowsAffected(), nil
}

// List returns connections for a tenant filtered by endpoint and type.
func (r *Repo) List(ctx context.Context, f domain.ConnectionFilter) ([]domain.Connection, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	limit, offset := clampPage(f.Limit, f.Offset)

	b := postgres.Builder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"tenant_id": f.TenantID}).
		OrderBy("created_at DESC, id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	if f.FromEntityID != nil {
		b = b.Where(sq.Eq{"from_entity_id": *f.FromEntityID})
	}
	if f.ToEntityID != nil {
		b = b.Where(sq.Eq{"to_entity_id": *f.ToEntityID})
	}
	if f.Type != nil {
		b = b.Where(sq.Eq{"type": *f.Type})
	}
	if f.ActiveOnly {
		b = b.Where(sq.Eq{"valid_to": nil})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list connections: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}

	out := make([]domain.Connection, len(rows))
	for i, rw := range rows {
		out[i] = rw.toDomain()
	}
	return out, nil
}

// HardDeleteForEntity physically removes every connection that references
// the entity as either endpoint, scoped to the entity's tenant. Only the
// delete cascade calls this.
func (r *Repo) HardDeleteForEntity(ctx context.Context, tenantID, entityID uuid.UUID) (int64, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := postgres.Builder.
		Delete(table).
		Where(sq.Eq{"tenant_id": tenantID}).
		Where(sq.Or{
			sq.Eq{"from_entity_id": entityID},
			sq.Eq{"to_entity_id": entityID},
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete connections for entity: %w", err)
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return 0, postgres.MapError(err, "connection", entityID)
	}
	return tag.RowsAffected(), nil
}
