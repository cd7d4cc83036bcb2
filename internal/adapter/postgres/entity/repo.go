// Package entity implements the entity store repository using PostgreSQL.
package entity

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

const table = "entities"

var columns = []string{
	"id", "tenant_id", "type", "name", "properties",
	"status", "schema_version", "deleted_at", "created_at", "updated_at",
}

// Repo provides entity persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new entity repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

type row struct {
	ID            uuid.UUID      `db:"id"`
	TenantID      uuid.UUID      `db:"tenant_id"`
	Type          string         `db:"type"`
	Name          string         `db:"name"`
	Properties    map[string]any `db:"properties"`
	Status        string         `db:"status"`
	SchemaVersion int            `db:"schema_version"`
	DeletedAt     *time.Time     `db:"deleted_at"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func (r row) toDomain() domain.Entity {
	return domain.Entity{
		ID:            r.ID,
		TenantID:      r.TenantID,
		Type:          r.Type,
		Name:          r.Name,
		Properties:    r.Properties,
		Status:        domain.EntityStatus(r.Status),
		SchemaVersion: r.SchemaVersion,
		DeletedAt:     r.DeletedAt,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// Create inserts a new entity and returns the persisted record.
func (r *Repo) Create(ctx context.Context, e domain.Entity) (domain.Entity, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	props := e.Properties
	if props == nil {
		props = map[string]any{}
	}

	query, args, err := postgres.Builder.
		Insert(table).
		Columns("tenant_id", "type", "name", "properties", "status", "schema_version").
		Values(e.TenantID, e.Type, e.Name, props, e.Status.String(), e.SchemaVersion).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return domain.Entity{}, fmt.Errorf("build insert entity: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, q, &rw, query, args...); err != nil {
		return domain.Entity{}, postgres.MapError(err, "entity", e.ID)
	}
	return rw.toDomain(), nil
}

// GetByID returns an entity scoped to its tenant. An ID that exists under a
// different tenant reads as not found — tenant isolation is enforced here,
// not in the caller.
func (r *Repo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (domain.Entity, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := postgres.Builder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"tenant_id": tenantID, "id": id}).
		ToSql()
	if err != nil {
		return domain.Entity{}, fmt.Errorf("build select entity: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, q, &rw, query, args...); err != nil {
		return domain.Entity{}, postgres.MapError(err, "entity", id)
	}
	return rw.toDomain(), nil
}

// List returns entities for a tenant, optionally filtered by type and
// status, newest first.
func (r *Repo) List(ctx context.Context, f domain.EntityFilter) ([]domain.Entity, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	limit, offset := clampPage(f.Limit, f.Offset)

	b := postgres.Builder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"tenant_id": f.TenantID}).
		OrderBy("created_at DESC, id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	if f.Type != nil {
		b = b.Where(sq.Eq{"type": *f.Type})
	}
	if f.Status != nil {
		b = b.Where(sq.Eq{"status": f.Status.String()})
	}
	if !f.IncludeDeleted {
		b = b.Where(sq.Eq{"deleted_at": nil})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list entities: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list entities: %w", err)
	}

	out := make([]domain.Entity, len(rows))
	for i, rw := range rows {
		out[i] = rw.toDomain()
	}
	return out, nil
}

// Update writes the merged entity state. The service merges properties
// before calling; concurrent writers race last-write-wins by design.
func (r *Repo) Update(ctx context.Context, e domain.Entity) (domain.Entity, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := postgres.Builder.
		Update(table).
		Set("name", e.Name).
		Set("status", e.Status.String()).
		Set("properties", e.Properties).
		Set("schema_version", e.SchemaVersion).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"tenant_id": e.TenantID, "id": e.ID}).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return domain.Entity{}, fmt.Errorf("build update entity: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, q, &rw, query, args...); err != nil {
		return domain.Entity{}, postgres.MapError(err, "entity", e.ID)
	}
	return rw.toDomain(), nil
}

// MarkDeleted sets status=archived and the deletion timestamp. It is
// idempotent: an already-deleted entity keeps its original deleted_at.
func (r *Repo) MarkDeleted(ctx context.Context, tenantID, id uuid.UUID, at time.Time) (domain.Entity, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := postgres.Builder.
		Update(table).
		Set("status", domain.EntityStatusArchived.String()).
		Set("deleted_at", sq.Expr("COALESCE(deleted_at, ?)", at)).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"tenant_id": tenantID, "id": id}).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return domain.Entity{}, fmt.Errorf("build mark entity deleted: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, q, &rw, query, args...); err != nil {
		return domain.Entity{}, postgres.MapError(err, "entity", id)
	}
	return rw.toDomain(), nil
}

// SetStatus transitions the entity status and bumps updated_at.
func (r *Repo) SetStatus(ctx context.Context, tenantID, id uuid.UUID, status domain.EntityStatus) (domain.Entity, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	b := postgres.Builder.
		Update(table).
		Set("status", status.String()).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"tenant_id": tenantID, "id": id})

	// Leaving archived clears the deletion timestamp.
	if status != domain.EntityStatusArchived {
		b = b.Set("deleted_at", nil)
	}

	query, args, err := b.Suffix("RETURNING " + strings.Join(columns, ", ")).ToSql()
	if err != nil {
		return domain.Entity{}, fmt.Errorf("build set entity status: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, q, &rw, query, args...); err != nil {
		return domain.Entity{}, postgres.MapError(err, "entity", id)
	}
	return rw.toDomain(), nil
}

// FindByTypeAndName returns the first entity of the given type and exact
// name in a tenant. Used to resolve per-tenant system actors.
func (r *Repo) FindByTypeAndName(ctx context.Context, tenantID uuid.UUID, entityType, name string) (domain.Entity, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := postgres.Builder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"tenant_id": tenantID, "type": entityType, "name": name, "deleted_at": nil}).
		OrderBy("created_at ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return domain.Entity{}, fmt.Errorf("build find entity: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, q, &rw, query, args...); err != nil {
		return domain.Entity{}, postgres.MapError(err, "entity", uuid.Nil)
	}
	return rw.toDomain(), nil
}

// ExistByIDs reports which of the given IDs exist in the tenant.
// Soft-deleted entities are not reported.
func (r *Repo) ExistByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]bool{}, nil
	}
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := postgres.Builder.
		Select("id").
		From(table).
		Where(sq.Eq{"tenant_id": tenantID, "id": ids, "deleted_at": nil}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build exist entities: %w", err)
	}

	var found []uuid.UUID
	if err := pgxscan.Select(ctx, q, &found, query, args...); err != nil {
		return nil, fmt.Errorf("exist entities: %w", err)
	}

	out := make(map[uuid.UUID]bool, len(ids))
	for _, id := range found {
		out[id] = true
	}
	return out, nil
}
