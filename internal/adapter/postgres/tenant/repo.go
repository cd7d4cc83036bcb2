// Package tenant implements the tenant registry repository using PostgreSQL.
package tenant

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

const table = "tenants"

var columns = []string{
	"id", "slug", "type", "parent_id",
	"visibility", "join_policy", "plan",
	"max_entities", "max_connections_monthly", "max_knowledge",
	"status", "created_at", "updated_at",
}

// Repo provides tenant persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new tenant repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

type row struct {
	ID                    uuid.UUID  `db:"id"`
	Slug                  string     `db:"slug"`
	Type                  string     `db:"type"`
	ParentID              *uuid.UUID `db:"parent_id"`
	Visibility            string     `db:"visibility"`
	JoinPolicy            string     `db:"join_policy"`
	Plan                  string     `db:"plan"`
	MaxEntities           int64      `db:"max_entities"`
	MaxConnectionsMonthly int64      `db:"max_connections_monthly"`
	MaxKnowledge          int64      `db:"max_knowledge"`
	Status                string     `db:"status"`
	CreatedAt             time.Time  `db:"created_at"`
	UpdatedAt             time.Time  `db:"updated_at"`
}

func (r row) toDomain() domain.Tenant {
	return domain.Tenant{
		ID:       r.ID,
		Slug:     r.Slug,
		Type:     domain.TenantType(r.Type),
		ParentID: r.ParentID,
		Settings: domain.TenantSettings{
			Visibility:            domain.Visibility(r.Visibility),
			JoinPolicy:            domain.JoinPolicy(r.JoinPolicy),
			Plan:                  domain.Plan(r.Plan),
			MaxEntities:           r.MaxEntities,
			MaxConnectionsMonthly: r.MaxConnectionsMonthly,
			MaxKnowledge:          r.MaxKnowledge,
		},
		Status:    domain.TenantStatus(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// Create inserts a new tenant and returns the persisted record.
// A slug collision surfaces as domain.ErrDuplicateSlug.
func (r *Repo) Create(ctx context.Context, t domain.Tenant) (domain.Tenant, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := postgres.Builder.
		Insert(table).
		Columns("slug", "type", "parent_id",
			"visibility", "join_policy", "plan",
			"max_entities", "max_connections_monthly", "max_knowledge",
			"status").
		Values(t.Slug, t.Type.String(), t.ParentID,
			t.Settings.Visibility.String(), t.Settings.JoinPolicy.String(), t.Settings.Plan.String(),
			t.Settings.MaxEntities, t.Settings.MaxConnectionsMonthly, t.Settings.MaxKnowledge,
			t.Status.String()).
		Suffix("RETURNING " + joinColumns()).
		ToSql()
	if err != nil {
		return domain.Tenant{}, fmt.Errorf("build insert tenant: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, q, &rw, query, args...); err != nil {
		return domain.Tenant{}, postgres.MapError(err, "tenant", t.ID)
	}
	return rw.toDomain(), nil
}

// GetByID returns a tenant by its ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.Tenant, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := postgres.Builder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.Tenant{}, fmt.Errorf("build select tenant: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, q, &rw, query, args...); err != nil {
		return domain.Tenant{}, postgres.MapError(err, "tenant", id)
	}
	return rw.toDomain(), nil
}

// GetBySlug returns a tenant by its globally unique slug.
func (r *Repo) GetBySlug(ctx context.Context, slug string) (domain.Tenant, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := postgres.Builder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"slug": slug}).
		ToSql()
	if err != nil {
		return domain.Tenant{}, fmt.Errorf("build select tenant by slug: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, q, &rw, query, args...); err != nil {
		return domain.Tenant{}, postgres.MapError(err, "tenant", uuid.Nil)
	}
	return rw.toDomain(), nil
}

// UpdateSettings replaces the tenant's settings and bumps updated_at.
func (r *Repo) UpdateSettings(ctx context.Context, id uuid.UUID, s domain.TenantSettings) (domain.Tenant, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := postgres.Builder.
		Update(table).
		Set("visibility", s.Visibility.String()).
		Set("join_policy", s.JoinPolicy.String()).
		Set("plan", s.Plan.String()).
		Set("max_entities", s.MaxEntities).
		Set("max_connections_monthly", s.MaxConnectionsMonthly).
		Set("max_knowledge", s.MaxKnowledge).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns()).
		ToSql()
	if err != nil {
		return domain.Tenant{}, fmt.Errorf("build update tenant: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, q, &rw, query, args...); err != nil {
		return domain.Tenant{}, postgres.MapError(err, "tenant", id)
	}
	return rw.toDomain(), nil
}

// SetStatus transitions the tenant's lifecycle status and bumps updated_at.
func (r *Repo) SetStatus(ctx context.Context, id uuid.UUID, status domain.TenantStatus) (domain.Tenant, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := postgres.Builder.
		Update(table).
		Set("status", status.String()).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns()).
		ToSql()
	if err != nil {
		return domain.Tenant{}, fmt.Errorf("build update tenant status: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, q, &rw, query, args...); err != nil {
		return domain.Tenant{}, postgres.MapError(err, "tenant", id)
	}
	return rw.toDomain(), nil
}

func joinColumns() string {
	return strings.Join(columns, ", ")
}
