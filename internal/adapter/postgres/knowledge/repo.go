// Package knowledge implements the knowledge store repository and its
// entity junction table using PostgreSQL.
package knowledge

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

const (
	table         = "knowledge"
	junctionTable = "entity_knowledge"
)

var columns = []string{
	"id", "tenant_id", "type", "text", "labels", "embedding",
	"metadata", "deleted_at", "created_at", "updated_at",
}

// Repo provides knowledge persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new knowledge repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

type row struct {
	ID        uuid.UUID      `db:"id"`
	TenantID  uuid.UUID      `db:"tenant_id"`
	Type      string         `db:"type"`
	Text      *string        `db:"text"`
	Labels    []string       `db:"labels"`
	Embedding []float32      `db:"embedding"`
	Metadata  map[string]any `db:"metadata"`
	DeletedAt *time.Time     `db:"deleted_at"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (r row) toDomain() domain.Knowledge {
	return domain.Knowledge{
		ID:        r.ID,
		TenantID:  r.TenantID,
		Type:      domain.KnowledgeType(r.Type),
		Text:      r.Text,
		Labels:    r.Labels,
		Embedding: r.Embedding,
		Metadata:  r.Metadata,
		DeletedAt: r.DeletedAt,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type junctionRow struct {
	EntityID    uuid.UUID      `db:"entity_id"`
	KnowledgeID uuid.UUID      `db:"knowledge_id"`
	Role        string         `db:"role"`
	Metadata    map[string]any `db:"metadata"`
	CreatedAt   time.Time      `db:"created_at"`
}

func (r junctionRow) toDomain() domain.EntityKnowledge {
	return domain.EntityKnowledge{
		EntityID:    r.EntityID,
		KnowledgeID: r.KnowledgeID,
		Role:        domain.KnowledgeRole(r.Role),
		Metadata:    r.Metadata,
		CreatedAt:   r.CreatedAt,
	}
}

// Create inserts a single knowledge record and returns it.
func (r *Repo) Create(ctx context.Context, k domain.Knowledge) (domain.Knowledge, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := insertBuilder(k).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return domain.Knowledge{}, fmt.Errorf("build insert knowledge: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, q, &rw, query, args...); err != nil {
		return domain.Knowledge{}, postgres.MapError(err, "knowledge", k.ID)
	}
	return rw.toDomain(), nil
}

// BulkCreate inserts many knowledge records in one statement and returns
// the generated IDs in input order.
func (r *Repo) BulkCreate(ctx context.Context, items []domain.Knowledge) ([]uuid.UUID, error) {
	if len(items) == 0 {
		return nil, nil
	}
	q := postgres.QuerierFromCtx(ctx, r.pool)

	b := postgres.Builder.
		Insert(table).
		Columns("tenant_id", "type", "text", "labels", "embedding", "metadata")
	for _, k := range items {
		b = b.Values(k.TenantID, k.Type.String(), k.Text, labelsOrEmpty(k.Labels), k.Embedding, metaOrEmpty(k.Metadata))
	}

	query, args, err := b.Suffix("RETURNING id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build bulk insert knowledge: %w", err)
	}

	var ids []uuid.UUID
	if err := pgxscan.Select(ctx, q, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("bulk insert knowledge: %w", err)
	}
	return ids, nil
}

// GetByID returns a knowledge record scoped to its tenant.
func (r *Repo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (domain.Knowledge, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := postgres.Builder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"tenant_id": tenantID, "id": id}).
		ToSql()
	if err != nil {
		return domain.Knowledge{}, fmt.Errorf("build select knowledge: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, q, &rw, query, args...); err != nil {
		return domain.Knowledge{}, postgres.MapError(err, "knowledge", id)
	}
	return rw.toDomain(), nil
}

// Link inserts a junction row binding an entity to a knowledge record.
// A duplicate (entity, knowledge, role) surfaces as domain.ErrAlreadyExists.
func (r *Repo) Link(ctx context.Context, j domain.EntityKnowledge) (domain.EntityKnowledge, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := postgres.Builder.
		Insert(junctionTable).
		Columns("entity_id", "knowledge_id", "role", "metadata").
		Values(j.EntityID, j.KnowledgeID, j.Role.String(), metaOrEmpty(j.Metadata)).
		Suffix("RETURNING entity_id, knowledge_id, role, metadata, created_at").
		ToSql()
	if err != nil {
		return domain.EntityKnowledge{}, fmt.Errorf("build insert junction: %w", err)
	}

	var rw junctionRow
	if err := pgxscan.Get(ctx, q, &rw, query, args...); err != nil {
		return domain.EntityKnowledge{}, postgres.MapError(err, "entity_knowledge", j.KnowledgeID)
	}
	return rw.toDomain(), nil
}

// Unlink removes a single junction row.
func (r *Repo) Unlink(ctx context.Context, entityID, knowledgeID uuid.UUID, role domain.KnowledgeRole) (int64, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := postgres.Builder.
		Delete(junctionTable).
		Where(sq.Eq{"entity_id": entityID, "knowledge_id": knowledgeID, "role": role.String()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete junction: %w", err)
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return 0, postgres.MapError(err, "entity_knowledge", knowledgeID)
	}
	return tag.RowsAffected(), nil
}

// ListLinks returns the junction rows for an entity.
func (r *Repo) ListLinks(ctx context.Context, entityID uuid.UUID) ([]domain.EntityKnowledge, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := postgres.Builder.
		Select("entity_id", "knowledge_id", "role", "metadata", "created_at").
		From(junctionTable).
		Where(sq.Eq{"entity_id": entityID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list junctions: %w", err)
	}

	var rows []junctionRow
	if err := pgxscan.Select(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list junctions: %w", err)
	}

	out := make([]domain.EntityKnowledge, len(rows))
	for i, rw := range rows {
		out[i] = rw.toDomain()
	}
	return out, nil
}

// DeleteLinksForEntity removes all junction rows for an entity. Returns the
// number of removed rows and the distinct knowledge IDs that were affected;
// the two differ when one record is linked under several roles. Invoked by
// the delete cascade, which then soft-deletes any record left with zero
// links.
func (r *Repo) DeleteLinksForEntity(ctx context.Context, entityID uuid.UUID) (int64, []uuid.UUID, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := postgres.Builder.
		Delete(junctionTable).
		Where(sq.Eq{"entity_id": entityID}).
		Suffix("RETURNING knowledge_id").
		ToSql()
	if err != nil {
		return 0, nil, fmt.Errorf("build delete junctions for entity: %w", err)
	}

	var ids []uuid.UUID
	if err := pgxscan.Select(ctx, q, &ids, query, args...); err != nil {
		return 0, nil, fmt.Errorf("delete junctions for entity: %w", err)
	}

	removed := int64(len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	distinct := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		distinct = append(distinct, id)
	}
	return removed, distinct, nil
}

// CountLinks returns the number of junction rows referencing a knowledge
// record.
func (r *Repo) CountLinks(ctx context.Context, knowledgeID uuid.UUID) (int64, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := postgres.Builder.
		Select("count(*)").
		From(junctionTable).
		Where(sq.Eq{"knowledge_id": knowledgeID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count junctions: %w", err)
	}

	var count int64
	if err := pgxscan.Get(ctx, q, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count junctions: %w", err)
	}
	return count, nil
}

// SoftDelete sets the deletion timestamp on an orphaned knowledge record.
// Idempotent: an already-deleted record keeps its original timestamp.
func (r *Repo) SoftDelete(ctx context.Context, tenantID, id uuid.UUID, at time.Time) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := postgres.Builder.
		Update(table).
		Set("deleted_at", sq.Expr("COALESCE(deleted_at, ?)", at)).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"tenant_id": tenantID, "id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build soft delete knowledge: %w", err)
	}

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "knowledge", id)
	}
	return nil
}

func insertBuilder(k domain.Knowledge) sq.InsertBuilder {
	return postgres.Builder.
		Insert(table).
		Columns("tenant_id", "type", "text", "labels", "embedding", "metadata").
		Values(k.TenantID, k.Type.String(), k.Text, labelsOrEmpty(k.Labels), k.Embedding, metaOrEmpty(k.Metadata))
}

func labelsOrEmpty(labels []string) []string {
	if labels == nil {
		return []string{}
	}
	return labels
}

func metaOrEmpty(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
