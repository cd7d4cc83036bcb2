package testhelper

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/funnelforge/graphcore-backend/internal/domain"
)

// SeedTenant inserts an active tenant with the default settings for its type
// and returns the stored record.
func SeedTenant(t *testing.T, pool *pgxpool.Pool, slug string, tenantType domain.TenantType) domain.Tenant {
	t.Helper()

	tenant := domain.Tenant{
		ID:       uuid.New(),
		Slug:     slug,
		Type:     tenantType,
		Status:   domain.TenantStatusActive,
		Settings: domain.DefaultSettingsFor(tenantType),
	}

	s := tenant.Settings
	err := pool.QueryRow(context.Background(),
		`INSERT INTO tenants (id, slug, type, visibility, join_policy, plan,
		                      max_entities, max_connections_monthly, max_knowledge, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING created_at, updated_at`,
		tenant.ID, tenant.Slug, tenant.Type.String(),
		s.Visibility.String(), s.JoinPolicy.String(), s.Plan.String(),
		s.MaxEntities, s.MaxConnectionsMonthly, s.MaxKnowledge,
		tenant.Status.String(),
	).Scan(&tenant.CreatedAt, &tenant.UpdatedAt)
	if err != nil {
		t.Fatalf("seed tenant: %v", err)
	}

	return tenant
}

// SeedEntity inserts an active entity for the given tenant.
func SeedEntity(t *testing.T, pool *pgxpool.Pool, tenantID uuid.UUID, entityType, name string) domain.Entity {
	t.Helper()

	entity := domain.Entity{
		ID:            uuid.New(),
		TenantID:      tenantID,
		Type:          entityType,
		Name:          name,
		Properties:    map[string]any{},
		Status:        domain.EntityStatusActive,
		SchemaVersion: 1,
	}

	propsJSON, err := json.Marshal(entity.Properties)
	if err != nil {
		t.Fatalf("seed entity: marshal properties: %v", err)
	}

	err = pool.QueryRow(context.Background(),
		`INSERT INTO entities (id, tenant_id, type, name, properties, status, schema_version)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at`,
		entity.ID, entity.TenantID, entity.Type, entity.Name, propsJSON, entity.Status.String(), entity.SchemaVersion,
	).Scan(&entity.CreatedAt, &entity.UpdatedAt)
	if err != nil {
		t.Fatalf("seed entity: %v", err)
	}

	return entity
}

// SeedConnection inserts an active connection between two entities.
func SeedConnection(t *testing.T, pool *pgxpool.Pool, tenantID, fromID, toID uuid.UUID, connType string) domain.Connection {
	t.Helper()

	conn := domain.Connection{
		ID:           uuid.New(),
		TenantID:     tenantID,
		FromEntityID: fromID,
		ToEntityID:   toID,
		Type:         connType,
		Metadata:     map[string]any{},
		ValidFrom:    time.Now().UTC(),
	}

	metaJSON, err := json.Marshal(conn.Metadata)
	if err != nil {
		t.Fatalf("seed connection: marshal metadata: %v", err)
	}

	err = pool.QueryRow(context.Background(),
		`INSERT INTO connections (id, tenant_id, from_entity_id, to_entity_id, type, metadata, valid_from)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at`,
		conn.ID, conn.TenantID, conn.FromEntityID, conn.ToEntityID, conn.Type, metaJSON, conn.ValidFrom,
	).Scan(&conn.CreatedAt)
	if err != nil {
		t.Fatalf("seed connection: %v", err)
	}

	return conn
}

// SeedKnowledge inserts a knowledge item of the given type.
func SeedKnowledge(t *testing.T, pool *pgxpool.Pool, tenantID uuid.UUID, knowledgeType domain.KnowledgeType, text string) domain.Knowledge {
	t.Helper()

	item := domain.Knowledge{
		ID:       uuid.New(),
		TenantID: tenantID,
		Type:     knowledgeType,
		Text:     &text,
		Labels:   []string{},
		Metadata: map[string]any{},
	}

	metaJSON, err := json.Marshal(item.Metadata)
	if err != nil {
		t.Fatalf("seed knowledge: marshal metadata: %v", err)
	}

	err = pool.QueryRow(context.Background(),
		`INSERT INTO knowledge (id, tenant_id, type, text, labels, metadata)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at, updated_at`,
		item.ID, item.TenantID, item.Type.String(), item.Text, item.Labels, metaJSON,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		t.Fatalf("seed knowledge: %v", err)
	}

	return item
}
