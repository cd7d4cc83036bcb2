//go:build e2e

package e2e_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/funnelforge/graphcore-backend/internal/adapter/postgres/testhelper"
	"github.com/funnelforge/graphcore-backend/internal/app"
	"github.com/funnelforge/graphcore-backend/internal/config"
	"github.com/funnelforge/graphcore-backend/internal/domain"
	auditsvc "github.com/funnelforge/graphcore-backend/internal/service/audit"
	tenantsvc "github.com/funnelforge/graphcore-backend/internal/service/tenant"
)

// setupApp wires the full application against the shared test database.
// Each test creates its own tenants, so suites can run in parallel.
func setupApp(t *testing.T) *app.App {
	t.Helper()

	pool := testhelper.SetupTestDB(t)

	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:      "e2e-secret",
			JWTIssuer:      "graphcore",
			AccessTokenTTL: 15 * time.Minute,
		},
		Graph: config.GraphConfig{
			MaxBatchSize:     500,
			MaxBulkKnowledge: 1000,
			ExtraEntityTypes: []string{"webinar"},
		},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	// The pool is owned by the test helper; no Close here.
	return app.NewWithPool(pool, cfg, logger)
}

// uniqueSlug returns a slug that will not collide across parallel tests.
func uniqueSlug(prefix string) string {
	return prefix + "-" + uuid.New().String()[:8]
}

// createTenant provisions an active tenant through the service layer, so
// the synthetic system actor exists and writes get attributed.
func createTenant(t *testing.T, a *app.App, tenantType domain.TenantType) domain.Tenant {
	t.Helper()

	tenant, err := a.Tenants.CreateTenant(context.Background(), tenantsvc.CreateTenantInput{
		Slug: uniqueSlug("e2e"),
		Type: tenantType,
	})
	require.NoError(t, err)
	return tenant
}

// eventsOfType returns the tenant's audit events of one type, newest first.
func eventsOfType(t *testing.T, a *app.App, tenantID uuid.UUID, et domain.EventType) []domain.Event {
	t.Helper()

	events, err := a.Audit.ListByTenant(context.Background(), auditsvc.ListByTenantInput{
		TenantID: tenantID,
		Type:     &et,
		Limit:    100,
	})
	require.NoError(t, err)
	return events
}
