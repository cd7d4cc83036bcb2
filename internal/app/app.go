package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/funnelforge/graphcore-backend/internal/adapter/postgres"
	cascaderepo "github.com/funnelforge/graphcore-backend/internal/adapter/postgres/cascade"
	connectionrepo "github.com/funnelforge/graphcore-backend/internal/adapter/postgres/connection"
	entityrepo "github.com/funnelforge/graphcore-backend/internal/adapter/postgres/entity"
	eventrepo "github.com/funnelforge/graphcore-backend/internal/adapter/postgres/event"
	knowledgerepo "github.com/funnelforge/graphcore-backend/internal/adapter/postgres/knowledge"
	tenantrepo "github.com/funnelforge/graphcore-backend/internal/adapter/postgres/tenant"
	usagerepo "github.com/funnelforge/graphcore-backend/internal/adapter/postgres/usage"
	"github.com/funnelforge/graphcore-backend/internal/auth"
	"github.com/funnelforge/graphcore-backend/internal/config"
	"github.com/funnelforge/graphcore-backend/internal/domain"
	auditsvc "github.com/funnelforge/graphcore-backend/internal/service/audit"
	batchsvc "github.com/funnelforge/graphcore-backend/internal/service/batch"
	cascadesvc "github.com/funnelforge/graphcore-backend/internal/service/cascade"
	connectionsvc "github.com/funnelforge/graphcore-backend/internal/service/connection"
	entitysvc "github.com/funnelforge/graphcore-backend/internal/service/entity"
	knowledgesvc "github.com/funnelforge/graphcore-backend/internal/service/knowledge"
	quotasvc "github.com/funnelforge/graphcore-backend/internal/service/quota"
	tenantsvc "github.com/funnelforge/graphcore-backend/internal/service/tenant"
)

// App wires the repositories and services of the graph substrate. The
// maintenance binaries and embedding programs pick the services they need.
type App struct {
	Log  *slog.Logger
	Pool *pgxpool.Pool

	JWT      *auth.JWTManager
	Registry *domain.TypeRegistry

	Tenants     *tenantsvc.Service
	Entities    *entitysvc.Service
	Connections *connectionsvc.Service
	Audit       *auditsvc.Service
	Knowledge   *knowledgesvc.Service
	Cascades    *cascadesvc.Service
	Quotas      *quotasvc.Service
	Batches     *batchsvc.Service
}

// New connects to PostgreSQL and builds the fully wired application.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return NewWithPool(pool, cfg, log), nil
}

// NewWithPool builds the application on an existing pool. The caller keeps
// ownership of the pool's lifetime when using this constructor directly.
func NewWithPool(pool *pgxpool.Pool, cfg *config.Config, log *slog.Logger) *App {
	tenants := tenantrepo.New(pool)
	entities := entityrepo.New(pool)
	connections := connectionrepo.New(pool)
	events := eventrepo.New(pool)
	knowledge := knowledgerepo.New(pool)
	usage := usagerepo.New(pool)
	cascades := cascaderepo.New(pool)

	tx := postgres.NewTxManager(pool)
	actors := auth.NewActorResolver(log, entities)
	registry := domain.NewTypeRegistry(cfg.Graph.ExtraEntityTypes...)

	quotaSvc := quotasvc.NewService(log, usage, tenants, events, actors, tx)
	cascadeSvc := cascadesvc.NewService(log, cascades, entities, connections, events, knowledge, actors, tx)

	return &App{
		Log:  log,
		Pool: pool,

		JWT:      auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL),
		Registry: registry,

		Tenants:     tenantsvc.NewService(log, tenants, entities, events, actors, tx),
		Entities:    entitysvc.NewService(log, entities, tenants, events, quotaSvc, cascadeSvc, actors, registry, tx),
		Connections: connectionsvc.NewService(log, connections, entities, tenants, events, quotaSvc, actors, tx),
		Audit:       auditsvc.NewService(log, events),
		Knowledge:   knowledgesvc.NewService(log, knowledge, entities, tenants, events, quotaSvc, actors, tx, cfg.Graph.MaxBulkKnowledge),
		Cascades:    cascadeSvc,
		Quotas:      quotaSvc,
		Batches:     batchsvc.NewService(log, entities, connections, tenants, events, quotaSvc, actors, tx, registry, cfg.Graph.MaxBatchSize),
	}
}

// Close releases the database pool.
func (a *App) Close() {
	a.Pool.Close()
}
