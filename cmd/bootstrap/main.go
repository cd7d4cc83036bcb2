// Command bootstrap seeds a tenant together with its synthetic system
// actor. Running it again for the same slug is a no-op that repairs a
// missing system actor if one was deleted by hand.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/funnelforge/graphcore-backend/internal/adapter/postgres"
	entityrepo "github.com/funnelforge/graphcore-backend/internal/adapter/postgres/entity"
	eventrepo "github.com/funnelforge/graphcore-backend/internal/adapter/postgres/event"
	tenantrepo "github.com/funnelforge/graphcore-backend/internal/adapter/postgres/tenant"
	"github.com/funnelforge/graphcore-backend/internal/app"
	"github.com/funnelforge/graphcore-backend/internal/auth"
	"github.com/funnelforge/graphcore-backend/internal/config"
	"github.com/funnelforge/graphcore-backend/internal/domain"
	tenantsvc "github.com/funnelforge/graphcore-backend/internal/service/tenant"
)

func main() {
	slug := flag.String("slug", "", "tenant slug (required)")
	tenantType := flag.String("type", domain.TenantTypeBusiness.String(), "tenant type")
	flag.Parse()

	if *slug == "" {
		log.Fatal("-slug is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	tenants := tenantrepo.New(pool)
	entities := entityrepo.New(pool)
	events := eventrepo.New(pool)
	tx := postgres.NewTxManager(pool)
	actors := auth.NewActorResolver(logger, entities)
	svc := tenantsvc.NewService(logger, tenants, entities, events, actors, tx)

	existing, err := tenants.GetBySlug(ctx, *slug)
	switch {
	case err == nil:
		// Tenant is already there; repair the system actor if missing.
		if _, ferr := entities.FindByTypeAndName(ctx, existing.ID, domain.TypeUser, domain.SystemActorName); ferr == nil {
			logger.Info("tenant already bootstrapped",
				slog.String("tenant_id", existing.ID.String()),
				slog.String("slug", existing.Slug),
			)
			return
		} else if !errors.Is(ferr, domain.ErrNotFound) {
			logger.Error("lookup system actor", slog.String("error", ferr.Error()))
			os.Exit(1)
		}

		actor, cerr := entities.Create(ctx, domain.Entity{
			TenantID:      existing.ID,
			Type:          domain.TypeUser,
			Name:          domain.SystemActorName,
			Properties:    map[string]any{"system": true},
			Status:        domain.EntityStatusActive,
			SchemaVersion: 1,
		})
		if cerr != nil {
			logger.Error("create system actor", slog.String("error", cerr.Error()))
			os.Exit(1)
		}
		logger.Info("system actor restored",
			slog.String("tenant_id", existing.ID.String()),
			slog.String("actor_id", actor.ID.String()),
		)
		return

	case errors.Is(err, domain.ErrNotFound):
		created, cerr := svc.CreateTenant(ctx, tenantsvc.CreateTenantInput{
			Slug: *slug,
			Type: domain.TenantType(*tenantType),
		})
		if cerr != nil {
			logger.Error("create tenant", slog.String("error", cerr.Error()))
			os.Exit(1)
		}
		logger.Info("tenant bootstrapped",
			slog.String("tenant_id", created.ID.String()),
			slog.String("slug", created.Slug),
			slog.String("type", created.Type.String()),
		)
		return

	default:
		logger.Error("lookup tenant", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
