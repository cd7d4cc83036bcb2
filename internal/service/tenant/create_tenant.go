package tenant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/funnelforge/graphcore-backend/internal/domain"
)

// CreateTenant registers a new tenant container. When settings are omitted
// the type-indexed defaults apply. Alongside the tenant a synthetic system
// actor entity is created so that every later write in the tenant has an
// attribution target; the tenant_created event is attributed to it.
func (s *Service) CreateTenant(ctx context.Context, input CreateTenantInput) (domain.Tenant, error) {
	if err := input.Validate(); err != nil {
		return domain.Tenant{}, err
	}

	slug := strings.TrimSpace(input.Slug)

	var settings domain.TenantSettings
	if input.Settings != nil {
		settings = input.Settings.WithPlanLimits()
	} else {
		settings = domain.DefaultSettingsFor(input.Type)
	}

	if input.ParentID != nil {
		if _, err := s.tenants.GetByID(ctx, *input.ParentID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.Tenant{}, fmt.Errorf("parent %s: %w", *input.ParentID, domain.ErrTenantNotFound)
			}
			return domain.Tenant{}, fmt.Errorf("get parent tenant: %w", err)
		}
	}

	var created domain.Tenant
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var txErr error
		created, txErr = s.tenants.Create(txCtx, domain.Tenant{
			Slug:     slug,
			Type:     input.Type,
			ParentID: input.ParentID,
			Settings: settings,
			Status:   domain.TenantStatusActive,
		})
		if txErr != nil {
			return fmt.Errorf("create tenant: %w", txErr)
		}

		system, txErr := s.entities.Create(txCtx, domain.Entity{
			TenantID:      created.ID,
			Type:          domain.TypeUser,
			Name:          domain.SystemActorName,
			Properties:    map[string]any{"system": true},
			Status:        domain.EntityStatusActive,
			SchemaVersion: 1,
		})
		if txErr != nil {
			return fmt.Errorf("create system actor: %w", txErr)
		}

		_, txErr = s.events.Append(txCtx, domain.Event{
			TenantID:      &created.ID,
			Type:          domain.EventTenantCreated,
			ActorEntityID: &system.ID,
			Metadata: map[string]any{
				"slug": created.Slug,
				"type": created.Type.String(),
			},
		})
		if txErr != nil {
			return fmt.Errorf("append tenant_created: %w", txErr)
		}
		return nil
	})
	if err != nil {
		return domain.Tenant{}, err
	}

	s.log.InfoContext(ctx, "tenant created",
		slog.String("tenant_id", created.ID.String()),
		slog.String("slug", created.Slug),
		slog.String("type", created.Type.String()),
	)

	return created, nil
}
