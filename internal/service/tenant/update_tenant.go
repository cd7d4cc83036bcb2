package tenant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/funnelforge/graphcore-backend/internal/domain"
)

// UpdateTenant applies a partial settings patch. The slug and type are
// immutable; only policy and limit fields can change. Setting the plan
// refreshes any limit left at zero from the plan table.
func (s *Service) UpdateTenant(ctx context.Context, input UpdateTenantInput) (domain.Tenant, error) {
	if err := input.Validate(); err != nil {
		return domain.Tenant{}, err
	}

	current, err := s.tenants.GetByID(ctx, input.TenantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Tenant{}, fmt.Errorf("tenant %s: %w", input.TenantID, domain.ErrTenantNotFound)
		}
		return domain.Tenant{}, fmt.Errorf("get tenant: %w", err)
	}
	if !current.IsActive() {
		return domain.Tenant{}, fmt.Errorf("tenant %s: %w", input.TenantID, domain.ErrTenantInactive)
	}

	settings := current.Settings
	if input.Visibility != nil {
		settings.Visibility = *input.Visibility
	}
	if input.JoinPolicy != nil {
		settings.JoinPolicy = *input.JoinPolicy
	}
	if input.Plan != nil {
		settings.Plan = *input.Plan
	}
	if input.MaxEntities != nil {
		settings.MaxEntities = *input.MaxEntities
	}
	if input.MaxConnectionsMonthly != nil {
		settings.MaxConnectionsMonthly = *input.MaxConnectionsMonthly
	}
	if input.MaxKnowledge != nil {
		settings.MaxKnowledge = *input.MaxKnowledge
	}
	settings = settings.WithPlanLimits()

	actorID, err := s.actors.ResolveActor(ctx, input.TenantID)
	if err != nil {
		return domain.Tenant{}, err
	}

	var updated domain.Tenant
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var txErr error
		updated, txErr = s.tenants.UpdateSettings(txCtx, input.TenantID, settings)
		if txErr != nil {
			return fmt.Errorf("update tenant settings: %w", txErr)
		}

		_, txErr = s.events.Append(txCtx, domain.Event{
			TenantID:      &updated.ID,
			Type:          domain.EventTenantUpdated,
			ActorEntityID: actorID,
			Metadata: map[string]any{
				"changed_fields": input.changedFields(),
			},
		})
		if txErr != nil {
			return fmt.Errorf("append tenant_updated: %w", txErr)
		}
		return nil
	})
	if err != nil {
		return domain.Tenant{}, err
	}

	s.log.InfoContext(ctx, "tenant updated",
		slog.String("tenant_id", updated.ID.String()),
		slog.Any("changed_fields", input.changedFields()),
	)

	return updated, nil
}
