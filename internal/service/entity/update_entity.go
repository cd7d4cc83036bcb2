package entity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/funnelforge/graphcore-backend/internal/domain"
)

// UpdateEntity applies a merge patch: supplied fields replace their
// counterparts, properties merge key by key, and unspecified properties
// survive unchanged. The entity_updated event records the names of the
// changed fields, never the values, to bound audit-log size. Concurrent
// updates race last-write-wins; there is no version check.
func (s *Service) UpdateEntity(ctx context.Context, input UpdateEntityInput) (domain.Entity, error) {
	if err := input.Validate(); err != nil {
		return domain.Entity{}, err
	}

	if _, err := s.activeTenant(ctx, input.TenantID); err != nil {
		return domain.Entity{}, err
	}

	current, err := s.entities.GetByID(ctx, input.TenantID, input.EntityID)
	if err != nil {
		return domain.Entity{}, fmt.Errorf("get entity: %w", err)
	}
	if current.IsDeleted() {
		return domain.Entity{}, fmt.Errorf("entity %s is deleted: %w", input.EntityID, domain.ErrInvalidStateTransition)
	}

	merged := input.Patch.Apply(current)

	actorID, err := s.actors.ResolveActor(ctx, input.TenantID)
	if err != nil {
		return domain.Entity{}, err
	}

	var updated domain.Entity
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var txErr error
		updated, txErr = s.entities.Update(txCtx, merged)
		if txErr != nil {
			return fmt.Errorf("update entity: %w", txErr)
		}

		_, txErr = s.events.Append(txCtx, domain.Event{
			TenantID:       &updated.TenantID,
			Type:           domain.EventEntityUpdated,
			ActorEntityID:  actorID,
			TargetEntityID: &updated.ID,
			Metadata: map[string]any{
				"changed_fields": input.Patch.ChangedFields(),
			},
		})
		if txErr != nil {
			return fmt.Errorf("append entity_updated: %w", txErr)
		}
		return nil
	})
	if err != nil {
		return domain.Entity{}, err
	}

	s.log.InfoContext(ctx, "entity updated",
		slog.String("tenant_id", updated.TenantID.String()),
		slog.String("entity_id", updated.ID.String()),
		slog.Any("changed_fields", input.Patch.ChangedFields()),
	)

	return updated, nil
}
