package entity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/funnelforge/graphcore-backend/internal/domain"
)

// ArchiveEntity soft-deletes an entity and runs the delete cascade:
// connections referencing the entity are physically removed, its events
// archived, and its knowledge links cleaned up. The entity_archived event
// is appended before the cascade starts; the cascade itself appends
// cascade_completed with the aggregate counts when it finishes. Archiving
// an already-archived entity is an ErrInvalidStateTransition.
func (s *Service) ArchiveEntity(ctx context.Context, tenantID, id uuid.UUID) (domain.CascadeResult, error) {
	if tenantID == uuid.Nil {
		return domain.CascadeResult{}, domain.NewValidationError("tenant_id", "required")
	}
	if id == uuid.Nil {
		return domain.CascadeResult{}, domain.NewValidationError("entity_id", "required")
	}

	if _, err := s.activeTenant(ctx, tenantID); err != nil {
		return domain.CascadeResult{}, err
	}

	current, err := s.entities.GetByID(ctx, tenantID, id)
	if err != nil {
		return domain.CascadeResult{}, fmt.Errorf("get entity: %w", err)
	}
	if current.IsDeleted() || current.Status == domain.EntityStatusArchived {
		return domain.CascadeResult{}, fmt.Errorf("entity %s already archived: %w", id, domain.ErrInvalidStateTransition)
	}

	actorID, err := s.actors.ResolveActor(ctx, tenantID)
	if err != nil {
		return domain.CascadeResult{}, err
	}

	if _, err := s.events.Append(ctx, domain.Event{
		TenantID:       &tenantID,
		Type:           domain.EventEntityArchived,
		ActorEntityID:  actorID,
		TargetEntityID: &id,
		Metadata: map[string]any{
			"type": current.Type,
			"name": current.Name,
		},
	}); err != nil {
		return domain.CascadeResult{}, fmt.Errorf("append entity_archived: %w", err)
	}

	result, err := s.cascades.Run(ctx, tenantID, id)
	if err != nil {
		return domain.CascadeResult{}, fmt.Errorf("run delete cascade: %w", err)
	}

	s.log.InfoContext(ctx, "entity archived",
		slog.String("tenant_id", tenantID.String()),
		slog.String("entity_id", id.String()),
		slog.Int64("connections_removed", result.ConnectionsRemoved),
		slog.Int64("events_archived", result.EventsArchived),
		slog.Int64("links_removed", result.LinksRemoved),
	)

	return result, nil
}

// RestoreEntity reactivates an archived entity, clearing its deletion
// timestamp. Connections removed by the cascade are not resurrected.
// Restoring a non-archived entity is an ErrInvalidStateTransition.
func (s *Service) RestoreEntity(ctx context.Context, tenantID, id uuid.UUID) (domain.Entity, error) {
	if tenantID == uuid.Nil {
		return domain.Entity{}, domain.NewValidationError("tenant_id", "required")
	}
	if id == uuid.Nil {
		return domain.Entity{}, domain.NewValidationError("entity_id", "required")
	}

	if _, err := s.activeTenant(ctx, tenantID); err != nil {
		return domain.Entity{}, err
	}

	current, err := s.entities.GetByID(ctx, tenantID, id)
	if err != nil {
		return domain.Entity{}, fmt.Errorf("get entity: %w", err)
	}
	if current.Status != domain.EntityStatusArchived {
		return domain.Entity{}, fmt.Errorf("entity %s is %s, not archived: %w",
			id, current.Status, domain.ErrInvalidStateTransition)
	}

	actorID, err := s.actors.ResolveActor(ctx, tenantID)
	if err != nil {
		return domain.Entity{}, err
	}

	var restored domain.Entity
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var txErr error
		restored, txErr = s.entities.SetStatus(txCtx, tenantID, id, domain.EntityStatusActive)
		if txErr != nil {
			return fmt.Errorf("restore entity: %w", txErr)
		}

		_, txErr = s.events.Append(txCtx, domain.Event{
			TenantID:       &tenantID,
			Type:           domain.EventEntityRestored,
			ActorEntityID:  actorID,
			TargetEntityID: &id,
			Metadata: map[string]any{
				"type": restored.Type,
				"name": restored.Name,
			},
		})
		if txErr != nil {
			return fmt.Errorf("append entity_restored: %w", txErr)
		}
		return nil
	})
	if err != nil {
		return domain.Entity{}, err
	}

	s.log.InfoContext(ctx, "entity restored",
		slog.String("tenant_id", tenantID.String()),
		slog.String("entity_id", id.String()),
	)

	return restored, nil
}
