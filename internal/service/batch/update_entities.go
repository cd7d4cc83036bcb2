package batch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/funnelforge/graphcore-backend/internal/domain"
)

// UpdateEntities applies merge patches to many entities in one call with
// per-item isolation. A patch targeting a missing or deleted entity fails
// only its own item. One batch_completed event summarizes the call; there
// are no per-item entity_updated events.
func (s *Service) UpdateEntities(ctx context.Context, input UpdateEntitiesInput) (Result, error) {
	if err := input.Validate(s.maxItems); err != nil {
		return Result{}, err
	}

	if _, err := s.activeTenant(ctx, input.TenantID); err != nil {
		return Result{}, err
	}

	actorID, err := s.actors.ResolveActor(ctx, input.TenantID)
	if err != nil {
		return Result{}, err
	}

	var updatedIDs []uuid.UUID
	var itemErrs []ItemError
	for idx, item := range input.Items {
		if err := validateUpdateItem(item); err != nil {
			itemErrs = append(itemErrs, ItemError{Index: idx, Err: err})
			continue
		}

		current, err := s.entities.GetByID(ctx, input.TenantID, item.EntityID)
		if err != nil {
			itemErrs = append(itemErrs, ItemError{Index: idx, Err: err})
			continue
		}
		if current.IsDeleted() {
			itemErrs = append(itemErrs, ItemError{Index: idx, Err: fmt.Errorf("entity %s is deleted: %w", item.EntityID, domain.ErrInvalidStateTransition)})
			continue
		}

		updated, err := s.entities.Update(ctx, item.Patch.Apply(current))
		if err != nil {
			itemErrs = append(itemErrs, ItemError{Index: idx, Err: err})
			continue
		}
		updatedIDs = append(updatedIDs, updated.ID)
	}

	if err := s.finishBatch(ctx, input.TenantID, actorID, "update_entities", "", len(updatedIDs), len(itemErrs)); err != nil {
		return Result{}, fmt.Errorf("finish batch: %w", err)
	}

	res := buildResult(updatedIDs, itemErrs, len(input.Items))
	s.log.InfoContext(ctx, "batch entities updated",
		slog.String("tenant_id", input.TenantID.String()),
		slog.Int("succeeded", len(updatedIDs)),
		slog.Int("failed", res.FailedCount),
	)
	return res, nil
}
