package batch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/funnelforge/graphcore-backend/internal/domain"
)

// InsertEntities creates many entities in one call. Items are processed
// independently: a failed item is recorded with its index and the rest of
// the batch continues. The whole batch is checked against the
// entities_total quota up front, and exactly one batch_completed event
// summarizes the call.
func (s *Service) InsertEntities(ctx context.Context, input InsertEntitiesInput) (Result, error) {
	if err := input.Validate(s.maxItems); err != nil {
		return Result{}, err
	}

	if _, err := s.activeTenant(ctx, input.TenantID); err != nil {
		return Result{}, err
	}

	if err := s.quotas.EnforceQuota(ctx, input.TenantID, domain.MetricEntitiesTotal, int64(len(input.Items))); err != nil {
		return Result{}, err
	}

	actorID, err := s.actors.ResolveActor(ctx, input.TenantID)
	if err != nil {
		return Result{}, err
	}

	var createdIDs []uuid.UUID
	var itemErrs []ItemError
	for idx, item := range input.Items {
		if err := s.validateEntityItem(item); err != nil {
			itemErrs = append(itemErrs, ItemError{Index: idx, Err: err})
			continue
		}

		status := domain.EntityStatusDraft
		if item.Status != nil {
			status = *item.Status
		}

		created, err := s.entities.Create(ctx, domain.Entity{
			TenantID:      input.TenantID,
			Type:          strings.TrimSpace(item.Type),
			Name:          strings.TrimSpace(item.Name),
			Properties:    item.Properties,
			Status:        status,
			SchemaVersion: 1,
		})
		if err != nil {
			itemErrs = append(itemErrs, ItemError{Index: idx, Err: err})
			continue
		}
		createdIDs = append(createdIDs, created.ID)
	}

	if err := s.finishBatch(ctx, input.TenantID, actorID, "insert_entities", domain.MetricEntitiesTotal, len(createdIDs), len(itemErrs)); err != nil {
		return Result{}, fmt.Errorf("finish batch: %w", err)
	}

	res := buildResult(createdIDs, itemErrs, len(input.Items))
	s.log.InfoContext(ctx, "batch entities inserted",
		slog.String("tenant_id", input.TenantID.String()),
		slog.Int("succeeded", len(createdIDs)),
		slog.Int("failed", res.FailedCount),
	)
	return res, nil
}
