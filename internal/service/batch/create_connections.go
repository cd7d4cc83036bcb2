package batch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/funnelforge/graphcore-backend/internal/domain"
)

// CreateConnections creates many connections in one call with per-item
// isolation. Endpoint visibility is resolved for the whole batch in one
// query; an endpoint that does not resolve inside the tenant fails its
// item with ErrCrossTenantReference. One batch_completed event summarizes
// the call.
func (s *Service) CreateConnections(ctx context.Context, input CreateConnectionsInput) (Result, error) {
	if err := input.Validate(s.maxItems); err != nil {
		return Result{}, err
	}

	if _, err := s.activeTenant(ctx, input.TenantID); err != nil {
		return Result{}, err
	}

	if err := s.quotas.EnforceQuota(ctx, input.TenantID, domain.MetricConnectionsMonthly, int64(len(input.Items))); err != nil {
		return Result{}, err
	}

	actorID, err := s.actors.ResolveActor(ctx, input.TenantID)
	if err != nil {
		return Result{}, err
	}

	exists, err := s.resolveEndpoints(ctx, input.TenantID, input.Items)
	if err != nil {
		return Result{}, err
	}

	var createdIDs []uuid.UUID
	var itemErrs []ItemError
	for idx, item := range input.Items {
		if err := validateConnectionItem(item); err != nil {
			itemErrs = append(itemErrs, ItemError{Index: idx, Err: err})
			continue
		}
		if !exists[item.FromEntityID] {
			itemErrs = append(itemErrs, ItemError{Index: idx, Err: fmt.Errorf("from entity %s: %w", item.FromEntityID, domain.ErrCrossTenantReference)})
			continue
		}
		if !exists[item.ToEntityID] {
			itemErrs = append(itemErrs, ItemError{Index: idx, Err: fmt.Errorf("to entity %s: %w", item.ToEntityID, domain.ErrCrossTenantReference)})
			continue
		}

		validFrom := time.Now()
		if item.ValidFrom != nil {
			validFrom = *item.ValidFrom
		}

		created, err := s.connections.Create(ctx, domain.Connection{
			TenantID:     input.TenantID,
			FromEntityID: item.FromEntityID,
			ToEntityID:   item.ToEntityID,
			Type:         strings.TrimSpace(item.Type),
			Metadata:     item.Metadata,
			ValidFrom:    validFrom,
		})
		if err != nil {
			itemErrs = append(itemErrs, ItemError{Index: idx, Err: err})
			continue
		}
		createdIDs = append(createdIDs, created.ID)
	}

	if err := s.finishBatch(ctx, input.TenantID, actorID, "create_connections", domain.MetricConnectionsMonthly, len(createdIDs), len(itemErrs)); err != nil {
		return Result{}, fmt.Errorf("finish batch: %w", err)
	}

	res := buildResult(createdIDs, itemErrs, len(input.Items))
	s.log.InfoContext(ctx, "batch connections created",
		slog.String("tenant_id", input.TenantID.String()),
		slog.Int("succeeded", len(createdIDs)),
		slog.Int("failed", res.FailedCount),
	)
	return res, nil
}

// resolveEndpoints checks the batch's endpoint entities in one query.
// Deleted entities count as unresolvable.
func (s *Service) resolveEndpoints(ctx context.Context, tenantID uuid.UUID, items []ConnectionItem) (map[uuid.UUID]bool, error) {
	seen := make(map[uuid.UUID]struct{}, len(items)*2)
	ids := make([]uuid.UUID, 0, len(items)*2)
	for _, item := range items {
		for _, id := range [2]uuid.UUID{item.FromEntityID, item.ToEntityID} {
			if id == uuid.Nil {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return map[uuid.UUID]bool{}, nil
	}

	exists, err := s.entities.ExistByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve endpoints: %w", err)
	}
	return exists, nil
}
