package entity

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/funnelforge/graphcore-backend/internal/domain"
)

// CreateEntity creates a typed entity in a tenant. The type must be
// registered, the tenant active, and the tenant's entities_total quota not
// exhausted. New entities start at schema version 1 and status draft
// unless a status is supplied.
func (s *Service) CreateEntity(ctx context.Context, input CreateEntityInput) (domain.Entity, error) {
	if err := input.Validate(); err != nil {
		return domain.Entity{}, err
	}

	entityType := strings.TrimSpace(input.Type)
	if !s.registry.IsRegistered(entityType) {
		return domain.Entity{}, fmt.Errorf("type %q: %w", entityType, domain.ErrUnknownType)
	}

	if _, err := s.activeTenant(ctx, input.TenantID); err != nil {
		return domain.Entity{}, err
	}

	if err := s.quotas.EnforceQuota(ctx, input.TenantID, domain.MetricEntitiesTotal, 1); err != nil {
		return domain.Entity{}, err
	}

	actorID, err := s.actors.ResolveActor(ctx, input.TenantID)
	if err != nil {
		return domain.Entity{}, err
	}

	status := domain.EntityStatusDraft
	if input.Status != nil {
		status = *input.Status
	}

	var created domain.Entity
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var txErr error
		created, txErr = s.entities.Create(txCtx, domain.Entity{
			TenantID:      input.TenantID,
			Type:          entityType,
			Name:          strings.TrimSpace(input.Name),
			Properties:    input.Properties,
			Status:        status,
			SchemaVersion: 1,
		})
		if txErr != nil {
			return fmt.Errorf("create entity: %w", txErr)
		}

		if _, txErr = s.quotas.RecordUsage(txCtx, input.TenantID, domain.MetricEntitiesTotal, 1); txErr != nil {
			return fmt.Errorf("record usage: %w", txErr)
		}

		_, txErr = s.events.Append(txCtx, domain.Event{
			TenantID:       &created.TenantID,
			Type:           domain.EventEntityCreated,
			ActorEntityID:  actorID,
			TargetEntityID: &created.ID,
			Metadata: map[string]any{
				"type": created.Type,
				"name": created.Name,
			},
		})
		if txErr != nil {
			return fmt.Errorf("append entity_created: %w", txErr)
		}
		return nil
	})
	if err != nil {
		return domain.Entity{}, err
	}

	s.log.InfoContext(ctx, "entity created",
		slog.String("tenant_id", created.TenantID.String()),
		slog.String("entity_id", created.ID.String()),
		slog.String("type", created.Type),
	)

	return created, nil
}
