package knowledge

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/funnelforge/graphcore-backend/internal/domain"
)

// CreateKnowledge creates a single knowledge record. Content rules depend
// on the type: vector records require an embedding, all other types require
// text. The record counts against the tenant's knowledge_total quota.
func (s *Service) CreateKnowledge(ctx context.Context, input CreateKnowledgeInput) (domain.Knowledge, error) {
	if err := input.Validate(); err != nil {
		return domain.Knowledge{}, err
	}

	if _, err := s.activeTenant(ctx, input.TenantID); err != nil {
		return domain.Knowledge{}, err
	}

	if err := s.quotas.EnforceQuota(ctx, input.TenantID, domain.MetricKnowledgeTotal, 1); err != nil {
		return domain.Knowledge{}, err
	}

	actorID, err := s.actors.ResolveActor(ctx, input.TenantID)
	if err != nil {
		return domain.Knowledge{}, err
	}

	var created domain.Knowledge
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var txErr error
		created, txErr = s.knowledge.Create(txCtx, domain.Knowledge{
			TenantID:  input.TenantID,
			Type:      input.Type,
			Text:      input.Text,
			Labels:    input.Labels,
			Embedding: input.Embedding,
			Metadata:  input.Metadata,
		})
		if txErr != nil {
			return fmt.Errorf("create knowledge: %w", txErr)
		}

		if _, txErr = s.quotas.RecordUsage(txCtx, input.TenantID, domain.MetricKnowledgeTotal, 1); txErr != nil {
			return fmt.Errorf("record usage: %w", txErr)
		}

		_, txErr = s.events.Append(txCtx, domain.Event{
			TenantID:      &created.TenantID,
			Type:          domain.EventKnowledgeCreated,
			ActorEntityID: actorID,
			Metadata: map[string]any{
				"knowledge_id": created.ID.String(),
				"type":         created.Type.String(),
			},
		})
		if txErr != nil {
			return fmt.Errorf("append knowledge_created: %w", txErr)
		}
		return nil
	})
	if err != nil {
		return domain.Knowledge{}, err
	}

	s.log.InfoContext(ctx, "knowledge created",
		slog.String("tenant_id", created.TenantID.String()),
		slog.String("knowledge_id", created.ID.String()),
		slog.String("type", created.Type.String()),
	)

	return created, nil
}

// GetKnowledge returns a knowledge record by ID within a tenant.
func (s *Service) GetKnowledge(ctx context.Context, tenantID, id uuid.UUID) (domain.Knowledge, error) {
	if tenantID == uuid.Nil {
		return domain.Knowledge{}, domain.NewValidationError("tenant_id", "required")
	}
	if id == uuid.Nil {
		return domain.Knowledge{}, domain.NewValidationError("id", "required")
	}
	return s.knowledge.GetByID(ctx, tenantID, id)
}
