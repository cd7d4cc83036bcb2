package knowledge

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/funnelforge/graphcore-backend/internal/domain"
)

// BulkCreate inserts many knowledge records in one transaction. The whole
// batch is checked against the knowledge_total quota up front, so a batch
// that does not fit is rejected before any insert. One knowledge_bulk_created
// event covers the entire batch. Returns the new IDs in input order.
func (s *Service) BulkCreate(ctx context.Context, input BulkCreateInput) ([]uuid.UUID, error) {
	if err := input.Validate(s.maxBulk); err != nil {
		return nil, err
	}

	if _, err := s.activeTenant(ctx, input.TenantID); err != nil {
		return nil, err
	}

	n := int64(len(input.Items))
	if err := s.quotas.EnforceQuota(ctx, input.TenantID, domain.MetricKnowledgeTotal, n); err != nil {
		return nil, err
	}

	actorID, err := s.actors.ResolveActor(ctx, input.TenantID)
	if err != nil {
		return nil, err
	}

	records := make([]domain.Knowledge, 0, len(input.Items))
	for _, item := range input.Items {
		records = append(records, domain.Knowledge{
			TenantID:  input.TenantID,
			Type:      item.Type,
			Text:      item.Text,
			Labels:    item.Labels,
			Embedding: item.Embedding,
			Metadata:  item.Metadata,
		})
	}

	var ids []uuid.UUID
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var txErr error
		ids, txErr = s.knowledge.BulkCreate(txCtx, records)
		if txErr != nil {
			return fmt.Errorf("bulk create knowledge: %w", txErr)
		}

		if _, txErr = s.quotas.RecordUsage(txCtx, input.TenantID, domain.MetricKnowledgeTotal, n); txErr != nil {
			return fmt.Errorf("record usage: %w", txErr)
		}

		_, txErr = s.events.Append(txCtx, domain.Event{
			TenantID:      &input.TenantID,
			Type:          domain.EventKnowledgeBulkCreated,
			ActorEntityID: actorID,
			Metadata: map[string]any{
				"count": n,
			},
		})
		if txErr != nil {
			return fmt.Errorf("append knowledge_bulk_created: %w", txErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "knowledge bulk created",
		slog.String("tenant_id", input.TenantID.String()),
		slog.Int64("count", n),
	)

	return ids, nil
}
