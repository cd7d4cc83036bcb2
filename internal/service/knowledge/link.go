package knowledge

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/funnelforge/graphcore-backend/internal/domain"
)

// LinkToEntity attaches a knowledge record to an entity under a typed role.
// Both sides must resolve inside the tenant or the call fails with
// ErrCrossTenantReference. Linking the same (entity, knowledge, role) twice
// fails with ErrAlreadyExists.
func (s *Service) LinkToEntity(ctx context.Context, input LinkInput) (domain.EntityKnowledge, error) {
	if err := input.Validate(); err != nil {
		return domain.EntityKnowledge{}, err
	}

	if _, err := s.activeTenant(ctx, input.TenantID); err != nil {
		return domain.EntityKnowledge{}, err
	}

	if err := s.checkEntity(ctx, input.TenantID, input.EntityID); err != nil {
		return domain.EntityKnowledge{}, err
	}
	if _, err := s.checkKnowledge(ctx, input.TenantID, input.KnowledgeID); err != nil {
		return domain.EntityKnowledge{}, err
	}

	actorID, err := s.actors.ResolveActor(ctx, input.TenantID)
	if err != nil {
		return domain.EntityKnowledge{}, err
	}

	var link domain.EntityKnowledge
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var txErr error
		link, txErr = s.knowledge.Link(txCtx, domain.EntityKnowledge{
			EntityID:    input.EntityID,
			KnowledgeID: input.KnowledgeID,
			Role:        input.Role,
			Metadata:    input.Metadata,
		})
		if txErr != nil {
			return fmt.Errorf("link knowledge: %w", txErr)
		}

		_, txErr = s.events.Append(txCtx, domain.Event{
			TenantID:       &input.TenantID,
			Type:           domain.EventKnowledgeLinked,
			ActorEntityID:  actorID,
			TargetEntityID: &input.EntityID,
			Metadata: map[string]any{
				"knowledge_id": input.KnowledgeID.String(),
				"role":         input.Role.String(),
			},
		})
		if txErr != nil {
			return fmt.Errorf("append knowledge_linked: %w", txErr)
		}
		return nil
	})
	if err != nil {
		return domain.EntityKnowledge{}, err
	}

	s.log.InfoContext(ctx, "knowledge linked",
		slog.String("tenant_id", input.TenantID.String()),
		slog.String("entity_id", input.EntityID.String()),
		slog.String("knowledge_id", input.KnowledgeID.String()),
		slog.String("role", input.Role.String()),
	)

	return link, nil
}

// UnlinkFromEntity removes one entity-knowledge link. When the removed link
// was the record's last one, the record is orphaned and soft-deleted in the
// same transaction. Reports whether the orphan cleanup fired.
func (s *Service) UnlinkFromEntity(ctx context.Context, input UnlinkInput) (orphaned bool, err error) {
	if err := input.Validate(); err != nil {
		return false, err
	}

	if _, err := s.activeTenant(ctx, input.TenantID); err != nil {
		return false, err
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		n, txErr := s.knowledge.Unlink(txCtx, input.EntityID, input.KnowledgeID, input.Role)
		if txErr != nil {
			return fmt.Errorf("unlink knowledge: %w", txErr)
		}
		if n == 0 {
			return fmt.Errorf("link %s -> %s (%s): %w",
				input.EntityID, input.KnowledgeID, input.Role, domain.ErrNotFound)
		}

		remaining, txErr := s.knowledge.CountLinks(txCtx, input.KnowledgeID)
		if txErr != nil {
			return fmt.Errorf("count remaining links: %w", txErr)
		}
		if remaining == 0 {
			if txErr = s.knowledge.SoftDelete(txCtx, input.TenantID, input.KnowledgeID, time.Now()); txErr != nil {
				return fmt.Errorf("soft delete orphaned knowledge: %w", txErr)
			}
			orphaned = true
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	if orphaned {
		s.log.InfoContext(ctx, "orphaned knowledge soft-deleted",
			slog.String("tenant_id", input.TenantID.String()),
			slog.String("knowledge_id", input.KnowledgeID.String()),
		)
	}

	return orphaned, nil
}

// ListLinks returns the knowledge links of an entity.
func (s *Service) ListLinks(ctx context.Context, tenantID, entityID uuid.UUID) ([]domain.EntityKnowledge, error) {
	if tenantID == uuid.Nil {
		return nil, domain.NewValidationError("tenant_id", "required")
	}
	if entityID == uuid.Nil {
		return nil, domain.NewValidationError("entity_id", "required")
	}

	if err := s.checkEntity(ctx, tenantID, entityID); err != nil {
		return nil, err
	}
	return s.knowledge.ListLinks(ctx, entityID)
}
