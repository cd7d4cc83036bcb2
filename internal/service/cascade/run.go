package cascade

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/funnelforge/graphcore-backend/internal/domain"
)

const finalStep = 5

// Run drives an entity's delete cascade from its current cursor position
// to completion. Each step commits in its own transaction together with
// the cursor advance, so a failure mid-sequence loses at most the step in
// flight; a later Run resumes exactly there. Re-running a completed
// cascade returns the stored counts and performs no writes.
func (s *Service) Run(ctx context.Context, tenantID, entityID uuid.UUID) (domain.CascadeResult, error) {
	if tenantID == uuid.Nil {
		return domain.CascadeResult{}, domain.NewValidationError("tenant_id", "required")
	}
	if entityID == uuid.Nil {
		return domain.CascadeResult{}, domain.NewValidationError("entity_id", "required")
	}

	state, err := s.cascades.GetOrCreate(ctx, tenantID, entityID)
	if err != nil {
		return domain.CascadeResult{}, fmt.Errorf("get cascade cursor: %w", err)
	}
	if state.Completed() {
		return state.Result(), nil
	}

	for step := state.Step + 1; step <= finalStep; step++ {
		state, err = s.runStep(ctx, state, step)
		if err != nil {
			return domain.CascadeResult{}, fmt.Errorf("cascade step %d: %w", step, err)
		}
	}

	s.log.InfoContext(ctx, "cascade completed",
		slog.String("tenant_id", tenantID.String()),
		slog.String("entity_id", entityID.String()),
		slog.Int64("connections_removed", state.ConnectionsRemoved),
		slog.Int64("events_archived", state.EventsArchived),
		slog.Int64("links_removed", state.LinksRemoved),
	)

	return state.Result(), nil
}

// runStep executes one cascade step and advances the cursor in the same
// transaction.
func (s *Service) runStep(ctx context.Context, state domain.CascadeState, step int) (domain.CascadeState, error) {
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		switch step {
		case 1:
			// Soft delete. MarkDeleted keeps an existing deleted_at, so
			// retrying a half-applied step 1 does not move the timestamp.
			if _, err := s.entities.MarkDeleted(txCtx, state.TenantID, state.EntityID, s.now()); err != nil {
				return fmt.Errorf("mark entity deleted: %w", err)
			}

		case 2:
			n, err := s.connections.HardDeleteForEntity(txCtx, state.TenantID, state.EntityID)
			if err != nil {
				return fmt.Errorf("hard delete connections: %w", err)
			}
			state.ConnectionsRemoved = n

		case 3:
			n, err := s.events.ArchiveForEntity(txCtx, state.TenantID, state.EntityID)
			if err != nil {
				return fmt.Errorf("archive events: %w", err)
			}
			state.EventsArchived = n

		case 4:
			// removed counts junction rows, affected holds distinct
			// knowledge IDs; a record linked under several roles removes
			// more rows than records.
			removed, affected, err := s.knowledge.DeleteLinksForEntity(txCtx, state.EntityID)
			if err != nil {
				return fmt.Errorf("delete knowledge links: %w", err)
			}
			state.LinksRemoved = removed

			for _, knowledgeID := range affected {
				remaining, err := s.knowledge.CountLinks(txCtx, knowledgeID)
				if err != nil {
					return fmt.Errorf("count links for %s: %w", knowledgeID, err)
				}
				if remaining == 0 {
					if err := s.knowledge.SoftDelete(txCtx, state.TenantID, knowledgeID, s.now()); err != nil {
						return fmt.Errorf("soft delete orphaned knowledge %s: %w", knowledgeID, err)
					}
				}
			}

		case 5:
			// Attribution is best effort: a tenant without a resolvable
			// actor still gets its completion event, unattributed.
			actorID, err := s.actors.ResolveActor(txCtx, state.TenantID)
			if err != nil {
				actorID = nil
			}

			_, err = s.events.Append(txCtx, domain.Event{
				TenantID:      &state.TenantID,
				Type:          domain.EventCascadeCompleted,
				ActorEntityID: actorID,
				Metadata: map[string]any{
					"entity_id":           state.EntityID.String(),
					"connections_removed": state.ConnectionsRemoved,
					"events_archived":     state.EventsArchived,
					"links_removed":       state.LinksRemoved,
				},
			})
			if err != nil {
				return fmt.Errorf("append cascade_completed: %w", err)
			}

			done := s.now()
			state.CompletedAt = &done
		}

		state.Step = step
		advanced, err := s.cascades.Advance(txCtx, state)
		if err != nil {
			return fmt.Errorf("advance cursor: %w", err)
		}
		state = advanced
		return nil
	})
	if err != nil {
		return domain.CascadeState{}, err
	}
	return state, nil
}
