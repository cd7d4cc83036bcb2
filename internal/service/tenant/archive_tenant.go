package tenant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/funnelforge/graphcore-backend/internal/domain"
)

// ArchiveTenant soft-archives a tenant. Descendant tenants and the
// tenant's own data are left untouched; an archived tenant simply stops
// accepting writes. Archiving an archived tenant is an
// ErrInvalidStateTransition.
func (s *Service) ArchiveTenant(ctx context.Context, id uuid.UUID) (domain.Tenant, error) {
	return s.transition(ctx, id,
		domain.TenantStatusActive, domain.TenantStatusArchived, domain.EventTenantArchived)
}

// RestoreTenant reactivates an archived tenant. Restoring a tenant that is
// not archived is an ErrInvalidStateTransition.
func (s *Service) RestoreTenant(ctx context.Context, id uuid.UUID) (domain.Tenant, error) {
	return s.transition(ctx, id,
		domain.TenantStatusArchived, domain.TenantStatusActive, domain.EventTenantRestored)
}

func (s *Service) transition(
	ctx context.Context,
	id uuid.UUID,
	from, to domain.TenantStatus,
	eventType domain.EventType,
) (domain.Tenant, error) {
	if id == uuid.Nil {
		return domain.Tenant{}, domain.NewValidationError("tenant_id", "required")
	}

	current, err := s.tenants.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Tenant{}, fmt.Errorf("tenant %s: %w", id, domain.ErrTenantNotFound)
		}
		return domain.Tenant{}, fmt.Errorf("get tenant: %w", err)
	}
	if current.Status != from {
		return domain.Tenant{}, fmt.Errorf("tenant %s is %s, not %s: %w",
			id, current.Status, from, domain.ErrInvalidStateTransition)
	}

	actorID, err := s.actors.ResolveActor(ctx, id)
	if err != nil {
		return domain.Tenant{}, err
	}

	var updated domain.Tenant
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var txErr error
		updated, txErr = s.tenants.SetStatus(txCtx, id, to)
		if txErr != nil {
			return fmt.Errorf("set tenant status: %w", txErr)
		}

		_, txErr = s.events.Append(txCtx, domain.Event{
			TenantID:      &updated.ID,
			Type:          eventType,
			ActorEntityID: actorID,
			Metadata: map[string]any{
				"slug": updated.Slug,
			},
		})
		if txErr != nil {
			return fmt.Errorf("append %s: %w", eventType, txErr)
		}
		return nil
	})
	if err != nil {
		return domain.Tenant{}, err
	}

	s.log.InfoContext(ctx, "tenant status changed",
		slog.String("tenant_id", updated.ID.String()),
		slog.String("status", updated.Status.String()),
	)

	return updated, nil
}
