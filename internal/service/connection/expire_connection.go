package connection

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/funnelforge/graphcore-backend/internal/domain"
)

// ExpireConnection sets the connection's logical end to now. The row is
// never deleted here; physical removal happens only through the delete
// cascade. Expiring an already-expired connection is an
// ErrInvalidStateTransition.
func (s *Service) ExpireConnection(ctx context.Context, tenantID, id uuid.UUID) (domain.Connection, error) {
	if tenantID == uuid.Nil {
		return domain.Connection{}, domain.NewValidationError("tenant_id", "required")
	}
	if id == uuid.Nil {
		return domain.Connection{}, domain.NewValidationError("connection_id", "required")
	}

	current, err := s.connections.GetByID(ctx, tenantID, id)
	if err != nil {
		return domain.Connection{}, fmt.Errorf("get connection: %w", err)
	}
	if current.IsExpired() {
		return domain.Connection{}, fmt.Errorf("connection %s already expired: %w", id, domain.ErrInvalidStateTransition)
	}

	actorID, err := s.actors.ResolveActor(ctx, tenantID)
	if err != nil {
		return domain.Connection{}, err
	}

	at := time.Now()
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		n, txErr := s.connections.Expire(txCtx, tenantID, id, at)
		if txErr != nil {
			return fmt.Errorf("expire connection: %w", txErr)
		}
		if n == 0 {
			// raced with a concurrent expire
			return fmt.Errorf("connection %s already expired: %w", id, domain.ErrInvalidStateTransition)
		}

		_, txErr = s.events.Append(txCtx, domain.Event{
			TenantID:       &tenantID,
			Type:           domain.EventConnectionExpired,
			ActorEntityID:  actorID,
			TargetEntityID: &current.FromEntityID,
			Metadata: map[string]any{
				"connection_id": id.String(),
				"type":          current.Type,
			},
		})
		if txErr != nil {
			return fmt.Errorf("append connection_expired: %w", txErr)
		}
		return nil
	})
	if err != nil {
		return domain.Connection{}, err
	}

	s.log.InfoContext(ctx, "connection expired",
		slog.String("tenant_id", tenantID.String()),
		slog.String("connection_id", id.String()),
	)

	current.ValidTo = &at
	return current, nil
}

// ListConnections returns connections for a tenant filtered by endpoint
// and type, newest first.
func (s *Service) ListConnections(ctx context.Context, input ListConnectionsInput) ([]domain.Connection, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	out, err := s.connections.List(ctx, domain.ConnectionFilter{
		TenantID:     input.TenantID,
		FromEntityID: input.FromEntityID,
		ToEntityID:   input.ToEntityID,
		Type:         input.Type,
		ActiveOnly:   input.ActiveOnly,
		Limit:        input.Limit,
		Offset:       input.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}
	return out, nil
}

// GetConnection returns a connection by ID, scoped to the tenant.
func (s *Service) GetConnection(ctx context.Context, tenantID, id uuid.UUID) (domain.Connection, error) {
	if tenantID == uuid.Nil {
		return domain.Connection{}, domain.NewValidationError("tenant_id", "required")
	}
	if id == uuid.Nil {
		return domain.Connection{}, domain.NewValidationError("connection_id", "required")
	}

	c, err := s.connections.GetByID(ctx, tenantID, id)
	if err != nil {
		return domain.Connection{}, fmt.Errorf("get connection: %w", err)
	}
	return c, nil
}
