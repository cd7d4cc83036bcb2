package connection

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/funnelforge/graphcore-backend/internal/domain"
)

// CreateConnection creates a typed directed edge between two entities of
// the connection's tenant. Both endpoints must resolve inside that tenant
// or the call fails with ErrCrossTenantReference. With Unique set, an
// existing active connection of the same (from, to, type) fails the call
// with ErrDuplicateConnection.
func (s *Service) CreateConnection(ctx context.Context, input CreateConnectionInput) (domain.Connection, error) {
	if err := input.Validate(); err != nil {
		return domain.Connection{}, err
	}

	tenant, err := s.tenants.GetByID(ctx, input.TenantID)
	if err != nil {
		if isNotFound(err) {
			return domain.Connection{}, domain.ErrTenantNotFound
		}
		return domain.Connection{}, fmt.Errorf("get tenant: %w", err)
	}
	if !tenant.IsActive() {
		return domain.Connection{}, domain.ErrTenantInactive
	}

	if err := s.checkEndpoint(ctx, input.TenantID, input.FromEntityID, "from"); err != nil {
		return domain.Connection{}, err
	}
	if err := s.checkEndpoint(ctx, input.TenantID, input.ToEntityID, "to"); err != nil {
		return domain.Connection{}, err
	}

	connType := strings.TrimSpace(input.Type)
	if input.Unique {
		exists, err := s.connections.ExistsActive(ctx, input.TenantID, input.FromEntityID, input.ToEntityID, connType)
		if err != nil {
			return domain.Connection{}, fmt.Errorf("check duplicate connection: %w", err)
		}
		if exists {
			return domain.Connection{}, fmt.Errorf("connection %s -> %s (%s): %w",
				input.FromEntityID, input.ToEntityID, connType, domain.ErrDuplicateConnection)
		}
	}

	if err := s.quotas.EnforceQuota(ctx, input.TenantID, domain.MetricConnectionsMonthly, 1); err != nil {
		return domain.Connection{}, err
	}

	actorID, err := s.actors.ResolveActor(ctx, input.TenantID)
	if err != nil {
		return domain.Connection{}, err
	}

	validFrom := time.Now()
	if input.ValidFrom != nil {
		validFrom = *input.ValidFrom
	}

	var created domain.Connection
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var txErr error
		created, txErr = s.connections.Create(txCtx, domain.Connection{
			TenantID:     input.TenantID,
			FromEntityID: input.FromEntityID,
			ToEntityID:   input.ToEntityID,
			Type:         connType,
			Metadata:     input.Metadata,
			ValidFrom:    validFrom,
		})
		if txErr != nil {
			return fmt.Errorf("create connection: %w", txErr)
		}

		if _, txErr = s.quotas.RecordUsage(txCtx, input.TenantID, domain.MetricConnectionsMonthly, 1); txErr != nil {
			return fmt.Errorf("record usage: %w", txErr)
		}

		_, txErr = s.events.Append(txCtx, domain.Event{
			TenantID:       &created.TenantID,
			Type:           domain.EventConnectionCreated,
			ActorEntityID:  actorID,
			TargetEntityID: &created.FromEntityID,
			Metadata: map[string]any{
				"connection_id": created.ID.String(),
				"to_entity_id":  created.ToEntityID.String(),
				"type":          created.Type,
			},
		})
		if txErr != nil {
			return fmt.Errorf("append connection_created: %w", txErr)
		}
		return nil
	})
	if err != nil {
		return domain.Connection{}, err
	}

	s.log.InfoContext(ctx, "connection created",
		slog.String("tenant_id", created.TenantID.String()),
		slog.String("connection_id", created.ID.String()),
		slog.String("type", created.Type),
	)

	return created, nil
}

