package cascade

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/funnelforge/graphcore-backend/internal/domain"
)

// Resume picks up cascades that never reached completion, oldest first,
// and drives each to the end. A nil tenantID scans all tenants. Failures
// are isolated per cascade: one stuck entity does not block the rest.
// Returns the results of the cascades that completed in this pass.
func (s *Service) Resume(ctx context.Context, tenantID *uuid.UUID, limit int) ([]domain.CascadeResult, error) {
	incomplete, err := s.cascades.ListIncomplete(ctx, tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("list incomplete cascades: %w", err)
	}

	results := make([]domain.CascadeResult, 0, len(incomplete))
	for _, state := range incomplete {
		res, err := s.Run(ctx, state.TenantID, state.EntityID)
		if err != nil {
			s.log.ErrorContext(ctx, "cascade resume failed",
				slog.String("tenant_id", state.TenantID.String()),
				slog.String("entity_id", state.EntityID.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		results = append(results, res)
	}

	if len(incomplete) > 0 {
		s.log.InfoContext(ctx, "cascade resume pass finished",
			slog.Int("found", len(incomplete)),
			slog.Int("completed", len(results)),
		)
	}

	return results, nil
}
