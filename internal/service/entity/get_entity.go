package entity

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/funnelforge/graphcore-backend/internal/domain"
)

// GetEntity returns an entity by ID, scoped to the tenant.
func (s *Service) GetEntity(ctx context.Context, tenantID, id uuid.UUID) (domain.Entity, error) {
	if tenantID == uuid.Nil {
		return domain.Entity{}, domain.NewValidationError("tenant_id", "required")
	}
	if id == uuid.Nil {
		return domain.Entity{}, domain.NewValidationError("entity_id", "required")
	}

	e, err := s.entities.GetByID(ctx, tenantID, id)
	if err != nil {
		return domain.Entity{}, fmt.Errorf("get entity: %w", err)
	}
	return e, nil
}

// ListEntities returns entities for a tenant, optionally filtered by type
// and status, newest first. Soft-deleted entities are excluded unless
// requested.
func (s *Service) ListEntities(ctx context.Context, input ListEntitiesInput) ([]domain.Entity, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	out, err := s.entities.List(ctx, domain.EntityFilter{
		TenantID:       input.TenantID,
		Type:           input.Type,
		Status:         input.Status,
		IncludeDeleted: input.IncludeDeleted,
		Limit:          input.Limit,
		Offset:         input.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list entities: %w", err)
	}
	return out, nil
}
