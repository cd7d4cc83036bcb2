package tenant

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/funnelforge/graphcore-backend/internal/domain"
)

// GetTenant returns a tenant by ID.
func (s *Service) GetTenant(ctx context.Context, id uuid.UUID) (domain.Tenant, error) {
	if id == uuid.Nil {
		return domain.Tenant{}, domain.NewValidationError("tenant_id", "required")
	}

	t, err := s.tenants.GetByID(ctx, id)
	if err != nil {
		return domain.Tenant{}, fmt.Errorf("get tenant: %w", err)
	}
	return t, nil
}

// GetTenantBySlug returns a tenant by its unique slug.
func (s *Service) GetTenantBySlug(ctx context.Context, slug string) (domain.Tenant, error) {
	if slug == "" {
		return domain.Tenant{}, domain.NewValidationError("slug", "required")
	}

	t, err := s.tenants.GetBySlug(ctx, slug)
	if err != nil {
		return domain.Tenant{}, fmt.Errorf("get tenant by slug: %w", err)
	}
	return t, nil
}
