package entity

import (
	"strings"

	"github.com/google/uuid"

	"github.com/funnelforge/graphcore-backend/internal/domain"
)

const maxNameLen = 255

// CreateEntityInput holds the parameters for creating an entity.
type CreateEntityInput struct {
	TenantID   uuid.UUID
	Type       string
	Name       string
	Properties map[string]any

	// Status overrides the default draft status.
	Status *domain.EntityStatus
}

// Validate checks all fields and collects all errors.
func (i CreateEntityInput) Validate() error {
	var errs []domain.FieldError

	if i.TenantID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "tenant_id", Message: "required"})
	}
	if strings.TrimSpace(i.Type) == "" {
		errs = append(errs, domain.FieldError{Field: "type", Message: "required"})
	}
	name := strings.TrimSpace(i.Name)
	if name == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	}
	if len(name) > maxNameLen {
		errs = append(errs, domain.FieldError{Field: "name", Message: "max 255 characters"})
	}
	if i.Status != nil {
		if !i.Status.IsValid() {
			errs = append(errs, domain.FieldError{Field: "status", Message: "unknown status"})
		} else if *i.Status == domain.EntityStatusArchived {
			errs = append(errs, domain.FieldError{Field: "status", Message: "cannot create archived entities"})
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UpdateEntityInput holds the merge patch applied by UpdateEntity.
type UpdateEntityInput struct {
	TenantID uuid.UUID
	EntityID uuid.UUID
	Patch    domain.EntityPatch
}

// Validate checks all fields and collects all errors.
func (i UpdateEntityInput) Validate() error {
	var errs []domain.FieldError

	if i.TenantID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "tenant_id", Message: "required"})
	}
	if i.EntityID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "entity_id", Message: "required"})
	}
	if i.Patch.IsEmpty() {
		errs = append(errs, domain.FieldError{Field: "patch", Message: "at least one field must be provided"})
	}
	if i.Patch.Name != nil {
		name := strings.TrimSpace(*i.Patch.Name)
		if name == "" {
			errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
		}
		if len(name) > maxNameLen {
			errs = append(errs, domain.FieldError{Field: "name", Message: "max 255 characters"})
		}
	}
	if i.Patch.Status != nil {
		if !i.Patch.Status.IsValid() {
			errs = append(errs, domain.FieldError{Field: "status", Message: "unknown status"})
		} else if *i.Patch.Status == domain.EntityStatusArchived {
			// archival goes through ArchiveEntity so the cascade runs
			errs = append(errs, domain.FieldError{Field: "status", Message: "use ArchiveEntity to archive"})
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// ListEntitiesInput holds the parameters for listing entities.
type ListEntitiesInput struct {
	TenantID       uuid.UUID
	Type           *string
	Status         *domain.EntityStatus
	IncludeDeleted bool
	Limit          int
	Offset         int
}

// Validate checks all fields and collects all errors.
func (i ListEntitiesInput) Validate() error {
	var errs []domain.FieldError

	if i.TenantID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "tenant_id", Message: "required"})
	}
	if i.Status != nil && !i.Status.IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: "unknown status"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
