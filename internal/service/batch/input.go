package batch

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/funnelforge/graphcore-backend/internal/domain"
)

const (
	maxBatchItems = 1000
	maxNameLen    = 255
)

// EntityItem is one entity in a batch insert.
type EntityItem struct {
	Type       string
	Name       string
	Properties map[string]any
	Status     *domain.EntityStatus
}

// InsertEntitiesInput holds the parameters for a batch entity insert.
type InsertEntitiesInput struct {
	TenantID uuid.UUID
	Items    []EntityItem
}

// Validate checks the batch envelope. Item-level problems are reported
// per item in the Result, not here.
func (i InsertEntitiesInput) Validate(maxItems int) error {
	return validateEnvelope(i.TenantID, len(i.Items), maxItems)
}

// ConnectionItem is one connection in a batch create.
type ConnectionItem struct {
	FromEntityID uuid.UUID
	ToEntityID   uuid.UUID
	Type         string
	Metadata     map[string]any
	ValidFrom    *time.Time
}

// CreateConnectionsInput holds the parameters for a batch connection create.
type CreateConnectionsInput struct {
	TenantID uuid.UUID
	Items    []ConnectionItem
}

// Validate checks the batch envelope. Item-level problems are reported
// per item in the Result, not here.
func (i CreateConnectionsInput) Validate(maxItems int) error {
	return validateEnvelope(i.TenantID, len(i.Items), maxItems)
}

// UpdateItem is one patch in a batch entity update.
type UpdateItem struct {
	EntityID uuid.UUID
	Patch    domain.EntityPatch
}

// UpdateEntitiesInput holds the parameters for a batch entity update.
type UpdateEntitiesInput struct {
	TenantID uuid.UUID
	Items    []UpdateItem
}

// Validate checks the batch envelope. Item-level problems are reported
// per item in the Result, not here.
func (i UpdateEntitiesInput) Validate(maxItems int) error {
	return validateEnvelope(i.TenantID, len(i.Items), maxItems)
}

func validateEnvelope(tenantID uuid.UUID, n, maxItems int) error {
	var errs []domain.FieldError

	if tenantID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "tenant_id", Message: "required"})
	}
	if n == 0 {
		errs = append(errs, domain.FieldError{Field: "items", Message: "required"})
	}
	if n > maxItems {
		errs = append(errs, domain.FieldError{Field: "items", Message: fmt.Sprintf("at most %d items per call", maxItems)})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// validateEntityItem applies the single-create rules to one batch item.
func (s *Service) validateEntityItem(item EntityItem) error {
	typ := strings.TrimSpace(item.Type)
	if typ == "" {
		return domain.NewValidationError("type", "required")
	}
	if !s.registry.IsRegistered(typ) {
		return fmt.Errorf("type %q: %w", typ, domain.ErrUnknownType)
	}
	name := strings.TrimSpace(item.Name)
	if name == "" {
		return domain.NewValidationError("name", "required")
	}
	if len(name) > maxNameLen {
		return domain.NewValidationError("name", "max 255 characters")
	}
	if item.Status != nil {
		if !item.Status.IsValid() {
			return domain.NewValidationError("status", "unknown status")
		}
		if *item.Status == domain.EntityStatusArchived {
			return domain.NewValidationError("status", "cannot create archived entities")
		}
	}
	return nil
}

func validateConnectionItem(item ConnectionItem) error {
	if item.FromEntityID == uuid.Nil {
		return domain.NewValidationError("from_entity_id", "required")
	}
	if item.ToEntityID == uuid.Nil {
		return domain.NewValidationError("to_entity_id", "required")
	}
	if item.FromEntityID == item.ToEntityID {
		return domain.NewValidationError("to_entity_id", "must differ from from_entity_id")
	}
	if strings.TrimSpace(item.Type) == "" {
		return domain.NewValidationError("type", "required")
	}
	return nil
}

func validateUpdateItem(item UpdateItem) error {
	if item.EntityID == uuid.Nil {
		return domain.NewValidationError("entity_id", "required")
	}
	if item.Patch.IsEmpty() {
		return domain.NewValidationError("patch", "must change at least one field")
	}
	if item.Patch.Status != nil {
		if !item.Patch.Status.IsValid() {
			return domain.NewValidationError("status", "unknown status")
		}
		if *item.Patch.Status == domain.EntityStatusArchived {
			return domain.NewValidationError("status", "use the archive operation instead")
		}
	}
	return nil
}
