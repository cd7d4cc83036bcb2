package connection

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/funnelforge/graphcore-backend/internal/domain"
)

// CreateConnectionInput holds the parameters for creating a connection.
type CreateConnectionInput struct {
	TenantID     uuid.UUID
	FromEntityID uuid.UUID
	ToEntityID   uuid.UUID
	Type         string
	Metadata     map[string]any

	// ValidFrom overrides the default of now.
	ValidFrom *time.Time

	// Unique requests a duplicate check: creation fails with
	// ErrDuplicateConnection when an active connection with the same
	// (from, to, type) already exists.
	Unique bool
}

// Validate checks all fields and collects all errors.
func (i CreateConnectionInput) Validate() error {
	var errs []domain.FieldError

	if i.TenantID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "tenant_id", Message: "required"})
	}
	if i.FromEntityID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "from_entity_id", Message: "required"})
	}
	if i.ToEntityID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "to_entity_id", Message: "required"})
	}
	if i.FromEntityID != uuid.Nil && i.FromEntityID == i.ToEntityID {
		errs = append(errs, domain.FieldError{Field: "to_entity_id", Message: "must differ from from_entity_id"})
	}
	if strings.TrimSpace(i.Type) == "" {
		errs = append(errs, domain.FieldError{Field: "type", Message: "required"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// ListConnectionsInput holds the parameters for listing connections.
type ListConnectionsInput struct {
	TenantID     uuid.UUID
	FromEntityID *uuid.UUID
	ToEntityID   *uuid.UUID
	Type         *string
	ActiveOnly   bool
	Limit        int
	Offset       int
}

// Validate checks all fields and collects all errors.
func (i ListConnectionsInput) Validate() error {
	if i.TenantID == uuid.Nil {
		return domain.NewValidationError("tenant_id", "required")
	}
	return nil
}
