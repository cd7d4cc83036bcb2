package knowledge

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/funnelforge/graphcore-backend/internal/domain"
)

// CreateKnowledgeInput holds the parameters for creating a knowledge record.
type CreateKnowledgeInput struct {
	TenantID  uuid.UUID
	Type      domain.KnowledgeType
	Text      *string
	Labels    []string
	Embedding []float32
	Metadata  map[string]any
}

// validateItem applies the type-specific content rules shared by single and
// bulk creation. Vector records carry an embedding and may omit text; every
// other type requires text.
func validateItem(field func(string) string, typ domain.KnowledgeType, text *string, embedding []float32) []domain.FieldError {
	var errs []domain.FieldError

	if !typ.IsValid() {
		errs = append(errs, domain.FieldError{Field: field("type"), Message: fmt.Sprintf("unknown knowledge type %q", typ)})
		return errs
	}

	if typ == domain.KnowledgeTypeVector {
		if len(embedding) == 0 {
			errs = append(errs, domain.FieldError{Field: field("embedding"), Message: "required for vector records"})
		}
	} else if text == nil || *text == "" {
		errs = append(errs, domain.FieldError{Field: field("text"), Message: "required for non-vector records"})
	}

	return errs
}

func plainField(name string) string { return name }

// Validate checks all fields and collects all errors.
func (i CreateKnowledgeInput) Validate() error {
	var errs []domain.FieldError

	if i.TenantID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "tenant_id", Message: "required"})
	}
	errs = append(errs, validateItem(plainField, i.Type, i.Text, i.Embedding)...)

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// KnowledgeItem is one record in a bulk creation request.
type KnowledgeItem struct {
	Type      domain.KnowledgeType
	Text      *string
	Labels    []string
	Embedding []float32
	Metadata  map[string]any
}

// BulkCreateInput holds the parameters for creating many knowledge records
// in one call.
type BulkCreateInput struct {
	TenantID uuid.UUID
	Items    []KnowledgeItem
}

const maxBulkItems = 1000

// Validate checks all fields and collects all errors, indexing item errors
// by position.
func (i BulkCreateInput) Validate(maxItems int) error {
	var errs []domain.FieldError

	if i.TenantID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "tenant_id", Message: "required"})
	}
	if len(i.Items) == 0 {
		errs = append(errs, domain.FieldError{Field: "items", Message: "required"})
	}
	if len(i.Items) > maxItems {
		errs = append(errs, domain.FieldError{Field: "items", Message: fmt.Sprintf("at most %d items per call", maxItems)})
	}

	for idx, item := range i.Items {
		indexed := func(name string) string { return fmt.Sprintf("items[%d].%s", idx, name) }
		errs = append(errs, validateItem(indexed, item.Type, item.Text, item.Embedding)...)
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// LinkInput holds the parameters for linking a knowledge record to an entity.
type LinkInput struct {
	TenantID    uuid.UUID
	EntityID    uuid.UUID
	KnowledgeID uuid.UUID
	Role        domain.KnowledgeRole
	Metadata    map[string]any
}

// Validate checks all fields and collects all errors.
func (i LinkInput) Validate() error {
	var errs []domain.FieldError

	if i.TenantID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "tenant_id", Message: "required"})
	}
	if i.EntityID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "entity_id", Message: "required"})
	}
	if i.KnowledgeID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "knowledge_id", Message: "required"})
	}
	if !i.Role.IsValid() {
		errs = append(errs, domain.FieldError{Field: "role", Message: fmt.Sprintf("unknown role %q", i.Role)})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UnlinkInput holds the parameters for removing an entity-knowledge link.
type UnlinkInput struct {
	TenantID    uuid.UUID
	EntityID    uuid.UUID
	KnowledgeID uuid.UUID
	Role        domain.KnowledgeRole
}

// Validate checks all fields and collects all errors.
func (i UnlinkInput) Validate() error {
	var errs []domain.FieldError

	if i.TenantID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "tenant_id", Message: "required"})
	}
	if i.EntityID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "entity_id", Message: "required"})
	}
	if i.KnowledgeID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "knowledge_id", Message: "required"})
	}
	if !i.Role.IsValid() {
		errs = append(errs, domain.FieldError{Field: "role", Message: fmt.Sprintf("unknown role %q", i.Role)})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
