package tenant

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/funnelforge/graphcore-backend/internal/domain"
)

var slugRe = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// CreateTenantInput holds the parameters for creating a tenant.
type CreateTenantInput struct {
	Slug     string
	Type     domain.TenantType
	ParentID *uuid.UUID

	// Settings overrides the type-indexed defaults. nil applies them.
	Settings *domain.TenantSettings
}

// Validate checks all fields and collects all errors.
func (i CreateTenantInput) Validate() error {
	var errs []domain.FieldError

	slug := strings.TrimSpace(i.Slug)
	if slug == "" {
		errs = append(errs, domain.FieldError{Field: "slug", Message: "required"})
	} else {
		if len(slug) > 63 {
			errs = append(errs, domain.FieldError{Field: "slug", Message: "max 63 characters"})
		}
		if !slugRe.MatchString(slug) {
			errs = append(errs, domain.FieldError{Field: "slug", Message: "must be lowercase letters, digits and hyphens"})
		}
	}

	if !i.Type.IsValid() {
		errs = append(errs, domain.FieldError{Field: "type", Message: "unknown tenant type"})
	}

	if i.Settings != nil {
		if !i.Settings.Visibility.IsValid() {
			errs = append(errs, domain.FieldError{Field: "settings.visibility", Message: "unknown visibility"})
		}
		if !i.Settings.JoinPolicy.IsValid() {
			errs = append(errs, domain.FieldError{Field: "settings.join_policy", Message: "unknown join policy"})
		}
		if !i.Settings.Plan.IsValid() {
			errs = append(errs, domain.FieldError{Field: "settings.plan", Message: "unknown plan"})
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UpdateTenantInput holds the settings patch applied by UpdateTenant.
// Nil fields are left unchanged.
type UpdateTenantInput struct {
	TenantID   uuid.UUID
	Visibility *domain.Visibility
	JoinPolicy *domain.JoinPolicy
	Plan       *domain.Plan

	MaxEntities           *int64
	MaxConnectionsMonthly *int64
	MaxKnowledge          *int64
}

// Validate checks all fields and collects all errors.
func (i UpdateTenantInput) Validate() error {
	var errs []domain.FieldError

	if i.TenantID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "tenant_id", Message: "required"})
	}
	if i.Visibility == nil && i.JoinPolicy == nil && i.Plan == nil &&
		i.MaxEntities == nil && i.MaxConnectionsMonthly == nil && i.MaxKnowledge == nil {
		errs = append(errs, domain.FieldError{Field: "input", Message: "at least one field must be provided"})
	}
	if i.Visibility != nil && !i.Visibility.IsValid() {
		errs = append(errs, domain.FieldError{Field: "visibility", Message: "unknown visibility"})
	}
	if i.JoinPolicy != nil && !i.JoinPolicy.IsValid() {
		errs = append(errs, domain.FieldError{Field: "join_policy", Message: "unknown join policy"})
	}
	if i.Plan != nil && !i.Plan.IsValid() {
		errs = append(errs, domain.FieldError{Field: "plan", Message: "unknown plan"})
	}
	for _, lim := range []struct {
		field string
		value *int64
	}{
		{"max_entities", i.MaxEntities},
		{"max_connections_monthly", i.MaxConnectionsMonthly},
		{"max_knowledge", i.MaxKnowledge},
	} {
		if lim.value != nil && *lim.value < 0 {
			errs = append(errs, domain.FieldError{Field: lim.field, Message: "must not be negative"})
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// changedFields returns the names of the settings fields the patch touches.
func (i UpdateTenantInput) changedFields() []string {
	var fields []string
	if i.Visibility != nil {
		fields = append(fields, "visibility")
	}
	if i.JoinPolicy != nil {
		fields = append(fields, "join_policy")
	}
	if i.Plan != nil {
		fields = append(fields, "plan")
	}
	if i.MaxEntities != nil {
		fields = append(fields, "max_entities")
	}
	if i.MaxConnectionsMonthly != nil {
		fields = append(fields, "max_connections_monthly")
	}
	if i.MaxKnowledge != nil {
		fields = append(fields, "max_knowledge")
	}
	return fields
}
