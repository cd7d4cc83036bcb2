package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/funnelforge/graphcore-backend/internal/domain"
)

// AppendInput holds the parameters for appending an event. TenantID is nil
// only for cross-tenant system events.
type AppendInput struct {
	TenantID       *uuid.UUID
	Type           domain.EventType
	ActorEntityID  *uuid.UUID
	TargetEntityID *uuid.UUID
	Metadata       map[string]any

	// OccurredAt overrides the default of now.
	OccurredAt *time.Time
}

// Validate checks all fields and collects all errors.
func (i AppendInput) Validate() error {
	var errs []domain.FieldError

	if !i.Type.IsValid() {
		errs = append(errs, domain.FieldError{Field: "type", Message: "unknown event type"})
	}
	if i.TenantID != nil && *i.TenantID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "tenant_id", Message: "must not be the nil UUID"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// Append inserts an audit event. The event type must come from the closed
// vocabulary; beyond that the insert is unconditional — the audit log
// records what happened, it does not second-guess it.
func (s *Service) Append(ctx context.Context, input AppendInput) (domain.Event, error) {
	if err := input.Validate(); err != nil {
		return domain.Event{}, err
	}

	e := domain.Event{
		TenantID:       input.TenantID,
		Type:           input.Type,
		ActorEntityID:  input.ActorEntityID,
		TargetEntityID: input.TargetEntityID,
		Metadata:       input.Metadata,
	}
	if input.OccurredAt != nil {
		e.OccurredAt = *input.OccurredAt
	}

	appended, err := s.events.Append(ctx, e)
	if err != nil {
		return domain.Event{}, fmt.Errorf("append event: %w", err)
	}
	return appended, nil
}
