package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/funnelforge/graphcore-backend/internal/domain"
)

// Archive marks events as archived. Archiving an already-archived event is
// a no-op, not an error; the returned count covers only newly archived
// events.
func (s *Service) Archive(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	n, err := s.events.Archive(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("archive events: %w", err)
	}

	s.log.InfoContext(ctx, "events archived",
		slog.Int("requested", len(ids)),
		slog.Int64("archived", n),
	)

	return n, nil
}

// ListByTenantInput holds the parameters for querying a tenant's audit
// trail. From is inclusive, To exclusive.
type ListByTenantInput struct {
	TenantID uuid.UUID
	Type     *domain.EventType
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

// Validate checks all fields and collects all errors.
func (i ListByTenantInput) Validate() error {
	var errs []domain.FieldError

	if i.TenantID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "tenant_id", Message: "required"})
	}
	if i.Type != nil && !i.Type.IsValid() {
		errs = append(errs, domain.FieldError{Field: "type", Message: "unknown event type"})
	}
	if i.From != nil && i.To != nil && !i.From.Before(*i.To) {
		errs = append(errs, domain.FieldError{Field: "from", Message: "must be before to"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// ListByTenant returns a tenant's events in a time range, newest first.
func (s *Service) ListByTenant(ctx context.Context, input ListByTenantInput) ([]domain.Event, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	out, err := s.events.List(ctx, domain.EventFilter{
		TenantID: &input.TenantID,
		Type:     input.Type,
		From:     input.From,
		To:       input.To,
		Limit:    input.Limit,
		Offset:   input.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return out, nil
}

// ReplayForTarget returns every event targeting an entity in ascending
// order, oldest first, so a caller can reconstruct the entity's state at
// any point in time.
func (s *Service) ReplayForTarget(ctx context.Context, tenantID, targetID uuid.UUID) ([]domain.Event, error) {
	if tenantID == uuid.Nil {
		return nil, domain.NewValidationError("tenant_id", "required")
	}
	if targetID == uuid.Nil {
		return nil, domain.NewValidationError("target_id", "required")
	}

	out, err := s.events.ListForReplay(ctx, domain.EventFilter{
		TenantID: &tenantID,
		Target:   &targetID,
	})
	if err != nil {
		return nil, fmt.Errorf("replay events: %w", err)
	}
	return out, nil
}
