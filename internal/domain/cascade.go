package domain

import (
	"time"

	"github.com/google/uuid"
)

// CascadeState is the persisted progress of one entity's delete cascade.
// Step is the index of the last completed step; a re-invoked cascade
// resumes at Step+1.
type CascadeState struct {
	EntityID           uuid.UUID
	TenantID           uuid.UUID
	Step               int
	ConnectionsRemoved int64
	EventsArchived     int64
	LinksRemoved       int64
	StartedAt          time.Time
	UpdatedAt          time.Time
	CompletedAt        *time.Time
}

// Completed reports whether the cascade has finished all steps.
func (s *CascadeState) Completed() bool {
	return s.CompletedAt != nil
}

// Result converts the persisted cursor into the caller-facing summary.
func (s *CascadeState) Result() CascadeResult {
	return CascadeResult{
		EntityID:           s.EntityID,
		TenantID:           s.TenantID,
		ConnectionsRemoved: s.ConnectionsRemoved,
		EventsArchived:     s.EventsArchived,
		LinksRemoved:       s.LinksRemoved,
		StartedAt:          s.StartedAt,
		CompletedAt:        s.CompletedAt,
	}
}

// CascadeResult is the outcome of a delete cascade run: the aggregate
// cleanup counts and completion timestamps. Re-running a completed cascade
// returns the stored result unchanged.
type CascadeResult struct {
	EntityID           uuid.UUID
	TenantID           uuid.UUID
	ConnectionsRemoved int64
	EventsArchived     int64
	LinksRemoved       int64
	StartedAt          time.Time
	CompletedAt        *time.Time
}

// Completed reports whether the cascade has finished all steps.
func (r *CascadeResult) Completed() bool {
	return r.CompletedAt != nil
}
