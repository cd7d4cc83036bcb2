package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event is an immutable audit record. Events are never mutated except to
// set Archived, and never hard-deleted — the audit trail is permanent.
// TenantID is nil only for cross-tenant system events.
type Event struct {
	ID             uuid.UUID
	TenantID       *uuid.UUID
	Type           EventType
	ActorEntityID  *uuid.UUID // nil when no actor could be attributed
	TargetEntityID *uuid.UUID
	OccurredAt     time.Time
	Metadata       map[string]any
	Archived       bool
}

// EventFilter scopes audit queries by tenant and time range.
type EventFilter struct {
	TenantID *uuid.UUID
	Type     *EventType
	Target   *uuid.UUID
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}
