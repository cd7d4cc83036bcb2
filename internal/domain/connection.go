package domain

import (
	"time"

	"github.com/google/uuid"
)

// Connection is a typed directed edge between two entities of the same
// tenant. A nil ValidTo means the connection is currently in effect; a
// non-nil ValidTo marks it logically expired. Connections are the only
// record kind the cascade is allowed to remove physically — they are
// replaceable derived state.
type Connection struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	FromEntityID uuid.UUID
	ToEntityID   uuid.UUID
	Type         string
	Metadata     map[string]any
	ValidFrom    time.Time
	ValidTo      *time.Time
	CreatedAt    time.Time
}

// IsExpired reports whether the connection has a logical end.
func (c *Connection) IsExpired() bool {
	return c.ValidTo != nil
}

// ConnectionFilter scopes connection listings by endpoint and type.
type ConnectionFilter struct {
	TenantID uuid.UUID

	// FromEntityID / ToEntityID restrict by endpoint. nil means any.
	FromEntityID *uuid.UUID
	ToEntityID   *uuid.UUID

	// Type restricts to a single connection type.
	Type *string

	// ActiveOnly excludes logically expired connections (valid_to set).
	ActiveOnly bool

	Limit  int
	Offset int
}
