package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Entity is a typed business object scoped to a tenant. Funnels, steps,
// payments, templates and users are all entities; the type string selects
// their meaning, the properties map carries their shape.
type Entity struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	Type          string
	Name          string
	Properties    map[string]any
	Status        EntityStatus
	SchemaVersion int        // incremented on breaking property-shape changes
	DeletedAt     *time.Time // set by the delete cascade, never by direct writes
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsDeleted reports whether the entity has been soft-deleted.
func (e *Entity) IsDeleted() bool {
	return e.DeletedAt != nil
}

// EntityPatch is a partial update applied by UpdateEntity. Nil fields are
// left unchanged; Properties are merged key-by-key, not replaced.
type EntityPatch struct {
	Name              *string
	Status            *EntityStatus
	Properties        map[string]any
	BumpSchemaVersion bool
}

// ChangedFields returns the names of the fields the patch touches. Only the
// names are recorded in audit metadata, never the values, to bound log size.
func (p EntityPatch) ChangedFields() []string {
	var fields []string
	if p.Name != nil {
		fields = append(fields, "name")
	}
	if p.Status != nil {
		fields = append(fields, "status")
	}
	for k := range p.Properties {
		fields = append(fields, "properties."+k)
	}
	if p.BumpSchemaVersion {
		fields = append(fields, "schema_version")
	}
	return fields
}

// IsEmpty reports whether the patch changes nothing.
func (p EntityPatch) IsEmpty() bool {
	return p.Name == nil && p.Status == nil && len(p.Properties) == 0 && !p.BumpSchemaVersion
}

// Apply merges the patch into an entity snapshot and returns the result.
// The snapshot itself is not mutated.
func (p EntityPatch) Apply(e Entity) Entity {
	if p.Name != nil {
		e.Name = strings.TrimSpace(*p.Name)
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
	if len(p.Properties) > 0 {
		props := make(map[string]any, len(e.Properties)+len(p.Properties))
		for k, v := range e.Properties {
			props[k] = v
		}
		for k, v := range p.Properties {
			props[k] = v
		}
		e.Properties = props
	}
	if p.BumpSchemaVersion {
		e.SchemaVersion++
	}
	return e
}

// SystemActorName is the reserved name of the per-tenant synthetic actor
// entity that mutations are attributed to when no authenticated actor is
// present.
const SystemActorName = "system"

// EntityFilter scopes entity listings by type and lifecycle state.
type EntityFilter struct {
	TenantID uuid.UUID

	// Type restricts results to a single entity type. nil means all types.
	Type *string

	// Status restricts results to a lifecycle status.
	Status *EntityStatus

	// IncludeDeleted includes soft-deleted entities. Default: excluded.
	IncludeDeleted bool

	Limit  int
	Offset int
}
