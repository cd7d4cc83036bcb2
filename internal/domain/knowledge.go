package domain

import (
	"time"

	"github.com/google/uuid"
)

// Knowledge is an unstructured content record attached to entities for
// retrieval. Text is nil for vector-only records; Embedding is optional
// everywhere else.
type Knowledge struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Type      KnowledgeType
	Text      *string
	Labels    []string
	Embedding []float32
	Metadata  map[string]any
	DeletedAt *time.Time // set when the record loses its last entity link
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsDeleted reports whether the record has been soft-deleted.
func (k *Knowledge) IsDeleted() bool {
	return k.DeletedAt != nil
}

// EntityKnowledge is a junction row linking an entity to a knowledge record
// under a typed role. A knowledge record with zero junction rows is orphaned
// and eligible for soft-deletion.
type EntityKnowledge struct {
	EntityID    uuid.UUID
	KnowledgeID uuid.UUID
	Role        KnowledgeRole
	Metadata    map[string]any
	CreatedAt   time.Time
}
