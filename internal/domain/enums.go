package domain

// TenantType classifies a tenant and selects its default settings.
type TenantType string

const (
	TenantTypeSmallGroup TenantType = "small_group"
	TenantTypeBusiness   TenantType = "business"
	TenantTypeCommunity  TenantType = "community"
	TenantTypeDAO        TenantType = "dao"
	TenantTypeGovernment TenantType = "government"
	TenantTypeGeneric    TenantType = "generic"
)

func (t TenantType) String() string { return string(t) }

func (t TenantType) IsValid() bool {
	switch t {
	case TenantTypeSmallGroup, TenantTypeBusiness, TenantTypeCommunity,
		TenantTypeDAO, TenantTypeGovernment, TenantTypeGeneric:
		return true
	}
	return false
}

// TenantStatus represents the lifecycle state of a tenant.
type TenantStatus string

const (
	TenantStatusActive   TenantStatus = "active"
	TenantStatusArchived TenantStatus = "archived"
)

func (s TenantStatus) String() string { return string(s) }

func (s TenantStatus) IsValid() bool {
	switch s {
	case TenantStatusActive, TenantStatusArchived:
		return true
	}
	return false
}

// Visibility controls whether a tenant is discoverable.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

func (v Visibility) String() string { return string(v) }

func (v Visibility) IsValid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// JoinPolicy controls how members enter a tenant.
type JoinPolicy string

const (
	JoinPolicyOpen       JoinPolicy = "open"
	JoinPolicyInviteOnly JoinPolicy = "invite_only"
	JoinPolicyApproval   JoinPolicy = "approval_required"
)

func (p JoinPolicy) String() string { return string(p) }

func (p JoinPolicy) IsValid() bool {
	switch p {
	case JoinPolicyOpen, JoinPolicyInviteOnly, JoinPolicyApproval:
		return true
	}
	return false
}

// Plan is the billing plan a tenant is on. Plans derive quota limits.
type Plan string

const (
	PlanStarter    Plan = "starter"
	PlanGrowth     Plan = "growth"
	PlanEnterprise Plan = "enterprise"
)

func (p Plan) String() string { return string(p) }

func (p Plan) IsValid() bool {
	switch p {
	case PlanStarter, PlanGrowth, PlanEnterprise:
		return true
	}
	return false
}

// EntityStatus represents the lifecycle state of an entity.
type EntityStatus string

const (
	EntityStatusDraft     EntityStatus = "draft"
	EntityStatusActive    EntityStatus = "active"
	EntityStatusPublished EntityStatus = "published"
	EntityStatusArchived  EntityStatus = "archived"
	EntityStatusInactive  EntityStatus = "inactive"
)

func (s EntityStatus) String() string { return string(s) }

func (s EntityStatus) IsValid() bool {
	switch s {
	case EntityStatusDraft, EntityStatusActive, EntityStatusPublished,
		EntityStatusArchived, EntityStatusInactive:
		return true
	}
	return false
}

// EventType is the closed vocabulary of audit event types. Unlike entity
// types, event types are never extended at runtime.
type EventType string

const (
	EventTenantCreated        EventType = "tenant_created"
	EventTenantUpdated        EventType = "tenant_updated"
	EventTenantArchived       EventType = "tenant_archived"
	EventTenantRestored       EventType = "tenant_restored"
	EventEntityCreated        EventType = "entity_created"
	EventEntityUpdated        EventType = "entity_updated"
	EventEntityArchived       EventType = "entity_archived"
	EventEntityRestored       EventType = "entity_restored"
	EventConnectionCreated    EventType = "connection_created"
	EventConnectionExpired    EventType = "connection_expired"
	EventKnowledgeCreated     EventType = "knowledge_created"
	EventKnowledgeLinked      EventType = "knowledge_linked"
	EventKnowledgeBulkCreated EventType = "knowledge_bulk_created"
	EventCascadeCompleted     EventType = "cascade_completed"
	EventBatchCompleted       EventType = "batch_completed"
	EventQuotaPeriodReset     EventType = "quota_period_reset"
)

func (t EventType) String() string { return string(t) }

func (t EventType) IsValid() bool {
	switch t {
	case EventTenantCreated, EventTenantUpdated, EventTenantArchived, EventTenantRestored,
		EventEntityCreated, EventEntityUpdated, EventEntityArchived, EventEntityRestored,
		EventConnectionCreated, EventConnectionExpired,
		EventKnowledgeCreated, EventKnowledgeLinked, EventKnowledgeBulkCreated,
		EventCascadeCompleted, EventBatchCompleted, EventQuotaPeriodReset:
		return true
	}
	return false
}

// KnowledgeType classifies a knowledge record.
type KnowledgeType string

const (
	KnowledgeTypeLabel    KnowledgeType = "label"
	KnowledgeTypeDocument KnowledgeType = "document"
	KnowledgeTypeChunk    KnowledgeType = "chunk"
	KnowledgeTypeVector   KnowledgeType = "vector"
)

func (t KnowledgeType) String() string { return string(t) }

func (t KnowledgeType) IsValid() bool {
	switch t {
	case KnowledgeTypeLabel, KnowledgeTypeDocument, KnowledgeTypeChunk, KnowledgeTypeVector:
		return true
	}
	return false
}

// KnowledgeRole is the role a knowledge record plays for a linked entity.
type KnowledgeRole string

const (
	KnowledgeRoleLabel   KnowledgeRole = "label"
	KnowledgeRoleSummary KnowledgeRole = "summary"
	KnowledgeRoleChunkOf KnowledgeRole = "chunk_of"
	KnowledgeRoleCaption KnowledgeRole = "caption"
	KnowledgeRoleKeyword KnowledgeRole = "keyword"
)

func (r KnowledgeRole) String() string { return string(r) }

func (r KnowledgeRole) IsValid() bool {
	switch r {
	case KnowledgeRoleLabel, KnowledgeRoleSummary, KnowledgeRoleChunkOf,
		KnowledgeRoleCaption, KnowledgeRoleKeyword:
		return true
	}
	return false
}

// PeriodType is the bucketing granularity of a usage record.
type PeriodType string

const (
	PeriodDaily   PeriodType = "daily"
	PeriodMonthly PeriodType = "monthly"
	PeriodAnnual  PeriodType = "annual"
)

func (p PeriodType) String() string { return string(p) }

func (p PeriodType) IsValid() bool {
	switch p {
	case PeriodDaily, PeriodMonthly, PeriodAnnual:
		return true
	}
	return false
}
