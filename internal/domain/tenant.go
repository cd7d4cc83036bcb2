package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is an isolated multi-tenant container. Every other record in the
// graph belongs to exactly one tenant for its entire life.
type Tenant struct {
	ID        uuid.UUID
	Slug      string
	Type      TenantType
	ParentID  *uuid.UUID // nil for root tenants; nesting depth is unbounded
	Settings  TenantSettings
	Status    TenantStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive reports whether the tenant accepts writes.
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}

// TenantSettings holds per-tenant policy and the plan-derived write limits.
// Limits bound the write volume of the tenant and all its descendants.
type TenantSettings struct {
	Visibility            Visibility
	JoinPolicy            JoinPolicy
	Plan                  Plan
	MaxEntities           int64
	MaxConnectionsMonthly int64
	MaxKnowledge          int64
}

// planLimits is the per-plan quota table.
var planLimits = map[Plan]struct {
	entities    int64
	connections int64
	knowledge   int64
}{
	PlanStarter:    {entities: 10_000, connections: 50_000, knowledge: 25_000},
	PlanGrowth:     {entities: 100_000, connections: 500_000, knowledge: 250_000},
	PlanEnterprise: {entities: 1_000_000, connections: 5_000_000, knowledge: 2_500_000},
}

// DefaultSettingsFor returns the type-indexed default settings applied when
// CreateTenant is called without explicit settings.
func DefaultSettingsFor(t TenantType) TenantSettings {
	var s TenantSettings
	switch t {
	case TenantTypeSmallGroup:
		s = TenantSettings{Visibility: VisibilityPrivate, JoinPolicy: JoinPolicyInviteOnly, Plan: PlanStarter}
	case TenantTypeBusiness:
		s = TenantSettings{Visibility: VisibilityPrivate, JoinPolicy: JoinPolicyInviteOnly, Plan: PlanGrowth}
	case TenantTypeCommunity:
		s = TenantSettings{Visibility: VisibilityPublic, JoinPolicy: JoinPolicyApproval, Plan: PlanStarter}
	case TenantTypeDAO:
		s = TenantSettings{Visibility: VisibilityPublic, JoinPolicy: JoinPolicyOpen, Plan: PlanGrowth}
	case TenantTypeGovernment:
		s = TenantSettings{Visibility: VisibilityPrivate, JoinPolicy: JoinPolicyApproval, Plan: PlanEnterprise}
	default:
		s = TenantSettings{Visibility: VisibilityPrivate, JoinPolicy: JoinPolicyInviteOnly, Plan: PlanStarter}
	}
	return s.WithPlanLimits()
}

// WithPlanLimits fills zero limits from the plan table.
func (s TenantSettings) WithPlanLimits() TenantSettings {
	limits, ok := planLimits[s.Plan]
	if !ok {
		limits = planLimits[PlanStarter]
	}
	if s.MaxEntities == 0 {
		s.MaxEntities = limits.entities
	}
	if s.MaxConnectionsMonthly == 0 {
		s.MaxConnectionsMonthly = limits.connections
	}
	if s.MaxKnowledge == 0 {
		s.MaxKnowledge = limits.knowledge
	}
	return s
}

// LimitForMetric returns the tenant's limit for a usage metric.
// Unknown metrics are unlimited.
func (s TenantSettings) LimitForMetric(metric string) int64 {
	switch metric {
	case MetricEntitiesTotal:
		return s.MaxEntities
	case MetricConnectionsMonthly:
		return s.MaxConnectionsMonthly
	case MetricKnowledgeTotal:
		return s.MaxKnowledge
	}
	return 0 // 0 = unlimited
}
