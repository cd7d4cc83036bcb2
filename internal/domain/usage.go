package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Well-known usage metrics. The suffix convention drives period derivation:
// cumulative "_total" counters live in annual buckets, "_monthly" counters
// in monthly buckets, everything else in daily buckets.
const (
	MetricEntitiesTotal      = "entities_total"
	MetricConnectionsMonthly = "connections_monthly"
	MetricKnowledgeTotal     = "knowledge_total"
)

// UsageRecord is a tenant/metric/period-scoped usage counter. Exactly one
// live record exists per (tenant, metric, current period bucket).
type UsageRecord struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	Metric      string
	PeriodType  PeriodType
	Value       int64
	Limit       int64 // 0 = unlimited
	PeriodStart time.Time
	PeriodEnd   time.Time
	UpdatedAt   time.Time
}

// Remaining returns how much of the limit is left, or -1 when unlimited.
func (u *UsageRecord) Remaining() int64 {
	if u.Limit == 0 {
		return -1
	}
	if u.Value >= u.Limit {
		return 0
	}
	return u.Limit - u.Value
}

// PeriodForMetric derives the bucketing period from the metric name.
func PeriodForMetric(metric string) PeriodType {
	switch {
	case strings.HasSuffix(metric, "_total"):
		return PeriodAnnual
	case strings.HasSuffix(metric, "_monthly"):
		return PeriodMonthly
	}
	return PeriodDaily
}

// PeriodBounds returns the [start, end) bucket containing now for the given
// period type. Bounds are computed in UTC so concurrent writers agree on the
// bucket key regardless of server locale.
func PeriodBounds(p PeriodType, now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	switch p {
	case PeriodAnnual:
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(1, 0, 0)
	case PeriodMonthly:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, 0)
	default:
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 0, 1)
	}
}
