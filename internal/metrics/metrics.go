// Package metrics holds the Prometheus instrumentation for the maintenance
// binaries. Counters live on an explicit registry passed around at
// construction, never on process-wide defaults.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/funnelforge/graphcore-backend/internal/domain"
)

// Metrics aggregates the counters a single binary run produces.
type Metrics struct {
	registry *prometheus.Registry

	CascadesCompleted  prometheus.Counter
	ConnectionsRemoved prometheus.Counter
	EventsArchived     prometheus.Counter
	LinksRemoved       prometheus.Counter

	BucketsReset prometheus.Counter
}

// New creates a Metrics set registered on a fresh registry under the given
// namespace.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		CascadesCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cascade",
			Name:      "completed_total",
			Help:      "Delete cascades driven to completion.",
		}),
		ConnectionsRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cascade",
			Name:      "connections_removed_total",
			Help:      "Connections hard-deleted by cascades.",
		}),
		EventsArchived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cascade",
			Name:      "events_archived_total",
			Help:      "Audit events archived by cascades.",
		}),
		LinksRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cascade",
			Name:      "knowledge_links_removed_total",
			Help:      "Knowledge junction rows removed by cascades.",
		}),
		BucketsReset: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "quota",
			Name:      "buckets_reset_total",
			Help:      "Usage buckets rolled over into a fresh period.",
		}),
	}

	reg.MustRegister(
		m.CascadesCompleted,
		m.ConnectionsRemoved,
		m.EventsArchived,
		m.LinksRemoved,
		m.BucketsReset,
	)

	return m
}

// ObserveCascade records the cleanup counts of one finished cascade.
func (m *Metrics) ObserveCascade(res domain.CascadeResult) {
	m.CascadesCompleted.Inc()
	m.ConnectionsRemoved.Add(float64(res.ConnectionsRemoved))
	m.EventsArchived.Add(float64(res.EventsArchived))
	m.LinksRemoved.Add(float64(res.LinksRemoved))
}

// Push sends the registry to a Pushgateway under the given job name.
// An empty url is a no-op so local runs need no gateway.
func (m *Metrics) Push(url, job string) error {
	if url == "" {
		return nil
	}
	if err := push.New(url, job).Gatherer(m.registry).Push(); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
