package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/funnelforge/graphcore-backend/internal/domain"
)

func TestObserveCascade_AccumulatesCounts(t *testing.T) {
	t.Parallel()

	m := New("graphcore_test")

	m.ObserveCascade(domain.CascadeResult{
		ConnectionsRemoved: 3,
		EventsArchived:     7,
		LinksRemoved:       2,
	})
	m.ObserveCascade(domain.CascadeResult{
		ConnectionsRemoved: 1,
	})

	if got := testutil.ToFloat64(m.CascadesCompleted); got != 2 {
		t.Errorf("completed: got %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.ConnectionsRemoved); got != 4 {
		t.Errorf("connections removed: got %v, want 4", got)
	}
	if got := testutil.ToFloat64(m.EventsArchived); got != 7 {
		t.Errorf("events archived: got %v, want 7", got)
	}
	if got := testutil.ToFloat64(m.LinksRemoved); got != 2 {
		t.Errorf("links removed: got %v, want 2", got)
	}
}

func TestPush_EmptyURLIsNoOp(t *testing.T) {
	t.Parallel()

	m := New("graphcore_test")
	if err := m.Push("", "cascade-runner"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_SeparateRegistries(t *testing.T) {
	t.Parallel()

	a := New("graphcore_test")
	b := New("graphcore_test")

	a.BucketsReset.Inc()
	if got := testutil.ToFloat64(b.BucketsReset); got != 0 {
		t.Errorf("registries must be independent, got %v", got)
	}
}
