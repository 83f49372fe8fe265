package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestOutboxMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewOutboxMetrics(reg)

	m.IncPublished("order_created")
	m.IncPublished("order_created")
	m.IncFailed("order_created")
	m.IncDeadLettered("")
	m.ObserveBatchDuration("outbox-publisher", 125*time.Millisecond)

	if got := testutil.ToFloat64(m.published.WithLabelValues("order_created")); got != 2 {
		t.Fatalf("expected 2 published, got %v", got)
	}
	if got := testutil.ToFloat64(m.failed.WithLabelValues("order_created")); got != 1 {
		t.Fatalf("expected 1 failed, got %v", got)
	}
	if got := testutil.ToFloat64(m.deadLettered.WithLabelValues("unknown")); got != 1 {
		t.Fatalf("expected empty label to normalize to unknown, got %v", got)
	}
}

func TestOutboxMetricsNilRegisterer(t *testing.T) {
	m := NewOutboxMetrics(nil)
	// must not panic without registered collectors
	m.IncPublished("order_created")
	m.IncFailed("order_created")
	m.IncDeadLettered("order_created")
	m.ObserveBatchDuration("outbox-publisher", time.Second)
}
