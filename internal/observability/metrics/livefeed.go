// Package metrics exposes prometheus instruments for the live feed and the
// notification dispatcher.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// LiveFeedMetrics tracks the live aggregation pipeline. All methods are
// nil-safe so callers can run without metrics in tests.
type LiveFeedMetrics struct {
	activeWatchers     *prometheus.GaugeVec
	snapshotsPublished prometheus.Counter
	patchEvents        *prometheus.CounterVec
	refreshFailures    prometheus.Counter
}

var (
	liveFeedOnce sync.Once
	liveFeed     *LiveFeedMetrics
)

// LiveFeed returns the process-wide live feed metrics.
func LiveFeed() *LiveFeedMetrics {
	liveFeedOnce.Do(func() {
		liveFeed = newLiveFeedMetrics(prometheus.DefaultRegisterer)
	})
	return liveFeed
}

func newLiveFeedMetrics(registerer prometheus.Registerer) *LiveFeedMetrics {
	m := &LiveFeedMetrics{
		activeWatchers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "livefeed_active_watchers",
			Help: "Per-demand fulfillment watchers currently running, by demand type.",
		}, []string{"demand_type"}),
		snapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "livefeed_snapshots_published_total",
			Help: "Demand list snapshots delivered to consumers.",
		}),
		patchEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "livefeed_patch_events_total",
			Help: "Derived-field patches applied to the published list, by demand type.",
		}, []string{"demand_type"}),
		refreshFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "livefeed_refresh_failures_total",
			Help: "Live demand set refreshes that surfaced an error.",
		}),
	}
	if registerer != nil {
		registerer.MustRegister(m.activeWatchers, m.snapshotsPublished, m.patchEvents, m.refreshFailures)
	}
	return m
}

func (m *LiveFeedMetrics) WatcherStarted(demandType string) {
	if m == nil {
		return
	}
	m.activeWatchers.WithLabelValues(demandType).Inc()
}

func (m *LiveFeedMetrics) WatcherStopped(demandType string) {
	if m == nil {
		return
	}
	m.activeWatchers.WithLabelValues(demandType).Dec()
}

func (m *LiveFeedMetrics) SnapshotPublished() {
	if m == nil {
		return
	}
	m.snapshotsPublished.Inc()
}

func (m *LiveFeedMetrics) PatchApplied(demandType string) {
	if m == nil {
		return
	}
	m.patchEvents.WithLabelValues(demandType).Inc()
}

func (m *LiveFeedMetrics) RefreshFailed() {
	if m == nil {
		return
	}
	m.refreshFailures.Inc()
}
