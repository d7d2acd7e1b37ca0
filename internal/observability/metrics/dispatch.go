package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// DispatchMetrics tracks the notification dispatch worker.
type DispatchMetrics struct {
	dispatched *prometheus.CounterVec
	backlog    prometheus.Gauge
}

var (
	dispatchOnce sync.Once
	dispatch     *DispatchMetrics
)

// Dispatch returns the process-wide notification dispatch metrics.
func Dispatch() *DispatchMetrics {
	dispatchOnce.Do(func() {
		dispatch = newDispatchMetrics(prometheus.DefaultRegisterer)
	})
	return dispatch
}

func newDispatchMetrics(registerer prometheus.Registerer) *DispatchMetrics {
	m := &DispatchMetrics{
		dispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notification_dispatched_total",
			Help: "Notifications processed by the dispatch worker, by outcome.",
		}, []string{"status"}),
		backlog: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "notification_backlog",
			Help: "Queued notifications awaiting delivery at the last poll.",
		}),
	}
	if registerer != nil {
		registerer.MustRegister(m.dispatched, m.backlog)
	}
	return m
}

func (m *DispatchMetrics) Dispatched(status string) {
	if m == nil {
		return
	}
	m.dispatched.WithLabelValues(status).Inc()
}

func (m *DispatchMetrics) SetBacklog(n int64) {
	if m == nil {
		return
	}
	m.backlog.Set(float64(n))
}
