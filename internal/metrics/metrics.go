package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

// SchedulingMetrics exposes counters/histograms for slot queries and ledger mutations.
type SchedulingMetrics struct {
	requests       *prometheus.CounterVec
	generatedSlots prometheus.Histogram
}

func NewSchedulingMetrics(reg prometheus.Registerer) *SchedulingMetrics {
	m := &SchedulingMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "scheduling",
			Name:      "slot_requests_total",
			Help:      "Scheduling operations by outcome",
		}, []string{"operation", "outcome"}),
		generatedSlots: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "clinic",
			Subsystem: "scheduling",
			Name:      "generated_slots",
			Help:      "Number of consultation slots generated per resolved day",
			Buckets:   []float64{0, 1, 2, 4, 8, 12, 16, 24, 32, 48},
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requests, m.generatedSlots)
	return m
}

// Outcome classifies err into the label used by ObserveRequest.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case httperr.IsKind(err, httperr.KindInvalidInput):
		return "invalid"
	case httperr.IsKind(err, httperr.KindConflict):
		return "conflict"
	case httperr.IsKind(err, httperr.KindNotFound):
		return "not_found"
	default:
		return "error"
	}
}

func (m *SchedulingMetrics) ObserveRequest(operation string, err error) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(operation, Outcome(err)).Inc()
}

func (m *SchedulingMetrics) ObserveGeneratedSlots(n int) {
	if m == nil {
		return
	}
	m.generatedSlots.Observe(float64(n))
}
