package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics records order and purchase mutation outcomes.
type EngineMetrics struct {
	duration    *prometheus.HistogramVec
	mutations   *prometheus.CounterVec
	rejections  *prometheus.CounterVec
	stockMoves  *prometheus.CounterVec
	transitions *prometheus.CounterVec
}

// NewEngineMetrics registers the engine metrics on the provided registerer.
func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	if reg == nil {
		return &EngineMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "engine_operation_duration_seconds",
		Help:    "Duration of engine operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_mutations_total",
		Help: "Completed engine mutations.",
	}, []string{"operation"})
	rejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_rejections_total",
		Help: "Engine mutations rejected by a business rule.",
	}, []string{"operation", "code"})
	stockMoves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_stock_adjustments_total",
		Help: "Applied stock adjustments by direction.",
	}, []string{"direction"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_status_transitions_total",
		Help: "Order status transitions by source and target.",
	}, []string{"from", "to"})
	reg.MustRegister(duration, mutations, rejections, stockMoves, transitions)
	return &EngineMetrics{
		duration:    duration,
		mutations:   mutations,
		rejections:  rejections,
		stockMoves:  stockMoves,
		transitions: transitions,
	}
}

// ObserveDuration records the duration for the named operation.
func (e *EngineMetrics) ObserveDuration(operation string, duration time.Duration) {
	if e == nil || e.duration == nil {
		return
	}
	e.duration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncMutation increments the completed mutation counter for the named operation.
func (e *EngineMetrics) IncMutation(operation string) {
	if e == nil || e.mutations == nil {
		return
	}
	e.mutations.WithLabelValues(normalizeLabel(operation)).Inc()
}

// IncRejection increments the rejection counter for the named operation and error code.
func (e *EngineMetrics) IncRejection(operation, code string) {
	if e == nil || e.rejections == nil {
		return
	}
	e.rejections.WithLabelValues(normalizeLabel(operation), normalizeLabel(code)).Inc()
}

// IncStockAdjustment increments the stock adjustment counter for the given direction.
func (e *EngineMetrics) IncStockAdjustment(direction string) {
	if e == nil || e.stockMoves == nil {
		return
	}
	e.stockMoves.WithLabelValues(normalizeLabel(direction)).Inc()
}

// IncStatusTransition increments the transition counter for the given edge.
func (e *EngineMetrics) IncStatusTransition(from, to string) {
	if e == nil || e.transitions == nil {
		return
	}
	e.transitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
