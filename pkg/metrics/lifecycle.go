package metrics

import "github.com/prometheus/client_golang/prometheus"

// LifecycleMetrics counts request lifecycle transitions by action and outcome.
type LifecycleMetrics struct {
	transitions *prometheus.CounterVec
	rejections  *prometheus.CounterVec
}

// NewLifecycleMetrics registers the lifecycle metrics on the provided registerer.
func NewLifecycleMetrics(reg prometheus.Registerer) *LifecycleMetrics {
	if reg == nil {
		return &LifecycleMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "campuslend",
		Name:      "lifecycle_transitions_total",
		Help:      "Applied request lifecycle transitions.",
	}, []string{"action"})
	rejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "campuslend",
		Name:      "lifecycle_rejected_transitions_total",
		Help:      "Transition attempts rejected before commit.",
	}, []string{"action", "reason"})
	reg.MustRegister(transitions, rejections)
	return &LifecycleMetrics{transitions: transitions, rejections: rejections}
}

// IncTransition records a committed transition for the named action.
func (m *LifecycleMetrics) IncTransition(action string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(action)).Inc()
}

// IncRejected records a transition attempt rejected with the given reason.
func (m *LifecycleMetrics) IncRejected(action, reason string) {
	if m == nil || m.rejections == nil {
		return
	}
	m.rejections.WithLabelValues(normalizeLabel(action), normalizeLabel(reason)).Inc()
}
