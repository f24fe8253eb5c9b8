package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the donor lifecycle and search counters.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	StatusTransitions   *prometheus.CounterVec
	TransitionRejection *prometheus.CounterVec
	Registrations       prometheus.Counter
	Searches            *prometheus.CounterVec
}

// New registers the metrics with reg. Pass prometheus.DefaultRegisterer in
// production and a fresh prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		StatusTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "donoryuk_status_transitions_total",
			Help: "Donor status transitions applied, by previous status, new status and event",
		}, []string{"from", "to", "event"}),

		TransitionRejection: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "donoryuk_transition_rejections_total",
			Help: "Donor events rejected by the lifecycle policy",
		}, []string{"event"}),

		Registrations: factory.NewCounter(prometheus.CounterOpts{
			Name: "donoryuk_donor_registrations_total",
			Help: "Donor profiles registered",
		}),

		Searches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "donoryuk_searches_total",
			Help: "Donor searches served",
		}, []string{"available_only"}),
	}
}

// ObserveTransition records an applied status change
func (m *Metrics) ObserveTransition(from, to, event string) {
	if m != nil {
		m.StatusTransitions.WithLabelValues(from, to, event).Inc()
	}
}

// ObserveRejection records an event refused by the lifecycle policy
func (m *Metrics) ObserveRejection(event string) {
	if m != nil {
		m.TransitionRejection.WithLabelValues(event).Inc()
	}
}

// ObserveRegistration records a new donor profile
func (m *Metrics) ObserveRegistration() {
	if m != nil {
		m.Registrations.Inc()
	}
}

// ObserveSearch records a served search
func (m *Metrics) ObserveSearch(availableOnly bool) {
	if m != nil {
		m.Searches.WithLabelValues(strconv.FormatBool(availableOnly)).Inc()
	}
}
