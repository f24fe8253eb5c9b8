package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveTransition("active", "unavailable", "donated")
	m.ObserveTransition("active", "unavailable", "donated")
	m.ObserveRejection("reactivated")
	m.ObserveRegistration()
	m.ObserveSearch(true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.StatusTransitions.WithLabelValues("active", "unavailable", "donated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TransitionRejection.WithLabelValues("reactivated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Registrations))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Searches.WithLabelValues("true")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Searches.WithLabelValues("false")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveTransition("a", "b", "c")
		m.ObserveRejection("x")
		m.ObserveRegistration()
		m.ObserveSearch(false)
	})
}
