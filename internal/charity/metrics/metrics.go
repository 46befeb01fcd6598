package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the charity registry.
type Metrics struct {
	Registered prometheus.Counter
	Verified   prometheus.Counter
}

// New creates a Metrics instance with all charity module metrics registered.
func New() *Metrics {
	return &Metrics{
		Registered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "givepact_charities_registered_total",
			Help: "Total number of charities registered",
		}),
		Verified: promauto.NewCounter(prometheus.CounterOpts{
			Name: "givepact_charities_verified_total",
			Help: "Total number of charities verified",
		}),
	}
}

// IncrementRegistered records a successful charity registration.
func (m *Metrics) IncrementRegistered() {
	m.Registered.Inc()
}

// IncrementVerified records a successful charity verification.
func (m *Metrics) IncrementVerified() {
	m.Verified.Inc()
}
