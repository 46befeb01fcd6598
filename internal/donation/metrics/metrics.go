package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the donation ledger.
type Metrics struct {
	Donations      *prometheus.CounterVec
	Volume         *prometheus.CounterVec
	DonateDuration prometheus.Histogram
	Withdrawals    prometheus.Counter
}

// New creates a Metrics instance with all donation module metrics registered.
func New() *Metrics {
	return &Metrics{
		Donations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "givepact_donations_total",
			Help: "Total number of completed donations",
		}, []string{"token"}),
		Volume: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "givepact_donation_volume_total",
			Help: "Cumulative donated amount in token base units",
		}, []string{"token"}),
		DonateDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "givepact_donate_duration_seconds",
			Help:    "End-to-end duration of the donate pipeline",
			Buckets: prometheus.DefBuckets,
		}),
		Withdrawals: promauto.NewCounter(prometheus.CounterOpts{
			Name: "givepact_emergency_withdrawals_total",
			Help: "Total number of emergency treasury withdrawals",
		}),
	}
}

// ObserveDonation records one completed donation.
func (m *Metrics) ObserveDonation(token string, amount uint64, elapsed time.Duration) {
	m.Donations.WithLabelValues(token).Inc()
	m.Volume.WithLabelValues(token).Add(float64(amount))
	m.DonateDuration.Observe(elapsed.Seconds())
}

// IncrementWithdrawals records an emergency withdrawal.
func (m *Metrics) IncrementWithdrawals() {
	m.Withdrawals.Inc()
}
