package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the credential issuer.
type Metrics struct {
	Minted      prometheus.Counter
	TierReached *prometheus.CounterVec
}

// New creates a Metrics instance with all credential module metrics registered.
func New() *Metrics {
	return &Metrics{
		Minted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "givepact_credentials_minted_total",
			Help: "Total number of reputation credentials minted",
		}),
		TierReached: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "givepact_credential_tier_reached_total",
			Help: "Tier promotions observed on credential updates",
		}, []string{"tier"}),
	}
}

// IncrementMinted records a successful credential mint.
func (m *Metrics) IncrementMinted() {
	m.Minted.Inc()
}

// ObserveTierReached records a credential reaching a new tier.
func (m *Metrics) ObserveTierReached(tier string) {
	m.TierReached.WithLabelValues(tier).Inc()
}
