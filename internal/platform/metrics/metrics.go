package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the HTTP level Prometheus metrics.
type Metrics struct {
	RequestDuration *prometheus.HistogramVec
}

// New creates and registers the platform metrics.
func New() *Metrics {
	return &Metrics{
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "givepact_http_request_duration_seconds",
			Help:    "HTTP request duration by method and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "status"}),
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Instrument wraps a handler with request duration observation.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		m.RequestDuration.
			WithLabelValues(r.Method, strconv.Itoa(rec.status)).
			Observe(time.Since(start).Seconds())
	})
}
