package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the service.
type Metrics struct {
	RequestCounter  *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	FormsCreated     prometheus.Counter
	AttemptsRecorded *prometheus.CounterVec
}

// New registers and returns the service metrics.
func New(service string) *Metrics {
	return &Metrics{
		RequestCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "onetest",
				Subsystem: service,
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "onetest",
				Subsystem: service,
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		FormsCreated: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: "onetest",
				Subsystem: service,
				Name:      "forms_created_total",
				Help:      "Total number of forms created",
			},
		),
		AttemptsRecorded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "onetest",
				Subsystem: service,
				Name:      "attempts_total",
				Help:      "Total number of form submissions by outcome",
			},
			[]string{"outcome"}, // accepted|rejected
		),
	}
}

// Middleware records request count and duration per request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		m.RequestCounter.WithLabelValues(r.Method, strconv.Itoa(ww.Status())).Inc()
		m.RequestDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the /metrics endpoint.
func Handler() http.Handler { return promhttp.Handler() }
