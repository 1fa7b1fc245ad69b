package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workasana_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "workasana_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workasana_login_attempts_total",
		Help: "Count of login attempts by kind and result",
	}, []string{"kind", "result"})

	tasksByStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "workasana_tasks_by_status",
		Help: "Number of stored tasks per status value",
	}, []string{"status"})

	eventSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "workasana_event_subscribers",
		Help: "Number of connected websocket event subscribers",
	})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveLogin increments the login attempt counter. Kind is "user" or
// "admin"; result names the outcome.
func ObserveLogin(kind, result string) {
	loginAttempts.WithLabelValues(kind, result).Inc()
}

// SetTasksByStatus sets the per-status task gauge.
func SetTasksByStatus(status string, count int) {
	if count < 0 {
		count = 0
	}
	tasksByStatus.WithLabelValues(status).Set(float64(count))
}

// IncrementSubscribers increments the websocket subscriber gauge.
func IncrementSubscribers() {
	eventSubscribers.Inc()
}

// DecrementSubscribers decrements the websocket subscriber gauge.
func DecrementSubscribers() {
	eventSubscribers.Dec()
}
