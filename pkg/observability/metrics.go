// Package observability provides Prometheus metrics, health checks and the
// metrics HTTP server.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Webhook ingestion metrics
	webhookEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Total number of webhook events processed",
		},
		[]string{"kind", "outcome"},
	)

	webhookEventDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "webhook_event_duration_seconds",
			Help:    "Duration of webhook event processing in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	// Batch sync metrics
	syncRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_runs_total",
			Help: "Total number of batch sync runs",
		},
		[]string{"target", "result"},
	)

	syncRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_records_total",
			Help: "Total number of records written by batch sync",
		},
		[]string{"target", "status"},
	)

	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// RecordWebhookEvent records one processed webhook event.
func RecordWebhookEvent(kind, outcome string, elapsed time.Duration) {
	webhookEventsTotal.WithLabelValues(kind, outcome).Inc()
	webhookEventDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// RecordSyncRun records the verdict of one batch sync run.
func RecordSyncRun(target string, success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	syncRunsTotal.WithLabelValues(target, result).Inc()
}

// RecordSyncRecords records how many records a sync run wrote or failed.
func RecordSyncRecords(target string, synced, errored int) {
	syncRecordsTotal.WithLabelValues(target, "synced").Add(float64(synced))
	syncRecordsTotal.WithLabelValues(target, "error").Add(float64(errored))
}

// statusRecorder captures the response status for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// HTTPMetricsMiddleware records request counts and latency per route.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		httpRequestDuration.WithLabelValues(r.URL.Path, r.Method).Observe(time.Since(start).Seconds())
		httpRequestsTotal.WithLabelValues(r.URL.Path, r.Method, strconv.Itoa(recorder.status)).Inc()
	})
}
