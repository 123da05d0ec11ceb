// Package telemetry exposes the small set of Prometheus metrics the demo
// services (styx-directory, styx-relay) need, adapted from the teacher's
// internal/metrics/metrics.go promauto-registered collectors down to the
// handful relevant to a prekey directory and a frame relay: HTTP request
// counters/latency, one-time-prekey pool depth, and relay connection
// counts. The chat-specific collectors (PIN attempts, media uploads,
// group fanout, audit-log backpressure, and so on) have no SPEC_FULL.md
// component to attach to and are not carried over.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Telemetry holds the collectors shared by both demo services.
type Telemetry struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	OneTimePrekeysRemaining *prometheus.GaugeVec

	RelayConnectionsActive prometheus.Gauge
	RelayFramesRelayed     *prometheus.CounterVec
	RelayFramesDropped     *prometheus.CounterVec
}

// New registers and returns the collector set. Calling it more than once
// in the same process panics (the teacher's metrics package has the same
// single-registration behavior via promauto).
func New() *Telemetry {
	return &Telemetry{
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "styx_http_requests_total",
			Help: "Total HTTP requests processed, by method, path, and status code.",
		}, []string{"method", "path", "status"}),

		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "styx_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),

		OneTimePrekeysRemaining: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "styx_directory_one_time_prekeys_remaining",
			Help: "Number of unconsumed one-time prekeys currently pooled per account.",
		}, []string{"account_id"}),

		RelayConnectionsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "styx_relay_connections_active",
			Help: "Number of currently connected relay endpoints.",
		}),

		RelayFramesRelayed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "styx_relay_frames_relayed_total",
			Help: "Total opaque ratchet frames relayed, by outcome.",
		}, []string{"outcome"}),

		RelayFramesDropped: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "styx_relay_frames_dropped_total",
			Help: "Total frames not delivered, by reason (transport simulation, no peer, full send buffer).",
		}, []string{"reason"}),
	}
}

// Handler exposes the collectors in the Prometheus exposition format, the
// same way the teacher's metrics.Handler wraps promhttp.Handler.
func (t *Telemetry) Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records HTTPRequestsTotal/HTTPRequestDuration for every
// request, mirroring the teacher's MetricsMiddleware
// (internal/metrics/metrics.go).
func (t *Telemetry) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		t.HTTPRequestsTotal.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(rec.status)).Inc()
		t.HTTPRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
