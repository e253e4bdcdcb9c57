// Package metrics provides Prometheus instrumentation for bond-tool.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// QuotesTotal counts engine quote computations, partitioned by source
	// ("adhoc" for body-supplied terms, "saved" for stored bonds).
	QuotesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bondtool_quotes_total",
		Help: "Total number of quote computations",
	}, []string{"source"})

	// QuoteLatency tracks engine computation latency.
	QuoteLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bondtool_quote_latency_seconds",
		Help:    "Quote computation latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})

	// CurvesTotal counts price/yield curve computations.
	CurvesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bondtool_curves_total",
		Help: "Total number of price/yield curves computed",
	})

	// SavedBonds tracks the number of bonds created this process lifetime.
	SavedBonds = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bondtool_saved_bonds",
		Help: "Number of saved bonds",
	})

	// WebSocketClients tracks connected WebSocket clients.
	WebSocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bondtool_websocket_clients",
		Help: "Number of connected WebSocket clients",
	})

	// NonFiniteResults counts quotes rejected because the engine produced
	// a non-finite value (degenerate inputs).
	NonFiniteResults = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bondtool_nonfinite_results_total",
		Help: "Quote computations rejected for non-finite output",
	})

	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bondtool_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration tracks request duration by method and path.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bondtool_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"method", "path"})
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware returns an HTTP middleware that records request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start).Seconds()

		// Use the route pattern for path label to avoid high cardinality.
		path := r.URL.Path
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
