package metrics

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"code", "method", "path"},
	)
	httpRequestsDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current Number of HTTP requests being processed.",
		},
	)

	upstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_upstream_requests_total",
			Help: "Calls made to the storefront backend, by outcome.",
		},
		[]string{"method", "outcome"},
	)
	upstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_upstream_request_duration_seconds",
			Help:    "Latency of calls to the storefront backend.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
	staleResponsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_stale_responses_total",
			Help: "Backend responses discarded because a newer request had already been applied.",
		},
		[]string{"slice"},
	)
	checkoutOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_checkout_outcomes_total",
			Help: "Terminal checkout outcomes by payment method.",
		},
		[]string{"payment_method", "outcome"},
	)
	activeSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "storefront_active_sessions",
			Help: "Browser sessions currently held in memory.",
		},
	)
)

func init() {
	if err := prometheus.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		slog.Debug("ProcessCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}

	if err := prometheus.Register(collectors.NewGoCollector()); err != nil {
		slog.Debug("GoCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		start := time.Now()
		httpRequestsInFlight.Inc()

		rw := newResponseWriter(w)

		defer func() {
			// the mux sets Pattern while routing, so it is only known afterwards
			path := r.Pattern
			if path == "" {
				path = "unmatched"
			}

			httpRequestsTotal.WithLabelValues(strconv.Itoa(rw.statusCode), r.Method, path).Inc()
			httpRequestsDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
			httpRequestsInFlight.Dec()
		}()

		next.ServeHTTP(rw, r)
	})
}

// ObserveUpstream records one backend call. outcome is the status code or
// "network_error".
func ObserveUpstream(method, outcome string, duration time.Duration) {
	upstreamRequestsTotal.WithLabelValues(method, outcome).Inc()
	upstreamRequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

func StaleResponse(slice string) {
	staleResponsesTotal.WithLabelValues(slice).Inc()
}

func CheckoutOutcome(paymentMethod, outcome string) {
	checkoutOutcomesTotal.WithLabelValues(paymentMethod, outcome).Inc()
}

func SetActiveSessions(n int) {
	activeSessions.Set(float64(n))
}

func Handler() http.Handler {
	return promhttp.Handler()
}
