package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "healthai_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "healthai_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "healthai_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	seriesGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "healthai_series_generated_total",
			Help: "Vital-sign series produced, by origin",
		},
		[]string{"origin"},
	)

	insightsGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "healthai_insight_reports_total",
			Help: "Insight reports composed",
		},
	)

	riskFlags = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "healthai_risk_flags_total",
			Help: "Risk flags raised by analytics runs",
		},
		[]string{"risk", "level"},
	)

	recommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "healthai_recommendations_total",
			Help: "Recommendations emitted by analytics runs",
		},
		[]string{"category", "priority"},
	)

	narratives = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "healthai_narratives_total",
			Help: "Assistant narratives served, by kind and classified topic",
		},
		[]string{"kind", "topic"},
	)

	eventsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "healthai_events_processed_total",
			Help: "Bus events handled by workers",
		},
		[]string{"type", "status"},
	)
)

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request count and latency per mux route template.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		route := routeTemplate(r)
		httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(wrapped.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// routeTemplate keeps label cardinality bounded: patient names never become labels.
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

func RecordSeriesGenerated(origin string) {
	seriesGenerated.WithLabelValues(origin).Inc()
}

func RecordInsightReport() {
	insightsGenerated.Inc()
}

func RecordRiskFlag(risk, level string) {
	riskFlags.WithLabelValues(risk, level).Inc()
}

func RecordRecommendation(category, priority string) {
	recommendations.WithLabelValues(category, priority).Inc()
}

func RecordNarrative(kind, topic string) {
	narratives.WithLabelValues(kind, topic).Inc()
}

func RecordEvent(eventType string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	eventsProcessed.WithLabelValues(eventType, status).Inc()
}
