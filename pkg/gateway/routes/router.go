package routes

import (
	"net/http"

	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/analytics/health"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/gateway/middleware"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/narrative"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/observability/metrics"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/patient"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/session"
	"github.com/gorilla/mux"
)

type Dependencies struct {
	Patients       *patient.Service
	Engine         *health.Engine
	Assistant      *narrative.Assistant
	Sessions       *session.Manager
	MaxRequestBody int64
	RateLimitRPS   int
	RateLimitBurst int
}

// NewRouter wires every handler under /api/v1 plus /health and /metrics.
// CORS wraps the router so preflight requests are answered before routing.
func NewRouter(deps Dependencies) http.Handler {
	router := mux.NewRouter()
	router.Use(middleware.Recovery)
	router.Use(middleware.Logging)
	router.Use(metrics.Middleware)

	router.HandleFunc("/health", healthCheck).Methods(http.MethodGet)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.RateLimit(deps.RateLimitRPS, deps.RateLimitBurst))
	if deps.MaxRequestBody > 0 {
		api.Use(middleware.BodyLimit(deps.MaxRequestBody))
	}
	api.Use(middleware.Session)

	NewPatientHandler(deps.Patients).Register(api)
	NewAnalyticsHandler(deps.Patients, deps.Engine).Register(api)
	NewAssistantHandler(deps.Assistant, deps.Sessions, deps.Patients).Register(api)

	return middleware.CORS(router)
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "healthy"})
}
