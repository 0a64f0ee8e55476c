package routes

import (
	"net/http"

	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/analytics/health"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/common/models"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/dashboard"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/patient"
	"github.com/gorilla/mux"
)

type AnalyticsHandler struct {
	patients *patient.Service
	engine   *health.Engine
}

func NewAnalyticsHandler(patients *patient.Service, engine *health.Engine) *AnalyticsHandler {
	return &AnalyticsHandler{patients: patients, engine: engine}
}

func (h *AnalyticsHandler) Register(r *mux.Router) {
	r.HandleFunc("/patients/{name}/analytics", h.handleReport).Methods(http.MethodGet)
	r.HandleFunc("/patients/{name}/analytics/trends", h.handleTrends).Methods(http.MethodGet)
	r.HandleFunc("/patients/{name}/analytics/risks", h.handleRisks).Methods(http.MethodGet)
	r.HandleFunc("/patients/{name}/analytics/recommendations", h.handleRecommendations).Methods(http.MethodGet)
	r.HandleFunc("/patients/{name}/analytics/insights", h.handleInsights).Methods(http.MethodGet)
	r.HandleFunc("/patients/{name}/analytics/dashboard", h.handleDashboard).Methods(http.MethodGet)
}

// load fetches the series and writes the error response itself on failure.
func (h *AnalyticsHandler) load(w http.ResponseWriter, r *http.Request) (string, models.Series, bool) {
	name := mux.Vars(r)["name"]
	series, err := h.patients.Series(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return "", nil, false
	}
	return name, series, true
}

func (h *AnalyticsHandler) handleReport(w http.ResponseWriter, r *http.Request) {
	name, series, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, h.engine.Analyze(series, name))
}

func (h *AnalyticsHandler) handleTrends(w http.ResponseWriter, r *http.Request) {
	_, series, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, h.engine.Trends(series))
}

func (h *AnalyticsHandler) handleRisks(w http.ResponseWriter, r *http.Request) {
	_, series, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, h.engine.Risks(series))
}

func (h *AnalyticsHandler) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	_, series, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, h.engine.Recommendations(series))
}

// handleInsights returns JSON by default and the raw markdown for
// ?format=markdown.
func (h *AnalyticsHandler) handleInsights(w http.ResponseWriter, r *http.Request) {
	name, series, ok := h.load(w, r)
	if !ok {
		return
	}
	insights := h.engine.Insights(series, name)

	if r.URL.Query().Get("format") == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(insights))
		return
	}
	writeJSON(w, map[string]string{"subject": name, "insights": insights})
}

func (h *AnalyticsHandler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	_, series, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, dashboard.Build(series, h.engine.Trends(series)))
}
