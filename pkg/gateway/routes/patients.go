package routes

import (
	"net/http"
	"strconv"

	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/common/apperr"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/common/models"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/patient"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/vitals"
	"github.com/gorilla/mux"
)

type PatientHandler struct {
	service *patient.Service
}

func NewPatientHandler(service *patient.Service) *PatientHandler {
	return &PatientHandler{service: service}
}

func (h *PatientHandler) Register(r *mux.Router) {
	r.HandleFunc("/patients", h.handleCreate).Methods(http.MethodPost)
	r.HandleFunc("/patients", h.handleList).Methods(http.MethodGet)
	r.HandleFunc("/patients/{name}", h.handleGet).Methods(http.MethodGet)
	r.HandleFunc("/patients/{name}", h.handleUpdate).Methods(http.MethodPatch)
	r.HandleFunc("/patients/{name}/vitals", h.handleSeries).Methods(http.MethodGet)
	r.HandleFunc("/patients/{name}/vitals", h.handleRecord).Methods(http.MethodPost)
	r.HandleFunc("/patients/{name}/vitals/generate", h.handleRegenerate).Methods(http.MethodPost)
}

func (h *PatientHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req models.Subject
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	subject, err := h.service.CreatePatient(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, subject)
}

func (h *PatientHandler) handleList(w http.ResponseWriter, r *http.Request) {
	names, err := h.service.ListPatients(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]interface{}{"patients": names, "count": len(names)})
}

func (h *PatientHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	subject, err := h.service.GetPatient(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, subject)
}

func (h *PatientHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req models.SubjectUpdate
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	subject, err := h.service.UpdatePatient(r.Context(), mux.Vars(r)["name"], req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, subject)
}

func (h *PatientHandler) handleSeries(w http.ResponseWriter, r *http.Request) {
	series, err := h.service.Series(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, series)
}

func (h *PatientHandler) handleRecord(w http.ResponseWriter, r *http.Request) {
	var sample models.VitalSample
	if err := decodeJSON(r, &sample); err != nil {
		writeError(w, err)
		return
	}

	series, err := h.service.RecordVitals(r.Context(), mux.Vars(r)["name"], sample)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, series)
}

func (h *PatientHandler) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, apperr.InvalidArgument("days must be an integer, got %q", raw))
			return
		}
		if parsed < 1 || parsed > vitals.MaxDays {
			writeError(w, apperr.InvalidArgument("days must be between 1 and %d, got %d", vitals.MaxDays, parsed))
			return
		}
		days = parsed
	}

	series, err := h.service.RegenerateSeries(r.Context(), mux.Vars(r)["name"], days)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, series)
}
