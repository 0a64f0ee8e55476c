package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/common/apperr"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/gateway/middleware"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/narrative"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/patient"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/session"
	"github.com/gorilla/mux"
)

type AssistantHandler struct {
	assistant *narrative.Assistant
	sessions  *session.Manager
	patients  *patient.Service
	now       func() time.Time
}

func NewAssistantHandler(assistant *narrative.Assistant, sessions *session.Manager, patients *patient.Service) *AssistantHandler {
	return &AssistantHandler{assistant: assistant, sessions: sessions, patients: patients, now: time.Now}
}

func (h *AssistantHandler) Register(r *mux.Router) {
	r.HandleFunc("/session", h.handleSession).Methods(http.MethodGet)
	r.HandleFunc("/session/patient", h.handleSelectPatient).Methods(http.MethodPost)
	r.HandleFunc("/assistant/chat", h.handleChat).Methods(http.MethodPost)
	r.HandleFunc("/assistant/chat", h.handleHistory).Methods(http.MethodGet)
	r.HandleFunc("/assistant/chat", h.handleClearHistory).Methods(http.MethodDelete)
	r.HandleFunc("/assistant/predict", h.handlePredict).Methods(http.MethodPost)
	r.HandleFunc("/assistant/treatment-plan", h.handleTreatmentPlan).Methods(http.MethodPost)
}

type sessionResponse struct {
	SessionID      string `json:"session_id"`
	CurrentPatient string `json:"current_patient"`
	Messages       int    `json:"messages"`
}

func (h *AssistantHandler) sessionFor(r *http.Request) *session.Session {
	return h.sessions.Get(middleware.SessionID(r.Context()))
}

func (h *AssistantHandler) handleSession(w http.ResponseWriter, r *http.Request) {
	sess := h.sessionFor(r)
	writeJSON(w, sessionResponse{
		SessionID:      sess.ID,
		CurrentPatient: sess.CurrentPatient(),
		Messages:       len(sess.History()),
	})
}

func (h *AssistantHandler) handleSelectPatient(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if _, err := h.patients.GetPatient(r.Context(), req.Name); err != nil {
		writeError(w, err)
		return
	}

	sess := h.sessionFor(r)
	sess.SelectPatient(req.Name)
	writeJSON(w, sessionResponse{
		SessionID:      sess.ID,
		CurrentPatient: req.Name,
		Messages:       len(sess.History()),
	})
}

// patientInfo renders the selected patient, or "" when none is selected or it
// no longer exists.
func (h *AssistantHandler) patientInfo(ctx context.Context, sess *session.Session) (string, error) {
	name := sess.CurrentPatient()
	if name == "" {
		return "", nil
	}
	subject, err := h.patients.GetPatient(ctx, name)
	if apperr.IsNotFound(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return narrative.PatientContext(subject), nil
}

// requirePatient is used by the structured flows, which only make sense for a
// selected patient.
func (h *AssistantHandler) requirePatient(ctx context.Context, sess *session.Session) (string, error) {
	info, err := h.patientInfo(ctx, sess)
	if err != nil {
		return "", err
	}
	if info == "" {
		return "", apperr.InvalidArgument("select or create a patient profile first")
	}
	return info, nil
}

func (h *AssistantHandler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	sess := h.sessionFor(r)
	info, err := h.patientInfo(r.Context(), sess)
	if err != nil {
		writeError(w, err)
		return
	}

	reply, err := h.assistant.Chat(req.Query, info)
	if err != nil {
		writeError(w, err)
		return
	}
	sess.Exchange(req.Query, reply.Text, h.now().UTC())
	writeJSON(w, reply)
}

func (h *AssistantHandler) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{"messages": h.sessionFor(r).History()})
}

func (h *AssistantHandler) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	h.sessionFor(r).Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (h *AssistantHandler) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req narrative.SymptomReport
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	info, err := h.requirePatient(r.Context(), h.sessionFor(r))
	if err != nil {
		writeError(w, err)
		return
	}

	reply, err := h.assistant.PredictDisease(req, info)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, reply)
}

func (h *AssistantHandler) handleTreatmentPlan(w http.ResponseWriter, r *http.Request) {
	var req narrative.TreatmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	info, err := h.requirePatient(r.Context(), h.sessionFor(r))
	if err != nil {
		writeError(w, err)
		return
	}

	reply, err := h.assistant.TreatmentPlan(req, info)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, reply)
}
