// Package narrative produces the assistant's canned replies. Requests are
// classified against an ordered keyword table and answered from a template
// catalog; nothing here performs real inference.
package narrative

import (
	"fmt"
	"strings"

	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/common/apperr"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/common/models"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/observability/metrics"
)

type Reply struct {
	Kind  Kind   `json:"kind"`
	Topic Topic  `json:"topic"`
	Text  string `json:"text"`
}

type SymptomReport struct {
	PrimarySymptoms    string   `json:"primary_symptoms"`
	Duration           string   `json:"duration"`
	Severity           string   `json:"severity"`
	AdditionalSymptoms []string `json:"additional_symptoms,omitempty"`
}

type TreatmentRequest struct {
	Condition            string   `json:"condition"`
	Severity             string   `json:"severity"`
	CurrentMedications   string   `json:"current_medications,omitempty"`
	Allergies            string   `json:"allergies,omitempty"`
	LifestylePreferences []string `json:"lifestyle_preferences,omitempty"`
}

// templateData is what reply templates can reference.
type templateData struct {
	Query                string
	PatientInfo          string
	PrimarySymptoms      string
	Duration             string
	Severity             string
	AdditionalSymptoms   []string
	Condition            string
	CurrentMedications   string
	Allergies            string
	LifestylePreferences []string
}

type Assistant struct {
	catalog Catalog
}

func NewAssistant(catalog Catalog) *Assistant {
	return &Assistant{catalog: catalog}
}

// Chat answers a free-text question. Only the question is classified; the
// patient context is available to templates but never picks the topic.
func (a *Assistant) Chat(query, patientContext string) (Reply, error) {
	if strings.TrimSpace(query) == "" {
		return Reply{}, apperr.InvalidArgument("query is required")
	}
	return a.reply(KindChat, query, templateData{Query: query, PatientInfo: patientContext})
}

func (a *Assistant) PredictDisease(report SymptomReport, patientInfo string) (Reply, error) {
	if strings.TrimSpace(report.PrimarySymptoms) == "" {
		return Reply{}, apperr.InvalidArgument("primary symptoms are required")
	}
	return a.reply(KindPrediction, report.PrimarySymptoms, templateData{
		PatientInfo:        patientInfo,
		PrimarySymptoms:    report.PrimarySymptoms,
		Duration:           report.Duration,
		Severity:           report.Severity,
		AdditionalSymptoms: report.AdditionalSymptoms,
	})
}

func (a *Assistant) TreatmentPlan(req TreatmentRequest, patientInfo string) (Reply, error) {
	if strings.TrimSpace(req.Condition) == "" {
		return Reply{}, apperr.InvalidArgument("condition is required")
	}
	return a.reply(KindTreatment, req.Condition, templateData{
		PatientInfo:          patientInfo,
		Condition:            req.Condition,
		Severity:             req.Severity,
		CurrentMedications:   req.CurrentMedications,
		Allergies:            req.Allergies,
		LifestylePreferences: req.LifestylePreferences,
	})
}

func (a *Assistant) reply(kind Kind, text string, data templateData) (Reply, error) {
	topic, body, err := a.catalog.render(kind, text, data)
	if err != nil {
		return Reply{}, err
	}
	metrics.RecordNarrative(string(kind), string(topic))
	return Reply{Kind: kind, Topic: topic, Text: body}, nil
}

// PatientContext is the one-line profile summary handed to the assistant.
func PatientContext(subject models.Subject) string {
	history := subject.MedicalHistory
	if strings.TrimSpace(history) == "" {
		history = "None"
	}
	return fmt.Sprintf("Patient: %s, Age: %d, Gender: %s, Medical History: %s",
		subject.Name, subject.Age, subject.Gender, history)
}
