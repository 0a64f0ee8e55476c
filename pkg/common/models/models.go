package models

import (
	"encoding/json"
	"math"
	"time"
)

// Event Bus models
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"` // patient.created, vitals.generated, insights.generated
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}

const (
	EventPatientCreated    = "patient.created"
	EventVitalsGenerated   = "vitals.generated"
	EventInsightsGenerated = "insights.generated"
)

// Subject is a patient profile. Only Name and Age feed the analytics core.
type Subject struct {
	Name           string            `json:"name"`
	Age            int               `json:"age"`
	Gender         string            `json:"gender,omitempty"`
	MedicalHistory string            `json:"medical_history,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

type SubjectUpdate struct {
	Age            *int              `json:"age,omitempty"`
	Gender         *string           `json:"gender,omitempty"`
	MedicalHistory *string           `json:"medical_history,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// Channel names one vital-sign metric of a VitalSample.
type Channel string

const (
	HeartRate    Channel = "heart_rate"
	Systolic     Channel = "systolic"
	Diastolic    Channel = "diastolic"
	BloodGlucose Channel = "blood_glucose"
	Weight       Channel = "weight"
)

// Channels lists every channel in report order.
var Channels = []Channel{HeartRate, Systolic, Diastolic, BloodGlucose, Weight}

func (c Channel) Title() string {
	switch c {
	case HeartRate:
		return "Heart Rate"
	case Systolic:
		return "Systolic"
	case Diastolic:
		return "Diastolic"
	case BloodGlucose:
		return "Blood Glucose"
	case Weight:
		return "Weight"
	default:
		return string(c)
	}
}

// Value reads the channel from s. Missing readings are NaN.
func (c Channel) Value(s VitalSample) float64 {
	switch c {
	case HeartRate:
		return s.HeartRate
	case Systolic:
		return s.Systolic
	case Diastolic:
		return s.Diastolic
	case BloodGlucose:
		return s.BloodGlucose
	case Weight:
		return s.Weight
	default:
		return math.NaN()
	}
}

// VitalSample is one daily reading. A channel that was not recorded holds NaN
// and is encoded as JSON null.
type VitalSample struct {
	Date         time.Time
	HeartRate    float64
	Systolic     float64
	Diastolic    float64
	BloodGlucose float64
	Weight       float64
	SubjectName  string
}

type vitalSampleJSON struct {
	Date         time.Time `json:"date"`
	HeartRate    *float64  `json:"heart_rate"`
	Systolic     *float64  `json:"systolic"`
	Diastolic    *float64  `json:"diastolic"`
	BloodGlucose *float64  `json:"blood_glucose"`
	Weight       *float64  `json:"weight"`
	SubjectName  string    `json:"subject_name,omitempty"`
}

func (s VitalSample) MarshalJSON() ([]byte, error) {
	return json.Marshal(vitalSampleJSON{
		Date:         s.Date,
		HeartRate:    present(s.HeartRate),
		Systolic:     present(s.Systolic),
		Diastolic:    present(s.Diastolic),
		BloodGlucose: present(s.BloodGlucose),
		Weight:       present(s.Weight),
		SubjectName:  s.SubjectName,
	})
}

func (s *VitalSample) UnmarshalJSON(data []byte) error {
	var raw vitalSampleJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = VitalSample{
		Date:         raw.Date,
		HeartRate:    orNaN(raw.HeartRate),
		Systolic:     orNaN(raw.Systolic),
		Diastolic:    orNaN(raw.Diastolic),
		BloodGlucose: orNaN(raw.BloodGlucose),
		Weight:       orNaN(raw.Weight),
		SubjectName:  raw.SubjectName,
	}
	return nil
}

func present(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func orNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

// Series is a date-ascending sequence of samples for one subject.
type Series []VitalSample

func (s Series) Latest() (VitalSample, bool) {
	if len(s) == 0 {
		return VitalSample{}, false
	}
	return s[len(s)-1], true
}

// Values returns the channel column, NaN included.
func (s Series) Values(c Channel) []float64 {
	out := make([]float64, len(s))
	for i, sample := range s {
		out[i] = c.Value(sample)
	}
	return out
}

type TrendStat struct {
	Slope   float64 `json:"slope"`
	Current float64 `json:"current"`
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Std     float64 `json:"std"`
}

type Trends map[Channel]TrendStat

type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskModerate RiskLevel = "Moderate"
	RiskHigh     RiskLevel = "High"
)

type RiskFlag struct {
	Risk        string    `json:"risk"`
	Level       RiskLevel `json:"level"`
	Description string    `json:"description"`
}

type Priority string

const (
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

type Recommendation struct {
	Category       string   `json:"category"`
	Recommendation string   `json:"recommendation"`
	Priority       Priority `json:"priority"`
}
