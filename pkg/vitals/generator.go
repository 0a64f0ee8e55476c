// Package vitals produces synthetic daily vital-sign series. Values follow a
// per-subject baseline with a slow sinusoidal oscillation and fresh noise on
// every sample, clamped to physiological ranges.
package vitals

import (
	"math"
	"strings"
	"time"

	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/common/apperr"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/common/models"
)

const (
	DefaultDays = 30
	// MaxDays bounds a generated series to ten years of daily samples.
	MaxDays = 3650
)

// Range is an inclusive clamp interval.
type Range struct {
	Min float64
	Max float64
}

func (r Range) Clamp(v float64) float64 {
	return math.Max(r.Min, math.Min(r.Max, v))
}

var Ranges = map[models.Channel]Range{
	models.HeartRate:    {Min: 50, Max: 120},
	models.Systolic:     {Min: 90, Max: 180},
	models.Diastolic:    {Min: 60, Max: 120},
	models.BloodGlucose: {Min: 70, Max: 200},
	models.Weight:       {Min: 40, Max: 150},
}

type Generator struct {
	noise NoiseSource
	now   func() time.Time
}

type Option func(*Generator)

func WithNoise(noise NoiseSource) Option {
	return func(g *Generator) {
		if noise != nil {
			g.noise = noise
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

func NewGenerator(opts ...Option) *Generator {
	g := &Generator{noise: DefaultSource(), now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type baseline struct {
	heartRate float64
	systolic  float64
	diastolic float64
	glucose   float64
	weight    float64
}

func (g *Generator) drawBaseline(age int) baseline {
	ageOffset := float64(age - 30)
	return baseline{
		heartRate: 70 + float64(g.noise.UniformInt(-10, 10)),
		systolic:  120 + 0.5*ageOffset + float64(g.noise.UniformInt(-10, 10)),
		diastolic: 80 + 0.3*ageOffset + float64(g.noise.UniformInt(-5, 5)),
		glucose:   90 + float64(g.noise.UniformInt(-10, 15)),
		weight:    70 + float64(g.noise.UniformInt(-15, 25)),
	}
}

// Generate returns days+1 samples, one per calendar day from today-days to
// today inclusive.
func (g *Generator) Generate(subject models.Subject, days int) (models.Series, error) {
	if err := validate(subject, days); err != nil {
		return nil, err
	}

	base := g.drawBaseline(subject.Age)
	start := midnight(g.now()).AddDate(0, 0, -days)

	series := make(models.Series, 0, days+1)
	for i := 0; i <= days; i++ {
		x := float64(i)
		sample := models.VitalSample{
			Date:         start.AddDate(0, 0, i),
			HeartRate:    base.heartRate + 5*math.Sin(0.1*x) + float64(g.noise.UniformInt(-5, 5)),
			Systolic:     base.systolic + 3*math.Sin(0.05*x) + float64(g.noise.UniformInt(-8, 8)),
			Diastolic:    base.diastolic + 2*math.Sin(0.05*x) + float64(g.noise.UniformInt(-5, 5)),
			BloodGlucose: base.glucose + 10*math.Sin(0.2*x) + float64(g.noise.UniformInt(-10, 15)),
			Weight:       base.weight + 0.01*x + g.noise.UniformFloat(-0.2, 0.2),
			SubjectName:  subject.Name,
		}
		series = append(series, clampSample(sample))
	}

	return series, nil
}

// Append adds a manually recorded sample on a calendar day after the last one.
// The date is truncated to midnight in the latest sample's location. Present
// channels are clamped; missing channels stay NaN.
func Append(series models.Series, sample models.VitalSample) (models.Series, error) {
	if sample.Date.IsZero() {
		return nil, apperr.InvalidArgument("sample date is required")
	}
	latest, hasLatest := series.Latest()
	if hasLatest {
		sample.Date = sample.Date.In(latest.Date.Location())
	}
	sample.Date = midnight(sample.Date)
	if hasLatest {
		if !sample.Date.After(midnight(latest.Date)) {
			return nil, apperr.InvalidArgument("sample date %s must be after latest sample %s",
				sample.Date.Format(time.DateOnly), latest.Date.Format(time.DateOnly))
		}
		if sample.SubjectName == "" {
			sample.SubjectName = latest.SubjectName
		}
	}

	out := make(models.Series, len(series), len(series)+1)
	copy(out, series)
	return append(out, clampSample(sample)), nil
}

func clampSample(s models.VitalSample) models.VitalSample {
	s.HeartRate = clampPresent(models.HeartRate, s.HeartRate)
	s.Systolic = clampPresent(models.Systolic, s.Systolic)
	s.Diastolic = clampPresent(models.Diastolic, s.Diastolic)
	s.BloodGlucose = clampPresent(models.BloodGlucose, s.BloodGlucose)
	s.Weight = clampPresent(models.Weight, s.Weight)
	return s
}

func clampPresent(c models.Channel, v float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	return Ranges[c].Clamp(v)
}

func validate(subject models.Subject, days int) error {
	if strings.TrimSpace(subject.Name) == "" {
		return apperr.InvalidArgument("subject name is required")
	}
	if subject.Age < 1 {
		return apperr.InvalidArgument("subject age must be at least 1, got %d", subject.Age)
	}
	if days < 1 {
		return apperr.InvalidArgument("day count must be at least 1, got %d", days)
	}
	if days > MaxDays {
		return apperr.InvalidArgument("day count must be at most %d, got %d", MaxDays, days)
	}
	return nil
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
