// Package pipeline reacts to patient events on the bus by warming the series
// cache and publishing an insights summary, so the first dashboard view of a
// new patient is served from cache.
package pipeline

import (
	"context"
	"math"
	"strings"

	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/analytics/health"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/common/apperr"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/common/kafka"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/common/logger"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/common/models"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/observability/metrics"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/patient"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/vitals"
	"github.com/sirupsen/logrus"
)

const eventSource = "insights-worker"

type Precomputer struct {
	cache     patient.SeriesCache
	generator *vitals.Generator
	engine    *health.Engine
	publisher kafka.Publisher
	days      int
}

func NewPrecomputer(cache patient.SeriesCache, generator *vitals.Generator, engine *health.Engine, publisher kafka.Publisher, days int) *Precomputer {
	if publisher == nil {
		publisher = kafka.NopPublisher{}
	}
	if days < 1 {
		days = vitals.DefaultDays
	}
	return &Precomputer{
		cache:     cache,
		generator: generator,
		engine:    engine,
		publisher: publisher,
		days:      days,
	}
}

// Handle is a kafka.EventHandler. Events other than patient.created are
// ignored, as are malformed payloads, which would never succeed on redelivery.
func (p *Precomputer) Handle(ctx context.Context, event models.Event) error {
	if event.Type != models.EventPatientCreated {
		return nil
	}

	subject, days, err := SubjectFromEvent(event)
	if err != nil {
		logger.Log.WithError(err).WithField("event_id", event.ID).Warn("Skipping malformed patient event")
		metrics.RecordEvent(event.Type, err)
		return nil
	}
	if days == 0 {
		days = p.days
	}

	err = p.precompute(ctx, subject, days)
	metrics.RecordEvent(event.Type, err)
	if apperr.IsInvalidArgument(err) {
		logger.Log.WithError(err).WithField("event_id", event.ID).Warn("Skipping invalid patient event")
		return nil
	}
	return err
}

func (p *Precomputer) precompute(ctx context.Context, subject models.Subject, days int) error {
	series, ok, err := p.cache.Get(ctx, subject.Name)
	if err != nil {
		return err
	}
	if !ok {
		series, err = p.generator.Generate(subject, days)
		if err != nil {
			return err
		}
		if err := p.cache.Set(ctx, subject.Name, series); err != nil {
			return err
		}
		metrics.RecordSeriesGenerated("precomputed")
	}

	report := p.engine.Analyze(series, subject.Name)

	logger.Log.WithFields(logrus.Fields{
		"patient": subject.Name,
		"samples": report.Samples,
		"risks":   len(report.Risks),
	}).Info("Insights precomputed")

	return p.publisher.PublishEvent(ctx, models.EventInsightsGenerated, eventSource, Summary(report))
}

// Summary is the insights.generated payload: counts and names, not the text.
func Summary(report health.Report) map[string]interface{} {
	risks := make([]string, len(report.Risks))
	for i, r := range report.Risks {
		risks[i] = r.Risk + "/" + string(r.Level)
	}
	categories := make([]string, len(report.Recommendations))
	for i, r := range report.Recommendations {
		categories[i] = r.Category
	}
	return map[string]interface{}{
		"name":                 report.Subject,
		"samples":              report.Samples,
		"risks":                risks,
		"recommendations":      categories,
		"recommendation_count": len(report.Recommendations),
		"generated_at":         report.GeneratedAt,
	}
}

// SubjectFromEvent reads name, age and the optional day count from a
// patient.created payload. JSON numbers arrive as float64.
func SubjectFromEvent(event models.Event) (models.Subject, int, error) {
	name, _ := event.Data["name"].(string)
	if strings.TrimSpace(name) == "" {
		return models.Subject{}, 0, apperr.InvalidArgument("event %s has no patient name", event.ID)
	}
	age, ok := number(event.Data["age"])
	if !ok {
		return models.Subject{}, 0, apperr.InvalidArgument("event %s has no patient age", event.ID)
	}
	days, _ := number(event.Data["days"])
	return models.Subject{Name: name, Age: age}, days, nil
}

func number(v interface{}) (int, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	default:
		return 0, false
	}
}
