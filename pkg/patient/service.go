package patient

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/common/kafka"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/common/logger"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/common/models"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/observability/metrics"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/vitals"
	"github.com/sirupsen/logrus"
)

const eventSource = "patient-service"

type Service struct {
	store     Store
	cache     SeriesCache
	generator *vitals.Generator
	publisher kafka.Publisher
	days      int
	now       func() time.Time

	// seriesMu serialises read-modify-write cycles on cached series.
	seriesMu sync.Mutex
}

func NewService(store Store, cache SeriesCache, generator *vitals.Generator, publisher kafka.Publisher, days int) *Service {
	if publisher == nil {
		publisher = kafka.NopPublisher{}
	}
	if days < 1 || days > vitals.MaxDays {
		days = vitals.DefaultDays
	}
	return &Service{
		store:     store,
		cache:     cache,
		generator: generator,
		publisher: publisher,
		days:      days,
		now:       time.Now,
	}
}

// CreatePatient stores a new subject and seeds its series. The subject is
// removed again when the series cannot be cached, so a retry can succeed.
func (s *Service) CreatePatient(ctx context.Context, subject models.Subject) (models.Subject, error) {
	subject.Name = strings.TrimSpace(subject.Name)
	if err := validateSubject(subject); err != nil {
		return models.Subject{}, err
	}
	subject.CreatedAt = s.now().UTC()

	if err := s.store.Create(ctx, subject); err != nil {
		return models.Subject{}, err
	}

	if _, err := s.generate(ctx, subject, s.days); err != nil {
		if delErr := s.store.Delete(ctx, subject.Name); delErr != nil {
			logger.Log.WithError(delErr).WithField("patient", subject.Name).Error("Failed to roll back patient")
		}
		return models.Subject{}, err
	}

	s.publish(ctx, models.EventPatientCreated, map[string]interface{}{
		"name": subject.Name,
		"age":  subject.Age,
		"days": s.days,
	})

	logger.Log.WithFields(logrus.Fields{
		"patient": subject.Name,
		"age":     subject.Age,
	}).Info("Patient created")

	return subject, nil
}

func (s *Service) GetPatient(ctx context.Context, name string) (models.Subject, error) {
	return s.store.Get(ctx, name)
}

func (s *Service) ListPatients(ctx context.Context) ([]string, error) {
	return s.store.List(ctx)
}

// UpdatePatient edits the mutable profile fields. The name is the key and
// cannot change.
func (s *Service) UpdatePatient(ctx context.Context, name string, update models.SubjectUpdate) (models.Subject, error) {
	return s.store.Update(ctx, name, update)
}

// Series returns the cached series, generating one on a miss.
func (s *Service) Series(ctx context.Context, name string) (models.Series, error) {
	subject, err := s.store.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	s.seriesMu.Lock()
	defer s.seriesMu.Unlock()
	return s.cachedOrGenerated(ctx, subject)
}

// RegenerateSeries replaces the series with a fresh one spanning days.
func (s *Service) RegenerateSeries(ctx context.Context, name string, days int) (models.Series, error) {
	subject, err := s.store.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if days == 0 {
		days = s.days
	}

	s.seriesMu.Lock()
	defer s.seriesMu.Unlock()
	return s.generate(ctx, subject, days)
}

// RecordVitals appends a manually entered sample to the patient's series.
func (s *Service) RecordVitals(ctx context.Context, name string, sample models.VitalSample) (models.Series, error) {
	subject, err := s.store.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	sample.SubjectName = subject.Name

	s.seriesMu.Lock()
	defer s.seriesMu.Unlock()

	series, err := s.cachedOrGenerated(ctx, subject)
	if err != nil {
		return nil, err
	}
	series, err = vitals.Append(series, sample)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, subject.Name, series); err != nil {
		return nil, err
	}
	metrics.RecordSeriesGenerated("recorded")
	return series, nil
}

func (s *Service) cachedOrGenerated(ctx context.Context, subject models.Subject) (models.Series, error) {
	series, ok, err := s.cache.Get(ctx, subject.Name)
	if err != nil {
		return nil, err
	}
	if ok {
		return series, nil
	}
	return s.generate(ctx, subject, s.days)
}

func (s *Service) generate(ctx context.Context, subject models.Subject, days int) (models.Series, error) {
	series, err := s.generator.Generate(subject, days)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, subject.Name, series); err != nil {
		return nil, fmt.Errorf("storing series: %w", err)
	}
	metrics.RecordSeriesGenerated("generated")

	s.publish(ctx, models.EventVitalsGenerated, map[string]interface{}{
		"name":    subject.Name,
		"samples": len(series),
	})
	return series, nil
}

// publish is best effort: the bus is a side channel and never fails a request.
func (s *Service) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if err := s.publisher.PublishEvent(ctx, eventType, eventSource, data); err != nil {
		logger.Log.WithError(err).WithField("event_type", eventType).Warn("Failed to publish event")
	}
}
