// Package patient owns subject profiles and their vital-sign series. Profiles
// live in a Store and series in a SeriesCache; both have an in-memory default
// and a networked implementation selected by configuration.
package patient

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/common/apperr"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/common/models"
)

const (
	MinAge = 1
	MaxAge = 120
)

type Store interface {
	Create(ctx context.Context, subject models.Subject) error
	Get(ctx context.Context, name string) (models.Subject, error)
	List(ctx context.Context) ([]string, error)
	Update(ctx context.Context, name string, update models.SubjectUpdate) (models.Subject, error)
	Delete(ctx context.Context, name string) error
}

type MemoryStore struct {
	mu       sync.RWMutex
	subjects map[string]models.Subject
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{subjects: make(map[string]models.Subject)}
}

func (s *MemoryStore) Create(_ context.Context, subject models.Subject) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.subjects[subject.Name]; exists {
		return apperr.Conflict("patient %q already exists", subject.Name)
	}
	s.subjects[subject.Name] = copySubject(subject)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, name string) (models.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	subject, ok := s.subjects[name]
	if !ok {
		return models.Subject{}, apperr.NotFound("patient", name)
	}
	return copySubject(subject), nil
}

// List returns patient names in ascending order.
func (s *MemoryStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.subjects))
	for name := range s.subjects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *MemoryStore) Update(_ context.Context, name string, update models.SubjectUpdate) (models.Subject, error) {
	if err := validateUpdate(update); err != nil {
		return models.Subject{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	subject, ok := s.subjects[name]
	if !ok {
		return models.Subject{}, apperr.NotFound("patient", name)
	}
	subject = applyUpdate(copySubject(subject), update)
	s.subjects[name] = subject
	return copySubject(subject), nil
}

func (s *MemoryStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subjects[name]; !ok {
		return apperr.NotFound("patient", name)
	}
	delete(s.subjects, name)
	return nil
}

func validateSubject(subject models.Subject) error {
	if strings.TrimSpace(subject.Name) == "" {
		return apperr.InvalidArgument("patient name is required")
	}
	return validateAge(subject.Age)
}

func validateUpdate(update models.SubjectUpdate) error {
	if update.Age != nil {
		return validateAge(*update.Age)
	}
	return nil
}

func validateAge(age int) error {
	if age < MinAge || age > MaxAge {
		return apperr.InvalidArgument("patient age must be between %d and %d, got %d", MinAge, MaxAge, age)
	}
	return nil
}

func applyUpdate(subject models.Subject, update models.SubjectUpdate) models.Subject {
	if update.Age != nil {
		subject.Age = *update.Age
	}
	if update.Gender != nil {
		subject.Gender = *update.Gender
	}
	if update.MedicalHistory != nil {
		subject.MedicalHistory = *update.MedicalHistory
	}
	if len(update.Metadata) > 0 {
		if subject.Metadata == nil {
			subject.Metadata = make(map[string]string, len(update.Metadata))
		}
		for k, v := range update.Metadata {
			subject.Metadata[k] = v
		}
	}
	return subject
}

func copySubject(subject models.Subject) models.Subject {
	if subject.Metadata != nil {
		meta := make(map[string]string, len(subject.Metadata))
		for k, v := range subject.Metadata {
			meta[k] = v
		}
		subject.Metadata = meta
	}
	return subject
}
