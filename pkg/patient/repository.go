package patient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/common/apperr"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/common/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Repository is the Postgres-backed Store.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type PatientModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name           string    `gorm:"uniqueIndex;not null"`
	Age            int
	Gender         string
	MedicalHistory string
	Metadata       datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (PatientModel) TableName() string {
	return "patients"
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&PatientModel{})
}

func (r *Repository) Create(ctx context.Context, subject models.Subject) error {
	var existing int64
	if err := r.db.WithContext(ctx).Model(&PatientModel{}).Where("name = ?", subject.Name).Count(&existing).Error; err != nil {
		return fmt.Errorf("checking patient %q: %w", subject.Name, err)
	}
	if existing > 0 {
		return apperr.Conflict("patient %q already exists", subject.Name)
	}

	now := time.Now().UTC()
	record := PatientModel{
		ID:             uuid.New(),
		Name:           subject.Name,
		Age:            subject.Age,
		Gender:         subject.Gender,
		MedicalHistory: subject.MedicalHistory,
		Metadata:       toJSONMap(subject.Metadata),
		CreatedAt:      subject.CreatedAt,
		UpdatedAt:      now,
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}

	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("creating patient %q: %w", subject.Name, err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, name string) (models.Subject, error) {
	record, err := r.find(ctx, name)
	if err != nil {
		return models.Subject{}, err
	}
	return mapPatientModel(record), nil
}

func (r *Repository) List(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&PatientModel{}).Order("name ASC").Pluck("name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("listing patients: %w", err)
	}
	return names, nil
}

func (r *Repository) Update(ctx context.Context, name string, update models.SubjectUpdate) (models.Subject, error) {
	if err := validateUpdate(update); err != nil {
		return models.Subject{}, err
	}

	var updated models.Subject
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record PatientModel
		err := tx.Where("name = ?", name).First(&record).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("patient", name)
		}
		if err != nil {
			return err
		}

		updated = applyUpdate(mapPatientModel(record), update)
		return tx.Model(&PatientModel{}).Where("id = ?", record.ID).Updates(map[string]interface{}{
			"age":             updated.Age,
			"gender":          updated.Gender,
			"medical_history": updated.MedicalHistory,
			"metadata":        toJSONMap(updated.Metadata),
			"updated_at":      time.Now().UTC(),
		}).Error
	})
	if err != nil {
		return models.Subject{}, err
	}
	return updated, nil
}

func (r *Repository) Delete(ctx context.Context, name string) error {
	result := r.db.WithContext(ctx).Where("name = ?", name).Delete(&PatientModel{})
	if result.Error != nil {
		return fmt.Errorf("deleting patient %q: %w", name, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("patient", name)
	}
	return nil
}

func (r *Repository) find(ctx context.Context, name string) (PatientModel, error) {
	var record PatientModel
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return PatientModel{}, apperr.NotFound("patient", name)
	}
	if err != nil {
		return PatientModel{}, fmt.Errorf("loading patient %q: %w", name, err)
	}
	return record, nil
}

func mapPatientModel(record PatientModel) models.Subject {
	var meta map[string]string
	if len(record.Metadata) > 0 {
		meta = make(map[string]string, len(record.Metadata))
		for k, v := range record.Metadata {
			meta[k] = fmt.Sprint(v)
		}
	}
	return models.Subject{
		Name:           record.Name,
		Age:            record.Age,
		Gender:         record.Gender,
		MedicalHistory: record.MedicalHistory,
		Metadata:       meta,
		CreatedAt:      record.CreatedAt,
	}
}

func toJSONMap(meta map[string]string) datatypes.JSONMap {
	if len(meta) == 0 {
		return datatypes.JSONMap{}
	}
	out := make(datatypes.JSONMap, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out
}
