// internal/repository/patient.go
package repository

import (
	"context"
	"fmt"

	"github.com/clearmind-health/clearmind/internal/domain"
	"github.com/clearmind-health/clearmind/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientRepositoryIface interface {
	WithTx(tx Transaction) PatientRepositoryIface

	Create(ctx context.Context, patient *model.Patient) error
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*model.Patient, error)
	FindByUser(ctx context.Context, orgID, userID uuid.UUID) (*model.Patient, error)
	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*model.Patient, error)
	Update(ctx context.Context, patient *model.Patient) error
}

type PatientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

func (r *PatientRepository) WithTx(tx Transaction) PatientRepositoryIface {
	return &PatientRepository{db: txDB(tx, r.db)}
}

func (r *PatientRepository) Create(ctx context.Context, patient *model.Patient) error {
	result := r.db.WithContext(ctx).Create(patient)
	if result.Error != nil {
		return fmt.Errorf("failed to create patient: %w", result.Error)
	}
	return nil
}

func (r *PatientRepository) FindByID(ctx context.Context, orgID, id uuid.UUID) (*model.Patient, error) {
	var patient model.Patient
	result := r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, orgID).
		First(&patient)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, domain.ErrPatientNotFound
		}
		return nil, fmt.Errorf("failed to find patient: %w", result.Error)
	}
	return &patient, nil
}

func (r *PatientRepository) FindByUser(ctx context.Context, orgID, userID uuid.UUID) (*model.Patient, error) {
	var patient model.Patient
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND organization_id = ?", userID, orgID).
		First(&patient)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, domain.ErrPatientNotFound
		}
		return nil, fmt.Errorf("failed to find patient: %w", result.Error)
	}
	return &patient, nil
}

func (r *PatientRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*model.Patient, error) {
	var patients []*model.Patient
	result := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("created_at").
		Find(&patients)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list patients: %w", result.Error)
	}
	return patients, nil
}

func (r *PatientRepository) Update(ctx context.Context, patient *model.Patient) error {
	result := r.db.WithContext(ctx).Save(patient)
	if result.Error != nil {
		return fmt.Errorf("failed to update patient: %w", result.Error)
	}
	return nil
}
