// internal/repository/therapist.go
package repository

import (
	"context"
	"fmt"

	"github.com/clearmind-health/clearmind/internal/domain"
	"github.com/clearmind-health/clearmind/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TherapistRepositoryIface interface {
	WithTx(tx Transaction) TherapistRepositoryIface

	Create(ctx context.Context, therapist *model.Therapist) error
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*model.Therapist, error)
	FindByUser(ctx context.Context, orgID, userID uuid.UUID) (*model.Therapist, error)
	ListByOrganization(ctx context.Context, orgID uuid.UUID, verification *model.VerificationStatus) ([]*model.Therapist, error)
	Update(ctx context.Context, therapist *model.Therapist) error
	SetVerification(ctx context.Context, orgID, id uuid.UUID, status model.VerificationStatus) (*model.Therapist, error)
}

type TherapistRepository struct {
	db *gorm.DB
}

func NewTherapistRepository(db *gorm.DB) *TherapistRepository {
	return &TherapistRepository{db: db}
}

func (r *TherapistRepository) WithTx(tx Transaction) TherapistRepositoryIface {
	return &TherapistRepository{db: txDB(tx, r.db)}
}

func (r *TherapistRepository) Create(ctx context.Context, therapist *model.Therapist) error {
	result := r.db.WithContext(ctx).Create(therapist)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("failed to create therapist: %w", result.Error)
	}
	return nil
}

// FindByID scopes the lookup to the organization so that a guessed ID from
// another tenant resolves to not-found rather than leaking existence.
func (r *TherapistRepository) FindByID(ctx context.Context, orgID, id uuid.UUID) (*model.Therapist, error) {
	var therapist model.Therapist
	result := r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, orgID).
		First(&therapist)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, domain.ErrTherapistNotFound
		}
		return nil, fmt.Errorf("failed to find therapist: %w", result.Error)
	}
	return &therapist, nil
}

func (r *TherapistRepository) FindByUser(ctx context.Context, orgID, userID uuid.UUID) (*model.Therapist, error) {
	var therapist model.Therapist
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND organization_id = ?", userID, orgID).
		First(&therapist)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, domain.ErrTherapistNotFound
		}
		return nil, fmt.Errorf("failed to find therapist: %w", result.Error)
	}
	return &therapist, nil
}

func (r *TherapistRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID, verification *model.VerificationStatus) ([]*model.Therapist, error) {
	q := r.db.WithContext(ctx).Where("organization_id = ?", orgID)
	if verification != nil {
		q = q.Where("verification = ?", *verification)
	}

	var therapists []*model.Therapist
	result := q.Order("created_at").Find(&therapists)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list therapists: %w", result.Error)
	}
	return therapists, nil
}

func (r *TherapistRepository) Update(ctx context.Context, therapist *model.Therapist) error {
	result := r.db.WithContext(ctx).Save(therapist)
	if result.Error != nil {
		return fmt.Errorf("failed to update therapist: %w", result.Error)
	}
	return nil
}

func (r *TherapistRepository) SetVerification(ctx context.Context, orgID, id uuid.UUID, status model.VerificationStatus) (*model.Therapist, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Therapist{}).
		Where("id = ? AND organization_id = ?", id, orgID).
		Update("verification", status)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update verification: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrTherapistNotFound
	}
	return r.FindByID(ctx, orgID, id)
}
