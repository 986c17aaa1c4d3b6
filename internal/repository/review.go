// internal/repository/review.go
package repository

import (
	"context"
	"fmt"

	"github.com/clearmind-health/clearmind/internal/domain"
	"github.com/clearmind-health/clearmind/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewFilter struct {
	TherapistID     *uuid.UUID
	PatientID       *uuid.UUID
	TherapistUserID *uuid.UUID
	PatientUserID   *uuid.UUID
}

type ReviewRepositoryIface interface {
	Create(ctx context.Context, review *model.Review) error
	List(ctx context.Context, orgID uuid.UUID, filter ReviewFilter) ([]*model.Review, error)
}

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create relies on the unique (therapist_id, patient_id) constraint: a
// second review for the same pair fails and leaves the first untouched.
func (r *ReviewRepository) Create(ctx context.Context, review *model.Review) error {
	result := r.db.WithContext(ctx).Create(review)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return domain.ErrDuplicateReview
		}
		return fmt.Errorf("failed to create review: %w", result.Error)
	}
	return nil
}

func (r *ReviewRepository) List(ctx context.Context, orgID uuid.UUID, filter ReviewFilter) ([]*model.Review, error) {
	q := r.db.WithContext(ctx).
		Joins("Therapist").
		Joins("Patient").
		Where(`"Therapist".organization_id = ? AND "Patient".organization_id = ?`, orgID, orgID)

	if filter.TherapistID != nil {
		q = q.Where("reviews.therapist_id = ?", *filter.TherapistID)
	}
	if filter.PatientID != nil {
		q = q.Where("reviews.patient_id = ?", *filter.PatientID)
	}
	if filter.TherapistUserID != nil {
		q = q.Where(`"Therapist".user_id = ?`, *filter.TherapistUserID)
	}
	if filter.PatientUserID != nil {
		q = q.Where(`"Patient".user_id = ?`, *filter.PatientUserID)
	}

	var reviews []*model.Review
	result := q.Order("reviews.created_at DESC").Find(&reviews)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", result.Error)
	}
	return reviews, nil
}
