// internal/service/review.go
package service

import (
	"context"
	"fmt"

	"github.com/clearmind-health/clearmind/internal/domain"
	"github.com/clearmind-health/clearmind/internal/model"
	"github.com/clearmind-health/clearmind/internal/repository"
	"github.com/google/uuid"
)

type ReviewService struct {
	reviews    repository.ReviewRepositoryIface
	therapists repository.TherapistRepositoryIface
	patients   repository.PatientRepositoryIface
}

func NewReviewService(
	reviews repository.ReviewRepositoryIface,
	therapists repository.TherapistRepositoryIface,
	patients repository.PatientRepositoryIface,
) *ReviewService {
	return &ReviewService{reviews: reviews, therapists: therapists, patients: patients}
}

type CreateReviewInput struct {
	TherapistID uuid.UUID  `json:"therapist_id"`
	PatientID   *uuid.UUID `json:"patient_id"`
	Rating      int16      `json:"rating"`
	Comment     string     `json:"comment"`
}

// Create records a patient's review of a therapist. Patients review as
// themselves; admins may file on behalf of a patient. A second review of the
// same therapist by the same patient is rejected and the first stands.
func (s *ReviewService) Create(ctx context.Context, actor Actor, orgID uuid.UUID, input CreateReviewInput) (*model.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", domain.ErrInvalidInput)
	}

	therapist, err := s.therapists.FindByID(ctx, orgID, input.TherapistID)
	if err != nil {
		return nil, err
	}

	var patient *model.Patient
	if actor.IsAdmin() && input.PatientID != nil {
		patient, err = s.patients.FindByID(ctx, orgID, *input.PatientID)
	} else {
		patient, err = s.patients.FindByUser(ctx, orgID, actor.UserID)
	}
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && input.PatientID != nil && *input.PatientID != patient.ID {
		return nil, domain.ErrAccessDenied
	}

	review := &model.Review{
		TherapistID: therapist.ID,
		PatientID:   patient.ID,
		Rating:      input.Rating,
		Comment:     input.Comment,
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

type ListReviewsInput struct {
	TherapistID *uuid.UUID
	PatientID   *uuid.UUID
}

func (s *ReviewService) List(ctx context.Context, orgID uuid.UUID, input ListReviewsInput) ([]*model.Review, error) {
	return s.reviews.List(ctx, orgID, repository.ReviewFilter{
		TherapistID: input.TherapistID,
		PatientID:   input.PatientID,
	})
}
