// internal/service/therapist.go
package service

import (
	"context"
	"fmt"

	"github.com/clearmind-health/clearmind/internal/domain"
	"github.com/clearmind-health/clearmind/internal/model"
	"github.com/clearmind-health/clearmind/internal/repository"
	"github.com/google/uuid"
)

type TherapistService struct {
	therapists repository.TherapistRepositoryIface
}

func NewTherapistService(therapists repository.TherapistRepositoryIface) *TherapistService {
	return &TherapistService{therapists: therapists}
}

// List returns the organization's therapists, optionally filtered by
// verification status.
func (s *TherapistService) List(ctx context.Context, orgID uuid.UUID, verification string) ([]*model.Therapist, error) {
	var filter *model.VerificationStatus
	if verification != "" {
		status := model.VerificationStatus(verification)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: verification must be one of pending, verified, rejected", domain.ErrInvalidInput)
		}
		filter = &status
	}
	return s.therapists.ListByOrganization(ctx, orgID, filter)
}

func (s *TherapistService) Get(ctx context.Context, orgID, id uuid.UUID) (*model.Therapist, error) {
	return s.therapists.FindByID(ctx, orgID, id)
}

type UpdateTherapistInput struct {
	Name           *string `json:"name"`
	Age            *int16  `json:"age"`
	Gender         *string `json:"gender"`
	ProfilePicture *string `json:"profile_picture"`
	Description    *string `json:"description"`
	Qualification  *string `json:"qualification"`
	PhoneNumber    *string `json:"phone_number"`
	Location       *string `json:"location"`
	HourlyRate     *int64  `json:"hourly_rate_cents"`
	Verification   *string `json:"verification"`
}

// Update applies a partial update to a therapist profile. Therapists may
// edit their own profile but only admins can touch the verification status.
func (s *TherapistService) Update(ctx context.Context, actor Actor, orgID, id uuid.UUID, input UpdateTherapistInput) (*model.Therapist, error) {
	therapist, err := s.therapists.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() && therapist.UserID != actor.UserID {
		return nil, domain.ErrAccessDenied
	}

	if input.Verification != nil {
		if !actor.IsAdmin() {
			return nil, domain.ErrAccessDenied
		}
		status := model.VerificationStatus(*input.Verification)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: verification must be one of pending, verified, rejected", domain.ErrInvalidInput)
		}
		therapist.Verification = status
	}

	if input.Gender != nil {
		gender, err := parseGender(input.Gender)
		if err != nil {
			return nil, err
		}
		therapist.Gender = gender
	}

	if input.Name != nil {
		therapist.Name = *input.Name
	}
	if input.Age != nil {
		therapist.Age = input.Age
	}
	if input.ProfilePicture != nil {
		therapist.ProfilePicture = *input.ProfilePicture
	}
	if input.Description != nil {
		therapist.Description = *input.Description
	}
	if input.Qualification != nil {
		therapist.Qualification = *input.Qualification
	}
	if input.PhoneNumber != nil {
		therapist.PhoneNumber = *input.PhoneNumber
	}
	if input.Location != nil {
		therapist.Location = *input.Location
	}
	if input.HourlyRate != nil {
		if *input.HourlyRate < 0 {
			return nil, fmt.Errorf("%w: hourly rate must not be negative", domain.ErrInvalidInput)
		}
		therapist.HourlyRate = *input.HourlyRate
	}

	if err := s.therapists.Update(ctx, therapist); err != nil {
		return nil, err
	}
	return therapist, nil
}

// SetVerification moves a therapist through the verification workflow.
// Admin only; the route gate enforces that, this is the backstop.
func (s *TherapistService) SetVerification(ctx context.Context, actor Actor, orgID, id uuid.UUID, verification string) (*model.Therapist, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrAccessDenied
	}
	status := model.VerificationStatus(verification)
	if !status.Valid() {
		return nil, fmt.Errorf("%w: verification must be one of pending, verified, rejected", domain.ErrInvalidInput)
	}
	return s.therapists.SetVerification(ctx, orgID, id, status)
}
