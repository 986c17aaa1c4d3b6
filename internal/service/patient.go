// internal/service/patient.go
package service

import (
	"context"

	"github.com/clearmind-health/clearmind/internal/domain"
	"github.com/clearmind-health/clearmind/internal/model"
	"github.com/clearmind-health/clearmind/internal/repository"
	"github.com/google/uuid"
)

type PatientService struct {
	patients repository.PatientRepositoryIface
}

func NewPatientService(patients repository.PatientRepositoryIface) *PatientService {
	return &PatientService{patients: patients}
}

func (s *PatientService) List(ctx context.Context, orgID uuid.UUID) ([]*model.Patient, error) {
	return s.patients.ListByOrganization(ctx, orgID)
}

func (s *PatientService) Get(ctx context.Context, orgID, id uuid.UUID) (*model.Patient, error) {
	return s.patients.FindByID(ctx, orgID, id)
}

type UpdatePatientInput struct {
	UserName    *string `json:"user_name"`
	PhoneNumber *string `json:"phone_number"`
	Gender      *string `json:"gender"`
	Age         *int16  `json:"age"`
	PrefGender  *string `json:"pref_gender"`
	Description *string `json:"description"`
}

// Update applies a partial update. Patients may edit their own profile,
// admins anyone's.
func (s *PatientService) Update(ctx context.Context, actor Actor, orgID, id uuid.UUID, input UpdatePatientInput) (*model.Patient, error) {
	patient, err := s.patients.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() && patient.UserID != actor.UserID {
		return nil, domain.ErrAccessDenied
	}

	if input.Gender != nil {
		gender, err := parseGender(input.Gender)
		if err != nil {
			return nil, err
		}
		patient.Gender = gender
	}
	if input.PrefGender != nil {
		prefGender, err := parseGender(input.PrefGender)
		if err != nil {
			return nil, err
		}
		patient.PrefGender = prefGender
	}

	if input.UserName != nil {
		patient.UserName = *input.UserName
	}
	if input.PhoneNumber != nil {
		patient.PhoneNumber = *input.PhoneNumber
	}
	if input.Age != nil {
		patient.Age = input.Age
	}
	if input.Description != nil {
		patient.Description = *input.Description
	}

	if err := s.patients.Update(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}
