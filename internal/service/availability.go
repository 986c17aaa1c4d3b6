// internal/service/availability.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/clearmind-health/clearmind/internal/domain"
	"github.com/clearmind-health/clearmind/internal/model"
	"github.com/clearmind-health/clearmind/internal/repository"
	"github.com/google/uuid"
)

type AvailabilityService struct {
	slots      repository.AvailabilityRepositoryIface
	therapists repository.TherapistRepositoryIface
}

func NewAvailabilityService(
	slots repository.AvailabilityRepositoryIface,
	therapists repository.TherapistRepositoryIface,
) *AvailabilityService {
	return &AvailabilityService{slots: slots, therapists: therapists}
}

type CreateSlotInput struct {
	TherapistID  *uuid.UUID `json:"therapist_id"`
	DayOfWeek    *int16     `json:"day_of_week"`
	StartTime    string     `json:"start_time"`
	EndTime      string     `json:"end_time"`
	DateOverride *string    `json:"date_override"`
}

// Create adds an availability slot. Therapists create slots for their own
// profile; admins may name any therapist in the organization.
func (s *AvailabilityService) Create(ctx context.Context, actor Actor, orgID uuid.UUID, input CreateSlotInput) (*model.AvailabilitySlot, error) {
	var therapist *model.Therapist
	var err error

	switch {
	case actor.IsAdmin():
		if input.TherapistID == nil {
			return nil, fmt.Errorf("%w: therapist_id is required", domain.ErrInvalidInput)
		}
		therapist, err = s.therapists.FindByID(ctx, orgID, *input.TherapistID)
	default:
		therapist, err = s.therapists.FindByUser(ctx, orgID, actor.UserID)
		if err == nil && input.TherapistID != nil && *input.TherapistID != therapist.ID {
			return nil, domain.ErrAccessDenied
		}
	}
	if err != nil {
		return nil, err
	}

	if input.DayOfWeek == nil && input.DateOverride == nil {
		return nil, fmt.Errorf("%w: either day_of_week or date_override is required", domain.ErrInvalidInput)
	}
	if input.DayOfWeek != nil && (*input.DayOfWeek < 0 || *input.DayOfWeek > 6) {
		return nil, fmt.Errorf("%w: day_of_week must be between 0 and 6", domain.ErrInvalidInput)
	}
	if input.StartTime == "" || input.EndTime == "" {
		return nil, fmt.Errorf("%w: start_time and end_time are required", domain.ErrInvalidInput)
	}
	if _, err := time.Parse("15:04", input.StartTime); err != nil {
		return nil, fmt.Errorf("%w: start_time must be HH:MM", domain.ErrInvalidInput)
	}
	if _, err := time.Parse("15:04", input.EndTime); err != nil {
		return nil, fmt.Errorf("%w: end_time must be HH:MM", domain.ErrInvalidInput)
	}
	if input.EndTime <= input.StartTime {
		return nil, fmt.Errorf("%w: end_time must be after start_time", domain.ErrInvalidInput)
	}

	var dateOverride *time.Time
	if input.DateOverride != nil {
		parsed, err := time.Parse("2006-01-02", *input.DateOverride)
		if err != nil {
			return nil, fmt.Errorf("%w: date_override must be YYYY-MM-DD", domain.ErrInvalidInput)
		}
		dateOverride = &parsed
	}

	slot := &model.AvailabilitySlot{
		TherapistID:  therapist.ID,
		DayOfWeek:    input.DayOfWeek,
		StartTime:    input.StartTime,
		EndTime:      input.EndTime,
		DateOverride: dateOverride,
	}

	if err := s.slots.Create(ctx, slot); err != nil {
		return nil, err
	}
	return slot, nil
}

type ListSlotsInput struct {
	TherapistID *uuid.UUID
	Date        *time.Time
}

func (s *AvailabilityService) List(ctx context.Context, orgID uuid.UUID, input ListSlotsInput) ([]*model.AvailabilitySlot, error) {
	return s.slots.ListByOrganization(ctx, orgID, repository.AvailabilityFilter{
		TherapistID: input.TherapistID,
		Date:        input.Date,
	})
}

// Delete removes a slot. Therapists may only remove their own.
func (s *AvailabilityService) Delete(ctx context.Context, actor Actor, orgID, id uuid.UUID) error {
	slot, err := s.slots.FindByID(ctx, orgID, id)
	if err != nil {
		return err
	}

	if !actor.IsAdmin() {
		therapist, err := s.therapists.FindByUser(ctx, orgID, actor.UserID)
		if err != nil {
			return domain.ErrAccessDenied
		}
		if slot.TherapistID != therapist.ID {
			return domain.ErrAccessDenied
		}
	}

	return s.slots.Delete(ctx, id)
}
