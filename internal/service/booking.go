// internal/service/booking.go
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

type BookingService struct {
	bookings   repository.BookingRepositoryIface
	therapists repository.TherapistRepositoryIface
	patients   repository.PatientRepositoryIface
	slots      repository.AvailabilityRepositoryIface
}

func NewBookingService(
	bookings repository.BookingRepositoryIface,
	therapists repository.TherapistRepositoryIface,
	patients repository.PatientRepositoryIface,
	slots repository.AvailabilityRepositoryIface,
) *BookingService {
	return &BookingService{
		bookings:   bookings,
		therapists: therapists,
		patients:   patients,
		slots:      slots,
	}
}

// computeTotalCents prices a booking from the therapist's hourly rate and
// the session length, rounding half a cent up.
func computeTotalCents(hourlyRateCents int64, start, end time.Time) int64 {
	minutes := int64(end.Sub(start) / time.Minute)
	return (hourlyRateCents*minutes + 30) / 60
}

type CreateBookingInput struct {
	TherapistID uuid.UUID  `json:"therapist_id"`
	PatientID   *uuid.UUID `json:"patient_id"`
	SlotID      *uuid.UUID `json:"slot_id"`
	StartAt     time.Time  `json:"start_at"`
	EndAt       time.Time  `json:"end_at"`
}

// Create books a therapist for the half-open interval [StartAt, EndAt).
// Patients book for themselves; admins may book on behalf of any patient by
// naming patient_id. The price is frozen at creation from the therapist's
// current hourly rate.
func (s *BookingService) Create(ctx context.Context, actor Actor, orgID uuid.UUID, input CreateBookingInput) (*model.Booking, error) {
	if input.TherapistID == uuid.Nil {
		return nil, fmt.Errorf("%w: therapist_id is required", domain.ErrInvalidInput)
	}
	if input.StartAt.IsZero() || input.EndAt.IsZero() {
		return nil, fmt.Errorf("%w: start_at and end_at are required", domain.ErrInvalidInput)
	}
	if !input.EndAt.After(input.StartAt) {
		return nil, fmt.Errorf("%w: end_at must be after start_at", domain.ErrInvalidInput)
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

	if input.SlotID != nil {
		slot, err := s.slots.FindByID(ctx, orgID, *input.SlotID)
		if err != nil {
			return nil, err
		}
		if slot.TherapistID != therapist.ID {
			return nil, fmt.Errorf("%w: slot does not belong to the therapist", domain.ErrInvalidInput)
		}
	}

	booking := &model.Booking{
		TherapistID: therapist.ID,
		PatientID:   patient.ID,
		SlotID:      input.SlotID,
		StartAt:     input.StartAt,
		EndAt:       input.EndAt,
		Status:      model.BookingRequested,
		HourlyRate:  therapist.HourlyRate,
		TotalAmount: computeTotalCents(therapist.HourlyRate, input.StartAt, input.EndAt),
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

type ListBookingsInput struct {
	Status      *model.BookingStatus
	TherapistID *uuid.UUID
	PatientID   *uuid.UUID
}

// List returns the bookings the actor is allowed to see. Admins see the
// whole organization; therapists and patients only their own rows.
func (s *BookingService) List(ctx context.Context, actor Actor, orgID uuid.UUID, input ListBookingsInput) ([]*model.Booking, error) {
	filter := repository.BookingFilter{
		Status:      input.Status,
		TherapistID: input.TherapistID,
		PatientID:   input.PatientID,
	}

	switch actor.Role {
	case model.OrgRoleTherapist:
		filter.TherapistUserID = &actor.UserID
	case model.OrgRolePatient:
		filter.PatientUserID = &actor.UserID
	}

	return s.bookings.List(ctx, orgID, filter)
}

// Get returns a booking if the actor is one of its parties or an admin.
// Non-parties get not-found rather than forbidden so booking existence does
// not leak.
func (s *BookingService) Get(ctx context.Context, actor Actor, orgID, id uuid.UUID) (*model.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if !s.isParty(actor, booking) {
		return nil, domain.ErrBookingNotFound
	}
	return booking, nil
}

// Transition moves a booking along the lifecycle. Permission is checked
// before state validity: confirm and complete belong to the booking's
// therapist or an admin; cancel belongs to either party or an admin.
func (s *BookingService) Transition(ctx context.Context, actor Actor, orgID, id uuid.UUID, next model.BookingStatus) (*model.Booking, error) {
	if !next.Valid() || next == model.BookingRequested {
		return nil, fmt.Errorf("%w: status must be one of confirmed, completed, cancelled", domain.ErrInvalidInput)
	}

	booking, err := s.bookings.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if !s.isParty(actor, booking) {
		return nil, domain.ErrBookingNotFound
	}

	switch next {
	case model.BookingConfirmed, model.BookingCompleted:
		if !actor.IsAdmin() && booking.Therapist.UserID != actor.UserID {
			return nil, domain.ErrAccessDenied
		}
	case model.BookingCancelled:
		// Any party may cancel.
	}

	if !booking.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: cannot move booking from %s to %s", domain.ErrInvalidTransition, booking.Status, next)
	}

	return s.bookings.UpdateStatus(ctx, id, next)
}

func (s *BookingService) isParty(actor Actor, booking *model.Booking) bool {
	if actor.IsAdmin() {
		return true
	}
	return booking.Therapist.UserID == actor.UserID || booking.Patient.UserID == actor.UserID
}
