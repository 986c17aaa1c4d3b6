// internal/model/booking.go
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingRequested BookingStatus = "requested"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingRequested, BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed from s.
func (s BookingStatus) Terminal() bool {
	return s == BookingCancelled || s == BookingCompleted
}

// CanTransitionTo encodes the booking state machine:
// requested -> confirmed -> completed, with cancellation allowed from
// requested or confirmed. Cancelled and completed are terminal.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	if s.Terminal() {
		return false
	}
	switch next {
	case BookingConfirmed:
		return s == BookingRequested
	case BookingCompleted:
		return s == BookingConfirmed
	case BookingCancelled:
		return s == BookingRequested || s == BookingConfirmed
	}
	return false
}

// ActiveBookingStatuses are the statuses that occupy a therapist's time and
// participate in conflict detection.
var ActiveBookingStatuses = []BookingStatus{BookingRequested, BookingConfirmed}

// Booking links a therapist and a patient to a concrete half-open time
// interval [StartAt, EndAt). Rows are never deleted; cancellation is a
// status transition.
type Booking struct {
	ID          uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TherapistID uuid.UUID     `gorm:"type:uuid;not null;index" json:"therapist_id"`
	PatientID   uuid.UUID     `gorm:"type:uuid;not null;index" json:"patient_id"`
	SlotID      *uuid.UUID    `gorm:"type:uuid" json:"slot_id,omitempty"`
	StartAt     time.Time     `gorm:"not null" json:"start_at"`
	EndAt       time.Time     `gorm:"not null" json:"end_at"`
	Status      BookingStatus `gorm:"type:booking_status;not null;default:'requested'" json:"status"`
	HourlyRate  int64         `gorm:"not null" json:"hourly_rate_cents"`
	TotalAmount int64         `gorm:"not null" json:"total_amount_cents"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	Therapist Therapist `gorm:"foreignKey:TherapistID" json:"therapist,omitempty"`
	Patient   Patient   `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Status == "" {
		b.Status = BookingRequested
	}
	if !b.Status.Valid() {
		return fmt.Errorf("invalid booking status: %s", b.Status)
	}
	if !b.EndAt.After(b.StartAt) {
		return fmt.Errorf("booking end must be after start")
	}
	return nil
}

// Overlaps reports whether the half-open intervals of two bookings intersect.
func (b *Booking) Overlaps(startAt, endAt time.Time) bool {
	return b.StartAt.Before(endAt) && b.EndAt.After(startAt)
}

// AvailabilitySlot is either a recurring weekly slot (DayOfWeek plus start
// and end wall-clock times) or a one-off date override.
type AvailabilitySlot struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TherapistID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"therapist_id"`
	DayOfWeek    *int16     `gorm:"type:smallint" json:"day_of_week,omitempty"`
	StartTime    string     `gorm:"type:time" json:"start_time"`
	EndTime      string     `gorm:"type:time" json:"end_time"`
	DateOverride *time.Time `gorm:"type:date" json:"date_override,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`

	Therapist Therapist `gorm:"foreignKey:TherapistID" json:"-"`
}

func (s *AvailabilitySlot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.DayOfWeek != nil && (*s.DayOfWeek < 0 || *s.DayOfWeek > 6) {
		return fmt.Errorf("day of week must be between 0 and 6")
	}
	return nil
}
