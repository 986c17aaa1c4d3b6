// internal/repository/booking.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/clearmind-health/clearmind/internal/domain"
	"github.com/clearmind-health/clearmind/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingFilter narrows booking listings. The two user ID fields implement
// role-based row filtering: patients see their own bookings, therapists see
// bookings on their own profile, admins see everything in the organization.
type BookingFilter struct {
	Status          *model.BookingStatus
	TherapistID     *uuid.UUID
	PatientID       *uuid.UUID
	TherapistUserID *uuid.UUID
	PatientUserID   *uuid.UUID
}

type BookingRepositoryIface interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*model.Booking, error)
	List(ctx context.Context, orgID uuid.UUID, filter BookingFilter) ([]*model.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.BookingStatus) (*model.Booking, error)
}

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts a booking after checking that its half-open interval does
// not overlap an active booking for the same therapist. Check and insert run
// in one serializable transaction so two concurrent overlapping requests
// cannot both succeed; the bookings table additionally carries an exclusion
// constraint over (therapist_id, tstzrange) as a backstop.
func (r *BookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Booking{}).
			Where("therapist_id = ?", booking.TherapistID).
			Where("status IN ?", model.ActiveBookingStatuses).
			Where("start_at < ? AND end_at > ?", booking.EndAt, booking.StartAt).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrBookingConflict
		}
		return tx.Create(booking).Error
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})

	if err != nil {
		if errors.Is(err, domain.ErrBookingConflict) {
			return domain.ErrBookingConflict
		}
		if isExclusionViolation(err) || isSerializationFailure(err) {
			return domain.ErrBookingConflict
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// FindByID resolves a booking through both party profiles so the lookup is
// tenant-scoped on each side.
func (r *BookingRepository) FindByID(ctx context.Context, orgID, id uuid.UUID) (*model.Booking, error) {
	var booking model.Booking
	result := r.db.WithContext(ctx).
		Joins("Therapist").
		Joins("Patient").
		Where("bookings.id = ?", id).
		Where(`"Therapist".organization_id = ? AND "Patient".organization_id = ?`, orgID, orgID).
		First(&booking)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", result.Error)
	}
	return &booking, nil
}

func (r *BookingRepository) List(ctx context.Context, orgID uuid.UUID, filter BookingFilter) ([]*model.Booking, error) {
	q := r.db.WithContext(ctx).
		Joins("Therapist").
		Joins("Patient").
		Where(`"Therapist".organization_id = ? AND "Patient".organization_id = ?`, orgID, orgID)

	if filter.Status != nil {
		q = q.Where("bookings.status = ?", *filter.Status)
	}
	if filter.TherapistID != nil {
		q = q.Where("bookings.therapist_id = ?", *filter.TherapistID)
	}
	if filter.PatientID != nil {
		q = q.Where("bookings.patient_id = ?", *filter.PatientID)
	}
	if filter.TherapistUserID != nil {
		q = q.Where(`"Therapist".user_id = ?`, *filter.TherapistUserID)
	}
	if filter.PatientUserID != nil {
		q = q.Where(`"Patient".user_id = ?`, *filter.PatientUserID)
	}

	var bookings []*model.Booking
	result := q.Order("bookings.start_at DESC").Find(&bookings)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", result.Error)
	}
	return bookings, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.BookingStatus) (*model.Booking, error) {
	var booking model.Booking
	result := r.db.WithContext(ctx).
		Model(&booking).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update booking status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrBookingNotFound
	}

	if err := r.db.WithContext(ctx).First(&booking, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to reload booking: %w", err)
	}
	return &booking, nil
}
