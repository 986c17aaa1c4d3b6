// internal/repository/availability.go
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/clearmind-health/clearmind/internal/domain"
	"github.com/clearmind-health/clearmind/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AvailabilityFilter narrows slot listings. TherapistUserID restricts rows to
// slots owned by the therapist profile of that user (role-based filtering).
type AvailabilityFilter struct {
	TherapistID     *uuid.UUID
	TherapistUserID *uuid.UUID
	Date            *time.Time
}

type AvailabilityRepositoryIface interface {
	Create(ctx context.Context, slot *model.AvailabilitySlot) error
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*model.AvailabilitySlot, error)
	ListByOrganization(ctx context.Context, orgID uuid.UUID, filter AvailabilityFilter) ([]*model.AvailabilitySlot, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type AvailabilityRepository struct {
	db *gorm.DB
}

func NewAvailabilityRepository(db *gorm.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

func (r *AvailabilityRepository) Create(ctx context.Context, slot *model.AvailabilitySlot) error {
	result := r.db.WithContext(ctx).Create(slot)
	if result.Error != nil {
		return fmt.Errorf("failed to create availability slot: %w", result.Error)
	}
	return nil
}

// FindByID resolves a slot through its owning therapist's organization.
func (r *AvailabilityRepository) FindByID(ctx context.Context, orgID, id uuid.UUID) (*model.AvailabilitySlot, error) {
	var slot model.AvailabilitySlot
	result := r.db.WithContext(ctx).
		Joins("Therapist").
		Where("availability_slots.id = ?", id).
		Where(`"Therapist".organization_id = ?`, orgID).
		First(&slot)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, domain.ErrSlotNotFound
		}
		return nil, fmt.Errorf("failed to find availability slot: %w", result.Error)
	}
	return &slot, nil
}

func (r *AvailabilityRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID, filter AvailabilityFilter) ([]*model.AvailabilitySlot, error) {
	q := r.db.WithContext(ctx).
		Joins("Therapist").
		Where(`"Therapist".organization_id = ?`, orgID)

	if filter.TherapistID != nil {
		q = q.Where("availability_slots.therapist_id = ?", *filter.TherapistID)
	}
	if filter.TherapistUserID != nil {
		q = q.Where(`"Therapist".user_id = ?`, *filter.TherapistUserID)
	}
	if filter.Date != nil {
		q = q.Where("availability_slots.date_override = ?", *filter.Date)
	}

	var slots []*model.AvailabilitySlot
	result := q.Order("availability_slots.created_at").Find(&slots)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list availability slots: %w", result.Error)
	}
	return slots, nil
}

func (r *AvailabilityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.AvailabilitySlot{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete availability slot: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrSlotNotFound
	}
	return nil
}
