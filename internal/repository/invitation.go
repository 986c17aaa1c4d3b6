// internal/repository/invitation.go
package repository

import (
	"context"
	"fmt"

	"github.com/clearmind-health/clearmind/internal/domain"
	"github.com/clearmind-health/clearmind/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvitationRepositoryIface interface {
	WithTx(tx Transaction) InvitationRepositoryIface

	Create(ctx context.Context, invitation *model.Invitation) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Invitation, error)
	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*model.Invitation, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.InvitationStatus) error
}

type InvitationRepository struct {
	db *gorm.DB
}

func NewInvitationRepository(db *gorm.DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

func (r *InvitationRepository) WithTx(tx Transaction) InvitationRepositoryIface {
	return &InvitationRepository{db: txDB(tx, r.db)}
}

func (r *InvitationRepository) Create(ctx context.Context, invitation *model.Invitation) error {
	result := r.db.WithContext(ctx).Create(invitation)
	if result.Error != nil {
		return fmt.Errorf("failed to create invitation: %w", result.Error)
	}
	return nil
}

func (r *InvitationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Invitation, error) {
	var invitation model.Invitation
	result := r.db.WithContext(ctx).Preload("Organization").First(&invitation, "id = ?", id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, domain.ErrInvitationNotFound
		}
		return nil, fmt.Errorf("failed to find invitation: %w", result.Error)
	}
	return &invitation, nil
}

func (r *InvitationRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*model.Invitation, error) {
	var invitations []*model.Invitation
	result := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("created_at DESC").
		Find(&invitations)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", result.Error)
	}
	return invitations, nil
}

func (r *InvitationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.InvitationStatus) error {
	result := r.db.WithContext(ctx).
		Model(&model.Invitation{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update invitation status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrInvitationNotFound
	}
	return nil
}
