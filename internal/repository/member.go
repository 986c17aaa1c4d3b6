// internal/repository/member.go
package repository

import (
	"context"
	"fmt"

	"github.com/clearmind-health/clearmind/internal/domain"
	"github.com/clearmind-health/clearmind/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MemberRepositoryIface interface {
	WithTx(tx Transaction) MemberRepositoryIface

	Create(ctx context.Context, member *model.Member) error
	Find(ctx context.Context, orgID, userID uuid.UUID) (*model.Member, error)
	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*model.Member, error)
	UpdateRole(ctx context.Context, orgID, userID uuid.UUID, role model.OrgRole) error
	Delete(ctx context.Context, orgID, userID uuid.UUID) error
}

type MemberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) WithTx(tx Transaction) MemberRepositoryIface {
	return &MemberRepository{db: txDB(tx, r.db)}
}

func (r *MemberRepository) Create(ctx context.Context, member *model.Member) error {
	result := r.db.WithContext(ctx).Create(member)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return domain.ErrDuplicateMember
		}
		return fmt.Errorf("failed to create member: %w", result.Error)
	}
	return nil
}

func (r *MemberRepository) Find(ctx context.Context, orgID, userID uuid.UUID) (*model.Member, error) {
	var member model.Member
	result := r.db.WithContext(ctx).
		Where("organization_id = ? AND user_id = ?", orgID, userID).
		First(&member)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find member: %w", result.Error)
	}
	return &member, nil
}

// ListByOrganization returns memberships with their user records preloaded.
func (r *MemberRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*model.Member, error) {
	var members []*model.Member
	result := r.db.WithContext(ctx).
		Preload("User").
		Where("organization_id = ?", orgID).
		Order("created_at").
		Find(&members)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list members: %w", result.Error)
	}
	return members, nil
}

func (r *MemberRepository) UpdateRole(ctx context.Context, orgID, userID uuid.UUID, role model.OrgRole) error {
	result := r.db.WithContext(ctx).
		Model(&model.Member{}).
		Where("organization_id = ? AND user_id = ?", orgID, userID).
		Update("role", role)
	if result.Error != nil {
		return fmt.Errorf("failed to update member role: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MemberRepository) Delete(ctx context.Context, orgID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("organization_id = ? AND user_id = ?", orgID, userID).
		Delete(&model.Member{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete member: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
