// internal/repository/organization.go
package repository

import (
	"context"
	"fmt"

	"github.com/clearmind-health/clearmind/internal/domain"
	"github.com/clearmind-health/clearmind/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrganizationRepositoryIface interface {
	WithTx(tx Transaction) OrganizationRepositoryIface

	Create(ctx context.Context, org *model.Organization) error
	FindAll(ctx context.Context) ([]*model.Organization, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Organization, error)
	Update(ctx context.Context, org *model.Organization) error
}

type OrganizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

func (r *OrganizationRepository) WithTx(tx Transaction) OrganizationRepositoryIface {
	return &OrganizationRepository{db: txDB(tx, r.db)}
}

func (r *OrganizationRepository) Create(ctx context.Context, org *model.Organization) error {
	result := r.db.WithContext(ctx).Create(org)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return domain.ErrSlugAlreadyExists
		}
		return fmt.Errorf("failed to create organization: %w", result.Error)
	}
	return nil
}

// FindAll returns all organizations
func (r *OrganizationRepository) FindAll(ctx context.Context) ([]*model.Organization, error) {
	var orgs []*model.Organization
	result := r.db.WithContext(ctx).Order("created_at").Find(&orgs)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find all organizations: %w", result.Error)
	}
	return orgs, nil
}

func (r *OrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Organization, error) {
	var org model.Organization
	result := r.db.WithContext(ctx).First(&org, "id = ?", id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, domain.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to find organization: %w", result.Error)
	}
	return &org, nil
}

func (r *OrganizationRepository) Update(ctx context.Context, org *model.Organization) error {
	result := r.db.WithContext(ctx).Save(org)
	if result.Error != nil {
		return fmt.Errorf("failed to update organization: %w", result.Error)
	}
	return nil
}
