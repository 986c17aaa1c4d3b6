// internal/service/organization.go
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/clearmind-health/clearmind/internal/domain"
	"github.com/clearmind-health/clearmind/internal/model"
	"github.com/clearmind-health/clearmind/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type OrganizationService struct {
	repo     repository.OrganizationRepositoryIface
	validate *validator.Validate
}

func NewOrganizationService(repo repository.OrganizationRepositoryIface) *OrganizationService {
	return &OrganizationService{
		repo:     repo,
		validate: validator.New(),
	}
}

type CreateOrganizationInput struct {
	Name     string `json:"name" validate:"required"`
	Slug     string `json:"slug"`
	Logo     string `json:"logo"`
	Metadata string `json:"metadata"`
}

// Create registers a new tenant. Only super admins reach this operation; the
// route is gated before the service runs. A missing slug is derived from the
// name.
func (s *OrganizationService) Create(ctx context.Context, input CreateOrganizationInput) (*model.Organization, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}

	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	if slug == "" {
		slug = strings.ToLower(strings.Join(strings.Fields(input.Name), "-"))
	}

	org := &model.Organization{
		Name:     strings.TrimSpace(input.Name),
		Slug:     slug,
		Logo:     input.Logo,
		Metadata: input.Metadata,
	}

	if err := s.repo.Create(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

func (s *OrganizationService) List(ctx context.Context) ([]*model.Organization, error) {
	return s.repo.FindAll(ctx)
}

func (s *OrganizationService) Get(ctx context.Context, id uuid.UUID) (*model.Organization, error) {
	return s.repo.FindByID(ctx, id)
}
