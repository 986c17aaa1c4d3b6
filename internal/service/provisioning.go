// internal/service/provisioning.go
package service

import (
	"context"
	"fmt"

	"github.com/clearmind-health/clearmind/internal/auth"
	"github.com/clearmind-health/clearmind/internal/domain"
	"github.com/clearmind-health/clearmind/internal/model"
	"github.com/clearmind-health/clearmind/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ProvisioningService keeps a user record, its credentials, its membership
// and its role-specific profile consistent. Every multi-row write runs in a
// single transaction: either the whole person exists afterwards or nothing
// does.
type ProvisioningService struct {
	users          repository.UserRepositoryIface
	credentials    repository.CredentialRepositoryIface
	members        repository.MemberRepositoryIface
	therapists     repository.TherapistRepositoryIface
	patients       repository.PatientRepositoryIface
	passwordHasher *auth.PasswordHasher
	validate       *validator.Validate
}

func NewProvisioningService(
	users repository.UserRepositoryIface,
	credentials repository.CredentialRepositoryIface,
	members repository.MemberRepositoryIface,
	therapists repository.TherapistRepositoryIface,
	patients repository.PatientRepositoryIface,
	passwordHasher *auth.PasswordHasher,
) *ProvisioningService {
	return &ProvisioningService{
		users:          users,
		credentials:    credentials,
		members:        members,
		therapists:     therapists,
		patients:       patients,
		passwordHasher: passwordHasher,
		validate:       validator.New(),
	}
}

type CreateUserInput struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required"`
	IsActive *bool  `json:"is_active"`
}

// createUserTx creates the user, password credential and membership inside
// the caller's transaction. Shared by all provisioning entry points.
func (s *ProvisioningService) createUserTx(ctx context.Context, tx repository.Transaction, orgID uuid.UUID, input CreateUserInput) (*model.User, error) {
	role := model.OrgRole(input.Role)
	if !role.Valid() {
		return nil, fmt.Errorf("%w: role must be one of admin, therapist, patient", domain.ErrInvalidInput)
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	user := &model.User{
		Email:    input.Email,
		Name:     input.Name,
		Role:     model.GlobalRole(role),
		IsActive: isActive,
	}

	if err := s.users.WithTx(tx).Create(ctx, user); err != nil {
		return nil, err
	}

	hashedPassword, err := s.passwordHasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	credential := &model.Credential{
		UserID:   user.ID,
		Kind:     model.CredentialHashpass,
		Material: hashedPassword,
		IsActive: true,
	}
	if err := s.credentials.WithTx(tx).Create(ctx, credential); err != nil {
		return nil, fmt.Errorf("creating password credential: %w", err)
	}

	member := &model.Member{
		OrganizationID: orgID,
		UserID:         user.ID,
		Role:           role,
	}
	if err := s.members.WithTx(tx).Create(ctx, member); err != nil {
		return nil, err
	}

	return user, nil
}

// CreateUser provisions a user with an organization role and no
// role-specific profile.
func (s *ProvisioningService) CreateUser(ctx context.Context, orgID uuid.UUID, input CreateUserInput) (*model.User, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}

	tx, err := s.users.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	user, err := s.createUserTx(ctx, tx, orgID, input)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return user, nil
}

type CreateTherapistInput struct {
	Email          string  `json:"email" validate:"required,email"`
	Name           string  `json:"name" validate:"required"`
	Password       string  `json:"password" validate:"required,min=8"`
	IsActive       *bool   `json:"is_active"`
	Age            *int16  `json:"age"`
	Gender         *string `json:"gender"`
	ProfilePicture string  `json:"profile_picture"`
	Description    string  `json:"description"`
	Qualification  string  `json:"qualification"`
	PhoneNumber    string  `json:"phone_number"`
	Location       string  `json:"location"`
	HourlyRate     int64   `json:"hourly_rate_cents"`
}

type CreateTherapistOutput struct {
	User      *model.User      `json:"user"`
	Therapist *model.Therapist `json:"therapist"`
}

// CreateTherapist provisions the user, membership and therapist profile
// together.
func (s *ProvisioningService) CreateTherapist(ctx context.Context, orgID uuid.UUID, input CreateTherapistInput) (*CreateTherapistOutput, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}

	gender, err := parseGender(input.Gender)
	if err != nil {
		return nil, err
	}

	tx, err := s.users.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	user, err := s.createUserTx(ctx, tx, orgID, CreateUserInput{
		Email:    input.Email,
		Name:     input.Name,
		Password: input.Password,
		Role:     string(model.OrgRoleTherapist),
		IsActive: input.IsActive,
	})
	if err != nil {
		return nil, err
	}

	therapist := &model.Therapist{
		UserID:         user.ID,
		OrganizationID: orgID,
		Email:          input.Email,
		Name:           input.Name,
		Verification:   model.VerificationPending,
		Age:            input.Age,
		Gender:         gender,
		ProfilePicture: input.ProfilePicture,
		Description:    input.Description,
		Qualification:  input.Qualification,
		PhoneNumber:    input.PhoneNumber,
		Location:       input.Location,
		HourlyRate:     input.HourlyRate,
	}

	if err := s.therapists.WithTx(tx).Create(ctx, therapist); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return &CreateTherapistOutput{User: user, Therapist: therapist}, nil
}

type CreatePatientInput struct {
	Email       string  `json:"email" validate:"required,email"`
	Name        string  `json:"name" validate:"required"`
	Password    string  `json:"password" validate:"required,min=8"`
	IsActive    *bool   `json:"is_active"`
	UserName    string  `json:"user_name"`
	PhoneNumber string  `json:"phone_number"`
	Gender      *string `json:"gender"`
	Age         *int16  `json:"age"`
	PrefGender  *string `json:"pref_gender"`
	Description string  `json:"description"`
}

type CreatePatientOutput struct {
	User    *model.User    `json:"user"`
	Patient *model.Patient `json:"patient"`
}

// CreatePatient provisions the user, membership and patient profile together.
func (s *ProvisioningService) CreatePatient(ctx context.Context, orgID uuid.UUID, input CreatePatientInput) (*CreatePatientOutput, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}

	gender, err := parseGender(input.Gender)
	if err != nil {
		return nil, err
	}
	prefGender, err := parseGender(input.PrefGender)
	if err != nil {
		return nil, err
	}

	tx, err := s.users.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	user, err := s.createUserTx(ctx, tx, orgID, CreateUserInput{
		Email:    input.Email,
		Name:     input.Name,
		Password: input.Password,
		Role:     string(model.OrgRolePatient),
		IsActive: input.IsActive,
	})
	if err != nil {
		return nil, err
	}

	patient := &model.Patient{
		UserID:         user.ID,
		OrganizationID: orgID,
		UserName:       input.UserName,
		PhoneNumber:    input.PhoneNumber,
		Gender:         gender,
		Age:            input.Age,
		PrefGender:     prefGender,
		Description:    input.Description,
	}

	if err := s.patients.WithTx(tx).Create(ctx, patient); err != nil {
		return nil, fmt.Errorf("creating patient profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return &CreatePatientOutput{User: user, Patient: patient}, nil
}

// ListUsers returns all memberships of the organization with user records.
func (s *ProvisioningService) ListUsers(ctx context.Context, orgID uuid.UUID) ([]*model.Member, error) {
	return s.members.ListByOrganization(ctx, orgID)
}

// UpdateUserStatus activates or deactivates a member's account. Callers may
// not deactivate themselves.
func (s *ProvisioningService) UpdateUserStatus(ctx context.Context, orgID, userID, callerID uuid.UUID, isActive bool) (*model.User, error) {
	if !isActive && userID == callerID {
		return nil, domain.ErrSelfTarget
	}

	if _, err := s.members.Find(ctx, orgID, userID); err != nil {
		if err == domain.ErrNotFound {
			return nil, domain.ErrNotAMember
		}
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.IsActive = isActive
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUserRole changes the global role and the membership role together.
func (s *ProvisioningService) UpdateUserRole(ctx context.Context, orgID, userID uuid.UUID, role string) (*model.User, error) {
	orgRole := model.OrgRole(role)
	if !orgRole.Valid() {
		return nil, fmt.Errorf("%w: role must be one of admin, therapist, patient", domain.ErrInvalidInput)
	}

	tx, err := s.users.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	txUsers := s.users.WithTx(tx)

	user, err := txUsers.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Role = model.GlobalRole(orgRole)
	if err := txUsers.Update(ctx, user); err != nil {
		return nil, err
	}

	if err := s.members.WithTx(tx).UpdateRole(ctx, orgID, userID, orgRole); err != nil {
		if err == domain.ErrNotFound {
			return nil, domain.ErrNotAMember
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return user, nil
}

// RemoveUser evicts a member from the organization. Callers may not remove
// themselves, so an organization can never lose its last admin to a stray
// request.
func (s *ProvisioningService) RemoveUser(ctx context.Context, orgID, userID, callerID uuid.UUID) error {
	if userID == callerID {
		return domain.ErrSelfTarget
	}

	if err := s.members.Delete(ctx, orgID, userID); err != nil {
		if err == domain.ErrNotFound {
			return domain.ErrNotAMember
		}
		return err
	}
	return nil
}

func parseGender(value *string) (*model.Gender, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	g := model.Gender(*value)
	if !g.Valid() {
		return nil, fmt.Errorf("%w: gender must be one of male, female, non_binary, other", domain.ErrInvalidInput)
	}
	return &g, nil
}
