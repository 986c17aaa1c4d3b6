// internal/service/user.go
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/clearmind-health/clearmind/internal/auth"
	"github.com/clearmind-health/clearmind/internal/config"
	"github.com/clearmind-health/clearmind/internal/domain"
	"github.com/clearmind-health/clearmind/internal/email"
	"github.com/clearmind-health/clearmind/internal/email/mailer"
	"github.com/clearmind-health/clearmind/internal/model"
	"github.com/clearmind-health/clearmind/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type UserService struct {
	repo           repository.UserRepositoryIface
	credentialRepo repository.CredentialRepositoryIface
	passwordHasher *auth.PasswordHasher
	tokenManager   *auth.TokenManager
	emailService   *email.Service
	config         *config.Config
	validate       *validator.Validate
}

func NewUserService(
	repo repository.UserRepositoryIface,
	credentialRepo repository.CredentialRepositoryIface,
	passwordHasher *auth.PasswordHasher,
	tokenManager *auth.TokenManager,
	emailService *email.Service,
	config *config.Config,
) *UserService {
	return &UserService{
		repo:           repo,
		credentialRepo: credentialRepo,
		passwordHasher: passwordHasher,
		tokenManager:   tokenManager,
		emailService:   emailService,
		config:         config,
		validate:       validator.New(),
	}
}

type SignupInput struct {
	Email           string `json:"email" validate:"required,email"`
	Name            string `json:"name" validate:"required"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,min=8,eqfield=Password"`
}

type SignupOutput struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// Signup handles the complete self-service registration process. New
// accounts start as patients; elevated roles are granted only by admin
// provisioning or invitations.
func (s *UserService) Signup(ctx context.Context, input SignupInput) (*SignupOutput, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}

	if input.Password != input.ConfirmPassword {
		return nil, domain.ErrPasswordsDoNotMatch
	}

	// Start transaction
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	txUsers := s.repo.WithTx(tx)
	txCredentials := s.credentialRepo.WithTx(tx)

	// Check if user exists
	existingUser, err := txUsers.FindByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if existingUser != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	user := &model.User{
		Email:    input.Email,
		Name:     input.Name,
		Role:     model.RolePatient,
		IsActive: true,
	}

	if err := txUsers.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	// Create verification credential
	verificationCode := generateVerificationCode()
	verificationCredential := &model.Credential{
		UserID:   user.ID,
		Kind:     model.CredentialVerificationCode,
		Material: verificationCode,
		IsActive: true,
	}

	if err := txCredentials.Create(ctx, verificationCredential); err != nil {
		return nil, fmt.Errorf("creating verification credential: %w", err)
	}

	// Create password credential
	hashedPassword, err := s.passwordHasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	passwordCredential := &model.Credential{
		UserID:   user.ID,
		Kind:     model.CredentialHashpass,
		Material: hashedPassword,
		IsActive: true,
	}

	if err := txCredentials.Create(ctx, passwordCredential); err != nil {
		return nil, fmt.Errorf("creating password credential: %w", err)
	}

	// Send verification email
	if s.emailService != nil {
		verificationLink := fmt.Sprintf(
			"%s/api/auth/signup/verify?code=%s&user=%s",
			s.config.BaseURL,
			verificationCode,
			user.ID.String(),
		)

		if err := mailer.SendVerificationEmail(s.emailService, user.Email, user.Name, verificationLink); err != nil {
			return nil, fmt.Errorf("sending verification email: %w", err)
		}
	}

	token, err := s.tokenManager.Generate(user.ID.String(), user.Email)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return &SignupOutput{
		User:  user,
		Token: token,
	}, nil
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginOutput struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// Login checks the password credential and issues a JWT. Inactive accounts
// are rejected after the credential check so the error does not reveal
// whether the password was right.
func (s *UserService) Login(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}

	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	credential, err := s.credentialRepo.FindByUserAndKind(ctx, user.ID, model.CredentialHashpass)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("finding password credential: %w", err)
	}

	verified, err := s.passwordHasher.Verify(input.Password, credential.Material)
	if err != nil {
		return nil, fmt.Errorf("verifying password: %w", err)
	}
	if !verified {
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, domain.ErrAccountInactive
	}

	now := time.Now()
	credential.LastUsedAt = &now
	if err := s.credentialRepo.Update(ctx, credential); err != nil {
		return nil, fmt.Errorf("updating credential: %w", err)
	}

	token, err := s.tokenManager.Generate(user.ID.String(), user.Email)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	return &LoginOutput{
		User:  user,
		Token: token,
	}, nil
}

type VerifyInput struct {
	UserID string `json:"user_id"`
	Code   string `json:"code"`
}

// VerifyEmail handles email verification
func (s *UserService) VerifyEmail(ctx context.Context, input VerifyInput) error {
	userID, err := uuid.Parse(input.UserID)
	if err != nil {
		return fmt.Errorf("%w: invalid user ID", domain.ErrInvalidInput)
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if user.EmailVerified {
		return domain.ErrAlreadyVerified
	}

	credential, err := s.credentialRepo.FindByUserAndKind(ctx, userID, model.CredentialVerificationCode)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrInvalidVerificationCode
		}
		return fmt.Errorf("finding verification credential: %w", err)
	}

	if !credential.IsActive {
		return domain.ErrVerificationExpired
	}

	if credential.Material != input.Code {
		return domain.ErrInvalidVerificationCode
	}

	user.EmailVerified = true
	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("updating user: %w", err)
	}

	now := time.Now()
	credential.IsActive = false
	credential.VerifiedAt = &now
	if err := s.credentialRepo.Update(ctx, credential); err != nil {
		return fmt.Errorf("deactivating verification credential: %w", err)
	}

	return nil
}

func generateVerificationCode() string {
	code := make([]byte, 16)
	if _, err := rand.Read(code); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	return hex.EncodeToString(code)
}
