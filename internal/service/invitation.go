// internal/service/invitation.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/clearmind-health/clearmind/internal/config"
	"github.com/clearmind-health/clearmind/internal/domain"
	"github.com/clearmind-health/clearmind/internal/email"
	"github.com/clearmind-health/clearmind/internal/email/mailer"
	"github.com/clearmind-health/clearmind/internal/model"
	"github.com/clearmind-health/clearmind/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// InvitationTTL is how long a pending invitation stays acceptable.
const InvitationTTL = 7 * 24 * time.Hour

type InvitationService struct {
	invitations   repository.InvitationRepositoryIface
	organizations repository.OrganizationRepositoryIface
	members       repository.MemberRepositoryIface
	users         repository.UserRepositoryIface
	therapists    repository.TherapistRepositoryIface
	patients      repository.PatientRepositoryIface
	emailService  *email.Service
	config        *config.Config
	validate      *validator.Validate
}

func NewInvitationService(
	invitations repository.InvitationRepositoryIface,
	organizations repository.OrganizationRepositoryIface,
	members repository.MemberRepositoryIface,
	users repository.UserRepositoryIface,
	therapists repository.TherapistRepositoryIface,
	patients repository.PatientRepositoryIface,
	emailService *email.Service,
	config *config.Config,
) *InvitationService {
	return &InvitationService{
		invitations:   invitations,
		organizations: organizations,
		members:       members,
		users:         users,
		therapists:    therapists,
		patients:      patients,
		emailService:  emailService,
		config:        config,
		validate:      validator.New(),
	}
}

type InviteInput struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required"`
}

// Invite creates a pending invitation and emails the invitee. If the invitee
// already holds a user account and a membership, the duplicate surfaces when
// they accept, not here.
func (s *InvitationService) Invite(ctx context.Context, actor Actor, orgID uuid.UUID, input InviteInput) (*model.Invitation, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}

	role := model.OrgRole(input.Role)
	if !role.Valid() {
		return nil, fmt.Errorf("%w: role must be one of admin, therapist, patient", domain.ErrInvalidInput)
	}

	org, err := s.organizations.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	invitation := &model.Invitation{
		OrganizationID: orgID,
		Email:          input.Email,
		Role:           role,
		Status:         model.InvitationPending,
		ExpiresAt:      time.Now().Add(InvitationTTL),
		InviterID:      actor.UserID,
	}

	if err := s.invitations.Create(ctx, invitation); err != nil {
		return nil, err
	}

	if s.emailService != nil {
		inviterName := ""
		if inviter, err := s.users.FindByID(ctx, actor.UserID); err == nil {
			inviterName = inviter.Name
		}
		acceptLink := fmt.Sprintf("%s/invitations/%s/accept", s.config.BaseURL, invitation.ID)
		if err := mailer.SendInvitationEmail(s.emailService, invitation.Email, org.Name, inviterName, string(role), acceptLink); err != nil {
			// The invitation row exists either way; the admin can resend.
			slog.Error("failed to send invitation email", "error", err, "invitation_id", invitation.ID)
		}
	}

	return invitation, nil
}

func (s *InvitationService) List(ctx context.Context, orgID uuid.UUID) ([]*model.Invitation, error) {
	return s.invitations.ListByOrganization(ctx, orgID)
}

// Accept turns a pending invitation into a membership for the calling user.
// The caller's email must match the invitee's. Membership, role-specific
// profile, user role and invitation status all change in one transaction.
func (s *InvitationService) Accept(ctx context.Context, user *model.User, invitationID uuid.UUID) (*model.Member, error) {
	invitation, err := s.invitations.FindByID(ctx, invitationID)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(invitation.Email, user.Email) {
		return nil, domain.ErrAccessDenied
	}
	if invitation.Status != model.InvitationPending {
		return nil, domain.ErrInvitationClosed
	}
	if time.Now().After(invitation.ExpiresAt) {
		// Best effort; the row is unusable regardless.
		_ = s.invitations.UpdateStatus(ctx, invitation.ID, model.InvitationExpired)
		return nil, domain.ErrInvitationExpired
	}

	tx, err := s.users.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	member := &model.Member{
		OrganizationID: invitation.OrganizationID,
		UserID:         user.ID,
		Role:           invitation.Role,
	}
	if err := s.members.WithTx(tx).Create(ctx, member); err != nil {
		return nil, err
	}

	switch invitation.Role {
	case model.OrgRoleTherapist:
		therapist := &model.Therapist{
			UserID:         user.ID,
			OrganizationID: invitation.OrganizationID,
			Email:          user.Email,
			Name:           user.Name,
			Verification:   model.VerificationPending,
		}
		if err := s.therapists.WithTx(tx).Create(ctx, therapist); err != nil {
			return nil, err
		}
	case model.OrgRolePatient:
		patient := &model.Patient{
			UserID:         user.ID,
			OrganizationID: invitation.OrganizationID,
		}
		if err := s.patients.WithTx(tx).Create(ctx, patient); err != nil {
			return nil, fmt.Errorf("creating patient profile: %w", err)
		}
	}

	// Joining at a higher role promotes the global role too; super_admin is
	// never demoted by accepting an invitation.
	if user.Role != model.RoleSuperAdmin {
		user.Role = model.GlobalRole(invitation.Role)
		if err := s.users.WithTx(tx).Update(ctx, user); err != nil {
			return nil, err
		}
	}

	if err := s.invitations.WithTx(tx).UpdateStatus(ctx, invitation.ID, model.InvitationAccepted); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return member, nil
}

// Reject marks a pending invitation rejected. Only the invitee may reject.
func (s *InvitationService) Reject(ctx context.Context, user *model.User, invitationID uuid.UUID) error {
	invitation, err := s.invitations.FindByID(ctx, invitationID)
	if err != nil {
		return err
	}
	if !strings.EqualFold(invitation.Email, user.Email) {
		return domain.ErrAccessDenied
	}
	if invitation.Status != model.InvitationPending {
		return domain.ErrInvitationClosed
	}
	return s.invitations.UpdateStatus(ctx, invitation.ID, model.InvitationRejected)
}
