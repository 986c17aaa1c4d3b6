// internal/email/mailer/organization_invitation.go
package mailer

import "github.com/clearmind-health/clearmind/internal/email"

// InvitationTemplateData contains data for the invitation email template
type InvitationTemplateData struct {
	OrganizationName string
	InviterName      string
	Role             string
	AcceptLink       string
}

// SendInvitationEmail invites someone to join an organization
func SendInvitationEmail(s *email.Service, to, organizationName, inviterName, role, acceptLink string) error {
	templateData := InvitationTemplateData{
		OrganizationName: organizationName,
		InviterName:      inviterName,
		Role:             role,
		AcceptLink:       acceptLink,
	}

	emailData := email.EmailData{
		To:           to,
		FromName:     "ClearMind",
		Subject:      "You have been invited to join " + organizationName + " on ClearMind",
		TemplateName: "organization_invitation",
		TemplateData: templateData,
	}

	return s.SendEmail(emailData)
}
