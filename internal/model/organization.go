// internal/model/organization.go
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrgRole is a role scoped to a single organization. There is no implicit
// hierarchy between these values: each protected operation enumerates the
// exact roles it accepts. A global super_admin bypasses membership entirely
// and never holds a member row.
type OrgRole string

const (
	OrgRoleAdmin     OrgRole = "admin"
	OrgRoleTherapist OrgRole = "therapist"
	OrgRolePatient   OrgRole = "patient"

	// OrgRoleSuperAdmin is never stored; it is the resolved role reported
	// for a global super_admin acting inside any organization.
	OrgRoleSuperAdmin OrgRole = "super_admin"
)

func (r OrgRole) Valid() bool {
	switch r {
	case OrgRoleAdmin, OrgRoleTherapist, OrgRolePatient:
		return true
	}
	return false
}

type Organization struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	Slug      string    `gorm:"type:text;uniqueIndex;not null" json:"slug"`
	Logo      string    `gorm:"type:text" json:"logo,omitempty"`
	Metadata  string    `gorm:"type:text" json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// Member binds one user to one organization with an org-scoped role.
// At most one row exists per (organization, user) pair.
type Member struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_member_org_user" json:"organization_id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_member_org_user" json:"user_id"`
	Role           OrgRole   `gorm:"type:org_role;not null" json:"role"`
	CreatedAt      time.Time `json:"created_at"`

	Organization Organization `gorm:"foreignKey:OrganizationID" json:"-"`
	User         User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (m *Member) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if !m.Role.Valid() {
		return fmt.Errorf("invalid member role: %s", m.Role)
	}
	return nil
}

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationRejected InvitationStatus = "rejected"
	InvitationExpired  InvitationStatus = "expired"
)

func (s InvitationStatus) Valid() bool {
	switch s {
	case InvitationPending, InvitationAccepted, InvitationRejected, InvitationExpired:
		return true
	}
	return false
}

// Invitation is a pending offer of organization membership.
type Invitation struct {
	ID             uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrganizationID uuid.UUID        `gorm:"type:uuid;not null" json:"organization_id"`
	Email          string           `gorm:"type:citext;not null" json:"email"`
	Role           OrgRole          `gorm:"type:org_role;not null" json:"role"`
	Status         InvitationStatus `gorm:"type:invitation_status;not null;default:'pending'" json:"status"`
	ExpiresAt      time.Time        `gorm:"not null" json:"expires_at"`
	InviterID      uuid.UUID        `gorm:"type:uuid;not null" json:"inviter_id"`
	CreatedAt      time.Time        `json:"created_at"`

	Organization Organization `gorm:"foreignKey:OrganizationID" json:"-"`
	Inviter      User         `gorm:"foreignKey:InviterID" json:"-"`
}

func (i *Invitation) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.Status == "" {
		i.Status = InvitationPending
	}
	if !i.Role.Valid() {
		return fmt.Errorf("invalid invitation role: %s", i.Role)
	}
	return nil
}
