// internal/model/user.go
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GlobalRole is the role carried on the user record itself. Organization
// membership carries its own OrgRole; the only global role with cross-tenant
// meaning is RoleSuperAdmin.
type GlobalRole string

const (
	RoleSuperAdmin GlobalRole = "super_admin"
	RoleAdmin      GlobalRole = "admin"
	RoleTherapist  GlobalRole = "therapist"
	RolePatient    GlobalRole = "patient"
)

func (r GlobalRole) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleTherapist, RolePatient:
		return true
	}
	return false
}

type Gender string

const (
	GenderMale      Gender = "male"
	GenderFemale    Gender = "female"
	GenderNonBinary Gender = "non_binary"
	GenderOther     Gender = "other"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderNonBinary, GenderOther:
		return true
	}
	return false
}

type User struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Email         string     `gorm:"type:citext;uniqueIndex;not null" json:"email"`
	Name          string     `gorm:"type:text;not null" json:"name"`
	Role          GlobalRole `gorm:"type:global_role;not null;default:'patient'" json:"role"`
	IsActive      bool       `gorm:"not null;default:true" json:"is_active"`
	EmailVerified bool       `gorm:"not null;default:false" json:"email_verified"`
	Image         string     `gorm:"type:text" json:"image,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// BeforeCreate hook for User
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RolePatient
	}
	if !u.Role.Valid() {
		return fmt.Errorf("invalid role: %s", u.Role)
	}
	return nil
}
