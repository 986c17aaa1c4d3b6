// internal/model/therapist.go
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

func (s VerificationStatus) Valid() bool {
	switch s {
	case VerificationPending, VerificationVerified, VerificationRejected:
		return true
	}
	return false
}

// Therapist is the tenant-scoped profile extending a user with the
// therapist role. Monetary rates are carried as integer cents.
type Therapist struct {
	ID             uuid.UUID          `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID         uuid.UUID          `gorm:"type:uuid;not null" json:"user_id"`
	OrganizationID uuid.UUID          `gorm:"type:uuid;not null;index" json:"organization_id"`
	Email          string             `gorm:"type:citext;uniqueIndex;not null" json:"email"`
	Name           string             `gorm:"type:text" json:"name"`
	Verification   VerificationStatus `gorm:"type:verification_status;not null;default:'pending'" json:"verification"`
	Age            *int16             `gorm:"type:smallint" json:"age,omitempty"`
	Gender         *Gender            `gorm:"type:gender_enum" json:"gender,omitempty"`
	ProfilePicture string             `gorm:"type:text" json:"profile_picture,omitempty"`
	Description    string             `gorm:"type:text" json:"description,omitempty"`
	Qualification  string             `gorm:"type:text" json:"qualification,omitempty"`
	PhoneNumber    string             `gorm:"type:text" json:"phone_number,omitempty"`
	Location       string             `gorm:"type:text" json:"location,omitempty"`
	HourlyRate     int64              `gorm:"not null;default:0" json:"hourly_rate_cents"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`

	User         User         `gorm:"foreignKey:UserID" json:"-"`
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"-"`
}

func (t *Therapist) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Verification == "" {
		t.Verification = VerificationPending
	}
	if !t.Verification.Valid() {
		return fmt.Errorf("invalid verification status: %s", t.Verification)
	}
	if t.Gender != nil && !t.Gender.Valid() {
		return fmt.Errorf("invalid gender: %s", *t.Gender)
	}
	return nil
}
