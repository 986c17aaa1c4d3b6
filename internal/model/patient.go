// internal/model/patient.go
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Patient is the tenant-scoped profile extending a user with the patient
// role. Unlike therapist profiles it is mutable by the patient themselves.
type Patient struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index" json:"organization_id"`
	UserName       string    `gorm:"type:text" json:"user_name,omitempty"`
	PhoneNumber    string    `gorm:"type:text" json:"phone_number,omitempty"`
	Gender         *Gender   `gorm:"type:gender_enum" json:"gender,omitempty"`
	Age            *int16    `gorm:"type:smallint" json:"age,omitempty"`
	PrefGender     *Gender   `gorm:"type:gender_enum" json:"pref_gender,omitempty"`
	Description    string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	User         User         `gorm:"foreignKey:UserID" json:"-"`
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"-"`
}

func (p *Patient) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Gender != nil && !p.Gender.Valid() {
		return fmt.Errorf("invalid gender: %s", *p.Gender)
	}
	if p.PrefGender != nil && !p.PrefGender.Valid() {
		return fmt.Errorf("invalid preferred gender: %s", *p.PrefGender)
	}
	return nil
}
