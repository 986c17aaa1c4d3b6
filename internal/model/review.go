// internal/model/review.go
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is a one-per-pair rating of a therapist by a patient. The
// (therapist, patient) uniqueness is enforced both here and by a database
// constraint; a second attempt fails and never overwrites the first.
type Review struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TherapistID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_therapist_patient" json:"therapist_id"`
	PatientID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_therapist_patient" json:"patient_id"`
	Rating      int16     `gorm:"type:smallint;not null" json:"rating"`
	Comment     string    `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	Therapist Therapist `gorm:"foreignKey:TherapistID" json:"therapist,omitempty"`
	Patient   Patient   `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Rating < 1 || r.Rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5")
	}
	return nil
}
