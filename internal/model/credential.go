// internal/model/credential.go
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CredentialKind string

const (
	CredentialHashpass         CredentialKind = "hashpass"
	CredentialVerificationCode CredentialKind = "verification_code"
)

// Credential stores authentication material for a user: the argon2id
// password hash and, while email verification is pending, the one-time
// verification code.
type Credential struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null;column:user_id;index"`
	Kind       CredentialKind `gorm:"type:credential_kind;not null"`
	Material   string         `gorm:"type:text"`
	IsActive   bool           `gorm:"default:true"`
	VerifiedAt *time.Time
	LastUsedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time

	User User `gorm:"foreignKey:UserID"`
}

// BeforeCreate hook for Credential
func (c *Credential) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	switch c.Kind {
	case CredentialHashpass, CredentialVerificationCode:
	default:
		return fmt.Errorf("invalid credential kind: %s", c.Kind)
	}

	return nil
}
