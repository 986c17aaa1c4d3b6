// internal/repository/credential.go
package repository

import (
	"context"
	"fmt"

	"github.com/clearmind-health/clearmind/internal/domain"
	"github.com/clearmind-health/clearmind/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CredentialRepositoryIface interface {
	WithTx(tx Transaction) CredentialRepositoryIface

	Create(ctx context.Context, credential *model.Credential) error
	FindByUserAndKind(ctx context.Context, userID uuid.UUID, kind model.CredentialKind) (*model.Credential, error)
	Update(ctx context.Context, credential *model.Credential) error
}

type CredentialRepository struct {
	db *gorm.DB
}

func NewCredentialRepository(db *gorm.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

func (r *CredentialRepository) WithTx(tx Transaction) CredentialRepositoryIface {
	return &CredentialRepository{db: txDB(tx, r.db)}
}

func (r *CredentialRepository) Create(ctx context.Context, credential *model.Credential) error {
	result := r.db.WithContext(ctx).Create(credential)
	if result.Error != nil {
		return fmt.Errorf("failed to create credential: %w", result.Error)
	}
	return nil
}

func (r *CredentialRepository) FindByUserAndKind(ctx context.Context, userID uuid.UUID, kind model.CredentialKind) (*model.Credential, error) {
	var credential model.Credential
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND kind = ? AND is_active = ?", userID, kind, true).
		Order("created_at DESC").
		First(&credential)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find credential: %w", result.Error)
	}
	return &credential, nil
}

func (r *CredentialRepository) Update(ctx context.Context, credential *model.Credential) error {
	result := r.db.WithContext(ctx).Save(credential)
	if result.Error != nil {
		return fmt.Errorf("failed to update credential: %w", result.Error)
	}
	return nil
}
