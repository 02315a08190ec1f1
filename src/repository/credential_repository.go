package repository

import (
	"context"
	"errors"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"tradedesk/src/database"
	"tradedesk/src/model"
)

// CredentialRepository handles persistence for exchange API credentials.
type CredentialRepository struct {
	db *gorm.DB
}

// NewCredentialRepository creates a repository backed by the main database.
func NewCredentialRepository() *CredentialRepository {
	return &CredentialRepository{db: database.MainDB}
}

// WithDB allows overriding the underlying *gorm.DB instance.
func (r *CredentialRepository) WithDB(db *gorm.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// Create inserts a credential, enforcing one per (user, exchange). The
// pre-check turns the duplicate case into a domain error instead of a
// driver unique-constraint violation; the DB index remains the backstop.
func (r *CredentialRepository) Create(ctx context.Context, cred *model.Credential) error {
	logger.WithFields(map[string]interface{}{
		"repo":        "CredentialRepository",
		"op":          "Create",
		"user_id":     cred.UserID,
		"exchange_id": cred.ExchangeID,
	}).Debug("Creating credential")

	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Credential{}).
		Where("user_id = ? AND exchange_id = ?", cred.UserID, cred.ExchangeID).
		Count(&count).Error
	if err != nil {
		logger.WithError(err).Error("Failed to check for existing credential")
		return err
	}
	if count > 0 {
		return ErrCredentialExists
	}

	if err := r.db.WithContext(ctx).Create(cred).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrCredentialExists
		}
		logger.WithError(err).Error("Failed to create credential")
		return err
	}

	logger.WithFields(map[string]interface{}{
		"repo":          "CredentialRepository",
		"op":            "Create",
		"credential_id": cred.ID,
	}).Info("Credential created")

	return nil
}

// FindByID fetches one credential owned by the given user.
func (r *CredentialRepository) FindByID(ctx context.Context, id, userID uint) (*model.Credential, error) {
	var cred model.Credential
	err := r.db.WithContext(ctx).
		Preload("Exchange").
		Where("id = ? AND user_id = ?", id, userID).
		First(&cred).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCredentialNotFound
		}
		logger.WithFields(map[string]interface{}{
			"repo": "CredentialRepository",
			"op":   "FindByID",
			"id":   id,
		}).WithError(err).Error("Failed to fetch credential")
		return nil, err
	}
	return &cred, nil
}

// ListActive returns the user's active credentials, newest first.
func (r *CredentialRepository) ListActive(ctx context.Context, userID uint) ([]model.Credential, error) {
	var creds []model.Credential
	err := r.db.WithContext(ctx).
		Preload("Exchange").
		Where("user_id = ? AND active = ?", userID, true).
		Order("id DESC").
		Find(&creds).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":    "CredentialRepository",
			"op":      "ListActive",
			"user_id": userID,
		}).WithError(err).Error("Failed to list credentials")
		return nil, err
	}
	return creds, nil
}

// UpdateCapabilities persists capability flags detected by the probe.
func (r *CredentialRepository) UpdateCapabilities(ctx context.Context, id, userID uint, caps model.Capabilities) error {
	result := r.db.WithContext(ctx).
		Model(&model.Credential{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{
			"can_spot":     caps.Spot,
			"can_margin":   caps.Margin,
			"can_futures":  caps.Futures,
			"can_withdraw": caps.Withdraw,
		})
	if result.Error != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "CredentialRepository",
			"op":   "UpdateCapabilities",
			"id":   id,
		}).WithError(result.Error).Error("Failed to update capabilities")
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCredentialNotFound
	}

	logger.WithFields(map[string]interface{}{
		"repo":     "CredentialRepository",
		"op":       "UpdateCapabilities",
		"id":       id,
		"spot":     caps.Spot,
		"margin":   caps.Margin,
		"futures":  caps.Futures,
		"withdraw": caps.Withdraw,
	}).Info("Credential capabilities updated")

	return nil
}

// Delete removes a credential owned by the given user.
func (r *CredentialRepository) Delete(ctx context.Context, id, userID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Credential{})
	if result.Error != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "CredentialRepository",
			"op":   "Delete",
			"id":   id,
		}).WithError(result.Error).Error("Failed to delete credential")
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCredentialNotFound
	}
	return nil
}
