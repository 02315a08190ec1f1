package repository

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"tradedesk/src/database"
	"tradedesk/src/model"
)

// TradingPairRepository stores the user-configured symbols the dashboard
// tracks.
type TradingPairRepository struct {
	db *gorm.DB
}

func NewTradingPairRepository() *TradingPairRepository {
	return &TradingPairRepository{db: database.MainDB}
}

// WithDB allows overriding the underlying *gorm.DB instance.
func (r *TradingPairRepository) WithDB(db *gorm.DB) *TradingPairRepository {
	return &TradingPairRepository{db: db}
}

// ActiveSymbols returns the user's active pair symbols in insertion order.
func (r *TradingPairRepository) ActiveSymbols(ctx context.Context, userID uint) ([]string, error) {
	var symbols []string
	err := r.db.WithContext(ctx).
		Model(&model.TradingPair{}).
		Where("user_id = ? AND active = ?", userID, true).
		Order("id ASC").
		Pluck("symbol", &symbols).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":    "TradingPairRepository",
			"op":      "ActiveSymbols",
			"user_id": userID,
		}).WithError(err).Error("Failed to list active symbols")
		return nil, err
	}
	return symbols, nil
}

// List returns all of the user's pairs.
func (r *TradingPairRepository) List(ctx context.Context, userID uint) ([]model.TradingPair, error) {
	var pairs []model.TradingPair
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&pairs).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":    "TradingPairRepository",
			"op":      "List",
			"user_id": userID,
		}).WithError(err).Error("Failed to list trading pairs")
		return nil, err
	}
	return pairs, nil
}

// Create inserts a pair for the user.
func (r *TradingPairRepository) Create(ctx context.Context, pair *model.TradingPair) error {
	if err := r.db.WithContext(ctx).Create(pair).Error; err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":   "TradingPairRepository",
			"op":     "Create",
			"symbol": pair.Symbol,
		}).WithError(err).Error("Failed to create trading pair")
		return err
	}
	return nil
}

// Delete removes one of the user's pairs.
func (r *TradingPairRepository) Delete(ctx context.Context, id, userID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.TradingPair{})
	if result.Error != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "TradingPairRepository",
			"op":   "Delete",
			"id":   id,
		}).WithError(result.Error).Error("Failed to delete trading pair")
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
