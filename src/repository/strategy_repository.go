package repository

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"tradedesk/src/database"
	"tradedesk/src/model"
)

// StrategyRepository stores strategy configuration records.
type StrategyRepository struct {
	db *gorm.DB
}

func NewStrategyRepository() *StrategyRepository {
	return &StrategyRepository{db: database.MainDB}
}

// WithDB allows overriding the underlying *gorm.DB instance.
func (r *StrategyRepository) WithDB(db *gorm.DB) *StrategyRepository {
	return &StrategyRepository{db: db}
}

func (r *StrategyRepository) List(ctx context.Context, userID uint) ([]model.Strategy, error) {
	var strategies []model.Strategy
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&strategies).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":    "StrategyRepository",
			"op":      "List",
			"user_id": userID,
		}).WithError(err).Error("Failed to list strategies")
		return nil, err
	}
	return strategies, nil
}

func (r *StrategyRepository) Create(ctx context.Context, strategy *model.Strategy) error {
	if err := r.db.WithContext(ctx).Create(strategy).Error; err != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "StrategyRepository",
			"op":   "Create",
			"name": strategy.Name,
		}).WithError(err).Error("Failed to create strategy")
		return err
	}
	return nil
}

func (r *StrategyRepository) Update(ctx context.Context, strategy *model.Strategy) error {
	result := r.db.WithContext(ctx).
		Model(&model.Strategy{}).
		Where("id = ? AND user_id = ?", strategy.ID, strategy.UserID).
		Updates(map[string]interface{}{
			"name":   strategy.Name,
			"kind":   strategy.Kind,
			"symbol": strategy.Symbol,
			"config": strategy.Config,
			"active": strategy.Active,
		})
	if result.Error != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "StrategyRepository",
			"op":   "Update",
			"id":   strategy.ID,
		}).WithError(result.Error).Error("Failed to update strategy")
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *StrategyRepository) Delete(ctx context.Context, id, userID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Strategy{})
	if result.Error != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "StrategyRepository",
			"op":   "Delete",
			"id":   id,
		}).WithError(result.Error).Error("Failed to delete strategy")
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
