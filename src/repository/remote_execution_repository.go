package repository

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"tradedesk/src/database"
	"tradedesk/src/model"
)

// RemoteExecutionRepository handles the local ledger of exchange fills.
type RemoteExecutionRepository struct {
	db *gorm.DB
}

func NewRemoteExecutionRepository() *RemoteExecutionRepository {
	return &RemoteExecutionRepository{db: database.MainDB}
}

// WithDB allows overriding the underlying *gorm.DB instance.
func (r *RemoteExecutionRepository) WithDB(db *gorm.DB) *RemoteExecutionRepository {
	return &RemoteExecutionRepository{db: db}
}

// ExistingExchangeTradeIDs returns which of the given exchange trade ids
// are already stored for the user.
func (r *RemoteExecutionRepository) ExistingExchangeTradeIDs(ctx context.Context, userID uint, exchangeTradeIDs []string) (map[string]bool, error) {
	existing := make(map[string]bool, len(exchangeTradeIDs))
	if len(exchangeTradeIDs) == 0 {
		return existing, nil
	}

	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.RemoteExecution{}).
		Where("user_id = ? AND exchange_trade_id IN ?", userID, exchangeTradeIDs).
		Pluck("exchange_trade_id", &ids).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":    "RemoteExecutionRepository",
			"op":      "ExistingExchangeTradeIDs",
			"user_id": userID,
		}).WithError(err).Error("Failed to look up existing trade ids")
		return nil, err
	}

	for _, id := range ids {
		existing[id] = true
	}
	return existing, nil
}

// CreateBatch inserts executions in bounded transactional batches.
func (r *RemoteExecutionRepository) CreateBatch(ctx context.Context, executions []model.RemoteExecution) error {
	if len(executions) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(executions, insertBatchSize).Error
	})
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "RemoteExecutionRepository",
			"op":   "CreateBatch",
			"rows": len(executions),
		}).WithError(err).Error("Failed to insert execution batch")
		return err
	}

	logger.WithFields(map[string]interface{}{
		"repo": "RemoteExecutionRepository",
		"op":   "CreateBatch",
		"rows": len(executions),
	}).Info("Remote executions inserted")

	return nil
}

// CountForOrder returns how many stored fills reference the local order.
func (r *RemoteExecutionRepository) CountForOrder(ctx context.Context, remoteOrderID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.RemoteExecution{}).
		Where("remote_order_id = ?", remoteOrderID).
		Count(&count).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":            "RemoteExecutionRepository",
			"op":              "CountForOrder",
			"remote_order_id": remoteOrderID,
		}).WithError(err).Error("Failed to count executions")
		return 0, err
	}
	return count, nil
}
