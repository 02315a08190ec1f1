package repository

import (
	"context"
	"time"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"tradedesk/src/database"
	"tradedesk/src/model"
)

// RemoteOrderRepository handles the local ledger of exchange-sourced orders.
type RemoteOrderRepository struct {
	db *gorm.DB
}

func NewRemoteOrderRepository() *RemoteOrderRepository {
	return &RemoteOrderRepository{db: database.MainDB}
}

// WithDB allows overriding the underlying *gorm.DB instance.
func (r *RemoteOrderRepository) WithDB(db *gorm.DB) *RemoteOrderRepository {
	return &RemoteOrderRepository{db: db}
}

// FindExistingByExchangeOrderIDs returns the stored rows matching the
// given exchange order ids, restricted to the columns sync compares.
// One bulk lookup for the whole fetched batch.
func (r *RemoteOrderRepository) FindExistingByExchangeOrderIDs(ctx context.Context, userID uint, exchangeOrderIDs []string) ([]model.RemoteOrder, error) {
	if len(exchangeOrderIDs) == 0 {
		return nil, nil
	}

	var rows []model.RemoteOrder
	err := r.db.WithContext(ctx).
		Select("id", "exchange_order_id", "status", "filled_qty", "cumulative_quote_qty").
		Where("user_id = ? AND exchange_order_id IN ?", userID, exchangeOrderIDs).
		Find(&rows).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":    "RemoteOrderRepository",
			"op":      "FindExistingByExchangeOrderIDs",
			"user_id": userID,
		}).WithError(err).Error("Failed to look up existing orders")
		return nil, err
	}
	return rows, nil
}

// CreateBatch inserts orders in bounded batches, each inside its own
// transaction to keep lock scope small.
func (r *RemoteOrderRepository) CreateBatch(ctx context.Context, orders []model.RemoteOrder) error {
	if len(orders) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(orders, insertBatchSize).Error
	})
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "RemoteOrderRepository",
			"op":   "CreateBatch",
			"rows": len(orders),
		}).WithError(err).Error("Failed to insert order batch")
		return err
	}

	logger.WithFields(map[string]interface{}{
		"repo": "RemoteOrderRepository",
		"op":   "CreateBatch",
		"rows": len(orders),
	}).Info("Remote orders inserted")

	return nil
}

// RefreshStatus updates the two mutable fields of an already stored
// order. Identity fields never change after insert.
func (r *RemoteOrderRepository) RefreshStatus(ctx context.Context, userID uint, exchangeOrderID, status string, filledQty, cumulativeQuoteQty float64) error {
	err := r.db.WithContext(ctx).
		Model(&model.RemoteOrder{}).
		Where("user_id = ? AND exchange_order_id = ?", userID, exchangeOrderID).
		Updates(map[string]interface{}{
			"status":               status,
			"filled_qty":           filledQty,
			"cumulative_quote_qty": cumulativeQuoteQty,
		}).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":              "RemoteOrderRepository",
			"op":                "RefreshStatus",
			"exchange_order_id": exchangeOrderID,
		}).WithError(err).Error("Failed to refresh order status")
	}
	return err
}

// LocalIDsByExchangeOrderIDs maps exchange order ids to local primary
// keys, used to resolve execution parents after order persistence.
func (r *RemoteOrderRepository) LocalIDsByExchangeOrderIDs(ctx context.Context, userID uint, exchangeOrderIDs []string) (map[string]uint, error) {
	mapping := make(map[string]uint, len(exchangeOrderIDs))
	if len(exchangeOrderIDs) == 0 {
		return mapping, nil
	}

	var rows []model.RemoteOrder
	err := r.db.WithContext(ctx).
		Select("id", "exchange_order_id").
		Where("user_id = ? AND exchange_order_id IN ?", userID, exchangeOrderIDs).
		Find(&rows).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":    "RemoteOrderRepository",
			"op":      "LocalIDsByExchangeOrderIDs",
			"user_id": userID,
		}).WithError(err).Error("Failed to resolve local order ids")
		return nil, err
	}

	for _, row := range rows {
		mapping[row.ExchangeOrderID] = row.ID
	}
	return mapping, nil
}

// RecentSymbols lists the distinct symbols the user traded since the
// given time. Feeds the degraded balance path.
func (r *RemoteOrderRepository) RecentSymbols(ctx context.Context, userID uint, since time.Time) ([]string, error) {
	var symbols []string
	err := r.db.WithContext(ctx).
		Model(&model.RemoteOrder{}).
		Distinct("symbol").
		Where("user_id = ? AND placed_at >= ?", userID, since).
		Pluck("symbol", &symbols).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":    "RemoteOrderRepository",
			"op":      "RecentSymbols",
			"user_id": userID,
		}).WithError(err).Error("Failed to list recent symbols")
		return nil, err
	}
	return symbols, nil
}

// OrderSearchOptions filters the local ledger listing.
type OrderSearchOptions struct {
	UserID      uint
	Symbol      *string
	Status      *string
	PlacedAfter *time.Time
	Limit       int
	Offset      int
}

// Search lists stored orders newest first with optional filters.
func (r *RemoteOrderRepository) Search(ctx context.Context, options OrderSearchOptions) ([]model.RemoteOrder, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ?", options.UserID)

	if options.Symbol != nil {
		query = query.Where("symbol = ?", *options.Symbol)
	}
	if options.Status != nil {
		query = query.Where("status = ?", *options.Status)
	}
	if options.PlacedAfter != nil {
		query = query.Where("placed_at >= ?", *options.PlacedAfter)
	}

	limit := options.Limit
	if limit <= 0 {
		limit = 50
	}

	var orders []model.RemoteOrder
	err := query.
		Order("placed_at DESC, id DESC").
		Limit(limit).
		Offset(options.Offset).
		Find(&orders).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":    "RemoteOrderRepository",
			"op":      "Search",
			"user_id": options.UserID,
		}).WithError(err).Error("Failed to search remote orders")
		return nil, err
	}
	return orders, nil
}
