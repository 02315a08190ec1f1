package controller

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"

	"tradedesk/src/connectors"
	"tradedesk/src/mapper"
	"tradedesk/src/model"
	"tradedesk/src/repository"
)

// SyncReport summarizes one trade-history sync run.
type SyncReport struct {
	RunID              string   `json:"run_id"`
	Symbols            []string `json:"symbols"`
	FailedSymbols      []string `json:"failed_symbols"`
	OrdersFetched      int      `json:"orders_fetched"`
	OrdersInserted     int      `json:"orders_inserted"`
	OrdersRefreshed    int      `json:"orders_refreshed"`
	ExecutionsFetched  int      `json:"executions_fetched"`
	ExecutionsInserted int      `json:"executions_inserted"`
	OrphansDropped     int      `json:"orphans_dropped"`
}

// TradeHistorySyncer reconciles the exchange's order and trade history
// into the local ledger. Re-running over an overlapping window is safe:
// dedup is a set difference against stored exchange ids, computed before
// any insert, so no upsert semantics are needed.
type TradeHistorySyncer struct {
	resolver   *SymbolResolver
	orders     *repository.RemoteOrderRepository
	executions *repository.RemoteExecutionRepository

	windowDays int
	pageSize   int
}

func NewTradeHistorySyncer(resolver *SymbolResolver, orders *repository.RemoteOrderRepository, executions *repository.RemoteExecutionRepository) *TradeHistorySyncer {
	cfg := connectors.GetConfig()
	return &TradeHistorySyncer{
		resolver:   resolver,
		orders:     orders,
		executions: executions,
		windowDays: cfg.OrderWindowDays,
		pageSize:   cfg.HistoryPageSize,
	}
}

// Sync fetches the recent window per symbol and persists what is new.
// A failing symbol is logged and skipped; the remaining symbols still
// sync. Orders persist before executions because parent resolution
// reads back what order persistence wrote.
func (s *TradeHistorySyncer) Sync(ctx context.Context, gateway ExchangeGateway, userID uint) (*SyncReport, error) {
	report := &SyncReport{
		RunID:   uuid.NewString(),
		Symbols: s.resolver.ResolveSymbols(ctx, userID),
	}

	end := time.Now()
	start := end.AddDate(0, 0, -s.windowDays)

	log := logger.WithFields(logger.Fields{
		"run_id":  report.RunID,
		"user_id": userID,
	})
	log.WithField("symbols", report.Symbols).Info("Starting trade history sync")

	var fetchedOrders []connectors.OrderHistoryItem
	var fetchedTrades []connectors.TradeHistoryItem

	for _, symbol := range report.Symbols {
		if err := ctx.Err(); err != nil {
			log.WithError(err).Warn("Sync deadline reached, persisting partial results")
			break
		}

		orders, err := gateway.GetOrderHistory(ctx, symbol, start, end, s.pageSize)
		if err != nil {
			log.WithField("symbol", symbol).WithError(err).
				Warn("Order fetch failed for symbol, skipping")
			report.FailedSymbols = append(report.FailedSymbols, symbol)
			continue
		}
		fetchedOrders = append(fetchedOrders, orders...)

		trades, err := gateway.GetTradeHistory(ctx, symbol, start, end, s.pageSize)
		if err != nil {
			log.WithField("symbol", symbol).WithError(err).
				Warn("Trade fetch failed for symbol, keeping its orders")
			report.FailedSymbols = append(report.FailedSymbols, symbol)
			continue
		}
		fetchedTrades = append(fetchedTrades, trades...)
	}

	report.OrdersFetched = len(fetchedOrders)
	report.ExecutionsFetched = len(fetchedTrades)

	if err := s.persistOrders(ctx, userID, fetchedOrders, report); err != nil {
		return report, err
	}
	if err := s.persistExecutions(ctx, userID, fetchedTrades, report); err != nil {
		return report, err
	}

	log.WithFields(logger.Fields{
		"orders_inserted":     report.OrdersInserted,
		"orders_refreshed":    report.OrdersRefreshed,
		"executions_inserted": report.ExecutionsInserted,
		"orphans_dropped":     report.OrphansDropped,
		"failed_symbols":      report.FailedSymbols,
	}).Info("Trade history sync completed")

	return report, nil
}

// persistOrders inserts genuinely new orders and refreshes the mutable
// status fields of re-fetched ones.
func (s *TradeHistorySyncer) persistOrders(ctx context.Context, userID uint, items []connectors.OrderHistoryItem, report *SyncReport) error {
	if len(items) == 0 {
		return nil
	}

	mapped := make([]model.RemoteOrder, 0, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		order := mapper.MapOrderHistoryItem(item, userID)
		mapped = append(mapped, order)
		ids = append(ids, order.ExchangeOrderID)
	}

	existingRows, err := s.orders.FindExistingByExchangeOrderIDs(ctx, userID, ids)
	if err != nil {
		return err
	}
	existing := make(map[string]model.RemoteOrder, len(existingRows))
	for _, row := range existingRows {
		existing[row.ExchangeOrderID] = row
	}

	var fresh []model.RemoteOrder
	for _, order := range mapped {
		stored, ok := existing[order.ExchangeOrderID]
		if !ok {
			fresh = append(fresh, order)
			continue
		}
		if stored.Status != order.Status || stored.FilledQty != order.FilledQty {
			if err := s.orders.RefreshStatus(ctx, userID, order.ExchangeOrderID, order.Status, order.FilledQty, order.CumulativeQuoteQty); err != nil {
				return err
			}
			report.OrdersRefreshed++
		}
	}

	if err := s.orders.CreateBatch(ctx, fresh); err != nil {
		return err
	}
	report.OrdersInserted = len(fresh)
	return nil
}

// persistExecutions inserts new fills after resolving each one's parent
// order among the rows order persistence just wrote. Fills without a
// locally known parent are dropped with a log, never stored as orphans.
func (s *TradeHistorySyncer) persistExecutions(ctx context.Context, userID uint, items []connectors.TradeHistoryItem, report *SyncReport) error {
	if len(items) == 0 {
		return nil
	}

	tradeIDs := make([]string, 0, len(items))
	parentIDs := make([]string, 0, len(items))
	for _, item := range items {
		tradeIDs = append(tradeIDs, formatID(item.ID))
		parentIDs = append(parentIDs, formatID(item.OrderID))
	}

	existing, err := s.executions.ExistingExchangeTradeIDs(ctx, userID, tradeIDs)
	if err != nil {
		return err
	}

	parents, err := s.orders.LocalIDsByExchangeOrderIDs(ctx, userID, parentIDs)
	if err != nil {
		return err
	}

	var fresh []model.RemoteExecution
	for _, item := range items {
		if existing[formatID(item.ID)] {
			continue
		}

		parentLocalID, ok := parents[formatID(item.OrderID)]
		if !ok {
			logger.WithFields(logger.Fields{
				"user_id":           userID,
				"exchange_trade_id": item.ID,
				"exchange_order_id": item.OrderID,
				"symbol":            item.Symbol,
			}).Warn("Dropping execution with no locally known parent order")
			report.OrphansDropped++
			continue
		}

		fresh = append(fresh, mapper.MapTradeHistoryItem(item, userID, parentLocalID))
	}

	if err := s.executions.CreateBatch(ctx, fresh); err != nil {
		return err
	}
	report.ExecutionsInserted = len(fresh)
	return nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
