package mapper

import (
	"strconv"
	"time"

	logger "github.com/sirupsen/logrus"

	"tradedesk/src/connectors"
	"tradedesk/src/model"
)

// parseFloatSafe parses exchange numeric strings. Parse failures are
// logged and defaulted to 0 instead of aborting the whole mapping.
func parseFloatSafe(field, v string) float64 {
	if v == "" {
		return 0
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"field": field,
			"value": v,
		}).WithError(err).Error("Failed to parse numeric field from exchange payload; defaulting to 0")
		return 0
	}
	return f
}

// MapOrderHistoryItem converts a raw exchange order into the local ledger
// schema: numeric strings become floats, millisecond timestamps become UTC
// times, the exchange order id becomes the string natural key.
func MapOrderHistoryItem(item connectors.OrderHistoryItem, userID uint) model.RemoteOrder {
	return model.RemoteOrder{
		UserID:             userID,
		ExchangeOrderID:    strconv.FormatInt(item.OrderID, 10),
		Symbol:             item.Symbol,
		Side:               item.Side,
		OrderType:          item.Type,
		Status:             item.Status,
		Price:              parseFloatSafe("price", item.Price),
		OrigQty:            parseFloatSafe("origQty", item.OrigQty),
		FilledQty:          parseFloatSafe("executedQty", item.ExecutedQty),
		CumulativeQuoteQty: parseFloatSafe("cummulativeQuoteQty", item.CummulativeQuoteQty),
		TimeInForce:        item.TimeInForce,
		StopPrice:          parseFloatSafe("stopPrice", item.StopPrice),
		PlacedAt:           time.UnixMilli(item.Time).UTC(),
	}
}

// MapTradeHistoryItem converts a raw exchange fill. The caller supplies
// the resolved local parent order id; executions without one are dropped
// before mapping.
func MapTradeHistoryItem(item connectors.TradeHistoryItem, userID, remoteOrderID uint) model.RemoteExecution {
	side := "SELL"
	if item.IsBuyer {
		side = "BUY"
	}

	return model.RemoteExecution{
		UserID:          userID,
		RemoteOrderID:   remoteOrderID,
		ExchangeTradeID: strconv.FormatInt(item.ID, 10),
		Symbol:          item.Symbol,
		Side:            side,
		Price:           parseFloatSafe("price", item.Price),
		Quantity:        parseFloatSafe("qty", item.Qty),
		Fee:             parseFloatSafe("commission", item.Commission),
		FeeAsset:        item.CommissionAsset,
		IsMaker:         item.IsMaker,
		ExecutedAt:      time.UnixMilli(item.Time).UTC(),
	}
}
