package controller

import (
	"context"
	"time"

	"tradedesk/src/connectors"
	"tradedesk/src/model"
)

// ExchangeGateway is the slice of the connector the controllers consume.
// Production wiring uses *connectors.BinanceClient; tests use fakes.
type ExchangeGateway interface {
	GetAccountInfo(ctx context.Context) (*connectors.AccountInfo, error)
	GetOrderHistory(ctx context.Context, symbol string, start, end time.Time, limit int) ([]connectors.OrderHistoryItem, error)
	GetTradeHistory(ctx context.Context, symbol string, start, end time.Time, limit int) ([]connectors.TradeHistoryItem, error)
	GetExchangeInfo(ctx context.Context) (*connectors.ExchangeInfo, error)
	GetTickerPrices(ctx context.Context) ([]connectors.TickerPrice, error)
	GetTicker24h(ctx context.Context) ([]connectors.Ticker24h, error)
	ProbeCapabilities(ctx context.Context) connectors.ProbeResult
}

// GatewayFactory builds a gateway for a decrypted credential.
type GatewayFactory func(cred model.DecryptedCredential) ExchangeGateway

// DefaultGatewayFactory wires the real Binance client.
func DefaultGatewayFactory(cred model.DecryptedCredential) ExchangeGateway {
	return connectors.NewBinanceClient(cred.APIKey, cred.APISecret, cred.Variant)
}
