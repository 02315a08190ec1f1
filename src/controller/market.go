package controller

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"

	"tradedesk/src/connectors"
)

// MarketDataService reads public market data. Results are recomputed on
// every request; there is deliberately no caching layer.
type MarketDataService struct{}

func NewMarketDataService() *MarketDataService {
	return &MarketDataService{}
}

// CurrentPrices returns every listed symbol's last price as a map.
// Unparseable prices are skipped with a log.
func (m *MarketDataService) CurrentPrices(ctx context.Context, gateway ExchangeGateway) (map[string]decimal.Decimal, error) {
	tickers, err := gateway.GetTickerPrices(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch current prices: %w", err)
	}

	prices := make(map[string]decimal.Decimal, len(tickers))
	for _, ticker := range tickers {
		price, err := decimal.NewFromString(ticker.Price)
		if err != nil {
			logger.WithFields(map[string]interface{}{
				"symbol": ticker.Symbol,
				"price":  ticker.Price,
			}).Warn("Skipping unparseable ticker price")
			continue
		}
		prices[ticker.Symbol] = price
	}
	return prices, nil
}

// Statistics24h returns rolling 24h statistics for all symbols.
func (m *MarketDataService) Statistics24h(ctx context.Context, gateway ExchangeGateway) ([]connectors.Ticker24h, error) {
	stats, err := gateway.GetTicker24h(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch 24h statistics: %w", err)
	}
	return stats, nil
}
