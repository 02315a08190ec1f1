package controller

import (
	"context"
	"time"

	"tradedesk/src/connectors"
)

// fakeGateway lets each test script the exchange's behavior per symbol.
type fakeGateway struct {
	accountInfo    *connectors.AccountInfo
	accountErr     error
	ordersBySymbol map[string][]connectors.OrderHistoryItem
	orderErrs      map[string]error
	tradesBySymbol map[string][]connectors.TradeHistoryItem
	tradeErrs      map[string]error
	exchangeInfo   *connectors.ExchangeInfo
	exchangeErr    error
	tickerPrices   []connectors.TickerPrice
	tickerErr      error
	stats24h       []connectors.Ticker24h
	statsErr       error
	probe          connectors.ProbeResult
}

func (f *fakeGateway) GetAccountInfo(context.Context) (*connectors.AccountInfo, error) {
	return f.accountInfo, f.accountErr
}

func (f *fakeGateway) GetOrderHistory(_ context.Context, symbol string, _, _ time.Time, _ int) ([]connectors.OrderHistoryItem, error) {
	if err := f.orderErrs[symbol]; err != nil {
		return nil, err
	}
	return f.ordersBySymbol[symbol], nil
}

func (f *fakeGateway) GetTradeHistory(_ context.Context, symbol string, _, _ time.Time, _ int) ([]connectors.TradeHistoryItem, error) {
	if err := f.tradeErrs[symbol]; err != nil {
		return nil, err
	}
	return f.tradesBySymbol[symbol], nil
}

func (f *fakeGateway) GetExchangeInfo(context.Context) (*connectors.ExchangeInfo, error) {
	return f.exchangeInfo, f.exchangeErr
}

func (f *fakeGateway) GetTickerPrices(context.Context) ([]connectors.TickerPrice, error) {
	return f.tickerPrices, f.tickerErr
}

func (f *fakeGateway) GetTicker24h(context.Context) ([]connectors.Ticker24h, error) {
	return f.stats24h, f.statsErr
}

func (f *fakeGateway) ProbeCapabilities(context.Context) connectors.ProbeResult {
	return f.probe
}
