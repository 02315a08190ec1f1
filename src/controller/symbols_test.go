package controller

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"tradedesk/src/connectors"
)

type fakePairLister struct {
	symbols []string
	err     error
}

func (f *fakePairLister) ActiveSymbols(context.Context, uint) ([]string, error) {
	return f.symbols, f.err
}

func TestResolveSymbols(t *testing.T) {
	t.Run("user pairs win", func(t *testing.T) {
		resolver := NewSymbolResolver(&fakePairLister{symbols: []string{"DOGEUSDT", "SHIBUSDT"}})
		assert.Equal(t, []string{"DOGEUSDT", "SHIBUSDT"}, resolver.ResolveSymbols(context.Background(), 1))
	})

	t.Run("empty falls back to defaults", func(t *testing.T) {
		resolver := NewSymbolResolver(&fakePairLister{})
		assert.Equal(t, defaultSymbols, resolver.ResolveSymbols(context.Background(), 1))
	})

	t.Run("lookup error falls back to defaults", func(t *testing.T) {
		resolver := NewSymbolResolver(&fakePairLister{err: errors.New("db down")})
		assert.Equal(t, defaultSymbols, resolver.ResolveSymbols(context.Background(), 1))
	})
}

func TestListTradableSymbols(t *testing.T) {
	resolver := NewSymbolResolver(&fakePairLister{})

	t.Run("filters status and quote asset", func(t *testing.T) {
		gateway := &fakeGateway{exchangeInfo: &connectors.ExchangeInfo{Symbols: []connectors.ExchangeSymbol{
			{Symbol: "BTCUSDT", Status: "TRADING", QuoteAsset: "USDT"},
			{Symbol: "LUNAUSDT", Status: "BREAK", QuoteAsset: "USDT"},
			{Symbol: "BTCDAI", Status: "TRADING", QuoteAsset: "DAI"},
			{Symbol: "ETHBTC", Status: "TRADING", QuoteAsset: "BTC"},
		}}}

		got := resolver.ListTradableSymbols(context.Background(), gateway)
		assert.Equal(t, []string{"BTCUSDT", "ETHBTC"}, got)
	})

	t.Run("fetch failure degrades to defaults", func(t *testing.T) {
		gateway := &fakeGateway{exchangeErr: errors.New("exchange down")}
		assert.Equal(t, defaultSymbols, resolver.ListTradableSymbols(context.Background(), gateway))
	})
}
