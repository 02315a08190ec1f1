package controller

import (
	"context"

	logger "github.com/sirupsen/logrus"
)

// defaultSymbols is the liquid fallback set used when the user has no
// active trading pairs configured.
var defaultSymbols = []string{
	"BTCUSDT", "ETHUSDT", "BNBUSDT", "SOLUSDT", "XRPUSDT", "ADAUSDT",
}

// allowedQuoteAssets bounds the tradable universe to quotes the
// dashboard can value.
var allowedQuoteAssets = map[string]bool{
	"USDT": true,
	"BUSD": true,
	"BTC":  true,
	"ETH":  true,
	"BNB":  true,
	"USD":  true,
}

type activePairLister interface {
	ActiveSymbols(ctx context.Context, userID uint) ([]string, error)
}

// SymbolResolver decides which symbols matter for a user.
type SymbolResolver struct {
	pairs activePairLister
}

func NewSymbolResolver(pairs activePairLister) *SymbolResolver {
	return &SymbolResolver{pairs: pairs}
}

// ResolveSymbols returns the user's active pairs, or the default set
// when none are configured or the lookup fails.
func (s *SymbolResolver) ResolveSymbols(ctx context.Context, userID uint) []string {
	symbols, err := s.pairs.ActiveSymbols(ctx, userID)
	if err != nil {
		logger.WithField("user_id", userID).WithError(err).
			Warn("Failed to load trading pairs, using default symbols")
		return defaultSymbols
	}
	if len(symbols) == 0 {
		return defaultSymbols
	}
	return symbols
}

// ListTradableSymbols fetches the exchange's instrument universe and
// keeps instruments that are trading against an allowed quote asset.
// Any failure degrades to the default set; the error never propagates.
func (s *SymbolResolver) ListTradableSymbols(ctx context.Context, gateway ExchangeGateway) []string {
	info, err := gateway.GetExchangeInfo(ctx)
	if err != nil {
		logger.WithError(err).Warn("Failed to fetch exchange info, using default symbols")
		return defaultSymbols
	}

	var symbols []string
	for _, sym := range info.Symbols {
		if sym.Status != "TRADING" {
			continue
		}
		if !allowedQuoteAssets[sym.QuoteAsset] {
			continue
		}
		symbols = append(symbols, sym.Symbol)
	}

	if len(symbols) == 0 {
		return defaultSymbols
	}
	return symbols
}
