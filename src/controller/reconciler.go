package controller

import (
	"context"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"

	"tradedesk/src/model"
)

// quoteSuffixes are stripped from traded symbols when inferring a
// plausible asset set for the degraded balance path.
var quoteSuffixes = []string{"USDT", "BUSD", "USDC", "BTC", "ETH", "BNB", "USD"}

// fallbackStables are always present in inferred reports so the
// dashboard has a quote column to render.
var fallbackStables = []string{"USDT", "USDC"}

type recentSymbolLister interface {
	RecentSymbols(ctx context.Context, userID uint, since time.Time) ([]string, error)
}

// AccountReconciler fetches authenticated balances with a tiered
// fallback: live account data, then assets inferred from recent trades,
// then a minimal placeholder. Degraded tiers carry zero quantities that
// mean "unknown", and the report says which tier produced it.
type AccountReconciler struct {
	orders           recentSymbolLister
	recentWindowDays int
}

func NewAccountReconciler(orders recentSymbolLister) *AccountReconciler {
	cfg := GetConfig()
	return &AccountReconciler{orders: orders, recentWindowDays: cfg.RecentWindowDays}
}

// GetBalances never returns an error: every failure tier degrades to a
// report the dashboard can render.
func (a *AccountReconciler) GetBalances(ctx context.Context, gateway ExchangeGateway, userID uint) *model.BalanceReport {
	info, err := gateway.GetAccountInfo(ctx)
	if err == nil {
		balances := make(map[string]model.AssetBalance)
		for _, entry := range info.Balances {
			if entry.Free == "0.00000000" && entry.Locked == "0.00000000" {
				continue
			}
			if entry.Free == "0" && entry.Locked == "0" {
				continue
			}
			balances[entry.Asset] = model.AssetBalance{
				Asset:     entry.Asset,
				Available: entry.Free,
				OnOrder:   entry.Locked,
			}
		}
		return &model.BalanceReport{
			Balances: balances,
			Source:   model.BalanceSourceLive,
			Degraded: false,
		}
	}

	logger.WithField("user_id", userID).WithError(err).
		Warn("Account info unavailable, inferring assets from recent orders")

	since := time.Now().AddDate(0, 0, -a.recentWindowDays)
	symbols, lookupErr := a.orders.RecentSymbols(ctx, userID, since)
	if lookupErr != nil {
		logger.WithField("user_id", userID).WithError(lookupErr).
			Error("Recent order lookup failed, returning placeholder balances")
		return placeholderReport()
	}

	balances := make(map[string]model.AssetBalance)
	for _, symbol := range symbols {
		asset := stripQuoteSuffix(symbol)
		if asset == "" {
			continue
		}
		balances[asset] = zeroBalance(asset)
	}
	for _, stable := range fallbackStables {
		balances[stable] = zeroBalance(stable)
	}

	return &model.BalanceReport{
		Balances: balances,
		Source:   model.BalanceSourceInferred,
		Degraded: true,
	}
}

func stripQuoteSuffix(symbol string) string {
	for _, quote := range quoteSuffixes {
		if strings.HasSuffix(symbol, quote) && len(symbol) > len(quote) {
			return strings.TrimSuffix(symbol, quote)
		}
	}
	return symbol
}

func zeroBalance(asset string) model.AssetBalance {
	return model.AssetBalance{Asset: asset, Available: "0", OnOrder: "0"}
}

func placeholderReport() *model.BalanceReport {
	return &model.BalanceReport{
		Balances: map[string]model.AssetBalance{
			"BTC":  zeroBalance("BTC"),
			"USDT": zeroBalance("USDT"),
		},
		Source:   model.BalanceSourcePlaceholder,
		Degraded: true,
	}
}
