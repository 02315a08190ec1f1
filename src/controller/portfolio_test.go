package controller

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradedesk/src/model"
)

func balanceReport(balances map[string]model.AssetBalance) *model.BalanceReport {
	return &model.BalanceReport{Balances: balances, Source: model.BalanceSourceLive}
}

// TestValuateRoundTrip prices {BTC: 1, USDT: 1000} at BTCUSDT=50000 and
// checks ordering, values and percentages summing to 100.
func TestValuateRoundTrip(t *testing.T) {
	report := balanceReport(map[string]model.AssetBalance{
		"BTC":  {Asset: "BTC", Available: "1", OnOrder: "0"},
		"USDT": {Asset: "USDT", Available: "1000", OnOrder: "0"},
	})
	prices := map[string]decimal.Decimal{
		"BTCUSDT": decimal.NewFromInt(50000),
	}

	holdings := NewPortfolioValuator().Valuate(report, prices)
	require.Len(t, holdings, 2)

	assert.Equal(t, "BTC", holdings[0].Asset)
	assert.True(t, holdings[0].TotalValue.Equal(decimal.NewFromInt(50000)))
	assert.Equal(t, "USDT", holdings[1].Asset)
	assert.True(t, holdings[1].TotalValue.Equal(decimal.NewFromInt(1000)))

	sum := holdings[0].Percentage.Add(holdings[1].Percentage)
	diff := sum.Sub(decimal.NewFromInt(100)).Abs()
	assert.True(t, diff.LessThanOrEqual(decimal.NewFromFloat(0.01)),
		"percentages must sum to 100 within rounding, got %s", sum)

	// BTC dominates: roughly 98%.
	assert.True(t, holdings[0].Percentage.GreaterThan(decimal.NewFromInt(97)))
}

func TestValuateDropsDustAndUnpriced(t *testing.T) {
	report := balanceReport(map[string]model.AssetBalance{
		"BTC":  {Asset: "BTC", Available: "1", OnOrder: "0"},
		"XYZ":  {Asset: "XYZ", Available: "10000", OnOrder: "0"}, // no price
		"DOGE": {Asset: "DOGE", Available: "2", OnOrder: "0"},    // worth < 1
	})
	prices := map[string]decimal.Decimal{
		"BTCUSDT":  decimal.NewFromInt(50000),
		"DOGEUSDT": decimal.NewFromFloat(0.1),
	}

	holdings := NewPortfolioValuator().Valuate(report, prices)
	require.Len(t, holdings, 1)
	assert.Equal(t, "BTC", holdings[0].Asset)
	assert.True(t, holdings[0].Percentage.Equal(decimal.NewFromInt(100)))
}

func TestValuateCountsOnOrderQuantity(t *testing.T) {
	report := balanceReport(map[string]model.AssetBalance{
		"USDT": {Asset: "USDT", Available: "600", OnOrder: "400"},
	})

	holdings := NewPortfolioValuator().Valuate(report, nil)
	require.Len(t, holdings, 1)
	assert.True(t, holdings[0].TotalValue.Equal(decimal.NewFromInt(1000)))
}

func TestValuateEmptyReport(t *testing.T) {
	assert.Nil(t, NewPortfolioValuator().Valuate(nil, nil))
	assert.Nil(t, NewPortfolioValuator().Valuate(balanceReport(map[string]model.AssetBalance{}), nil))
}
