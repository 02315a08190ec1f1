package controller

import (
	"sort"

	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"

	"tradedesk/src/model"
)

// stablecoins are valued 1:1 against the quote currency.
var stablecoins = map[string]bool{
	"USDT": true,
	"USDC": true,
	"BUSD": true,
	"DAI":  true,
	"TUSD": true,
}

// holdingColors is a fixed palette assigned by descending value rank.
var holdingColors = []string{
	"#F7931A", "#627EEA", "#F3BA2F", "#26A17B", "#2775CA",
	"#00FFA3", "#23292F", "#0033AD", "#C2A633", "#8247E5",
}

// minHoldingValue drops dust below one quote unit before percentages
// are computed.
var minHoldingValue = decimal.NewFromInt(1)

// PortfolioValuator turns a balance report plus current prices into
// valued, percentage-weighted holdings.
type PortfolioValuator struct{}

func NewPortfolioValuator() *PortfolioValuator {
	return &PortfolioValuator{}
}

// Valuate prices each balance (stablecoins at 1.0, everything else via
// <asset>USDT, missing prices as 0), filters dust, and returns holdings
// sorted by descending value with percentages over the retained total.
func (p *PortfolioValuator) Valuate(report *model.BalanceReport, prices map[string]decimal.Decimal) []model.Holding {
	if report == nil || len(report.Balances) == 0 {
		return nil
	}

	holdings := make([]model.Holding, 0, len(report.Balances))
	for asset, balance := range report.Balances {
		quantity := parseDecimalSafe(asset, balance.Available).
			Add(parseDecimalSafe(asset, balance.OnOrder))

		var unitPrice decimal.Decimal
		if stablecoins[asset] {
			unitPrice = decimal.NewFromInt(1)
		} else if price, ok := prices[asset+"USDT"]; ok {
			unitPrice = price
		}

		value := quantity.Mul(unitPrice)
		if value.LessThan(minHoldingValue) {
			continue
		}

		holdings = append(holdings, model.Holding{
			Asset:      asset,
			Quantity:   quantity,
			UnitPrice:  unitPrice,
			TotalValue: value,
		})
	}

	if len(holdings) == 0 {
		return nil
	}

	sort.Slice(holdings, func(i, j int) bool {
		if holdings[i].TotalValue.Equal(holdings[j].TotalValue) {
			return holdings[i].Asset < holdings[j].Asset
		}
		return holdings[i].TotalValue.GreaterThan(holdings[j].TotalValue)
	})

	total := decimal.Zero
	for _, h := range holdings {
		total = total.Add(h.TotalValue)
	}

	hundred := decimal.NewFromInt(100)
	for i := range holdings {
		holdings[i].Percentage = holdings[i].TotalValue.Div(total).Mul(hundred).Round(2)
		holdings[i].Color = holdingColors[i%len(holdingColors)]
	}

	return holdings
}

func parseDecimalSafe(asset, v string) decimal.Decimal {
	if v == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"asset": asset,
			"value": v,
		}).Warn("Unparseable balance quantity, treating as zero")
		return decimal.Zero
	}
	return d
}
