package model

import "github.com/shopspring/decimal"

// Holding is one valued portfolio position, computed per request from a
// balance report and current market prices.
type Holding struct {
	Asset      string          `json:"asset"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalValue decimal.Decimal `json:"total_value"`
	Percentage decimal.Decimal `json:"percentage"`
	Color      string          `json:"color"`
}
