package model

// AssetBalance is a request-scoped snapshot of one asset's funds.
// Balances are never persisted or cached; every dashboard request
// recomputes them from the exchange.
type AssetBalance struct {
	Asset     string `json:"asset"`
	Available string `json:"available"`
	OnOrder   string `json:"on_order"`
}

// Balance report sources, from most to least trustworthy.
const (
	BalanceSourceLive        = "live"
	BalanceSourceInferred    = "inferred"
	BalanceSourcePlaceholder = "placeholder"
)

// BalanceReport carries balances plus how they were obtained. Degraded
// results hold zero quantities that mean "unknown", not "empty account".
type BalanceReport struct {
	Balances map[string]AssetBalance `json:"balances"`
	Source   string                  `json:"source"`
	Degraded bool                    `json:"degraded"`
}
