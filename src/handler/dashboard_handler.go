package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	logger "github.com/sirupsen/logrus"

	"tradedesk/src/auth"
	"tradedesk/src/connectors"
	"tradedesk/src/controller"
	"tradedesk/src/model"
	"tradedesk/src/repository"
)

// DashboardResponse is the single aggregate the UI renders: balances,
// valued holdings and 24h market stats for the user's symbols.
type DashboardResponse struct {
	Balances *model.BalanceReport   `json:"balances"`
	Holdings []model.Holding        `json:"holdings"`
	Stats    []connectors.Ticker24h `json:"stats"`
	Degraded bool                   `json:"degraded"`
}

// DashboardDeps bundles the services the dashboard aggregates over.
type DashboardDeps struct {
	Credentials    *controller.CredentialService
	CredentialRepo *repository.CredentialRepository
	Reconciler     *controller.AccountReconciler
	Market         *controller.MarketDataService
	Portfolio      *controller.PortfolioValuator
	Resolver       *controller.SymbolResolver
}

// DashboardHandler serves GET /api/dashboard. Balance degradation never
// fails the request; the response carries the degraded flag instead.
// Market stats are best effort for the same reason.
func DashboardHandler(deps DashboardDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.GetUserFromContext(r.Context())
		if !ok || user == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var requested uint
		if credParam := r.URL.Query().Get("credentialId"); credParam != "" {
			id, err := strconv.ParseUint(credParam, 10, 32)
			if err != nil {
				http.Error(w, "invalid credentialId", http.StatusBadRequest)
				return
			}
			requested = uint(id)
		}

		credentialID, err := resolveCredentialID(r.Context(), deps.CredentialRepo, user.ID, requested)
		if err != nil {
			if errors.Is(err, repository.ErrCredentialNotFound) {
				http.Error(w, "No credential configured", http.StatusNotFound)
				return
			}
			logger.WithError(err).Error("failed to resolve credential for dashboard")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		gateway, err := deps.Credentials.Gateway(r.Context(), credentialID, user.ID)
		if err != nil {
			if errors.Is(err, repository.ErrCredentialNotFound) {
				http.Error(w, "Credential not found", http.StatusNotFound)
				return
			}
			logger.WithError(err).Error("failed to build exchange gateway")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		balances := deps.Reconciler.GetBalances(r.Context(), gateway, user.ID)

		prices, err := deps.Market.CurrentPrices(r.Context(), gateway)
		if err != nil {
			logger.WithError(err).Warn("failed to fetch prices, holdings omitted")
			prices = nil
		}
		holdings := deps.Portfolio.Valuate(balances, prices)

		stats := statsForSymbols(r.Context(), deps, gateway, user.ID)

		response := DashboardResponse{
			Balances: balances,
			Holdings: holdings,
			Stats:    stats,
			Degraded: balances.Degraded,
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			logger.WithError(err).Error("failed to encode dashboard response")
		}
	}
}

func statsForSymbols(ctx context.Context, deps DashboardDeps, gateway controller.ExchangeGateway, userID uint) []connectors.Ticker24h {
	all, err := deps.Market.Statistics24h(ctx, gateway)
	if err != nil {
		logger.WithError(err).Warn("failed to fetch 24h stats")
		return nil
	}

	wanted := make(map[string]bool)
	for _, symbol := range deps.Resolver.ResolveSymbols(ctx, userID) {
		wanted[symbol] = true
	}

	var stats []connectors.Ticker24h
	for _, item := range all {
		if wanted[item.Symbol] {
			stats = append(stats, item)
		}
	}
	return stats
}
