package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"tradedesk/src/auth"
	"tradedesk/src/model"
	"tradedesk/src/repository"
)

var validStrategyKinds = map[string]bool{
	model.StrategyKindDCA:       true,
	model.StrategyKindBollinger: true,
	model.StrategyKindMACross:   true,
}

// StrategyPayload is the request body for creating or updating a
// strategy configuration.
type StrategyPayload struct {
	Name   string         `json:"name"`
	Kind   string         `json:"kind"`
	Symbol string         `json:"symbol"`
	Config map[string]any `json:"config"`
	Active bool           `json:"active"`
}

func (p *StrategyPayload) validate() string {
	if strings.TrimSpace(p.Name) == "" {
		return "name is required"
	}
	if !validStrategyKinds[p.Kind] {
		return "kind must be one of dca, bollinger, ma_cross"
	}
	if strings.TrimSpace(p.Symbol) == "" {
		return "symbol is required"
	}
	return ""
}

// ListStrategiesHandler lists the user's strategy configurations.
func ListStrategiesHandler(repo *repository.StrategyRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.GetUserFromContext(r.Context())
		if !ok || user == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		strategies, err := repo.List(r.Context(), user.ID)
		if err != nil {
			logger.WithError(err).Error("failed to list strategies")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(strategies); err != nil {
			logger.WithError(err).Error("failed to encode strategy list")
		}
	}
}

// CreateStrategyHandler stores a new strategy configuration.
func CreateStrategyHandler(repo *repository.StrategyRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.GetUserFromContext(r.Context())
		if !ok || user == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var payload StrategyPayload
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&payload); err != nil {
			logger.WithError(err).Warn("invalid strategy payload")
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}

		if msg := payload.validate(); msg != "" {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}

		strategy := &model.Strategy{
			UserID: user.ID,
			Name:   strings.TrimSpace(payload.Name),
			Kind:   payload.Kind,
			Symbol: strings.ToUpper(strings.TrimSpace(payload.Symbol)),
			Config: payload.Config,
			Active: payload.Active,
		}

		if err := repo.Create(r.Context(), strategy); err != nil {
			logger.WithError(err).Error("failed to create strategy")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(strategy); err != nil {
			logger.WithError(err).Error("failed to encode strategy response")
		}
	}
}

// UpdateStrategyHandler replaces an existing strategy's configuration.
func UpdateStrategyHandler(repo *repository.StrategyRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.GetUserFromContext(r.Context())
		if !ok || user == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		id, ok := strategyIDParam(w, r)
		if !ok {
			return
		}

		var payload StrategyPayload
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&payload); err != nil {
			logger.WithError(err).Warn("invalid strategy payload")
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}

		if msg := payload.validate(); msg != "" {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}

		strategy := &model.Strategy{
			ID:     id,
			UserID: user.ID,
			Name:   strings.TrimSpace(payload.Name),
			Kind:   payload.Kind,
			Symbol: strings.ToUpper(strings.TrimSpace(payload.Symbol)),
			Config: payload.Config,
			Active: payload.Active,
		}

		if err := repo.Update(r.Context(), strategy); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				http.Error(w, "Strategy not found", http.StatusNotFound)
				return
			}
			logger.WithError(err).Error("failed to update strategy")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(strategy); err != nil {
			logger.WithError(err).Error("failed to encode strategy response")
		}
	}
}

// DeleteStrategyHandler removes a strategy configuration.
func DeleteStrategyHandler(repo *repository.StrategyRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.GetUserFromContext(r.Context())
		if !ok || user == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		id, ok := strategyIDParam(w, r)
		if !ok {
			return
		}

		if err := repo.Delete(r.Context(), id, user.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				http.Error(w, "Strategy not found", http.StatusNotFound)
				return
			}
			logger.WithError(err).Error("failed to delete strategy")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func strategyIDParam(w http.ResponseWriter, r *http.Request) (uint, bool) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil || id == 0 {
		http.Error(w, "invalid strategy id", http.StatusBadRequest)
		return 0, false
	}
	return uint(id), true
}
