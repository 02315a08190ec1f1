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

// CreatePairPayload is the request body for tracking a new symbol.
type CreatePairPayload struct {
	Symbol string `json:"symbol"`
	Active *bool  `json:"active"`
}

// ListPairsHandler lists the user's configured trading pairs.
func ListPairsHandler(repo *repository.TradingPairRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.GetUserFromContext(r.Context())
		if !ok || user == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		pairs, err := repo.List(r.Context(), user.ID)
		if err != nil {
			logger.WithError(err).Error("failed to list trading pairs")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(pairs); err != nil {
			logger.WithError(err).Error("failed to encode pair list")
		}
	}
}

// CreatePairHandler adds a symbol to the user's tracked pairs.
func CreatePairHandler(repo *repository.TradingPairRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.GetUserFromContext(r.Context())
		if !ok || user == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var payload CreatePairPayload
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&payload); err != nil {
			logger.WithError(err).Warn("invalid pair payload")
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}

		symbol := strings.ToUpper(strings.TrimSpace(payload.Symbol))
		if symbol == "" {
			http.Error(w, "symbol is required", http.StatusBadRequest)
			return
		}

		pair := &model.TradingPair{
			UserID: user.ID,
			Symbol: symbol,
			Active: true,
		}
		if payload.Active != nil {
			pair.Active = *payload.Active
		}

		if err := repo.Create(r.Context(), pair); err != nil {
			logger.WithError(err).Error("failed to create trading pair")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(pair); err != nil {
			logger.WithError(err).Error("failed to encode pair response")
		}
	}
}

// DeletePairHandler removes a tracked pair.
func DeletePairHandler(repo *repository.TradingPairRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.GetUserFromContext(r.Context())
		if !ok || user == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		idParam := chi.URLParam(r, "id")
		id, err := strconv.ParseUint(idParam, 10, 32)
		if err != nil || id == 0 {
			http.Error(w, "invalid pair id", http.StatusBadRequest)
			return
		}

		if err := repo.Delete(r.Context(), uint(id), user.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				http.Error(w, "Pair not found", http.StatusNotFound)
				return
			}
			logger.WithError(err).Error("failed to delete trading pair")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
