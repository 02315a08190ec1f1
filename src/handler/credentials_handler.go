package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	logger "github.com/sirupsen/logrus"

	"tradedesk/src/auth"
	"tradedesk/src/controller"
	"tradedesk/src/repository"
)

// CreateCredentialPayload is the request body for storing an API key pair.
type CreateCredentialPayload struct {
	ExchangeID uint   `json:"exchange_id"`
	Label      string `json:"label"`
	APIKey     string `json:"api_key"`
	APISecret  string `json:"api_secret"`
}

// CreateCredentialHandler stores a new encrypted credential for the
// authenticated user. A second credential for the same exchange is a 409.
func CreateCredentialHandler(credentials *controller.CredentialService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.GetUserFromContext(r.Context())
		if !ok || user == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var payload CreateCredentialPayload
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&payload); err != nil {
			logger.WithError(err).Warn("invalid credential payload")
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}

		if payload.ExchangeID == 0 || payload.APIKey == "" || payload.APISecret == "" {
			http.Error(w, "exchange_id, api_key and api_secret are required", http.StatusBadRequest)
			return
		}

		cred, err := credentials.Create(r.Context(), user.ID, payload.ExchangeID, payload.Label, payload.APIKey, payload.APISecret)
		if err != nil {
			if errors.Is(err, repository.ErrCredentialExists) {
				http.Error(w, "Credential already exists for this exchange", http.StatusConflict)
				return
			}
			logger.WithError(err).Error("failed to create credential")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(cred); err != nil {
			logger.WithError(err).Error("failed to encode credential response")
		}
	}
}

// ListCredentialsHandler lists the user's active credentials. Encrypted
// key material never serializes; the model hides those columns.
func ListCredentialsHandler(repo *repository.CredentialRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.GetUserFromContext(r.Context())
		if !ok || user == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		creds, err := repo.ListActive(r.Context(), user.ID)
		if err != nil {
			logger.WithError(err).Error("failed to list credentials")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(creds); err != nil {
			logger.WithError(err).Error("failed to encode credential list")
		}
	}
}

// ValidateCredentialHandler probes the credential against the exchange
// and returns which permissions the key actually holds.
func ValidateCredentialHandler(credentials *controller.CredentialService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.GetUserFromContext(r.Context())
		if !ok || user == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		credentialID, ok := credentialIDParam(w, r)
		if !ok {
			return
		}

		result, err := credentials.Validate(r.Context(), credentialID, user.ID)
		if err != nil {
			if errors.Is(err, repository.ErrCredentialNotFound) {
				http.Error(w, "Credential not found", http.StatusNotFound)
				return
			}
			logger.WithError(err).Error("failed to validate credential")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			logger.WithError(err).Error("failed to encode validation response")
		}
	}
}

// DeleteCredentialHandler removes one of the user's credentials.
func DeleteCredentialHandler(repo *repository.CredentialRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.GetUserFromContext(r.Context())
		if !ok || user == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		credentialID, ok := credentialIDParam(w, r)
		if !ok {
			return
		}

		if err := repo.Delete(r.Context(), credentialID, user.ID); err != nil {
			if errors.Is(err, repository.ErrCredentialNotFound) {
				http.Error(w, "Credential not found", http.StatusNotFound)
				return
			}
			logger.WithError(err).Error("failed to delete credential")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func credentialIDParam(w http.ResponseWriter, r *http.Request) (uint, bool) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil || id == 0 {
		http.Error(w, "invalid credential id", http.StatusBadRequest)
		return 0, false
	}
	return uint(id), true
}
