package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	logger "github.com/sirupsen/logrus"

	"tradedesk/src/auth"
	"tradedesk/src/controller"
	"tradedesk/src/repository"
)

// SyncTradesPayload optionally pins the sync to one credential. When
// absent, the user's most recent active credential is used.
type SyncTradesPayload struct {
	CredentialID uint `json:"credential_id"`
}

// SyncTradesHandler runs a trade-history sync for the authenticated user
// and returns the run report. The whole run is bounded by the configured
// sync timeout.
func SyncTradesHandler(credentials *controller.CredentialService, credentialRepo *repository.CredentialRepository, syncer *controller.TradeHistorySyncer) http.HandlerFunc {
	timeout := time.Duration(controller.GetConfig().SyncTimeoutSec) * time.Second

	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.GetUserFromContext(r.Context())
		if !ok || user == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var payload SyncTradesPayload
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
			logger.WithError(err).Warn("invalid sync payload")
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}

		credentialID, err := resolveCredentialID(r.Context(), credentialRepo, user.ID, payload.CredentialID)
		if err != nil {
			if errors.Is(err, repository.ErrCredentialNotFound) {
				http.Error(w, "No credential configured", http.StatusNotFound)
				return
			}
			logger.WithError(err).Error("failed to resolve credential for sync")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		gateway, err := credentials.Gateway(r.Context(), credentialID, user.ID)
		if err != nil {
			if errors.Is(err, repository.ErrCredentialNotFound) {
				http.Error(w, "Credential not found", http.StatusNotFound)
				return
			}
			logger.WithError(err).Error("failed to build exchange gateway")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		report, err := syncer.Sync(ctx, gateway, user.ID)
		if err != nil {
			logger.WithError(err).Error("trade history sync failed")
			http.Error(w, "Sync failed", http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(report); err != nil {
			logger.WithError(err).Error("failed to encode sync report")
		}
	}
}

// resolveCredentialID returns the requested credential id, or the user's
// most recent active credential when none was requested.
func resolveCredentialID(ctx context.Context, repo *repository.CredentialRepository, userID, requested uint) (uint, error) {
	if requested != 0 {
		return requested, nil
	}

	creds, err := repo.ListActive(ctx, userID)
	if err != nil {
		return 0, err
	}
	if len(creds) == 0 {
		return 0, repository.ErrCredentialNotFound
	}
	return creds[0].ID, nil
}
