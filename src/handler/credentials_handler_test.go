package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tradedesk/src/auth"
	"tradedesk/src/connectors"
	"tradedesk/src/controller"
	"tradedesk/src/database"
	"tradedesk/src/model"
	"tradedesk/src/repository"
	"tradedesk/src/security"
)

// stubGateway implements controller.ExchangeGateway with canned results.
type stubGateway struct {
	probe connectors.ProbeResult
}

func (s *stubGateway) GetAccountInfo(context.Context) (*connectors.AccountInfo, error) {
	return &connectors.AccountInfo{}, nil
}

func (s *stubGateway) GetOrderHistory(context.Context, string, time.Time, time.Time, int) ([]connectors.OrderHistoryItem, error) {
	return nil, nil
}

func (s *stubGateway) GetTradeHistory(context.Context, string, time.Time, time.Time, int) ([]connectors.TradeHistoryItem, error) {
	return nil, nil
}

func (s *stubGateway) GetExchangeInfo(context.Context) (*connectors.ExchangeInfo, error) {
	return &connectors.ExchangeInfo{}, nil
}

func (s *stubGateway) GetTickerPrices(context.Context) ([]connectors.TickerPrice, error) {
	return nil, nil
}

func (s *stubGateway) GetTicker24h(context.Context) ([]connectors.Ticker24h, error) {
	return nil, nil
}

func (s *stubGateway) ProbeCapabilities(context.Context) connectors.ProbeResult {
	return s.probe
}

func newCredentialHandlerHarness(t *testing.T, gateway *stubGateway) (*controller.CredentialService, *repository.CredentialRepository) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	require.NoError(t, db.Create(&model.Exchange{Name: "Binance", Variant: model.ExchangeVariantGlobal, Active: true}).Error)

	cipher, err := security.NewCipher(security.Config{CredentialsKey: "test-key", CredentialsSalt: "test-salt"})
	require.NoError(t, err)

	repo := repository.NewCredentialRepository().WithDB(db)
	service := controller.NewCredentialService(repo, cipher, func(model.DecryptedCredential) controller.ExchangeGateway {
		return gateway
	})
	return service, repo
}

func asUser(req *http.Request, id uint) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), auth.UserKey, &model.User{ID: id}))
}

func TestCreateCredentialHandler(t *testing.T) {
	service, _ := newCredentialHandlerHarness(t, &stubGateway{})
	handler := CreateCredentialHandler(service)

	body := `{"exchange_id":1,"label":"main","api_key":"key-abc","api_secret":"secret-xyz"}`

	req := asUser(httptest.NewRequest(http.MethodPost, "/api/credentials", strings.NewReader(body)), 1)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.NotContains(t, rr.Body.String(), "key-abc")
	assert.NotContains(t, rr.Body.String(), "secret-xyz")

	// Same (user, exchange) again is a conflict.
	req = asUser(httptest.NewRequest(http.MethodPost, "/api/credentials", strings.NewReader(body)), 1)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestCreateCredentialHandler_InvalidPayload(t *testing.T) {
	service, _ := newCredentialHandlerHarness(t, &stubGateway{})
	handler := CreateCredentialHandler(service)

	req := asUser(httptest.NewRequest(http.MethodPost, "/api/credentials", strings.NewReader(`{"exchange_id":1}`)), 1)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestValidateCredentialHandler(t *testing.T) {
	gateway := &stubGateway{probe: connectors.ProbeResult{Spot: true, Withdraw: true}}
	service, _ := newCredentialHandlerHarness(t, gateway)

	cred, err := service.Create(context.Background(), 1, 1, "main", "key-abc", "secret-xyz")
	require.NoError(t, err)
	require.Equal(t, uint(1), cred.ID)

	router := chi.NewRouter()
	router.Post("/api/credentials/{id}/validate", ValidateCredentialHandler(service))

	req := asUser(httptest.NewRequest(http.MethodPost, "/api/credentials/1/validate", nil), 1)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var result controller.ValidationResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.True(t, result.Valid)
	assert.True(t, result.Permissions.Spot)
	assert.False(t, result.Permissions.Margin)
	assert.False(t, result.Permissions.Futures)
	assert.True(t, result.Permissions.Withdraw)
}

func TestDeleteCredentialHandler(t *testing.T) {
	service, repo := newCredentialHandlerHarness(t, &stubGateway{})

	cred, err := service.Create(context.Background(), 1, 1, "main", "key-abc", "secret-xyz")
	require.NoError(t, err)
	require.Equal(t, uint(1), cred.ID)

	router := chi.NewRouter()
	router.Delete("/api/credentials/{id}", DeleteCredentialHandler(repo))

	req := asUser(httptest.NewRequest(http.MethodDelete, "/api/credentials/1", nil), 1)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	// Deleting again is a 404.
	req = asUser(httptest.NewRequest(http.MethodDelete, "/api/credentials/1", nil), 1)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
