package controller

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tradedesk/src/connectors"
	"tradedesk/src/database"
	"tradedesk/src/model"
	"tradedesk/src/repository"
	"tradedesk/src/security"
)

func newCredentialService(t *testing.T, gateway *fakeGateway) (*CredentialService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	require.NoError(t, db.Create(&model.Exchange{Name: "Binance", Variant: model.ExchangeVariantGlobal, Active: true}).Error)

	cipher, err := security.NewCipher(security.Config{
		CredentialsKey:  "test-key",
		CredentialsSalt: "test-salt",
	})
	require.NoError(t, err)

	factory := func(model.DecryptedCredential) ExchangeGateway { return gateway }
	repo := repository.NewCredentialRepository().WithDB(db)

	return NewCredentialService(repo, cipher, factory), db
}

func TestCredentialCreateEncryptsAtRest(t *testing.T) {
	svc, db := newCredentialService(t, &fakeGateway{})
	ctx := context.Background()

	cred, err := svc.Create(ctx, 1, 1, "main", "key-abc", "secret-xyz")
	require.NoError(t, err)

	var stored model.Credential
	require.NoError(t, db.First(&stored, cred.ID).Error)
	assert.NotEqual(t, "key-abc", stored.EncryptedAPIKey)
	assert.NotEqual(t, "secret-xyz", stored.EncryptedAPISecret)
	assert.NotContains(t, stored.EncryptedAPIKey, "key-abc")

	decrypted, err := svc.Decrypt(ctx, cred.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "key-abc", decrypted.APIKey)
	assert.Equal(t, "secret-xyz", decrypted.APISecret)
	assert.Equal(t, model.ExchangeVariantGlobal, decrypted.Variant)
}

func TestCredentialCreateRejectsDuplicate(t *testing.T) {
	svc, _ := newCredentialService(t, &fakeGateway{})
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, 1, "main", "key-1", "secret-1")
	require.NoError(t, err)

	_, err = svc.Create(ctx, 1, 1, "backup", "key-2", "secret-2")
	assert.ErrorIs(t, err, repository.ErrCredentialExists)
}

func TestCredentialValidateSpotOnly(t *testing.T) {
	gateway := &fakeGateway{probe: connectors.ProbeResult{Spot: true}}
	svc, db := newCredentialService(t, gateway)
	ctx := context.Background()

	cred, err := svc.Create(ctx, 1, 1, "main", "key-abc", "secret-xyz")
	require.NoError(t, err)

	result, err := svc.Validate(ctx, cred.ID, 1)
	require.NoError(t, err)

	assert.True(t, result.Valid)
	assert.True(t, result.Permissions.Spot)
	assert.False(t, result.Permissions.Margin)
	assert.False(t, result.Permissions.Futures)
	assert.False(t, result.Permissions.Withdraw)

	var stored model.Credential
	require.NoError(t, db.First(&stored, cred.ID).Error)
	assert.True(t, stored.CanSpot)
	assert.False(t, stored.CanFutures)
}

func TestCredentialDecryptUnknownID(t *testing.T) {
	svc, _ := newCredentialService(t, &fakeGateway{})

	_, err := svc.Decrypt(context.Background(), 42, 1)
	assert.ErrorIs(t, err, repository.ErrCredentialNotFound)
}
