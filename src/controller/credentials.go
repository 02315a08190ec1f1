package controller

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"tradedesk/src/model"
	"tradedesk/src/repository"
	"tradedesk/src/security"
)

// ValidationResult is the outcome of probing a credential against the
// exchange. Valid means the key authenticates at all; the permission
// flags record which scopes it holds.
type ValidationResult struct {
	Valid       bool               `json:"valid"`
	Permissions model.Capabilities `json:"permissions"`
}

// CredentialService owns credential creation, decryption and validation.
type CredentialService struct {
	credentials *repository.CredentialRepository
	cipher      *security.Cipher
	gateway     GatewayFactory
}

func NewCredentialService(credentials *repository.CredentialRepository, cipher *security.Cipher, gateway GatewayFactory) *CredentialService {
	if gateway == nil {
		gateway = DefaultGatewayFactory
	}
	return &CredentialService{credentials: credentials, cipher: cipher, gateway: gateway}
}

// Create encrypts the key pair and stores the credential. Duplicate
// (user, exchange) pairs surface repository.ErrCredentialExists.
func (c *CredentialService) Create(ctx context.Context, userID, exchangeID uint, label, apiKey, apiSecret string) (*model.Credential, error) {
	encKey, err := c.cipher.Encrypt(apiKey)
	if err != nil {
		return nil, fmt.Errorf("encrypt api key: %w", err)
	}
	encSecret, err := c.cipher.Encrypt(apiSecret)
	if err != nil {
		return nil, fmt.Errorf("encrypt api secret: %w", err)
	}

	cred := &model.Credential{
		UserID:             userID,
		ExchangeID:         exchangeID,
		Label:              label,
		EncryptedAPIKey:    encKey,
		EncryptedAPISecret: encSecret,
		Active:             true,
	}

	if err := c.credentials.Create(ctx, cred); err != nil {
		return nil, err
	}
	return cred, nil
}

// Decrypt loads a credential and returns the in-memory decrypted view.
func (c *CredentialService) Decrypt(ctx context.Context, credentialID, userID uint) (model.DecryptedCredential, error) {
	cred, err := c.credentials.FindByID(ctx, credentialID, userID)
	if err != nil {
		return model.DecryptedCredential{}, err
	}

	apiKey, err := c.cipher.Decrypt(cred.EncryptedAPIKey)
	if err != nil {
		return model.DecryptedCredential{}, fmt.Errorf("decrypt api key: %w", err)
	}
	apiSecret, err := c.cipher.Decrypt(cred.EncryptedAPISecret)
	if err != nil {
		return model.DecryptedCredential{}, fmt.Errorf("decrypt api secret: %w", err)
	}

	variant := model.ExchangeVariantGlobal
	if cred.Exchange != nil {
		variant = cred.Exchange.Variant
	}

	return model.DecryptedCredential{
		ID:           cred.ID,
		UserID:       cred.UserID,
		APIKey:       apiKey,
		APISecret:    apiSecret,
		Variant:      variant,
		Capabilities: cred.Capabilities(),
	}, nil
}

// Gateway builds an exchange gateway for a stored credential.
func (c *CredentialService) Gateway(ctx context.Context, credentialID, userID uint) (ExchangeGateway, error) {
	cred, err := c.Decrypt(ctx, credentialID, userID)
	if err != nil {
		return nil, err
	}
	return c.gateway(cred), nil
}

// Validate probes the credential's capabilities and persists the result.
// Probe failures toggle flags; they are outcomes, not errors. The
// credential is valid when at least the spot account is readable.
func (c *CredentialService) Validate(ctx context.Context, credentialID, userID uint) (*ValidationResult, error) {
	cred, err := c.Decrypt(ctx, credentialID, userID)
	if err != nil {
		return nil, err
	}

	probe := c.gateway(cred).ProbeCapabilities(ctx)
	caps := model.Capabilities{
		Spot:     probe.Spot,
		Margin:   probe.Margin,
		Futures:  probe.Futures,
		Withdraw: probe.Withdraw,
	}

	if err := c.credentials.UpdateCapabilities(ctx, credentialID, userID, caps); err != nil {
		return nil, err
	}

	logger.WithFields(map[string]interface{}{
		"credential_id": credentialID,
		"user_id":       userID,
		"valid":         probe.Spot,
	}).Info("Credential validated")

	return &ValidationResult{Valid: probe.Spot, Permissions: caps}, nil
}
