package security

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// CredentialsKey is the passphrase the AES key is derived from.
	// The default only exists so local development boots; override it.
	CredentialsKey  string `envconfig:"EXCHANGE_CREDENTIALS_KEY" default:"dev-only-credentials-key"`
	CredentialsSalt string `envconfig:"EXCHANGE_CREDENTIALS_SALT" default:"tradedesk-credentials"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
