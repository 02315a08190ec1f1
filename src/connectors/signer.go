package connectors

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// ErrSecretMissing means the credential secret was empty. Signing must
// not proceed; the caller aborts before any network call.
var ErrSecretMissing = errors.New("connectors: api secret is required for signing")

// Sign computes the lowercase hex HMAC-SHA256 of the canonical query
// string with the credential secret. Pure function, same scheme the
// exchange verifies server-side.
func Sign(queryString, secret string) (string, error) {
	if secret == "" {
		return "", ErrSecretMissing
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(queryString))
	return hex.EncodeToString(mac.Sum(nil)), nil
}
