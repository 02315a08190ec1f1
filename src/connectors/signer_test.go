package connectors

import (
	"errors"
	"testing"
)

// TestSignDeterministic ensures identical inputs always produce the same
// digest and that the output is the documented lowercase hex form.
func TestSignDeterministic(t *testing.T) {
	query := "symbol=BTCUSDT&timestamp=1700000000000"
	secret := "NhqPtmdSJYdKjVHjA7PZj4Mge3R5YNiP1e3UZjInClVN65XAbvqqM6A7H5fATj0j"

	first, err := Sign(query, secret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Sign(query, secret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first != second {
		t.Fatalf("signature is not deterministic: %s vs %s", first, second)
	}
	if len(first) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(first))
	}
	for _, ch := range first {
		if (ch < '0' || ch > '9') && (ch < 'a' || ch > 'f') {
			t.Fatalf("signature contains non lowercase-hex char %q", ch)
		}
	}
}

// TestSignSensitivity checks that flipping one character of either input
// changes the digest.
func TestSignSensitivity(t *testing.T) {
	query := "symbol=BTCUSDT&timestamp=1700000000000"
	secret := "secret-a"

	base, err := Sign(query, secret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	changedQuery, err := Sign("symbol=BTCUSDT&timestamp=1700000000001", secret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if changedQuery == base {
		t.Fatal("changing the query did not change the signature")
	}

	changedSecret, err := Sign(query, "secret-b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if changedSecret == base {
		t.Fatal("changing the secret did not change the signature")
	}
}

func TestSignRequiresSecret(t *testing.T) {
	if _, err := Sign("anything", ""); !errors.Is(err, ErrSecretMissing) {
		t.Fatalf("expected ErrSecretMissing, got %v", err)
	}
}
