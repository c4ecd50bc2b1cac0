package utils

import (
	"strings"
	"testing"
)

func TestAPITokenRoundTrip(t *testing.T) {
	secret, hash, err := NewAPITokenSecret()
	if err != nil {
		t.Fatalf("NewAPITokenSecret: %v", err)
	}
	if len(secret) != 40 {
		t.Errorf("expected 40-char secret, got %d", len(secret))
	}
	if hash != HashTokenSecret(secret) {
		t.Errorf("hash mismatch for generated secret")
	}

	plain := ComposeAPIToken(42, secret)
	if !strings.HasPrefix(plain, "42|") {
		t.Errorf("composite token should start with id: %q", plain)
	}

	id, gotSecret, err := SplitAPIToken(plain)
	if err != nil {
		t.Fatalf("SplitAPIToken: %v", err)
	}
	if id != 42 || gotSecret != secret {
		t.Errorf("round trip mismatch: id=%d secret=%q", id, gotSecret)
	}
}

func TestSplitAPITokenRejectsMalformed(t *testing.T) {
	for _, tok := range []string{"", "noseparator", "|secret", "12|", "abc|secret", "0|secret"} {
		if _, _, err := SplitAPIToken(tok); err == nil {
			t.Errorf("expected error for %q", tok)
		}
	}
}

func TestHashTokenSecretIsDeterministic(t *testing.T) {
	a := HashTokenSecret("s3cret")
	b := HashTokenSecret("s3cret")
	if a != b {
		t.Errorf("same input should hash identically")
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
	if a == HashTokenSecret("other") {
		t.Errorf("different inputs should not collide")
	}
}
