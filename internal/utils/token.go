package utils // package utils provides helper functions for token creation and hashing

import (
	"crypto/rand"   // secure random number generation
	"crypto/sha256" // SHA-256 hashing for API tokens
	"encoding/hex"  // hex encoding of random bytes and digests
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// APIToken is an opaque personal access token. The Plain field is the full
// bearer string handed to the client, formatted "<id>|<secret>" so the
// middleware can locate the row by primary key before comparing hashes.
// Only the SHA-256 hash of the secret half is ever stored.
type APIToken struct {
	Plain string // full composite token returned to the client
	Hash  string // sha256 hex of the secret half, stored in access_tokens
}

// ErrMalformedToken is returned by SplitAPIToken when the bearer string does
// not have the "<id>|<secret>" shape.
var ErrMalformedToken = errors.New("malformed api token")

// NewAPITokenSecret generates the random secret half of an API token and its
// storable hash. The caller inserts the hash, obtains the row ID, and calls
// ComposeAPIToken to build the plain string for the client.
func NewAPITokenSecret() (secret, hash string, err error) {
	secret, err = randomHex(20) // 20 bytes -> 40 hex chars, Sanctum-sized
	if err != nil {
		return "", "", err
	}
	return secret, HashTokenSecret(secret), nil
}

// ComposeAPIToken joins a token row ID and its secret into the bearer string.
func ComposeAPIToken(id uint64, secret string) string {
	return fmt.Sprintf("%d|%s", id, secret)
}

// SplitAPIToken parses a bearer string back into its row ID and secret.
func SplitAPIToken(plain string) (uint64, string, error) {
	idStr, secret, ok := strings.Cut(plain, "|")
	if !ok || idStr == "" || secret == "" {
		return 0, "", ErrMalformedToken
	}
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || id == 0 {
		return 0, "", ErrMalformedToken
	}
	return id, secret, nil
}

// HashTokenSecret returns the SHA-256 hash of a token secret as a hex
// string. Storing only the hash keeps stolen database rows from being
// replayed as live credentials.
func HashTokenSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
