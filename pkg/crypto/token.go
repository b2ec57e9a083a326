// Package crypto generates the opaque secret tokens handed to end users.
// Tokens are high-entropy and never persisted raw; storage only ever sees the
// salted hash produced by internal/security.
package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// TokenBytes is the entropy of a generated token. 32 bytes matches the output
// width of the SHA-256 digest the token is stored as.
const TokenBytes = 32

// GenerateRandomBytes generates cryptographically secure random bytes
func GenerateRandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	if err != nil {
		return nil, fmt.Errorf("generating random bytes: %w", err)
	}
	return b, nil
}

// NewToken returns a URL-safe random token suitable for embedding in an
// invite link.
func NewToken() (string, error) {
	b, err := GenerateRandomBytes(TokenBytes)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
