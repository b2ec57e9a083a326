// Package security provides hashing for non-password tokens (invite tokens,
// reset tokens, API keys). Hashes use a prefix+value+suffix salting strategy:
//
//	hash = SHA-256(prefixSalt + value + suffixSalt)
//
// The salts are deployment secrets read from configuration. Keeping them out of
// the database defeats precomputed-hash attacks while leaving the digest
// deterministic, so stored hashes remain usable as lookup keys.
package security

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/echofinder/api/internal/apperr"
)

type TokenHasher struct {
	prefixSalt string
	suffixSalt string
}

// NewTokenHasher fails when either salt is empty or whitespace. An unset salt
// would silently degrade every hash to an unsalted digest, so construction is
// the place to refuse it.
func NewTokenHasher(prefixSalt, suffixSalt string) (*TokenHasher, error) {
	if strings.TrimSpace(prefixSalt) == "" {
		return nil, apperr.Validation("HASH_PREFIX_SALT must be configured")
	}
	if strings.TrimSpace(suffixSalt) == "" {
		return nil, apperr.Validation("HASH_SUFFIX_SALT must be configured")
	}
	return &TokenHasher{prefixSalt: prefixSalt, suffixSalt: suffixSalt}, nil
}

// Hash returns the lowercase hex SHA-256 digest of the salted value. Identical
// inputs always produce identical output across processes and restarts.
func (h *TokenHasher) Hash(value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", apperr.Validation("value to hash cannot be blank")
	}
	sum := sha256.Sum256([]byte(h.prefixSalt + value + h.suffixSalt))
	return hex.EncodeToString(sum[:]), nil
}

// Verify reports whether rawToken hashes to storedHash. Missing data on either
// side is a negative result, never an error.
func (h *TokenHasher) Verify(rawToken, storedHash string) bool {
	if rawToken == "" || storedHash == "" {
		return false
	}
	hashed, err := h.Hash(rawToken)
	if err != nil {
		return false
	}
	return hashed == storedHash
}
