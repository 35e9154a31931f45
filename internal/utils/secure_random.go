package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// GenerateTemporaryPassword returns a URL-safe random password built from n random bytes.
// Used when bootstrapping accounts without an operator-supplied password.
func GenerateTemporaryPassword(n int) (string, error) {
	if n < MinPasswordLength {
		return "", fmt.Errorf("need at least %d random bytes, got %d", MinPasswordLength, n)
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
