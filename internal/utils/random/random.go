package random

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
)

// OpaqueCode returns a URL-safe random string built from n bytes of entropy.
// Used for password reset and email verification codes.
func OpaqueCode(n int) (string, error) {
	if n <= 0 {
		n = 32
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate code entropy: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Match compares two opaque codes in constant time.
func Match(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
