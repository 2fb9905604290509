package security

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateToken returns a random opaque bearer token of n bytes of
// entropy, hex encoded.
func GenerateToken(n int) (string, error) {
	b := make([]byte, n)

	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}
