package crypto

import (
	"crypto/rand"
	"fmt"
	"io"
)

// NewNonce returns n bytes from the OS CSPRNG. A nonce must never be reused
// with the same key, so callers generate one per encryption.
func NewNonce(n int) ([]byte, error) {
	return randomBytes(n, "nonce")
}

// NewSalt returns n bytes from the OS CSPRNG.
func NewSalt(n int) ([]byte, error) {
	return randomBytes(n, "salt")
}

func randomBytes(n int, what string) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("generate %s: length must be positive, got %d", what, n)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, fmt.Errorf("generate %s: %w", what, err)
	}
	return b, nil
}
