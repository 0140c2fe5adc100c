package crypto

import "errors"

var (
	// ErrAuthFailed is the single signal for a failed AEAD open. Wrong key
	// and corrupted ciphertext are deliberately indistinguishable.
	ErrAuthFailed = errors.New("authentication failed")

	ErrKeyNotExtractable = errors.New("key is not extractable")
	ErrKeyDestroyed      = errors.New("key has been destroyed")
	ErrKeyExtractable    = errors.New("extractable key used for a storage operation")

	ErrEmptyPassword = errors.New("password cannot be empty")
	ErrEmptySalt     = errors.New("salt cannot be empty")
	ErrInvalidNonce  = errors.New("invalid nonce length")

	ErrUnsupportedAlgorithm = errors.New("unsupported encryption algorithm")
	ErrUnsupportedKDF       = errors.New("unsupported key derivation function")
	ErrUnsupportedHash      = errors.New("unsupported hash function")
	ErrUnknownKeyType       = errors.New("unknown key type")
)
