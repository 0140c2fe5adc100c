package crypto

import "github.com/MKhiriev/go-note-vault/models"

// KeyDeriver turns a password and salt into a symmetric key.
//
// Derivation is deterministic: the same password, salt and parameters always
// produce a bit-identical key, because decryption re-derives the key instead
// of storing it. Hash, work factor and key size are taken from params and
// never hardcoded, so containers written with older parameters stay
// decryptable.
type KeyDeriver interface {
	// DeriveKey derives a key handle. With extractable=false (the normal
	// mode for every disk-facing operation) the raw key bytes can never be
	// read back through the handle. extractable=true is reserved for keys
	// kept in the session cache.
	DeriveKey(password, salt []byte, params models.EncryptionParameters, extractable bool) (*Key, error)
}

// Cipher performs authenticated encryption with the algorithm recorded in
// the key's parameters.
type Cipher interface {
	// Encrypt seals plaintext under key and nonce and returns
	// ciphertext ‖ tag. The nonce must be fresh for every call; see
	// [NewNonce].
	Encrypt(plaintext []byte, key *Key, nonce []byte) ([]byte, error)

	// Decrypt opens ciphertext ‖ tag. Any authentication failure, whether
	// caused by a wrong key or by tampered data, is reported as
	// [ErrAuthFailed] and nothing else.
	Decrypt(ciphertext []byte, key *Key, nonce []byte) ([]byte, error)
}

// KeyProvider abstracts how a secret becomes a key. Passwords are the only
// provider today; other providers register under their own [KeyType] so the
// container codec can dispatch on the stored key type without changing.
type KeyProvider interface {
	// Type returns the tag written into the container's keyType field.
	Type() KeyType

	// DeriveKey derives a key from secret using salt and params.
	DeriveKey(secret, salt []byte, params models.EncryptionParameters, extractable bool) (*Key, error)
}
