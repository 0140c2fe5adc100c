// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package container

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-note-vault/internal/crypto"
	"github.com/MKhiriev/go-note-vault/internal/logger"
	"github.com/MKhiriev/go-note-vault/models"
)

// Codec encodes plaintext into containers and decodes them back.
//
// Independent Encode/Decode calls share no mutable state and may run
// concurrently. Callers must still serialize encode and migrate operations
// per storage path, since two rewrites of one container would race on the
// storage write.
type Codec struct {
	params    models.EncryptionParameters
	providers crypto.Providers
	cipher    crypto.Cipher
	logger    *logger.Logger
}

// Option configures a [Codec].
type Option func(*Codec)

// WithDefaultParameters sets the parameters written into new containers.
// Decoding always uses the parameters stored in the container.
func WithDefaultParameters(p models.EncryptionParameters) Option {
	return func(c *Codec) {
		c.params = p
	}
}

// WithKeyProvider registers an additional key provider.
func WithKeyProvider(p crypto.KeyProvider) Option {
	return func(c *Codec) {
		c.providers[p.Type()] = p
	}
}

// WithCipher replaces the AEAD implementation.
func WithCipher(cipher crypto.Cipher) Option {
	return func(c *Codec) {
		c.cipher = cipher
	}
}

// NewCodec constructs a [Codec] with the password key provider, the
// AES-GCM/ChaCha20-Poly1305 cipher and [models.DefaultEncryptionParameters].
func NewCodec(log *logger.Logger, opts ...Option) (*Codec, error) {
	c := &Codec{
		params:    models.DefaultEncryptionParameters(),
		providers: crypto.NewProviders(crypto.NewPasswordKeyProvider(crypto.NewKeyDeriver())),
		cipher:    crypto.NewCipher(),
		logger:    log,
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.params.Validate(); err != nil {
		return nil, fmt.Errorf("default parameters: %w", err)
	}

	return c, nil
}

// Parameters returns the parameters used for new containers.
func (c *Codec) Parameters() models.EncryptionParameters {
	return c.params
}

// Encode encrypts plaintext under password with a fresh salt and nonce and
// returns the serialized container. The output always carries the current
// format tag and version.
func (c *Codec) Encode(plaintext, password, hint string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("encode: %w", crypto.ErrEmptyPassword)
	}

	params := c.params
	salt, err := crypto.NewSalt(params.KeyDerivation.SaltLength)
	if err != nil {
		return "", fmt.Errorf("encode: %w", err)
	}

	provider, err := c.providers.Get(crypto.KeyTypePassword)
	if err != nil {
		return "", fmt.Errorf("encode: %w", err)
	}

	key, err := provider.DeriveKey([]byte(password), salt, params, false)
	if err != nil {
		return "", fmt.Errorf("encode: %w", err)
	}
	defer key.Destroy()

	return c.seal(plaintext, key, hint)
}

// EncodeWithKey encrypts plaintext under a cached key. The key's own salt
// and parameters are written into the container and a fresh nonce is
// generated, so the result can be decoded with either the key or the
// password it was derived from.
func (c *Codec) EncodeWithKey(plaintext string, key *crypto.Key, hint string) (string, error) {
	if key == nil {
		return "", errors.New("encode: nil key")
	}

	sealed, err := key.Sealed()
	if err != nil {
		return "", fmt.Errorf("encode: %w", err)
	}
	defer sealed.Destroy()

	return c.seal(plaintext, sealed, hint)
}

func (c *Codec) seal(plaintext string, key *crypto.Key, hint string) (string, error) {
	if key.Extractable() {
		return "", fmt.Errorf("encode: %w", crypto.ErrKeyExtractable)
	}
	params := key.Params()

	nonce, err := crypto.NewNonce(params.IVLength)
	if err != nil {
		return "", fmt.Errorf("encode: %w", err)
	}

	ciphertext, err := c.cipher.Encrypt([]byte(plaintext), key, nonce)
	if err != nil {
		return "", fmt.Errorf("encode: %w", err)
	}

	out, err := json.Marshal(models.Container{
		Format:     models.FormatTag,
		Version:    models.CurrentVersion,
		Encryption: &params,
		KeyType:    string(key.Type()),
		Hint:       hint,
		Data:       pack(nonce, key.Salt(), ciphertext),
	})
	if err != nil {
		return "", fmt.Errorf("encode: marshal container: %w", err)
	}

	c.logger.Debug().
		Str("algorithm", params.Algorithm).
		Str("kdf", params.KeyDerivation.Function).
		Int("iterations", params.KeyDerivation.Iterations).
		Msg("container encoded")

	return string(out), nil
}

// Decode parses raw and decrypts it with password. A wrong password or
// tampered data yields [ErrAuthFailed]; a damaged container yields a
// *FormatError.
func (c *Codec) Decode(raw, password string) (string, error) {
	cont, err := Parse(raw)
	if err != nil {
		return "", err
	}
	return c.DecodeContainer(cont, password)
}

// DecodeContainer decrypts an already parsed container with password.
func (c *Codec) DecodeContainer(cont *models.Container, password string) (string, error) {
	if password == "" {
		return "", ErrAuthFailed
	}

	nonce, salt, ciphertext, err := unpack(cont)
	if err != nil {
		return "", err
	}

	key, err := c.deriveFor(cont, password, salt, false)
	if err != nil {
		return "", err
	}
	defer key.Destroy()

	return c.open(ciphertext, key, nonce)
}

// DecodeWithKey parses raw and decrypts it with a cached key. A key derived
// for a different salt or different parameters yields [ErrAuthFailed].
func (c *Codec) DecodeWithKey(raw string, key *crypto.Key) (string, error) {
	cont, err := Parse(raw)
	if err != nil {
		return "", err
	}
	return c.DecodeContainerWithKey(cont, key)
}

// DecodeContainerWithKey decrypts an already parsed container with a cached
// key.
func (c *Codec) DecodeContainerWithKey(cont *models.Container, key *crypto.Key) (string, error) {
	if key == nil {
		return "", ErrAuthFailed
	}

	nonce, salt, ciphertext, err := unpack(cont)
	if err != nil {
		return "", err
	}

	if string(key.Type()) != cont.KeyType || !key.Matches(salt, *cont.Encryption) {
		return "", ErrAuthFailed
	}

	sealed, err := key.Sealed()
	if err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	defer sealed.Destroy()

	return c.open(ciphertext, sealed, nonce)
}

// DeriveCacheKey derives an extractable key for cont from password, for
// keeping in the session cache. It does not verify the password; callers
// derive it only after a successful decode.
func (c *Codec) DeriveCacheKey(cont *models.Container, password string) (*crypto.Key, error) {
	_, salt, _, err := unpack(cont)
	if err != nil {
		return nil, err
	}
	return c.deriveFor(cont, password, salt, true)
}

func (c *Codec) deriveFor(cont *models.Container, password string, salt []byte, extractable bool) (*crypto.Key, error) {
	provider, err := c.providers.Get(crypto.KeyType(cont.KeyType))
	if err != nil {
		return nil, newFormatError("", fmt.Errorf("%w: %w", ErrUnsupportedParameters, err))
	}

	key, err := provider.DeriveKey([]byte(password), salt, *cont.Encryption, extractable)
	if err != nil {
		if errors.Is(err, crypto.ErrEmptyPassword) {
			return nil, ErrAuthFailed
		}
		return nil, fmt.Errorf("derive key: %w", err)
	}

	return key, nil
}

func (c *Codec) open(ciphertext []byte, key *crypto.Key, nonce []byte) (string, error) {
	if key.Extractable() {
		return "", fmt.Errorf("decode: %w", crypto.ErrKeyExtractable)
	}

	plaintext, err := c.cipher.Decrypt(ciphertext, key, nonce)
	if err != nil {
		if errors.Is(err, crypto.ErrAuthFailed) {
			c.logger.Debug().Msg("container authentication failed")
			return "", ErrAuthFailed
		}
		return "", fmt.Errorf("decode: %w", err)
	}

	return string(plaintext), nil
}

// Migrate decodes cont under its stored parameters and re-encodes the
// plaintext under the current defaults with a fresh salt and nonce,
// preserving the hint. The result fully supersedes the old container.
//
// A wrong password yields [ErrAuthFailed]; any failure to re-encode is a
// *MigrationError.
func (c *Codec) Migrate(cont *models.Container, password string) (string, error) {
	plaintext, err := c.DecodeContainer(cont, password)
	if err != nil {
		return "", err
	}

	out, err := c.Encode(plaintext, password, cont.Hint)
	if err != nil {
		return "", &MigrationError{Err: err}
	}

	c.logger.Info().
		Str("from_format", cont.Format).
		Int("from_version", cont.Version).
		Int("to_version", models.CurrentVersion).
		Msg("container migrated")

	return out, nil
}
