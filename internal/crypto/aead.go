// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/MKhiriev/go-note-vault/models"
)

// aeadCipher is the private implementation of [Cipher].
type aeadCipher struct{}

// NewCipher constructs a [Cipher] supporting AES-GCM and ChaCha20-Poly1305.
func NewCipher() Cipher {
	return &aeadCipher{}
}

// Encrypt implements [Cipher]. Output is ciphertext ‖ tag.
func (c *aeadCipher) Encrypt(plaintext []byte, key *Key, nonce []byte) ([]byte, error) {
	var sealed []byte
	err := key.use(func(raw []byte) error {
		aead, err := newAEAD(key.params, raw)
		if err != nil {
			return err
		}
		if len(nonce) != aead.NonceSize() {
			return fmt.Errorf("%w: want %d, got %d", ErrInvalidNonce, aead.NonceSize(), len(nonce))
		}

		sealed = aead.Seal(nil, nonce, plaintext, nil)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("encrypt: %w", err)
	}

	return sealed, nil
}

// Decrypt implements [Cipher]. A nonce of the wrong length is treated the
// same as a failed tag check.
func (c *aeadCipher) Decrypt(ciphertext []byte, key *Key, nonce []byte) ([]byte, error) {
	var plaintext []byte
	err := key.use(func(raw []byte) error {
		aead, err := newAEAD(key.params, raw)
		if err != nil {
			return err
		}
		if len(nonce) != aead.NonceSize() {
			return ErrAuthFailed
		}

		plaintext, err = aead.Open(nil, nonce, ciphertext, nil)
		if err != nil {
			return ErrAuthFailed
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return plaintext, nil
}

// newAEAD builds the AEAD named in params. AES-GCM honours the stored nonce
// length, so containers written with a non-standard IV stay readable.
func newAEAD(params models.EncryptionParameters, raw []byte) (cipher.AEAD, error) {
	switch params.Algorithm {
	case models.AlgorithmAESGCM:
		block, err := aes.NewCipher(raw)
		if err != nil {
			return nil, fmt.Errorf("create cipher: %w", err)
		}
		if params.IVLength == 12 {
			return cipher.NewGCM(block)
		}
		return cipher.NewGCMWithNonceSize(block, params.IVLength)
	case models.AlgorithmChaCha20Poly1305:
		aead, err := chacha20poly1305.New(raw)
		if err != nil {
			return nil, fmt.Errorf("create chacha20-poly1305: %w", err)
		}
		return aead, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, params.Algorithm)
	}
}
