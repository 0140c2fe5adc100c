// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"

	"github.com/MKhiriev/go-note-vault/models"
)

// keyDeriver is the private implementation of [KeyDeriver].
type keyDeriver struct{}

// NewKeyDeriver constructs a [KeyDeriver] supporting PBKDF2 (SHA-256 and
// SHA-512) and Argon2id.
func NewKeyDeriver() KeyDeriver {
	return &keyDeriver{}
}

// DeriveKey implements [KeyDeriver].
func (d *keyDeriver) DeriveKey(password, salt []byte, params models.EncryptionParameters, extractable bool) (*Key, error) {
	if len(password) == 0 {
		return nil, ErrEmptyPassword
	}
	if len(salt) == 0 {
		return nil, ErrEmptySalt
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}

	raw, err := stretch(password, salt, params)
	if err != nil {
		return nil, err
	}

	return NewKey(raw, KeyTypePassword, salt, params, extractable)
}

// stretch runs the key derivation function named in params.
func stretch(password, salt []byte, params models.EncryptionParameters) ([]byte, error) {
	kd := params.KeyDerivation
	keyLen := params.KeyBytes()

	switch kd.Function {
	case models.KDFPBKDF2:
		h, err := hashFunc(kd.Hash)
		if err != nil {
			return nil, err
		}
		return pbkdf2.Key(password, salt, kd.Iterations, keyLen, h), nil
	case models.KDFArgon2id:
		return argon2.IDKey(
			password,
			salt,
			uint32(kd.Iterations),
			kd.Memory,
			kd.Parallelism,
			uint32(keyLen),
		), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKDF, kd.Function)
	}
}

func hashFunc(name string) (func() hash.Hash, error) {
	switch name {
	case models.HashSHA256:
		return sha256.New, nil
	case models.HashSHA512:
		return sha512.New, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedHash, name)
	}
}
