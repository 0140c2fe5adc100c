// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"errors"
	"fmt"
)

// AEAD algorithm identifiers.
const (
	AlgorithmAESGCM           = "AES-GCM"
	AlgorithmChaCha20Poly1305 = "ChaCha20-Poly1305"
)

// Key derivation function identifiers.
const (
	KDFPBKDF2   = "PBKDF2"
	KDFArgon2id = "Argon2id"
)

// Hash identifiers used by PBKDF2.
const (
	HashSHA256 = "SHA-256"
	HashSHA512 = "SHA-512"
)

// DefaultIterations is the PBKDF2 work factor written into new containers
// when the configuration does not override it. It matches the OWASP
// recommendation for PBKDF2-HMAC-SHA512; SHA-256 deployments should raise it
// to 600000 through configuration.
const DefaultIterations = 210000

// legacyIterations is the work factor used by format version 1.
const legacyIterations = 100000

// Upper bounds on the work factors accepted from a container. Parameters
// come from untrusted input; past these a decode would hang or exhaust
// memory instead of failing.
const (
	MaxPBKDF2Iterations = 10_000_000
	MaxArgon2Time       = 64
	MaxArgon2Memory     = 1 << 21 // KiB, 2 GiB
	MaxSaltLength       = 1024
)

// ErrInvalidParameters is wrapped by every [EncryptionParameters.Validate]
// failure.
var ErrInvalidParameters = errors.New("invalid encryption parameters")

// EncryptionParameters describes exactly how to rebuild the key and open the
// ciphertext of a container. Once embedded in a container it is never
// modified; migration writes a new container instead.
type EncryptionParameters struct {
	// Algorithm is the AEAD identifier (e.g. "AES-GCM").
	Algorithm string `json:"algorithm"`

	// KeySize is the symmetric key size in bits.
	KeySize int `json:"keySize"`

	// IVLength is the nonce length in bytes.
	IVLength int `json:"ivLength"`

	// KeyDerivation holds the password stretching parameters.
	KeyDerivation KeyDerivation `json:"keyDerivation"`
}

// KeyDerivation is the key-derivation sub-record of [EncryptionParameters].
type KeyDerivation struct {
	Function   string `json:"function"`
	Hash       string `json:"hash,omitempty"`
	Iterations int    `json:"iterations"`
	SaltLength int    `json:"saltLength"`

	// Memory (KiB) and Parallelism are only meaningful for Argon2id.
	Memory      uint32 `json:"memory,omitempty"`
	Parallelism uint8  `json:"parallelism,omitempty"`
}

// DefaultEncryptionParameters returns the parameters used for every new
// container: AES-256-GCM with a 96-bit nonce, key stretched with
// PBKDF2-HMAC-SHA512.
func DefaultEncryptionParameters() EncryptionParameters {
	return EncryptionParameters{
		Algorithm: AlgorithmAESGCM,
		KeySize:   256,
		IVLength:  12,
		KeyDerivation: KeyDerivation{
			Function:   KDFPBKDF2,
			Hash:       HashSHA512,
			Iterations: DefaultIterations,
			SaltLength: 16,
		},
	}
}

// LegacyEncryptionParameters returns the parameters format version 1
// containers were written with.
func LegacyEncryptionParameters() EncryptionParameters {
	return EncryptionParameters{
		Algorithm: AlgorithmAESGCM,
		KeySize:   256,
		IVLength:  12,
		KeyDerivation: KeyDerivation{
			Function:   KDFPBKDF2,
			Hash:       HashSHA256,
			Iterations: legacyIterations,
			SaltLength: 16,
		},
	}
}

// KeyBytes returns the key size in bytes.
func (p EncryptionParameters) KeyBytes() int {
	return p.KeySize / 8
}

// Validate checks that p is internally consistent and names only known
// identifiers. It does not judge whether the work factor is strong enough:
// old containers with weaker historical parameters must stay decryptable.
func (p EncryptionParameters) Validate() error {
	switch p.Algorithm {
	case AlgorithmAESGCM:
		if p.KeySize != 128 && p.KeySize != 192 && p.KeySize != 256 {
			return fmt.Errorf("%w: AES key size %d", ErrInvalidParameters, p.KeySize)
		}
		if p.IVLength < 12 || p.IVLength > 64 {
			return fmt.Errorf("%w: AES-GCM nonce length %d", ErrInvalidParameters, p.IVLength)
		}
	case AlgorithmChaCha20Poly1305:
		if p.KeySize != 256 {
			return fmt.Errorf("%w: ChaCha20-Poly1305 key size %d", ErrInvalidParameters, p.KeySize)
		}
		if p.IVLength != 12 {
			return fmt.Errorf("%w: ChaCha20-Poly1305 nonce length %d", ErrInvalidParameters, p.IVLength)
		}
	default:
		return fmt.Errorf("%w: unknown algorithm %q", ErrInvalidParameters, p.Algorithm)
	}

	kd := p.KeyDerivation
	if kd.Iterations <= 0 {
		return fmt.Errorf("%w: iterations must be positive", ErrInvalidParameters)
	}
	if kd.SaltLength <= 0 || kd.SaltLength > MaxSaltLength {
		return fmt.Errorf("%w: salt length %d", ErrInvalidParameters, kd.SaltLength)
	}

	switch kd.Function {
	case KDFPBKDF2:
		if kd.Hash != HashSHA256 && kd.Hash != HashSHA512 {
			return fmt.Errorf("%w: unknown hash %q", ErrInvalidParameters, kd.Hash)
		}
		if kd.Iterations > MaxPBKDF2Iterations {
			return fmt.Errorf("%w: %d iterations exceed %d", ErrInvalidParameters, kd.Iterations, MaxPBKDF2Iterations)
		}
	case KDFArgon2id:
		if kd.Memory == 0 || kd.Parallelism == 0 {
			return fmt.Errorf("%w: argon2id needs memory and parallelism", ErrInvalidParameters)
		}
		if kd.Iterations > MaxArgon2Time {
			return fmt.Errorf("%w: argon2id time %d exceeds %d", ErrInvalidParameters, kd.Iterations, MaxArgon2Time)
		}
		if kd.Memory > MaxArgon2Memory {
			return fmt.Errorf("%w: argon2id memory %d KiB exceeds %d", ErrInvalidParameters, kd.Memory, MaxArgon2Memory)
		}
	default:
		return fmt.Errorf("%w: unknown key derivation function %q", ErrInvalidParameters, kd.Function)
	}

	return nil
}
