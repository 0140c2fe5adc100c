// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Format tags recognised in the "format" field of a stored container.
const (
	// FormatTag marks a container written by the current codec.
	FormatTag = "notevault"

	// LegacyFormatTag marks a container written before format version 2.
	// Its field layout is identical to the current one; only the default
	// parameters used to produce it were weaker. Such containers remain
	// decryptable and are rewritten on the next successful open.
	LegacyFormatTag = "notevault-legacy"

	// PendingFormatTag marks a placeholder for a document that has not been
	// given a password yet. It never carries ciphertext.
	PendingFormatTag = "notevault-pending"
)

// Container format versions.
const (
	LegacyVersion  = 1
	CurrentVersion = 2
)

// KeyTypePassword is the only key type produced today: the key is derived
// from a user password.
const KeyTypePassword = "password"

// Container is the self-describing, versioned representation of one
// encrypted document. It is the only unit ever written to storage and is
// always replaced wholesale.
//
// Data is the standard base64 encoding of nonce ‖ salt ‖ ciphertext‖tag
// with no delimiters; the slice offsets come from
// Encryption.IVLength and Encryption.KeyDerivation.SaltLength.
//
// Hint is stored unencrypted.
type Container struct {
	Format     string                `json:"format"`
	Version    int                   `json:"version"`
	Encryption *EncryptionParameters `json:"encryption,omitempty"`
	KeyType    string                `json:"keyType,omitempty"`
	Hint       string                `json:"hint,omitempty"`
	Data       string                `json:"data,omitempty"`
}

// IsPending reports whether c is a placeholder without ciphertext.
func (c Container) IsPending() bool {
	return c.Format == PendingFormatTag
}

// IsLegacy reports whether c was produced by an older format revision,
// either by tag or by version number.
func (c Container) IsLegacy() bool {
	return c.Format == LegacyFormatTag || c.Version < CurrentVersion
}
