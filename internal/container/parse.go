// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package container

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-note-vault/models"
)

// Parse performs a structural parse of raw without decrypting anything. It
// accepts the current and the legacy format tag and returns the container
// with its hint and parameters.
//
// Zero-length input yields [ErrEmptyInput]; every other failure, including
// a pending placeholder, is a *FormatError.
func Parse(raw string) (*models.Container, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrEmptyInput
	}

	var c models.Container
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, newFormatError("decode json", fmt.Errorf("%w: %w", ErrMalformed, err))
	}

	switch c.Format {
	case models.FormatTag, models.LegacyFormatTag:
	case models.PendingFormatTag:
		return nil, newFormatError("", ErrPending)
	default:
		return nil, newFormatError(fmt.Sprintf("format tag %q", c.Format), ErrUnknownFormat)
	}

	if c.Version <= 0 {
		return nil, newFormatError("missing version", ErrMalformed)
	}
	if c.Version > models.CurrentVersion {
		return nil, newFormatError(fmt.Sprintf("version %d", c.Version), ErrUnsupportedVersion)
	}

	if c.Encryption == nil {
		return nil, newFormatError("missing encryption parameters", ErrMalformed)
	}
	if err := c.Encryption.Validate(); err != nil {
		return nil, newFormatError("", fmt.Errorf("%w: %w", ErrUnsupportedParameters, err))
	}

	if c.KeyType == "" {
		if !c.IsLegacy() {
			return nil, newFormatError("missing key type", ErrMalformed)
		}
		// version 1 predates the keyType field; every such key was a password.
		c.KeyType = models.KeyTypePassword
	}

	if _, _, _, err := unpack(&c); err != nil {
		return nil, err
	}

	return &c, nil
}

// IsContainer reports whether raw parses as a decryptable container of the
// current or legacy format. It never fails; pending placeholders and
// arbitrary text report false.
func IsContainer(raw string) bool {
	_, err := Parse(raw)
	return err == nil
}

// IsPending reports whether raw is a pending placeholder: a document that
// has not been given a password yet.
func IsPending(raw string) bool {
	var tag struct {
		Format string `json:"format"`
	}
	if err := json.Unmarshal([]byte(raw), &tag); err != nil {
		return false
	}
	return tag.Format == models.PendingFormatTag
}

// NewPending returns the serialized pending placeholder.
func NewPending() string {
	b, _ := json.Marshal(models.Container{
		Format:  models.PendingFormatTag,
		Version: models.CurrentVersion,
	})
	return string(b)
}

// NeedsMigration reports whether c should be rewritten in the current
// format: its tag is legacy or its version is below the current one.
func NeedsMigration(c *models.Container) bool {
	return c.IsLegacy()
}

// unpack splits the data blob at the offsets recorded in the container's
// own parameters, never at default lengths.
func unpack(c *models.Container) (nonce, salt, ciphertext []byte, err error) {
	blob, err := base64.StdEncoding.DecodeString(c.Data)
	if err != nil {
		return nil, nil, nil, newFormatError("decode data", fmt.Errorf("%w: %w", ErrMalformed, err))
	}

	ivLen := c.Encryption.IVLength
	saltLen := c.Encryption.KeyDerivation.SaltLength
	if len(blob) < ivLen+saltLen+1 {
		return nil, nil, nil, newFormatError(
			fmt.Sprintf("%d bytes, need at least %d", len(blob), ivLen+saltLen+1),
			ErrDataTooShort,
		)
	}

	return blob[:ivLen], blob[ivLen : ivLen+saltLen], blob[ivLen+saltLen:], nil
}

// pack concatenates nonce ‖ salt ‖ ciphertext and base64-encodes the result.
func pack(nonce, salt, ciphertext []byte) string {
	blob := make([]byte, 0, len(nonce)+len(salt)+len(ciphertext))
	blob = append(blob, nonce...)
	blob = append(blob, salt...)
	blob = append(blob, ciphertext...)
	return base64.StdEncoding.EncodeToString(blob)
}
