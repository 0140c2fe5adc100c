package container

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-note-vault/internal/crypto"
)

// ErrAuthFailed is returned by Decode when the password is wrong or the
// ciphertext was tampered with. The two cases cannot be told apart; callers
// treat it as "try another password".
var ErrAuthFailed = crypto.ErrAuthFailed

// ErrEmptyInput is returned for zero-length (or whitespace-only) stored
// content. It is neither a format nor an authentication error.
var ErrEmptyInput = errors.New("empty container")

// Reasons wrapped by [FormatError].
var (
	ErrMalformed             = errors.New("malformed container")
	ErrUnknownFormat         = errors.New("unknown container format")
	ErrUnsupportedVersion    = errors.New("unsupported container version")
	ErrUnsupportedParameters = errors.New("unsupported encryption parameters")
	ErrDataTooShort          = errors.New("container data too short")
	ErrPending               = errors.New("container is a pending placeholder")
)

// FormatError reports a container that cannot be interpreted. It indicates
// data damage (or a non-container input) and is never retried with another
// password.
type FormatError struct {
	Reason string // Human-readable description
	Err    error  // One of the Err* reasons above, possibly wrapping a cause
}

func (e *FormatError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid container: %v", e.Err)
	}
	return fmt.Sprintf("invalid container: %s: %v", e.Reason, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func newFormatError(reason string, err error) error {
	return &FormatError{Reason: reason, Err: err}
}

// MigrationError reports a failed rewrite of a legacy container. The stored
// container is left untouched and remains decryptable; migration is retried
// on the next open.
type MigrationError struct {
	Path string
	Err  error
}

func (e *MigrationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("migration error: %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("migration error: %v", e.Err)
}

func (e *MigrationError) Unwrap() error {
	return e.Err
}

// IsFormatError checks if err is or wraps a *FormatError.
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// IsMigrationError checks if err is or wraps a *MigrationError.
func IsMigrationError(err error) bool {
	var me *MigrationError
	return errors.As(err, &me)
}
