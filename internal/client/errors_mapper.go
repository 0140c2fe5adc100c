// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-note-vault/internal/app"
	"github.com/MKhiriev/go-note-vault/internal/container"
	"github.com/MKhiriev/go-note-vault/internal/service"
	"github.com/MKhiriev/go-note-vault/internal/store"
)

// userError pairs a user-facing message with the underlying error.
type userError struct {
	msg string
	err error
}

func (e *userError) Error() string {
	return e.msg
}

func (e *userError) Unwrap() error {
	return e.err
}

// mapError translates a service error into the message shown to the user.
// Unknown errors pass through unchanged.
func mapError(path string, err error) error {
	if err == nil {
		return nil
	}

	var mapped *userError
	if errors.As(err, &mapped) {
		return err
	}

	var msg string
	switch {
	case errors.Is(err, container.ErrAuthFailed):
		msg = app.MsgWrongPassword
	case errors.Is(err, service.ErrPasswordRequired):
		msg = app.MsgPasswordRequired
	case errors.Is(err, service.ErrPendingDocument):
		msg = app.MsgPendingDocument
	case errors.Is(err, container.ErrEmptyInput):
		msg = app.MsgEmptyDocument
	case container.IsMigrationError(err):
		msg = app.MsgMigrationFailed
	case container.IsFormatError(err):
		msg = fmt.Sprintf("%s (%v)", app.MsgNotAContainer, err)
	case errors.Is(err, store.ErrDocumentNotFound):
		msg = app.MsgDocumentNotFound
	case errors.Is(err, store.ErrDocumentExists):
		msg = app.MsgDocumentExists
	case errors.Is(err, service.ErrInvalidPath), errors.Is(err, store.ErrInvalidPath):
		msg = app.MsgInvalidPath
	default:
		return err
	}

	if path != "" {
		msg = path + ": " + msg
	}
	return &userError{msg: msg, err: err}
}
