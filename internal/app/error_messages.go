// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// go-note-vault command-line client.
//
// All Msg* constants are human-readable message strings printed to the user
// to describe the outcome of an operation. Keeping them in one place ensures
// consistent wording throughout the CLI.
package app

const (
	// MsgWrongPassword is shown when a container fails authentication.
	// A wrong password and a tampered document are indistinguishable.
	MsgWrongPassword = "wrong password or damaged document"

	// MsgTooManyAttempts is shown after the last password retry fails.
	MsgTooManyAttempts = "too many wrong passwords"

	// MsgPasswordRequired is shown when no password was given and nothing
	// usable is remembered by the session.
	MsgPasswordRequired = "password required"

	// MsgPendingDocument is shown when opening a document that has been
	// created but never saved with a password.
	MsgPendingDocument = "document has no content yet, save it first"

	// MsgEmptyDocument is shown when the stored document is empty.
	MsgEmptyDocument = "document is empty"

	// MsgNotAContainer is shown when the stored text is not a readable
	// encrypted document.
	MsgNotAContainer = "not an encrypted document"

	// MsgDocumentNotFound is shown when the requested path does not exist.
	MsgDocumentNotFound = "document not found"

	// MsgDocumentExists is shown when a create or rename target is taken.
	MsgDocumentExists = "document already exists"

	// MsgInvalidPath is shown for empty or directory paths.
	MsgInvalidPath = "invalid document path"

	// MsgMigrationFailed is shown when rewriting a legacy document fails.
	// The old document is left untouched.
	MsgMigrationFailed = "migration failed, document left in its old format"

	// MsgPasswordMismatch is shown when the confirmation of a new password
	// differs from the first entry.
	MsgPasswordMismatch = "passwords do not match"
)
