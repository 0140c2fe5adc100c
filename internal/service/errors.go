package service

import "errors"

var (
	// ErrPasswordRequired is returned when neither an explicit password nor
	// usable cached credentials are available. The caller should prompt.
	ErrPasswordRequired = errors.New("password required")

	// ErrPendingDocument is returned when opening a placeholder that has
	// never been given a password. The caller should ask for a new
	// password and save.
	ErrPendingDocument = errors.New("document has no password yet")

	ErrInvalidPath           = errors.New("invalid document path")
	ErrSamePath              = errors.New("source and target paths are the same")
	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)
