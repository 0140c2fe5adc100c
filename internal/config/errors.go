package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when a
// configuration group is incomplete or invalid.
var (
	// ErrInvalidAppConfigs indicates invalid application-level settings
	// (for example, an unknown log level).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidCryptoConfigs indicates encryption parameters that new
	// containers could not be written with.
	ErrInvalidCryptoConfigs = errors.New("invalid crypto configuration")
	// ErrInvalidSessionConfigs indicates an unknown session mode or a
	// negative timeout.
	ErrInvalidSessionConfigs = errors.New("invalid session configuration")
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, neither DSN nor directory configured).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
)
