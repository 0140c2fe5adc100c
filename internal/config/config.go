// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"

	"github.com/MKhiriev/go-note-vault/models"
)

// StructuredConfig is the top-level configuration container for
// go-note-vault. It aggregates all sub-configurations and is populated by
// merging values from environment variables, command-line flags, and an
// optional JSON file.
//
// Struct tags:
//   - envPrefix : prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       : direct environment variable name for scalar fields.
//   - envDefault: value used when the variable is unset.
type StructuredConfig struct {
	// App holds process-level settings such as logging.
	App App `envPrefix:"APP_"`

	// Crypto holds the encryption parameters written into new containers.
	Crypto Crypto `envPrefix:"CRYPTO_"`

	// Session holds the credential cache policy.
	Session Session `envPrefix:"SESSION_"`

	// Storage holds configuration for the document storage backends.
	Storage Storage `envPrefix:"STORAGE_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / --config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// LogLevel is the minimum zerolog level ("debug", "info", "warn", ...).
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL" envDefault:"warn"`

	// LogFile, when set, receives log output instead of stderr.
	// Env: APP_LOG_FILE
	LogFile string `env:"LOG_FILE"`
}

// Crypto selects the parameters used for newly written containers. Existing
// containers always decode with the parameters they carry.
type Crypto struct {
	// Env: CRYPTO_ALGORITHM ("AES-GCM" or "ChaCha20-Poly1305")
	Algorithm string `env:"ALGORITHM" envDefault:"AES-GCM"`

	// KeySize is the symmetric key size in bits.
	// Env: CRYPTO_KEY_SIZE
	KeySize int `env:"KEY_SIZE" envDefault:"256"`

	// IVLength is the nonce length in bytes.
	// Env: CRYPTO_IV_LENGTH
	IVLength int `env:"IV_LENGTH" envDefault:"12"`

	// Env: CRYPTO_KDF ("PBKDF2" or "Argon2id")
	KDF string `env:"KDF" envDefault:"PBKDF2"`

	// Hash is the PBKDF2 HMAC hash.
	// Env: CRYPTO_HASH ("SHA-256" or "SHA-512")
	Hash string `env:"HASH" envDefault:"SHA-512"`

	// Iterations is the PBKDF2 work factor.
	// Env: CRYPTO_ITERATIONS
	Iterations int `env:"ITERATIONS" envDefault:"210000"`

	// SaltLength is the per-container salt size in bytes.
	// Env: CRYPTO_SALT_LENGTH
	SaltLength int `env:"SALT_LENGTH" envDefault:"16"`

	// Argon2Time is the Argon2id pass count, used instead of Iterations
	// when KDF is Argon2id.
	// Env: CRYPTO_ARGON2_TIME
	Argon2Time int `env:"ARGON2_TIME" envDefault:"3"`

	// Argon2Memory is the Argon2id memory cost in KiB.
	// Env: CRYPTO_ARGON2_MEMORY
	Argon2Memory uint32 `env:"ARGON2_MEMORY" envDefault:"65536"`

	// Argon2Threads is the Argon2id parallelism.
	// Env: CRYPTO_ARGON2_THREADS
	Argon2Threads uint8 `env:"ARGON2_THREADS" envDefault:"4"`
}

// Session holds the credential cache policy.
type Session struct {
	// Mode is one of "session-password", "timed-password", "keys-only",
	// "no-storage".
	// Env: SESSION_MODE
	Mode string `env:"MODE" envDefault:"session-password"`

	// Timeout bounds password retention in session-password mode. Zero
	// keeps passwords for the whole process lifetime.
	// Env: SESSION_TIMEOUT
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30m"`

	// TimedWindow bounds password retention in timed-password mode.
	// Env: SESSION_TIMED_WINDOW
	TimedWindow time.Duration `env:"TIMED_WINDOW" envDefault:"5m"`
}

// Storage groups the configuration for the document storage backends.
type Storage struct {
	// DB holds the SQLite settings. When DSN is set documents are stored
	// in the database instead of the filesystem.
	DB DB `envPrefix:"DB_"`

	// Files holds the filesystem backend settings.
	Files Files `envPrefix:"FILES_"`
}

// DB holds connection settings for the SQLite document store.
type DB struct {
	// DSN is the SQLite data source name (e.g. "notes.db").
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Files holds filesystem settings for the document store.
type Files struct {
	// Dir is the root directory relative document paths resolve against.
	// Env: STORAGE_FILES_DIR
	Dir string `env:"DIR" envDefault:"."`
}

// EncryptionParameters converts the crypto section into the parameters
// written into new containers.
func (c Crypto) EncryptionParameters() models.EncryptionParameters {
	p := models.EncryptionParameters{
		Algorithm: c.Algorithm,
		KeySize:   c.KeySize,
		IVLength:  c.IVLength,
		KeyDerivation: models.KeyDerivation{
			Function:   c.KDF,
			Iterations: c.Iterations,
			SaltLength: c.SaltLength,
		},
	}

	switch c.KDF {
	case models.KDFArgon2id:
		p.KeyDerivation.Iterations = c.Argon2Time
		p.KeyDerivation.Memory = c.Argon2Memory
		p.KeyDerivation.Parallelism = c.Argon2Threads
	default:
		p.KeyDerivation.Hash = c.Hash
	}

	return p
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (last source wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags collected by [BindFlags]
//  3. JSON file (path resolved from sources 1 and 2)
//
// flags may be nil when no flag set was bound.
func GetStructuredConfig(flags *StructuredConfig) (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(flags).
		withJSON().
		build()
}
