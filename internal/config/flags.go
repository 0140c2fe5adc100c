package config

import (
	"github.com/spf13/pflag"
)

// BindFlags registers the configuration flags on fs and returns the
// config they populate once fs is parsed. Flags left unset keep their zero
// value so they do not override environment or JSON settings during the
// merge.
//
// Flags:
//
//	-c/--config            json file path with configs
//	--log-level            minimum log level
//	--log-file             log file path
//	--algorithm            AEAD algorithm for new containers
//	--kdf                  key derivation function for new containers
//	--hash                 PBKDF2 hash for new containers
//	--iterations           PBKDF2 work factor for new containers
//	--session-mode         credential cache mode
//	--session-timeout      session-password timeout (e.g. "30m")
//	--timed-window         timed-password window (e.g. "5m")
//	-d/--db                SQLite DSN; documents are stored in the database when set
//	-f/--dir               document root directory
func BindFlags(fs *pflag.FlagSet) *StructuredConfig {
	cfg := new(StructuredConfig)

	fs.StringVarP(&cfg.JSONFilePath, "config", "c", "", "JSON config file path")
	fs.StringVar(&cfg.App.LogLevel, "log-level", "", "Minimum log level (debug, info, warn, error)")
	fs.StringVar(&cfg.App.LogFile, "log-file", "", "Log file path (default stderr)")
	fs.StringVar(&cfg.Crypto.Algorithm, "algorithm", "", "AEAD algorithm for new containers (AES-GCM, ChaCha20-Poly1305)")
	fs.StringVar(&cfg.Crypto.KDF, "kdf", "", "Key derivation function for new containers (PBKDF2, Argon2id)")
	fs.StringVar(&cfg.Crypto.Hash, "hash", "", "PBKDF2 hash for new containers (SHA-256, SHA-512)")
	fs.IntVar(&cfg.Crypto.Iterations, "iterations", 0, "PBKDF2 iterations for new containers")
	fs.StringVar(&cfg.Session.Mode, "session-mode", "", "Session cache mode (session-password, timed-password, keys-only, no-storage)")
	fs.DurationVar(&cfg.Session.Timeout, "session-timeout", 0, "Session password timeout (e.g. 30m)")
	fs.DurationVar(&cfg.Session.TimedWindow, "timed-window", 0, "Timed password window (e.g. 5m)")
	fs.StringVarP(&cfg.Storage.DB.DSN, "db", "d", "", "SQLite DSN; documents are stored in the database when set")
	fs.StringVarP(&cfg.Storage.Files.Dir, "dir", "f", "", "Document root directory")

	return cfg
}
