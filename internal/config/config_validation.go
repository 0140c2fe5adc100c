// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/MKhiriev/go-note-vault/internal/session"
)

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or an error wrapping one of the
// ErrInvalid*Configs sentinels otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.LogLevel != "" {
		if _, err := zerolog.ParseLevel(cfg.App.LogLevel); err != nil {
			return fmt.Errorf("%w: log level %q", ErrInvalidAppConfigs, cfg.App.LogLevel)
		}
	}

	if err := cfg.Crypto.EncryptionParameters().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCryptoConfigs, err)
	}

	if _, err := session.ParseMode(cfg.Session.Mode); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSessionConfigs, err)
	}
	if cfg.Session.Timeout < 0 || cfg.Session.TimedWindow < 0 {
		return fmt.Errorf("%w: negative duration", ErrInvalidSessionConfigs)
	}
	if session.Mode(cfg.Session.Mode) == session.ModeTimedPassword && cfg.Session.TimedWindow == 0 {
		return fmt.Errorf("%w: timed-password mode needs a window", ErrInvalidSessionConfigs)
	}

	if cfg.Storage.DB.DSN == "" && cfg.Storage.Files.Dir == "" {
		return ErrInvalidStorageConfigs
	}
	if strings.Contains(cfg.Storage.DB.DSN, ":memory:") {
		return fmt.Errorf("%w: in-memory database loses documents on exit", ErrInvalidStorageConfigs)
	}

	return nil
}

// SessionConfig converts the session section into the cache configuration.
func (cfg *StructuredConfig) SessionConfig() session.Config {
	return session.Config{
		Mode:        session.Mode(cfg.Session.Mode),
		Timeout:     cfg.Session.Timeout,
		TimedWindow: cfg.Session.TimedWindow,
	}
}
