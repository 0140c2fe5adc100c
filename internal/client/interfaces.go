// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import "context"

// Client defines the minimal lifecycle contract for runnable client
// applications.
type Client interface {
	// Run executes the command line args and blocks until exit.
	Run(ctx context.Context, args []string) error
}

// Prompter asks the user for secrets.
type Prompter interface {
	// ReadPassword shows prompt and reads one line without echo.
	ReadPassword(prompt string) (string, error)
}
