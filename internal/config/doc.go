// Package config provides configuration loading, merging, and validation
// facilities for go-note-vault.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Environment variables (with built-in defaults)
//  2. Command-line flags
//  3. JSON config file
//
// The main entry point is [GetStructuredConfig]. Command-line flags are
// registered on a cobra/pflag flag set with [BindFlags] before parsing.
package config
