// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the notevault command-line application.
//
// It wires configuration, storage, the document service and the session
// cache into cobra commands. Every invocation is one session: documents
// opened together share one password prompt, and the interactive shell
// keeps the session alive across commands until it exits.
package client
