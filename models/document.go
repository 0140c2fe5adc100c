package models

import "time"

// Document is a decrypted document handed to the host editor. Plaintext
// lives only in memory; it is never written to storage.
type Document struct {
	Path      string
	Plaintext string
	Hint      string

	// Migrated is set when the stored container was rewritten into the
	// current format while opening.
	Migrated bool
}

// DocumentInfo describes a stored container without decrypting it.
type DocumentInfo struct {
	Path       string                `json:"path"`
	Format     string                `json:"format"`
	Version    int                   `json:"version"`
	KeyType    string                `json:"keyType,omitempty"`
	Hint       string                `json:"hint,omitempty"`
	Encryption *EncryptionParameters `json:"encryption,omitempty"`
	Pending    bool                  `json:"pending"`
	Legacy     bool                  `json:"legacy"`
}

// StoredDocument is one row of the SQL document table.
type StoredDocument struct {
	ID        string
	Path      string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
