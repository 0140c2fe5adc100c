package store

import (
	"context"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/document_storage_mock.go -package=mock

// DocumentStorage persists serialized containers keyed by document path.
// Content is opaque to the storage: it is written and read back verbatim.
type DocumentStorage interface {
	// Read returns the stored content of path or [ErrDocumentNotFound].
	Read(ctx context.Context, path string) (string, error)
	// Write replaces the content of path, creating it when absent. A
	// reader never observes a partially written document.
	Write(ctx context.Context, path, content string) error
	// Rename moves oldPath to newPath. It fails with [ErrDocumentExists]
	// when newPath is taken and [ErrDocumentNotFound] when oldPath is absent.
	Rename(ctx context.Context, oldPath, newPath string) error
	// Delete removes path or returns [ErrDocumentNotFound].
	Delete(ctx context.Context, path string) error
	// List returns every stored path in lexical order.
	List(ctx context.Context) ([]string, error)
}
