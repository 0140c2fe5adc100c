package service

import (
	"context"

	"github.com/MKhiriev/go-note-vault/models"
)

// DocumentService is the glue between the document storage, the container
// codec and the session cache. Callers serialize operations per path.
type DocumentService interface {
	// LoadDocument decrypts raw container text with password.
	LoadDocument(raw, password string) (string, error)
	// SaveDocument encrypts plaintext into a container string.
	SaveDocument(plaintext, password, hint string) (string, error)

	// Open reads and decrypts the document at path. An empty password
	// means "use the session cache"; when nothing usable is cached it
	// returns [ErrPasswordRequired] together with the document's hint.
	Open(ctx context.Context, path, password string) (models.Document, error)
	// Save encrypts plaintext and replaces the document at path.
	Save(ctx context.Context, path, plaintext, password, hint string) error
	// Create stores a pending placeholder at path.
	Create(ctx context.Context, path string) error
	// Inspect describes the stored container without decrypting it.
	Inspect(ctx context.Context, path string) (models.DocumentInfo, error)
	// Migrate rewrites a legacy container into the current format. It
	// reports whether a rewrite happened.
	Migrate(ctx context.Context, path, password string) (bool, error)
	Rename(ctx context.Context, oldPath, newPath string) error
	Delete(ctx context.Context, path string) error
	// List describes every stored container and placeholder.
	List(ctx context.Context) ([]models.DocumentInfo, error)

	// Lock forgets the cached credentials of path.
	Lock(path string)
	// LockAll forgets every cached credential.
	LockAll()
}

// DocumentServiceWrapper defines middleware composition for DocumentService.
// Implementations wrap an existing DocumentService to add behavior such as
// validating.
type DocumentServiceWrapper interface {
	Wrap(DocumentService) DocumentService // returns a decorated DocumentService applying additional behavior
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
	GetBuildInfo(ctx context.Context) models.AppBuildInfo
}
