package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-note-vault/internal/config"
	"github.com/MKhiriev/go-note-vault/internal/logger"
)

// Storages groups the storage backends into a single value that can be
// passed to the service layer.
type Storages struct {
	// DocumentStorage holds serialized containers keyed by path.
	DocumentStorage DocumentStorage

	db *DB
}

// NewStorages initialises the storage layer from cfg:
//  1. When cfg.DB.DSN is set, opens (creating if needed) the SQLite file,
//     runs pending migrations via [DB.Migrate] and stores documents there.
//  2. Otherwise documents are plain files under cfg.Files.Dir.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	log.Info().Msg("creating new storages...")

	if cfg.DB.DSN == "" {
		return &Storages{
			DocumentStorage: NewFileDocumentStorage(cfg.Files.Dir, log),
		}, nil
	}

	db, err := NewConnectSQLite(ctx, cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &Storages{
		DocumentStorage: NewSQLiteDocumentStorage(db, log),
		db:              db,
	}, nil
}

// Close releases the database connection, if any.
func (s *Storages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
