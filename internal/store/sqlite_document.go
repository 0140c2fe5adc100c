// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/go-note-vault/internal/logger"
	"github.com/MKhiriev/go-note-vault/internal/utils"
)

// A write that fails with a retryable (busy/locked) error is retried up to
// writeRetries times, backing off exponentially from writeBackoffBase.
const (
	writeRetries     = 2
	writeBackoffBase = 20 * time.Millisecond
)

func newWriteBackoff() retry.Backoff {
	return retry.WithMaxRetries(writeRetries, retry.NewExponential(writeBackoffBase))
}

// sqliteDocumentStorage is the SQLite implementation of [DocumentStorage].
// Each document is one row of the "documents" table; writes are a single
// upsert so a container is always replaced wholesale.
type sqliteDocumentStorage struct {
	db     *DB
	ids     *utils.DocumentIDGenerator
	now     func() time.Time
	backoff func() retry.Backoff
	logger  *logger.Logger
}

// NewSQLiteDocumentStorage constructs a [DocumentStorage] on an open,
// migrated database.
func NewSQLiteDocumentStorage(db *DB, log *logger.Logger) DocumentStorage {
	log.Debug().Msg("creating sqlite document storage")
	return &sqliteDocumentStorage{
		db:     db,
		ids:     utils.NewDocumentIDGenerator(),
		now:     func() time.Time { return time.Now().UTC() },
		backoff: newWriteBackoff,
		logger:  log,
	}
}

func (s *sqliteDocumentStorage) Read(ctx context.Context, path string) (string, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectDocumentQuery(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var content string
	if err = s.db.QueryRowContext(ctx, query, args...).Scan(&content); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrDocumentNotFound
		}
		log.Err(err).Str("func", "*sqliteDocumentStorage.Read").Str("path", path).Msg("failed to read document")
		return "", fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return content, nil
}

func (s *sqliteDocumentStorage) Write(ctx context.Context, path, content string) error {
	log := logger.FromContext(ctx)

	query, args, err := buildUpsertDocumentQuery(s.ids.NewID(), path, content, s.now())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	attempt := 0
	err = retry.Do(ctx, s.backoff(), func(ctx context.Context) error {
		attempt++
		_, execErr := s.db.ExecContext(ctx, query, args...)
		if execErr == nil {
			return nil
		}
		if s.db.errorClassificator != nil && s.db.errorClassificator.Classify(execErr) == Retryable {
			log.Warn().Err(execErr).Str("path", path).Int("attempt", attempt).Msg("database busy, retrying write")
			return retry.RetryableError(execErr)
		}
		return execErr
	})
	if err == nil {
		return nil
	}

	log.Err(err).Str("func", "*sqliteDocumentStorage.Write").Str("path", path).Msg("failed to upsert document")
	return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
}

func (s *sqliteDocumentStorage) Rename(ctx context.Context, oldPath, newPath string) error {
	log := logger.FromContext(ctx)

	query, args, err := buildRenameDocumentQuery(oldPath, newPath, s.now())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDocumentExists
		}
		log.Err(err).Str("func", "*sqliteDocumentStorage.Rename").Str("from", oldPath).Str("to", newPath).Msg("failed to rename document")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return requireAffected(res)
}

func (s *sqliteDocumentStorage) Delete(ctx context.Context, path string) error {
	query, args, err := buildDeleteDocumentQuery(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return requireAffected(res)
}

func (s *sqliteDocumentStorage) List(ctx context.Context) ([]string, error) {
	query, args, err := buildListDocumentsQuery()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	paths := make([]string, 0)
	for rows.Next() {
		var p string
		if err = rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		paths = append(paths, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return paths, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if n == 0 {
		return ErrDocumentNotFound
	}
	return nil
}
