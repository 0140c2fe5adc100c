// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/MKhiriev/go-note-vault/internal/logger"
)

const (
	documentFileMode = 0o600
	documentDirMode  = 0o700
	tempFilePattern  = ".notevault-*.tmp"
)

// fileDocumentStorage is the filesystem implementation of
// [DocumentStorage]. Relative paths resolve against root; absolute paths
// are used as given. Writes go to a temporary file in the target directory
// which is then renamed over the document, so a crash never leaves a
// half-written container behind.
type fileDocumentStorage struct {
	root   string
	logger *logger.Logger
}

// NewFileDocumentStorage constructs a [DocumentStorage] rooted at dir.
func NewFileDocumentStorage(dir string, log *logger.Logger) DocumentStorage {
	if dir == "" {
		dir = "."
	}
	log.Debug().Str("root", dir).Msg("creating file document storage")
	return &fileDocumentStorage{root: dir, logger: log}
}

func (s *fileDocumentStorage) resolve(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", ErrInvalidPath
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	return filepath.Join(s.root, path), nil
}

func (s *fileDocumentStorage) Read(ctx context.Context, path string) (string, error) {
	full, err := s.resolve(path)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrDocumentNotFound
		}
		return "", fmt.Errorf("read document %s: %w", path, err)
	}

	return string(data), nil
}

func (s *fileDocumentStorage) Write(ctx context.Context, path, content string) error {
	log := logger.FromContext(ctx)

	full, err := s.resolve(path)
	if err != nil {
		return err
	}

	dir := filepath.Dir(full)
	if err = os.MkdirAll(dir, documentDirMode); err != nil {
		return fmt.Errorf("create document dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err = tmp.WriteString(content); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Chmod(documentFileMode); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err = os.Rename(tmpName, full); err != nil {
		log.Err(err).Str("func", "*fileDocumentStorage.Write").Str("path", path).Msg("atomic replace failed")
		return fmt.Errorf("replace document %s: %w", path, err)
	}

	return nil
}

func (s *fileDocumentStorage) Rename(ctx context.Context, oldPath, newPath string) error {
	from, err := s.resolve(oldPath)
	if err != nil {
		return err
	}
	to, err := s.resolve(newPath)
	if err != nil {
		return err
	}

	if _, err = os.Stat(from); errors.Is(err, fs.ErrNotExist) {
		return ErrDocumentNotFound
	}
	if _, err = os.Stat(to); err == nil {
		return ErrDocumentExists
	}

	if err = os.MkdirAll(filepath.Dir(to), documentDirMode); err != nil {
		return fmt.Errorf("create document dir: %w", err)
	}
	if err = os.Rename(from, to); err != nil {
		return fmt.Errorf("rename document %s: %w", oldPath, err)
	}

	return nil
}

func (s *fileDocumentStorage) Delete(ctx context.Context, path string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}

	if err = os.Remove(full); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrDocumentNotFound
		}
		return fmt.Errorf("delete document %s: %w", path, err)
	}

	return nil
}

// List walks root and returns the relative path of every regular file.
// Hidden entries (including leftover temp files) are skipped.
func (s *fileDocumentStorage) List(ctx context.Context) ([]string, error) {
	paths := make([]string, 0)

	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		name := d.Name()
		if p != s.root && strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	sort.Strings(paths)
	return paths, nil
}
