// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-note-vault/internal/container"
	"github.com/MKhiriev/go-note-vault/internal/crypto"
	"github.com/MKhiriev/go-note-vault/internal/logger"
	"github.com/MKhiriev/go-note-vault/internal/session"
	"github.com/MKhiriev/go-note-vault/internal/store"
	"github.com/MKhiriev/go-note-vault/models"
)

// documentService is the default implementation of [DocumentService].
type documentService struct {
	storage store.DocumentStorage
	codec   *container.Codec
	cache   *session.Cache
	logger  *logger.Logger
}

// NewDocumentService constructs a [DocumentService].
func NewDocumentService(storage store.DocumentStorage, codec *container.Codec, cache *session.Cache, logger *logger.Logger) DocumentService {
	return &documentService{
		storage: storage,
		codec:   codec,
		cache:   cache,
		logger:  logger,
	}
}

// credentials is what was used to open or encrypt a document. Exactly one
// of password and key is set.
type credentials struct {
	password string
	key      *crypto.Key
}

func (s *documentService) LoadDocument(raw, password string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", container.ErrEmptyInput
	}
	if container.IsPending(raw) {
		return "", ErrPendingDocument
	}
	return s.codec.Decode(raw, password)
}

func (s *documentService) SaveDocument(plaintext, password, hint string) (string, error) {
	return s.codec.Encode(plaintext, password, hint)
}

// Open resolves credentials in this order: the explicit password, a key
// cached for exactly this path, then a remembered password (possibly shared
// from another document). A remembered password that fails to decrypt is
// not an error of its own: the caller gets [ErrPasswordRequired] and should
// prompt.
func (s *documentService) Open(ctx context.Context, path, password string) (models.Document, error) {
	log := logger.FromContext(ctx)

	cont, err := s.read(ctx, path)
	if err != nil {
		return models.Document{}, err
	}
	doc := models.Document{Path: path, Hint: cont.Hint}

	plaintext, creds, err := s.decrypt(path, cont, password)
	if err != nil {
		return doc, err
	}
	doc.Plaintext = plaintext

	if container.NeedsMigration(cont) {
		if migrated, ok := s.migrateOnOpen(ctx, path, cont, creds); ok {
			cont = migrated
			doc.Migrated = true
		}
	}

	s.remember(path, cont, creds)
	log.Debug().Str("path", path).Bool("migrated", doc.Migrated).Msg("document opened")

	return doc, nil
}

func (s *documentService) decrypt(path string, cont *models.Container, password string) (string, credentials, error) {
	if password != "" {
		plaintext, err := s.codec.DecodeContainer(cont, password)
		if err != nil {
			return "", credentials{}, err
		}
		return plaintext, credentials{password: password}, nil
	}

	if key, ok := s.cache.GetKey(path); ok {
		plaintext, err := s.codec.DecodeContainerWithKey(cont, key)
		if err == nil {
			return plaintext, credentials{key: key}, nil
		}
		if !errors.Is(err, container.ErrAuthFailed) {
			return "", credentials{}, err
		}
		// The document was replaced behind our back; the key is stale.
		s.cache.ClearFile(path)
	}

	if cached, ok := s.cache.GetPassword(path); ok {
		plaintext, err := s.codec.DecodeContainer(cont, cached)
		if err == nil {
			return plaintext, credentials{password: cached}, nil
		}
		if !errors.Is(err, container.ErrAuthFailed) {
			return "", credentials{}, err
		}
		s.logger.Debug().Str("path", path).Msg("remembered password does not fit, prompting")
	}

	return "", credentials{}, ErrPasswordRequired
}

// migrateOnOpen rewrites a legacy container after a successful open. Any
// failure is logged and leaves the old, still decryptable container in
// place; the next open retries.
func (s *documentService) migrateOnOpen(ctx context.Context, path string, cont *models.Container, creds credentials) (*models.Container, bool) {
	log := logger.FromContext(ctx)

	if creds.password == "" {
		log.Debug().Str("path", path).Msg("legacy container opened with a cached key, migration needs the password")
		return nil, false
	}

	raw, err := s.codec.Migrate(cont, creds.password)
	if err == nil {
		err = s.storage.Write(ctx, path, raw)
	}
	if err != nil {
		s.logger.Warn().Err(&container.MigrationError{Path: path, Err: err}).Msg("migration failed, keeping old container")
		return nil, false
	}

	migrated, err := container.Parse(raw)
	if err != nil {
		return nil, false
	}
	return migrated, true
}

// remember stores the credentials of a successful open or save according
// to the cache mode. Keys-only mode never keeps the password; it keeps an
// extractable key derived for the container as stored.
func (s *documentService) remember(path string, cont *models.Container, creds credentials) {
	var err error

	switch s.cache.Mode() {
	case session.ModeNoStorage:
		return
	case session.ModeKeysOnly:
		key := creds.key
		if key == nil {
			key, err = s.codec.DeriveCacheKey(cont, creds.password)
			if err != nil {
				s.logger.Warn().Err(err).Str("path", path).Msg("could not derive cache key")
				return
			}
		}
		err = s.cache.Put(path, "", cont.Hint, key)
	default:
		if creds.password == "" {
			return
		}
		err = s.cache.Put(path, creds.password, cont.Hint, nil)
	}

	if err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("could not update session cache")
	}
}

// Save resolves credentials like [documentService.Open]. In keys-only mode
// a cached key re-encrypts the document with its original salt and a fresh
// nonce. An empty hint keeps the hint already associated with the document.
//
// Cached credentials only re-encrypt a stored container they can open: a
// password shared from another document never re-keys this one. When they
// do not fit, Save returns [ErrPasswordRequired].
func (s *documentService) Save(ctx context.Context, path, plaintext, password, hint string) error {
	log := logger.FromContext(ctx)

	existing := s.stored(ctx, path)
	if hint == "" {
		hint = s.currentHint(path, existing)
	}

	var (
		raw   string
		creds credentials
		err   error
	)

	switch {
	case password != "":
		creds.password = password
	case s.cache.Mode() == session.ModeKeysOnly:
		if key, ok := s.cache.GetKey(path); ok {
			if existing != nil {
				if _, err = s.codec.DecodeContainerWithKey(existing, key); err != nil {
					log.Debug().Err(err).Str("path", path).Msg("cached key does not open the stored document")
					s.cache.ClearFile(path)
					return ErrPasswordRequired
				}
			}
			creds.key = key
		}
	default:
		if cached, ok := s.cache.GetPassword(path); ok {
			if existing != nil {
				if _, err = s.codec.DecodeContainer(existing, cached); err != nil {
					log.Debug().Err(err).Str("path", path).Msg("remembered password does not open the stored document")
					return ErrPasswordRequired
				}
			}
			creds.password = cached
		}
	}

	switch {
	case creds.key != nil:
		raw, err = s.codec.EncodeWithKey(plaintext, creds.key, hint)
	case creds.password != "":
		raw, err = s.codec.Encode(plaintext, creds.password, hint)
	default:
		return ErrPasswordRequired
	}
	if err != nil {
		return fmt.Errorf("encrypt %s: %w", path, err)
	}

	if err = s.storage.Write(ctx, path, raw); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	cont, err := container.Parse(raw)
	if err != nil {
		return fmt.Errorf("re-read %s: %w", path, err)
	}
	s.remember(path, cont, creds)

	log.Debug().Str("path", path).Msg("document saved")
	return nil
}

// currentHint returns the cached hint of path, falling back to the hint of
// the stored container.
func (s *documentService) currentHint(path string, existing *models.Container) string {
	if hint, ok := s.cache.GetHint(path); ok && hint != "" {
		return hint
	}
	if existing == nil {
		return ""
	}
	return existing.Hint
}

// stored returns the decryptable container at path, or nil when there is
// none: missing documents, placeholders and plain files.
func (s *documentService) stored(ctx context.Context, path string) *models.Container {
	raw, err := s.storage.Read(ctx, path)
	if err != nil {
		return nil
	}
	cont, err := container.Parse(raw)
	if err != nil {
		return nil
	}
	return cont
}

func (s *documentService) Create(ctx context.Context, path string) error {
	_, err := s.storage.Read(ctx, path)
	switch {
	case err == nil:
		return store.ErrDocumentExists
	case !errors.Is(err, store.ErrDocumentNotFound):
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err = s.storage.Write(ctx, path, container.NewPending()); err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	return nil
}

func (s *documentService) Inspect(ctx context.Context, path string) (models.DocumentInfo, error) {
	raw, err := s.storage.Read(ctx, path)
	if err != nil {
		return models.DocumentInfo{}, fmt.Errorf("read %s: %w", path, err)
	}
	return describe(path, raw)
}

func describe(path, raw string) (models.DocumentInfo, error) {
	if strings.TrimSpace(raw) == "" {
		return models.DocumentInfo{}, container.ErrEmptyInput
	}
	if container.IsPending(raw) {
		return models.DocumentInfo{
			Path:    path,
			Format:  models.PendingFormatTag,
			Version: models.CurrentVersion,
			Pending: true,
		}, nil
	}

	cont, err := container.Parse(raw)
	if err != nil {
		return models.DocumentInfo{}, err
	}

	return models.DocumentInfo{
		Path:       path,
		Format:     cont.Format,
		Version:    cont.Version,
		KeyType:    cont.KeyType,
		Hint:       cont.Hint,
		Encryption: cont.Encryption,
		Legacy:     container.NeedsMigration(cont),
	}, nil
}

// Migrate rewrites path into the current format. Unlike migration on open,
// a storage failure here is returned as a *container.MigrationError.
func (s *documentService) Migrate(ctx context.Context, path, password string) (bool, error) {
	log := logger.FromContext(ctx)

	cont, err := s.read(ctx, path)
	if err != nil {
		return false, err
	}
	if !container.NeedsMigration(cont) {
		return false, nil
	}

	if password == "" {
		cached, ok := s.cache.GetPassword(path)
		if !ok {
			return false, ErrPasswordRequired
		}
		password = cached
	}

	raw, err := s.codec.Migrate(cont, password)
	if err != nil {
		return false, err
	}
	if err = s.storage.Write(ctx, path, raw); err != nil {
		return false, &container.MigrationError{Path: path, Err: err}
	}

	log.Info().Str("path", path).Msg("document migrated")
	return true, nil
}

func (s *documentService) Rename(ctx context.Context, oldPath, newPath string) error {
	if err := s.storage.Rename(ctx, oldPath, newPath); err != nil {
		return fmt.Errorf("rename %s: %w", oldPath, err)
	}
	s.cache.HandleRename(oldPath, newPath)
	return nil
}

func (s *documentService) Delete(ctx context.Context, path string) error {
	if err := s.storage.Delete(ctx, path); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	s.cache.ClearFile(path)
	return nil
}

// List skips stored files that are neither containers nor placeholders.
func (s *documentService) List(ctx context.Context) ([]models.DocumentInfo, error) {
	paths, err := s.storage.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	infos := make([]models.DocumentInfo, 0, len(paths))
	for _, p := range paths {
		raw, err := s.storage.Read(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		if !container.IsContainer(raw) && !container.IsPending(raw) {
			continue
		}

		info, err := describe(p, raw)
		if err != nil {
			s.logger.Debug().Err(err).Str("path", p).Msg("skipping unreadable container")
			continue
		}
		infos = append(infos, info)
	}

	return infos, nil
}

func (s *documentService) Lock(path string) {
	s.cache.ClearFile(path)
}

func (s *documentService) LockAll() {
	s.cache.Clear()
}

// read loads and parses the container at path. Empty documents and
// placeholders are reported before parsing.
func (s *documentService) read(ctx context.Context, path string) (*models.Container, error) {
	raw, err := s.storage.Read(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if strings.TrimSpace(raw) == "" {
		return nil, container.ErrEmptyInput
	}
	if container.IsPending(raw) {
		return nil, ErrPendingDocument
	}

	return container.Parse(raw)
}
