package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/MKhiriev/go-note-vault/models"
)

// DocumentValidationService normalizes and checks document paths before
// delegating to the wrapped [DocumentService].
type DocumentValidationService struct {
	inner DocumentService
}

func NewDocumentValidationService() DocumentServiceWrapper {
	return &DocumentValidationService{}
}

func (v *DocumentValidationService) Wrap(wrapped DocumentService) DocumentService {
	v.inner = wrapped
	return v
}

// cleanPath rejects empty paths and paths naming a directory, and returns
// the lexically cleaned path so one document never has two cache keys.
func cleanPath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidPath)
	}
	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q names a directory", ErrInvalidPath, path)
	}

	cleaned := filepath.Clean(path)
	if cleaned == "." || cleaned == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	return cleaned, nil
}

func (v *DocumentValidationService) LoadDocument(raw, password string) (string, error) {
	return v.inner.LoadDocument(raw, password)
}

func (v *DocumentValidationService) SaveDocument(plaintext, password, hint string) (string, error) {
	return v.inner.SaveDocument(plaintext, password, hint)
}

func (v *DocumentValidationService) Open(ctx context.Context, path, password string) (models.Document, error) {
	path, err := cleanPath(path)
	if err != nil {
		return models.Document{}, err
	}
	return v.inner.Open(ctx, path, password)
}

func (v *DocumentValidationService) Save(ctx context.Context, path, plaintext, password, hint string) error {
	path, err := cleanPath(path)
	if err != nil {
		return err
	}
	return v.inner.Save(ctx, path, plaintext, password, hint)
}

func (v *DocumentValidationService) Create(ctx context.Context, path string) error {
	path, err := cleanPath(path)
	if err != nil {
		return err
	}
	return v.inner.Create(ctx, path)
}

func (v *DocumentValidationService) Inspect(ctx context.Context, path string) (models.DocumentInfo, error) {
	path, err := cleanPath(path)
	if err != nil {
		return models.DocumentInfo{}, err
	}
	return v.inner.Inspect(ctx, path)
}

func (v *DocumentValidationService) Migrate(ctx context.Context, path, password string) (bool, error) {
	path, err := cleanPath(path)
	if err != nil {
		return false, err
	}
	return v.inner.Migrate(ctx, path, password)
}

func (v *DocumentValidationService) Rename(ctx context.Context, oldPath, newPath string) error {
	oldPath, err := cleanPath(oldPath)
	if err != nil {
		return err
	}
	newPath, err = cleanPath(newPath)
	if err != nil {
		return err
	}
	if oldPath == newPath {
		return ErrSamePath
	}
	return v.inner.Rename(ctx, oldPath, newPath)
}

func (v *DocumentValidationService) Delete(ctx context.Context, path string) error {
	path, err := cleanPath(path)
	if err != nil {
		return err
	}
	return v.inner.Delete(ctx, path)
}

func (v *DocumentValidationService) List(ctx context.Context) ([]models.DocumentInfo, error) {
	return v.inner.List(ctx)
}

func (v *DocumentValidationService) Lock(path string) {
	if cleaned, err := cleanPath(path); err == nil {
		v.inner.Lock(cleaned)
	}
}

func (v *DocumentValidationService) LockAll() {
	v.inner.LockAll()
}
