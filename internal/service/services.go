package service

import (
	"fmt"

	"github.com/MKhiriev/go-note-vault/internal/config"
	"github.com/MKhiriev/go-note-vault/internal/container"
	"github.com/MKhiriev/go-note-vault/internal/logger"
	"github.com/MKhiriev/go-note-vault/internal/session"
	"github.com/MKhiriev/go-note-vault/internal/store"
	"github.com/MKhiriev/go-note-vault/models"
)

type Services struct {
	DocumentService DocumentService
	AppInfoService  AppInfoService

	// Session is owned by Services; call [Services.Shutdown] at teardown.
	Session *session.Cache
}

func NewServices(storages *store.Storages, cfg *config.StructuredConfig, buildInfo models.AppBuildInfo, logger *logger.Logger) (*Services, error) {
	codec, err := container.NewCodec(logger, container.WithDefaultParameters(cfg.Crypto.EncryptionParameters()))
	if err != nil {
		return nil, fmt.Errorf("error creating codec: %w", err)
	}

	cache, err := session.NewCache(cfg.SessionConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("error creating session cache: %w", err)
	}

	appInfo, err := NewAppInfoService(buildInfo, logger)
	if err != nil {
		return nil, err
	}

	documents := NewDocumentValidationService().
		Wrap(NewDocumentService(storages.DocumentStorage, codec, cache, logger))

	return &Services{
		DocumentService: documents,
		AppInfoService:  appInfo,
		Session:         cache,
	}, nil
}

// Shutdown wipes every cached credential.
func (s *Services) Shutdown() {
	s.Session.Shutdown()
}
