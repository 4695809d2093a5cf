package config

import (
	"book-reader/internal/domain"
	"book-reader/internal/repository"
	"book-reader/internal/service"
	"book-reader/internal/store"
	"book-reader/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config            domain.Config
	Logger            domain.Logger
	Store             domain.KeyValueStore
	LibraryClient     domain.LibraryClient
	AuthService       domain.AuthService
	ProgressSync      domain.ProgressSync
	SessionService    domain.SessionService
	CatalogService    domain.CatalogService
	PreferenceService domain.PreferenceService
}

// NewContainer creates a new dependency injection container
func NewContainer() (*Container, error) {
	config := NewConfig()
	appLogger := logger.NewLogger(config.GetLogLevel())

	kv, err := store.NewFileStore(config.GetStatePath(), appLogger)
	if err != nil {
		return nil, err
	}

	libraryClient := repository.NewLibraryClient(config, appLogger)

	authService := service.NewAuthService(libraryClient, kv, appLogger)
	progressSync := service.NewProgressSync(libraryClient, authService, config, appLogger)
	accessPolicy := service.NewAccessPolicy(config.GetUnrestrictedRoles())
	sessionService := service.NewSessionService(libraryClient, authService, accessPolicy, progressSync, appLogger)
	catalogService := service.NewCatalogService(libraryClient, appLogger)
	preferenceService := service.NewPreferenceService(kv, appLogger)

	return &Container{
		Config:            config,
		Logger:            appLogger,
		Store:             kv,
		LibraryClient:     libraryClient,
		AuthService:       authService,
		ProgressSync:      progressSync,
		SessionService:    sessionService,
		CatalogService:    catalogService,
		PreferenceService: preferenceService,
	}, nil
}

// GetConfig returns the configuration instance
func (c *Container) GetConfig() domain.Config {
	return c.Config
}

// GetLogger returns the logger instance
func (c *Container) GetLogger() domain.Logger {
	return c.Logger
}
