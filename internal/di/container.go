// Package di provides dependency injection configuration for the notes server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/notesapp/notes-server/internal/config"
	"github.com/notesapp/notes-server/internal/di/providers"
	"github.com/notesapp/notes-server/internal/logger"
	"github.com/notesapp/notes-server/internal/service"
	"github.com/notesapp/notes-server/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
// Services are built lazily, so the CLI can invoke just what it needs.
func NewContainer(cfg *config.Config) *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig(cfg))
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideValidator)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Business services
	do.Provide(injector, providers.ProvideSyncService)
	do.Provide(injector, providers.ProvideStatsService)
	do.Provide(injector, providers.ProvideProjectService)
	do.Provide(injector, providers.ProvideNoteService)
	do.Provide(injector, providers.ProvideTagService)
	do.Provide(injector, providers.ProvidePageService)
	do.Provide(injector, providers.ProvideImportService)

	// Workers
	do.Provide(injector, providers.ProvideImportWatcher)

	// Server
	do.Provide(injector, providers.ProvideSyncLimiter)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes everything the server needs and starts the HTTP
// listener and the import watcher.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*validation.Validator](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}

	_ = do.MustInvoke[*service.SyncService](injector)
	_ = do.MustInvoke[*service.ImportService](injector)

	if _, err := do.Invoke[*providers.ImportWatcherHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}

	return nil
}
