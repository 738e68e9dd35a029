package providers

import (
	"github.com/samber/do/v2"

	"github.com/notesapp/notes-server/internal/logger"
	"github.com/notesapp/notes-server/internal/service"
	"github.com/notesapp/notes-server/internal/validation"
)

// ProvideValidator provides the shared request validator.
func ProvideValidator(do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideSyncService provides the analyzer sync service.
func ProvideSyncService(i do.Injector) (*service.SyncService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSyncService(storeHandle.Store, log.Logger), nil
}

// ProvideStatsService provides the stats service.
func ProvideStatsService(i do.Injector) (*service.StatsService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewStatsService(storeHandle.Store, log.Logger), nil
}

// ProvideProjectService provides the project service.
func ProvideProjectService(i do.Injector) (*service.ProjectService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewProjectService(storeHandle.Store, log.Logger), nil
}

// ProvideNoteService provides the note service.
func ProvideNoteService(i do.Injector) (*service.NoteService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewNoteService(storeHandle.Store, log.Logger), nil
}

// ProvideTagService provides the tag and flag service.
func ProvideTagService(i do.Injector) (*service.TagService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTagService(storeHandle.Store, log.Logger), nil
}

// ProvidePageService provides the project page service.
func ProvidePageService(i do.Injector) (*service.PageService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPageService(storeHandle.Store, log.Logger), nil
}

// ProvideImportService provides the batch file importer used by the watcher and the CLI.
func ProvideImportService(i do.Injector) (*service.ImportService, error) {
	syncService := do.MustInvoke[*service.SyncService](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewImportService(syncService, validator, log.Logger), nil
}
