package api

import "github.com/notesapp/notes-server/internal/service"

// Services groups the services used by HTTP handlers.
type Services struct {
	Sync    *service.SyncService
	Stats   *service.StatsService
	Project *service.ProjectService
	Note    *service.NoteService
	Tag     *service.TagService
	Page    *service.PageService
}
