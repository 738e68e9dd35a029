// Package store defines the persistence interface for the notes server.
package store

import (
	"context"

	"github.com/notesapp/notes-server/internal/domain"
)

// Queries holds every read and write operation. Both the store and an open
// transaction implement it, so reconciliation code is written once and runs
// inside or outside a transaction.
type Queries interface {
	// Projects
	CreateProject(ctx context.Context, p *domain.Project) error
	GetProject(ctx context.Context, id string) (*domain.Project, error)
	// FindProjectByName returns the oldest project with exactly this name.
	FindProjectByName(ctx context.Context, name string) (*domain.Project, error)
	UpdateProject(ctx context.Context, p *domain.Project) error
	DeleteProject(ctx context.Context, id string) error
	// ListProjects returns matching projects, most recently updated first.
	ListProjects(ctx context.Context, filter ProjectFilter) ([]*domain.Project, error)
	// LoadNotes populates Notes (updated desc) and their Tags on each project.
	LoadNotes(ctx context.Context, projects ...*domain.Project) error

	// Notes
	CreateNote(ctx context.Context, n *domain.Note) error
	GetNote(ctx context.Context, id string) (*domain.Note, error)
	// FindNoteByTitle matches title exactly within a project; a nil projectID
	// matches notes without a project.
	FindNoteByTitle(ctx context.Context, title string, projectID *string) (*domain.Note, error)
	UpdateNote(ctx context.Context, n *domain.Note) error
	DeleteNote(ctx context.Context, id string) error
	ListNotes(ctx context.Context, filter NoteFilter) (Page[*domain.Note], error)
	// SetNoteTags replaces the note's tag set with tagIDs (duplicates ignored).
	SetNoteTags(ctx context.Context, noteID string, tagIDs []string) error
	GetNoteTags(ctx context.Context, noteID string) ([]*domain.Tag, error)

	// Tags
	CreateTag(ctx context.Context, t *domain.Tag) error
	GetTag(ctx context.Context, id string) (*domain.Tag, error)
	FindTagByName(ctx context.Context, name string) (*domain.Tag, error)
	UpdateTag(ctx context.Context, t *domain.Tag) error
	DeleteTag(ctx context.Context, id string) error
	ListTags(ctx context.Context, filter TagFilter) ([]*domain.Tag, error)

	// Project pages
	CreatePage(ctx context.Context, p *domain.ProjectPage) error
	GetPage(ctx context.Context, id string) (*domain.ProjectPage, error)
	GetPageBySlug(ctx context.Context, slug string) (*domain.ProjectPage, error)
	GetPageByProject(ctx context.Context, projectID string) (*domain.ProjectPage, error)
	UpdatePage(ctx context.Context, p *domain.ProjectPage) error
	DeletePage(ctx context.Context, id string) error
	ListPages(ctx context.Context) ([]*domain.ProjectPage, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	// ListProjectsWithoutPage returns projects that have no page, oldest first.
	ListProjectsWithoutPage(ctx context.Context) ([]*domain.Project, error)

	// Stats
	GetStats(ctx context.Context, recentLimit int) (*domain.SyncStats, error)
}

// Tx is an open transaction. Savepoints let a caller undo one unit of work
// while keeping the rest of the transaction.
type Tx interface {
	Queries
	Savepoint(ctx context.Context, name string) error
	RollbackTo(ctx context.Context, name string) error
	Release(ctx context.Context, name string) error
	Commit() error
	Rollback() error
}

// Store is the root persistence handle.
type Store interface {
	Queries
	Begin(ctx context.Context) (Tx, error)
	// Ping checks that the database is reachable.
	Ping(ctx context.Context) error
	Close() error
}
