package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/notesapp/notes-server/internal/color"
	"github.com/notesapp/notes-server/internal/domain"
	domainerrors "github.com/notesapp/notes-server/internal/errors"
	"github.com/notesapp/notes-server/internal/id"
	"github.com/notesapp/notes-server/internal/store"
)

// ProjectInput creates a project from the admin API.
type ProjectInput struct {
	Name        string
	Description *string
	Color       *string
	Content     *string
	Context     *string
}

// ProjectPatch updates a project. Nil fields are left untouched; an empty
// string clears an optional field.
type ProjectPatch struct {
	Name        *string
	Description *string
	Color       *string
	Content     *string
	Context     *string
}

// ProjectService handles admin reads and writes of projects.
type ProjectService struct {
	store  store.Store
	logger *slog.Logger
}

// NewProjectService creates a new project service.
func NewProjectService(store store.Store, logger *slog.Logger) *ProjectService {
	return &ProjectService{
		store:  store,
		logger: logger,
	}
}

// List returns every project with notes and tags loaded, most recently
// updated first.
func (s *ProjectService) List(ctx context.Context) ([]*domain.Project, error) {
	return s.Search(ctx, store.ProjectFilter{})
}

// Search filters projects by tag name, flag name and free text. Filters
// combine with AND.
func (s *ProjectService) Search(ctx context.Context, filter store.ProjectFilter) ([]*domain.Project, error) {
	filter.Tag = strings.TrimSpace(filter.Tag)
	filter.Flag = strings.TrimSpace(filter.Flag)
	filter.Query = strings.TrimSpace(filter.Query)

	projects, err := s.store.ListProjects(ctx, filter)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if err := s.store.LoadNotes(ctx, projects...); err != nil {
		return nil, mapStoreError(err)
	}
	return projects, nil
}

// Get returns one project with its notes (most recent first) and their tags.
func (s *ProjectService) Get(ctx context.Context, projectID string) (*domain.Project, error) {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if err := s.store.LoadNotes(ctx, project); err != nil {
		return nil, mapStoreError(err)
	}
	return project, nil
}

// Create adds a project. Unlike sync, the admin API does not deduplicate by name.
func (s *ProjectService) Create(ctx context.Context, in ProjectInput) (*domain.Project, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domainerrors.Validation("project name is required")
	}
	hex, err := color.OrDefault(in.Color, domain.DefaultProjectColor)
	if err != nil {
		return nil, domainerrors.Validationf("project color: %v", err)
	}

	projectID, err := id.Generate(id.PrefixProject)
	if err != nil {
		return nil, err
	}
	project := &domain.Project{
		Syncable:    domain.Syncable{ID: projectID},
		Name:        name,
		Description: emptyToNil(in.Description),
		Color:       hex,
		Content:     emptyToNil(in.Content),
		Context:     emptyToNil(in.Context),
	}
	project.InitTimestamps()

	if err := s.store.CreateProject(ctx, project); err != nil {
		return nil, mapStoreError(err)
	}

	s.logger.Info("project created", "project_id", project.ID, "name", project.Name)
	return project, nil
}

// Update applies patch to a project.
func (s *ProjectService) Update(ctx context.Context, projectID string, patch ProjectPatch) (*domain.Project, error) {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, mapStoreError(err)
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, domainerrors.Validation("project name is required")
		}
		project.Name = name
	}
	if patch.Color != nil {
		hex, err := color.Normalize(*patch.Color)
		if err != nil {
			return nil, domainerrors.Validationf("project color: %v", err)
		}
		project.Color = hex
	}
	if patch.Description != nil {
		project.Description = emptyToNil(patch.Description)
	}
	if patch.Content != nil {
		project.Content = emptyToNil(patch.Content)
	}
	if patch.Context != nil {
		project.Context = emptyToNil(patch.Context)
	}

	project.Touch()
	if err := s.store.UpdateProject(ctx, project); err != nil {
		return nil, mapStoreError(err)
	}
	return project, nil
}

// Delete removes a project together with its notes and page.
func (s *ProjectService) Delete(ctx context.Context, projectID string) error {
	if err := s.store.DeleteProject(ctx, projectID); err != nil {
		return mapStoreError(err)
	}
	s.logger.Info("project deleted", "project_id", projectID)
	return nil
}

// emptyToNil maps blank strings to nil so optional columns store NULL.
func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := *s
	return &v
}
