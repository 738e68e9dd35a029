package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/notesapp/notes-server/internal/domain"
	"github.com/notesapp/notes-server/internal/service"
	"github.com/notesapp/notes-server/internal/store"
)

func (s *Server) registerProjectRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listProjects",
		Method:      http.MethodGet,
		Path:        "/api/projects",
		Summary:     "List projects",
		Description: "Returns every project with its notes and their tags, most recently updated first",
		Tags:        []string{"Projects"},
	}, s.handleListProjects)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchProjects",
		Method:      http.MethodGet,
		Path:        "/api/projects/search",
		Summary:     "Search projects",
		Description: "Filters projects by tag, flag and a case-insensitive name or description match",
		Tags:        []string{"Projects"},
	}, s.handleSearchProjects)

	huma.Register(s.api, huma.Operation{
		OperationID: "getProject",
		Method:      http.MethodGet,
		Path:        "/api/projects/{id}",
		Summary:     "Get project",
		Description: "Returns a project with its notes (most recently updated first) and their tags",
		Tags:        []string{"Projects"},
	}, s.handleGetProject)
}

func (s *Server) registerAdminProjectRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createProject",
		Method:        http.MethodPost,
		Path:          "/api/admin/projects",
		Summary:       "Create project",
		Description:   "Creates a project. Color defaults to #3b82f6.",
		Tags:          []string{"Admin: Projects"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateProject)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateProject",
		Method:      http.MethodPatch,
		Path:        "/api/admin/projects/{id}",
		Summary:     "Update project",
		Description: "Updates the given fields. An empty string clears an optional field.",
		Tags:        []string{"Admin: Projects"},
	}, s.handleUpdateProject)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteProject",
		Method:      http.MethodDelete,
		Path:        "/api/admin/projects/{id}",
		Summary:     "Delete project",
		Description: "Deletes a project, its notes and its page",
		Tags:        []string{"Admin: Projects"},
	}, s.handleDeleteProject)
}

// === DTOs ===

// ProjectListItem is a project as it appears in list and search results.
type ProjectListItem struct {
	*domain.Project
	NotesCount int `json:"notes_count" doc:"Number of notes in the project"`
}

func listItems(projects []*domain.Project) []ProjectListItem {
	items := make([]ProjectListItem, len(projects))
	for i, p := range projects {
		items[i] = ProjectListItem{Project: p, NotesCount: len(p.Notes)}
	}
	return items
}

// ListProjectsResponse contains a list of projects.
type ListProjectsResponse struct {
	Success  bool              `json:"success"`
	Projects []ProjectListItem `json:"projects" doc:"Projects with notes and tags"`
}

// ListProjectsOutput wraps the list projects response for Huma.
type ListProjectsOutput struct {
	Body ListProjectsResponse
}

// SearchProjectsInput contains search parameters. Empty parameters match everything.
type SearchProjectsInput struct {
	Tag  string `query:"tag" doc:"Exact tag name"`
	Flag string `query:"flag" doc:"Exact flag name"`
	Q    string `query:"q" doc:"Substring of the project name or description"`
}

// SearchProjectsResponse contains matching projects.
type SearchProjectsResponse struct {
	Success  bool              `json:"success"`
	Count    int               `json:"count" doc:"Number of matching projects"`
	Projects []ProjectListItem `json:"projects" doc:"Matching projects with notes and tags"`
}

// SearchProjectsOutput wraps the search response for Huma.
type SearchProjectsOutput struct {
	Body SearchProjectsResponse
}

// ProjectIDInput identifies a project by path.
type ProjectIDInput struct {
	ID string `path:"id" doc:"Project ID"`
}

// ProjectResponse contains a single project.
type ProjectResponse struct {
	Success bool            `json:"success"`
	Project *domain.Project `json:"project"`
}

// ProjectOutput wraps the project response for Huma.
type ProjectOutput struct {
	Body ProjectResponse
}

// CreateProjectRequest is the request body for creating a project.
type CreateProjectRequest struct {
	Name        string  `json:"name" validate:"notblank,max=255" maxLength:"255" doc:"Project name"`
	Description *string `json:"description,omitempty" doc:"Short description"`
	Color       *string `json:"color,omitempty" validate:"omitempty,hexcolor" doc:"Hex color"`
	Content     *string `json:"content,omitempty" doc:"Markdown body shown on the public page"`
	Context     *string `json:"context,omitempty" doc:"Free-form context"`
}

// CreateProjectInput wraps the create project request for Huma.
type CreateProjectInput struct {
	Body CreateProjectRequest
}

// UpdateProjectRequest is the request body for updating a project.
type UpdateProjectRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,notblank,max=255" doc:"Project name"`
	Description *string `json:"description,omitempty" doc:"Short description"`
	Color       *string `json:"color,omitempty" validate:"omitempty,hexcolor" doc:"Hex color"`
	Content     *string `json:"content,omitempty" doc:"Markdown body shown on the public page"`
	Context     *string `json:"context,omitempty" doc:"Free-form context"`
}

// UpdateProjectInput wraps the update project request for Huma.
type UpdateProjectInput struct {
	ID   string `path:"id" doc:"Project ID"`
	Body UpdateProjectRequest
}

// === Handlers ===

func (s *Server) handleListProjects(ctx context.Context, _ *struct{}) (*ListProjectsOutput, error) {
	projects, err := s.services.Project.List(ctx)
	if err != nil {
		return nil, err
	}
	return &ListProjectsOutput{
		Body: ListProjectsResponse{Success: true, Projects: listItems(projects)},
	}, nil
}

func (s *Server) handleSearchProjects(ctx context.Context, input *SearchProjectsInput) (*SearchProjectsOutput, error) {
	projects, err := s.services.Project.Search(ctx, store.ProjectFilter{
		Tag:   input.Tag,
		Flag:  input.Flag,
		Query: input.Q,
	})
	if err != nil {
		return nil, err
	}
	return &SearchProjectsOutput{
		Body: SearchProjectsResponse{
			Success:  true,
			Count:    len(projects),
			Projects: listItems(projects),
		},
	}, nil
}

func (s *Server) handleGetProject(ctx context.Context, input *ProjectIDInput) (*ProjectOutput, error) {
	project, err := s.services.Project.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &ProjectOutput{Body: ProjectResponse{Success: true, Project: project}}, nil
}

func (s *Server) handleCreateProject(ctx context.Context, input *CreateProjectInput) (*ProjectOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	project, err := s.services.Project.Create(ctx, service.ProjectInput{
		Name:        input.Body.Name,
		Description: input.Body.Description,
		Color:       input.Body.Color,
		Content:     input.Body.Content,
		Context:     input.Body.Context,
	})
	if err != nil {
		return nil, err
	}
	return &ProjectOutput{Body: ProjectResponse{Success: true, Project: project}}, nil
}

func (s *Server) handleUpdateProject(ctx context.Context, input *UpdateProjectInput) (*ProjectOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	project, err := s.services.Project.Update(ctx, input.ID, service.ProjectPatch{
		Name:        input.Body.Name,
		Description: input.Body.Description,
		Color:       input.Body.Color,
		Content:     input.Body.Content,
		Context:     input.Body.Context,
	})
	if err != nil {
		return nil, err
	}
	return &ProjectOutput{Body: ProjectResponse{Success: true, Project: project}}, nil
}

func (s *Server) handleDeleteProject(ctx context.Context, input *ProjectIDInput) (*struct{}, error) {
	if err := s.services.Project.Delete(ctx, input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

// nonNil keeps empty listings encoded as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
