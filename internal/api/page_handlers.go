package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/notesapp/notes-server/internal/domain"
	"github.com/notesapp/notes-server/internal/service"
)

func (s *Server) registerPageRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listPages",
		Method:      http.MethodGet,
		Path:        "/api/admin/pages",
		Summary:     "List project pages",
		Description: "Returns every project page",
		Tags:        []string{"Admin: Pages"},
	}, s.handleListPages)

	huma.Register(s.api, huma.Operation{
		OperationID: "generatePages",
		Method:      http.MethodPost,
		Path:        "/api/admin/pages/generate",
		Summary:     "Generate project pages",
		Description: "Creates a page for every project without one. Slugs come from project names.",
		Tags:        []string{"Admin: Pages"},
	}, s.handleGeneratePages)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPage",
		Method:      http.MethodGet,
		Path:        "/api/admin/pages/{id}",
		Summary:     "Get project page",
		Description: "Returns a page by ID",
		Tags:        []string{"Admin: Pages"},
	}, s.handleGetPage)

	huma.Register(s.api, huma.Operation{
		OperationID: "updatePage",
		Method:      http.MethodPatch,
		Path:        "/api/admin/pages/{id}",
		Summary:     "Update project page",
		Description: "Edits the slug, publish state, custom content or meta data",
		Tags:        []string{"Admin: Pages"},
	}, s.handleUpdatePage)

	huma.Register(s.api, huma.Operation{
		OperationID: "deletePage",
		Method:      http.MethodDelete,
		Path:        "/api/admin/pages/{id}",
		Summary:     "Delete project page",
		Description: "Deletes a page; the project is kept",
		Tags:        []string{"Admin: Pages"},
	}, s.handleDeletePage)

	huma.Register(s.api, huma.Operation{
		OperationID: "getProjectPage",
		Method:      http.MethodGet,
		Path:        "/api/admin/projects/{id}/page",
		Summary:     "Get a project's page",
		Description: "Returns the page of a project",
		Tags:        []string{"Admin: Pages"},
	}, s.handleGetProjectPage)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createProjectPage",
		Method:        http.MethodPost,
		Path:          "/api/admin/projects/{id}/page",
		Summary:       "Create a project's page",
		Description:   "Creates the page of a project. The slug is generated from the project name unless given.",
		Tags:          []string{"Admin: Pages"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateProjectPage)
}

// === DTOs ===

// PageResponse contains page data in API responses.
type PageResponse struct {
	ID            string         `json:"id" doc:"Page ID"`
	ProjectID     string         `json:"project_id" doc:"Owning project"`
	Slug          string         `json:"slug" doc:"URL slug"`
	URL           string         `json:"url" doc:"Public page URL"`
	IsPublished   bool           `json:"is_published" doc:"Whether the page is served publicly"`
	CustomContent *string        `json:"custom_content" doc:"Markdown overriding the project content"`
	MetaData      map[string]any `json:"meta_data" doc:"Free-form metadata"`
	CreatedAt     time.Time      `json:"created_at" doc:"Creation time"`
	UpdatedAt     time.Time      `json:"updated_at" doc:"Last update time"`
}

// ListPagesResponse contains a list of pages.
type ListPagesResponse struct {
	Success bool           `json:"success"`
	Pages   []PageResponse `json:"pages"`
}

// ListPagesOutput wraps the list pages response for Huma.
type ListPagesOutput struct {
	Body ListPagesResponse
}

// SinglePageResponse contains one page.
type SinglePageResponse struct {
	Success bool         `json:"success"`
	Page    PageResponse `json:"page"`
}

// PageOutput wraps the page response for Huma.
type PageOutput struct {
	Body SinglePageResponse
}

// PageIDInput identifies a page by path.
type PageIDInput struct {
	ID string `path:"id" doc:"Page ID"`
}

// CreatePageRequest is the request body for creating a page.
type CreatePageRequest struct {
	Slug          *string        `json:"slug,omitempty" doc:"Explicit slug, generated from the project name when omitted"`
	IsPublished   *bool          `json:"is_published,omitempty" doc:"Defaults to true"`
	CustomContent *string        `json:"custom_content,omitempty" doc:"Markdown overriding the project content"`
	MetaData      map[string]any `json:"meta_data,omitempty" doc:"Free-form metadata"`
}

// CreatePageInput wraps the create page request for Huma.
type CreatePageInput struct {
	ID   string `path:"id" doc:"Project ID"`
	Body CreatePageRequest
}

// UpdatePageRequest is the request body for updating a page.
type UpdatePageRequest struct {
	Slug          *string        `json:"slug,omitempty" doc:"New slug; must be valid and unused"`
	IsPublished   *bool          `json:"is_published,omitempty" doc:"Publish or unpublish"`
	CustomContent *string        `json:"custom_content,omitempty" doc:"Markdown overriding the project content, empty to clear"`
	MetaData      map[string]any `json:"meta_data,omitempty" doc:"Replaces the stored metadata"`
}

// UpdatePageInput wraps the update page request for Huma.
type UpdatePageInput struct {
	ID   string `path:"id" doc:"Page ID"`
	Body UpdatePageRequest
}

// GeneratePagesRequest is the request body for page generation.
type GeneratePagesRequest struct {
	Mode        string `json:"mode,omitempty" enum:"all,missing" default:"missing" doc:"all visits every project, missing only those without a page"`
	Unpublished bool   `json:"unpublished,omitempty" doc:"Create pages unpublished"`
}

// GeneratePagesInput wraps the generate request for Huma.
type GeneratePagesInput struct {
	Body GeneratePagesRequest
}

// GeneratePagesResponse reports what generation did.
type GeneratePagesResponse struct {
	Success bool           `json:"success"`
	Created int            `json:"created" doc:"Pages created"`
	Skipped int            `json:"skipped" doc:"Projects that already had a page"`
	Pages   []PageResponse `json:"pages" doc:"Created pages"`
}

// GeneratePagesOutput wraps the generate response for Huma.
type GeneratePagesOutput struct {
	Body GeneratePagesResponse
}

// === Handlers ===

func (s *Server) handleListPages(ctx context.Context, _ *struct{}) (*ListPagesOutput, error) {
	pages, err := s.services.Page.ListPages(ctx)
	if err != nil {
		return nil, err
	}
	return &ListPagesOutput{
		Body: ListPagesResponse{Success: true, Pages: s.toPageResponses(pages)},
	}, nil
}

func (s *Server) handleGetPage(ctx context.Context, input *PageIDInput) (*PageOutput, error) {
	page, err := s.services.Page.GetPage(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return s.pageOutput(page), nil
}

func (s *Server) handleUpdatePage(ctx context.Context, input *UpdatePageInput) (*PageOutput, error) {
	page, err := s.services.Page.UpdatePage(ctx, input.ID, service.PagePatch{
		Slug:          input.Body.Slug,
		IsPublished:   input.Body.IsPublished,
		CustomContent: input.Body.CustomContent,
		MetaData:      input.Body.MetaData,
	})
	if err != nil {
		return nil, err
	}
	return s.pageOutput(page), nil
}

func (s *Server) handleDeletePage(ctx context.Context, input *PageIDInput) (*struct{}, error) {
	if err := s.services.Page.DeletePage(ctx, input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Server) handleGetProjectPage(ctx context.Context, input *ProjectIDInput) (*PageOutput, error) {
	page, err := s.services.Page.GetPageForProject(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return s.pageOutput(page), nil
}

func (s *Server) handleCreateProjectPage(ctx context.Context, input *CreatePageInput) (*PageOutput, error) {
	page, err := s.services.Page.CreatePage(ctx, input.ID, service.PageInput{
		Slug:          input.Body.Slug,
		IsPublished:   input.Body.IsPublished,
		CustomContent: input.Body.CustomContent,
		MetaData:      input.Body.MetaData,
	})
	if err != nil {
		return nil, err
	}
	return s.pageOutput(page), nil
}

func (s *Server) handleGeneratePages(ctx context.Context, input *GeneratePagesInput) (*GeneratePagesOutput, error) {
	mode := service.GenerateMode(input.Body.Mode)
	if mode == "" {
		mode = service.GenerateMissing
	}

	result, err := s.services.Page.GeneratePages(ctx, service.GenerateOptions{
		Mode:        mode,
		Unpublished: input.Body.Unpublished,
	})
	if err != nil {
		return nil, err
	}
	return &GeneratePagesOutput{
		Body: GeneratePagesResponse{
			Success: true,
			Created: result.Created,
			Skipped: result.Skipped,
			Pages:   s.toPageResponses(result.Pages),
		},
	}, nil
}

func (s *Server) pageOutput(page *domain.ProjectPage) *PageOutput {
	return &PageOutput{Body: SinglePageResponse{Success: true, Page: s.toPageResponse(page)}}
}

func (s *Server) toPageResponse(p *domain.ProjectPage) PageResponse {
	return PageResponse{
		ID:            p.ID,
		ProjectID:     p.ProjectID,
		Slug:          p.Slug,
		URL:           s.pageURL(p.Slug),
		IsPublished:   p.IsPublished,
		CustomContent: p.CustomContent,
		MetaData:      p.MetaData,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func (s *Server) toPageResponses(pages []*domain.ProjectPage) []PageResponse {
	out := make([]PageResponse, 0, len(pages))
	for _, p := range pages {
		out = append(out, s.toPageResponse(p))
	}
	return out
}

// pageURL is absolute when a public base URL is configured.
func (s *Server) pageURL(slug string) string {
	return s.opts.PublicBaseURL + "/project/" + slug
}
