package service

import (
	"context"
	"log/slog"

	"github.com/notesapp/notes-server/internal/domain"
	domainerrors "github.com/notesapp/notes-server/internal/errors"
	"github.com/notesapp/notes-server/internal/id"
	"github.com/notesapp/notes-server/internal/slug"
	"github.com/notesapp/notes-server/internal/store"
)

// PageInput creates a project page. A nil Slug is generated from the project
// name; a nil IsPublished publishes the page.
type PageInput struct {
	Slug          *string
	IsPublished   *bool
	CustomContent *string
	MetaData      map[string]any
}

// PagePatch updates a page. Nil fields are left untouched. A non-nil MetaData
// replaces the stored map.
type PagePatch struct {
	Slug          *string
	IsPublished   *bool
	CustomContent *string
	MetaData      map[string]any
}

// GenerateMode selects which projects GeneratePages visits.
type GenerateMode string

// Generate modes.
const (
	// GenerateAll visits every project and skips those that already have a page.
	GenerateAll GenerateMode = "all"
	// GenerateMissing visits only projects without a page.
	GenerateMissing GenerateMode = "missing"
)

// GenerateOptions controls a GeneratePages run.
type GenerateOptions struct {
	Mode        GenerateMode
	Unpublished bool
}

// GenerateResult reports what GeneratePages did.
type GenerateResult struct {
	Created int                   `json:"created"`
	Skipped int                   `json:"skipped"`
	Pages   []*domain.ProjectPage `json:"pages"`
}

// PublishedPage is a visible page with its project, notes and tags loaded.
type PublishedPage struct {
	Page    *domain.ProjectPage
	Project *domain.Project
	Content *string
	Tags    []*domain.Tag
}

// PageService manages public project pages.
type PageService struct {
	store  store.Store
	logger *slog.Logger
}

// NewPageService creates a new page service.
func NewPageService(store store.Store, logger *slog.Logger) *PageService {
	return &PageService{
		store:  store,
		logger: logger,
	}
}

// ListPages returns every page.
func (s *PageService) ListPages(ctx context.Context) ([]*domain.ProjectPage, error) {
	pages, err := s.store.ListPages(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return pages, nil
}

// GetPage returns a page by ID.
func (s *PageService) GetPage(ctx context.Context, pageID string) (*domain.ProjectPage, error) {
	page, err := s.store.GetPage(ctx, pageID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return page, nil
}

// GetPageForProject returns the project's page.
func (s *PageService) GetPageForProject(ctx context.Context, projectID string) (*domain.ProjectPage, error) {
	if _, err := s.store.GetProject(ctx, projectID); err != nil {
		return nil, mapStoreError(err)
	}
	page, err := s.store.GetPageByProject(ctx, projectID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return page, nil
}

// CreatePage adds the page for a project. A project may have only one page.
func (s *PageService) CreatePage(ctx context.Context, projectID string, in PageInput) (*domain.ProjectPage, error) {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, mapStoreError(err)
	}

	if _, err := s.store.GetPageByProject(ctx, projectID); err == nil {
		return nil, domainerrors.Conflictf("project %q already has a page", project.Name)
	} else if !domainerrors.Is(err, store.ErrNotFound) {
		return nil, mapStoreError(err)
	}

	pageSlug, err := s.resolveSlug(ctx, project, in.Slug)
	if err != nil {
		return nil, err
	}

	published := true
	if in.IsPublished != nil {
		published = *in.IsPublished
	}

	page, err := newPage(project.ID, pageSlug, published)
	if err != nil {
		return nil, err
	}
	page.CustomContent = emptyToNil(in.CustomContent)
	if in.MetaData != nil {
		page.MetaData = in.MetaData
	}
	if err := s.insertPage(ctx, page); err != nil {
		return nil, err
	}
	return page, nil
}

// UpdatePage applies patch to a page. A slug change must be valid and free.
func (s *PageService) UpdatePage(ctx context.Context, pageID string, patch PagePatch) (*domain.ProjectPage, error) {
	page, err := s.store.GetPage(ctx, pageID)
	if err != nil {
		return nil, mapStoreError(err)
	}

	if patch.Slug != nil && *patch.Slug != page.Slug {
		if err := slug.Validate(*patch.Slug); err != nil {
			return nil, mapStoreError(err)
		}
		taken, err := s.store.SlugExists(ctx, *patch.Slug)
		if err != nil {
			return nil, mapStoreError(err)
		}
		if taken {
			return nil, domainerrors.Conflictf("slug %q is already in use", *patch.Slug)
		}
		page.Slug = *patch.Slug
	}
	if patch.IsPublished != nil {
		page.IsPublished = *patch.IsPublished
	}
	if patch.CustomContent != nil {
		page.CustomContent = emptyToNil(patch.CustomContent)
	}
	if patch.MetaData != nil {
		page.MetaData = patch.MetaData
	}

	page.Touch()
	if err := s.store.UpdatePage(ctx, page); err != nil {
		return nil, conflictOnDuplicate(err, page)
	}
	return page, nil
}

// DeletePage removes a page. The project keeps existing.
func (s *PageService) DeletePage(ctx context.Context, pageID string) error {
	if err := s.store.DeletePage(ctx, pageID); err != nil {
		return mapStoreError(err)
	}
	s.logger.Info("project page deleted", "page_id", pageID)
	return nil
}

// GetPublishedBySlug resolves a public page. Unknown and unpublished slugs
// are both reported as not found.
func (s *PageService) GetPublishedBySlug(ctx context.Context, pageSlug string) (*PublishedPage, error) {
	page, err := s.store.GetPageBySlug(ctx, pageSlug)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if !page.IsVisible() {
		return nil, domainerrors.NotFoundf("page %q not found", pageSlug)
	}

	project, err := s.store.GetProject(ctx, page.ProjectID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if err := s.store.LoadNotes(ctx, project); err != nil {
		return nil, mapStoreError(err)
	}

	return &PublishedPage{
		Page:    page,
		Project: project,
		Content: page.DisplayContent(project),
		Tags:    project.Tags(),
	}, nil
}

// GeneratePages creates a page for every project that lacks one.
func (s *PageService) GeneratePages(ctx context.Context, opts GenerateOptions) (*GenerateResult, error) {
	var (
		projects []*domain.Project
		err      error
	)
	switch opts.Mode {
	case GenerateAll:
		projects, err = s.store.ListProjects(ctx, store.ProjectFilter{})
	case GenerateMissing:
		projects, err = s.store.ListProjectsWithoutPage(ctx)
	default:
		return nil, domainerrors.Validationf("generate mode must be %q or %q", GenerateAll, GenerateMissing)
	}
	if err != nil {
		return nil, mapStoreError(err)
	}

	result := &GenerateResult{Pages: []*domain.ProjectPage{}}
	for _, project := range projects {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		_, err := s.store.GetPageByProject(ctx, project.ID)
		if err == nil {
			result.Skipped++
			continue
		}
		if !domainerrors.Is(err, store.ErrNotFound) {
			return nil, mapStoreError(err)
		}

		pageSlug, err := s.resolveSlug(ctx, project, nil)
		if err != nil {
			return nil, err
		}
		page, err := newPage(project.ID, pageSlug, !opts.Unpublished)
		if err != nil {
			return nil, err
		}
		if err := s.insertPage(ctx, page); err != nil {
			return nil, err
		}
		result.Created++
		result.Pages = append(result.Pages, page)
	}

	s.logger.Info("project pages generated",
		"mode", opts.Mode,
		"created", result.Created,
		"skipped", result.Skipped,
	)
	return result, nil
}

// resolveSlug validates an explicit slug or generates one from the project name.
func (s *PageService) resolveSlug(ctx context.Context, project *domain.Project, explicit *string) (string, error) {
	if explicit != nil {
		if err := slug.Validate(*explicit); err != nil {
			return "", mapStoreError(err)
		}
		taken, err := s.store.SlugExists(ctx, *explicit)
		if err != nil {
			return "", mapStoreError(err)
		}
		if taken {
			return "", domainerrors.Conflictf("slug %q is already in use", *explicit)
		}
		return *explicit, nil
	}

	generated, err := slug.Generate(ctx, project.Name, s.store.SlugExists)
	if err != nil {
		return "", mapStoreError(err)
	}
	return generated, nil
}

func newPage(projectID, pageSlug string, published bool) (*domain.ProjectPage, error) {
	pageID, err := id.Generate(id.PrefixPage)
	if err != nil {
		return nil, err
	}
	page := &domain.ProjectPage{
		Syncable:    domain.Syncable{ID: pageID},
		ProjectID:   projectID,
		Slug:        pageSlug,
		IsPublished: published,
		MetaData:    map[string]any{},
	}
	page.InitTimestamps()
	return page, nil
}

func (s *PageService) insertPage(ctx context.Context, page *domain.ProjectPage) error {
	if err := s.store.CreatePage(ctx, page); err != nil {
		return conflictOnDuplicate(err, page)
	}

	s.logger.Info("project page created",
		"page_id", page.ID,
		"project_id", page.ProjectID,
		"slug", page.Slug,
		"published", page.IsPublished,
	)
	return nil
}
