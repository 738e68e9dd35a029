package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notesapp/notes-server/internal/domain"
	domainerrors "github.com/notesapp/notes-server/internal/errors"
	"github.com/notesapp/notes-server/internal/store"
	"github.com/notesapp/notes-server/internal/store/sqlite"
)

type pageFixture struct {
	pages    *PageService
	projects *ProjectService
	store    *sqlite.Store
}

func setupTestPages(t *testing.T) pageFixture {
	t.Helper()
	s := newTestStore(t)
	return pageFixture{
		pages:    NewPageService(s, discardLogger()),
		projects: NewProjectService(s, discardLogger()),
		store:    s,
	}
}

func (f pageFixture) project(t *testing.T, in ProjectInput) *domain.Project {
	t.Helper()
	p, err := f.projects.Create(context.Background(), in)
	require.NoError(t, err)
	return p
}

func TestCreatePage_GeneratesSlugWithSuffix(t *testing.T) {
	f := setupTestPages(t)
	ctx := context.Background()

	first := f.project(t, ProjectInput{Name: "My Project"})
	second := f.project(t, ProjectInput{Name: "My Project"})
	third := f.project(t, ProjectInput{Name: "my project!"})

	p1, err := f.pages.CreatePage(ctx, first.ID, PageInput{})
	require.NoError(t, err)
	p2, err := f.pages.CreatePage(ctx, second.ID, PageInput{})
	require.NoError(t, err)
	p3, err := f.pages.CreatePage(ctx, third.ID, PageInput{})
	require.NoError(t, err)

	assert.Equal(t, "my-project", p1.Slug)
	assert.Equal(t, "my-project-1", p2.Slug)
	assert.Equal(t, "my-project-2", p3.Slug)
	assert.True(t, p1.IsPublished)
}

func TestCreatePage_SecondPageConflicts(t *testing.T) {
	f := setupTestPages(t)
	ctx := context.Background()

	p := f.project(t, ProjectInput{Name: "Alpha"})
	_, err := f.pages.CreatePage(ctx, p.ID, PageInput{})
	require.NoError(t, err)

	_, err = f.pages.CreatePage(ctx, p.ID, PageInput{})
	assert.ErrorIs(t, err, domainerrors.ErrConflict)
}

// staleSlugStore answers every availability check with "free", as a store
// would when another writer claims the slug between check and insert.
type staleSlugStore struct {
	*sqlite.Store
}

func (staleSlugStore) SlugExists(context.Context, string) (bool, error) {
	return false, nil
}

func TestCreatePage_LostSlugRaceConflicts(t *testing.T) {
	f := setupTestPages(t)
	ctx := context.Background()
	pages := NewPageService(staleSlugStore{f.store}, discardLogger())

	first := f.project(t, ProjectInput{Name: "Same"})
	second := f.project(t, ProjectInput{Name: "same"})

	page, err := pages.CreatePage(ctx, first.ID, PageInput{})
	require.NoError(t, err)
	assert.Equal(t, "same", page.Slug)

	_, err = pages.CreatePage(ctx, second.ID, PageInput{})
	require.ErrorIs(t, err, domainerrors.ErrConflict)

	var de *domainerrors.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, `slug "same" is already in use`, de.Message)
	assert.NotContains(t, de.Message, "UNIQUE")

	_, err = f.store.GetPageByProject(ctx, second.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdatePage_LostSlugRaceConflicts(t *testing.T) {
	f := setupTestPages(t)
	ctx := context.Background()
	pages := NewPageService(staleSlugStore{f.store}, discardLogger())

	a := f.project(t, ProjectInput{Name: "Alpha"})
	b := f.project(t, ProjectInput{Name: "Beta"})
	_, err := pages.CreatePage(ctx, a.ID, PageInput{})
	require.NoError(t, err)
	pb, err := pages.CreatePage(ctx, b.ID, PageInput{})
	require.NoError(t, err)

	_, err = pages.UpdatePage(ctx, pb.ID, PagePatch{Slug: strPtr("alpha")})
	require.ErrorIs(t, err, domainerrors.ErrConflict)

	var de *domainerrors.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, `slug "alpha" is already in use`, de.Message)
}

func TestCreatePage_ExplicitSlug(t *testing.T) {
	f := setupTestPages(t)
	ctx := context.Background()

	a := f.project(t, ProjectInput{Name: "Alpha"})
	b := f.project(t, ProjectInput{Name: "Beta"})

	page, err := f.pages.CreatePage(ctx, a.ID, PageInput{
		Slug:          strPtr("custom-alpha"),
		IsPublished:   boolPtr(false),
		CustomContent: strPtr("# Hand written"),
		MetaData:      map[string]any{"repo": "alpha"},
	})
	require.NoError(t, err)
	assert.Equal(t, "custom-alpha", page.Slug)
	assert.False(t, page.IsPublished)

	_, err = f.pages.CreatePage(ctx, b.ID, PageInput{Slug: strPtr("custom-alpha")})
	assert.ErrorIs(t, err, domainerrors.ErrConflict)

	_, err = f.pages.CreatePage(ctx, b.ID, PageInput{Slug: strPtr("Not A Slug")})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestCreatePage_UnsluggableName(t *testing.T) {
	f := setupTestPages(t)

	p := f.project(t, ProjectInput{Name: "!!!"})
	_, err := f.pages.CreatePage(context.Background(), p.ID, PageInput{})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidSlugSource)
}

func TestCreatePage_UnknownProject(t *testing.T) {
	f := setupTestPages(t)

	_, err := f.pages.CreatePage(context.Background(), "prj-missing", PageInput{})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestPageSlug_FixedAcrossRename(t *testing.T) {
	f := setupTestPages(t)
	ctx := context.Background()

	p := f.project(t, ProjectInput{Name: "Alpha"})
	page, err := f.pages.CreatePage(ctx, p.ID, PageInput{})
	require.NoError(t, err)

	_, err = f.projects.Update(ctx, p.ID, ProjectPatch{Name: strPtr("Renamed")})
	require.NoError(t, err)

	got, err := f.pages.GetPageForProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, page.Slug, got.Slug)
}

func TestUpdatePage(t *testing.T) {
	f := setupTestPages(t)
	ctx := context.Background()

	a := f.project(t, ProjectInput{Name: "Alpha"})
	b := f.project(t, ProjectInput{Name: "Beta"})
	pa, err := f.pages.CreatePage(ctx, a.ID, PageInput{})
	require.NoError(t, err)
	_, err = f.pages.CreatePage(ctx, b.ID, PageInput{})
	require.NoError(t, err)

	updated, err := f.pages.UpdatePage(ctx, pa.ID, PagePatch{Slug: strPtr("alpha-docs"), IsPublished: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, "alpha-docs", updated.Slug)
	assert.False(t, updated.IsPublished)

	_, err = f.pages.UpdatePage(ctx, pa.ID, PagePatch{Slug: strPtr("beta")})
	assert.ErrorIs(t, err, domainerrors.ErrConflict)
}

func TestGetPublishedBySlug(t *testing.T) {
	f := setupTestPages(t)
	ctx := context.Background()

	p := f.project(t, ProjectInput{Name: "Alpha", Description: strPtr("desc"), Content: strPtr("# Readme")})
	page, err := f.pages.CreatePage(ctx, p.ID, PageInput{})
	require.NoError(t, err)

	published, err := f.pages.GetPublishedBySlug(ctx, "alpha")
	require.NoError(t, err)
	require.NotNil(t, published.Content)
	assert.Equal(t, "# Readme", *published.Content)
	assert.Equal(t, p.ID, published.Project.ID)

	_, err = f.pages.UpdatePage(ctx, page.ID, PagePatch{CustomContent: strPtr("custom")})
	require.NoError(t, err)
	published, err = f.pages.GetPublishedBySlug(ctx, "alpha")
	require.NoError(t, err)
	assert.Equal(t, "custom", *published.Content)

	_, err = f.pages.UpdatePage(ctx, page.ID, PagePatch{IsPublished: boolPtr(false)})
	require.NoError(t, err)
	_, err = f.pages.GetPublishedBySlug(ctx, "alpha")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = f.pages.GetPublishedBySlug(ctx, "nope")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestGetPublishedBySlug_NoContent(t *testing.T) {
	f := setupTestPages(t)
	ctx := context.Background()

	p := f.project(t, ProjectInput{Name: "Bare"})
	_, err := f.pages.CreatePage(ctx, p.ID, PageInput{})
	require.NoError(t, err)

	published, err := f.pages.GetPublishedBySlug(ctx, "bare")
	require.NoError(t, err)
	assert.Nil(t, published.Content)
}

func TestGeneratePages(t *testing.T) {
	f := setupTestPages(t)
	ctx := context.Background()

	withPage := f.project(t, ProjectInput{Name: "Alpha"})
	f.project(t, ProjectInput{Name: "Beta"})
	f.project(t, ProjectInput{Name: "Gamma"})
	_, err := f.pages.CreatePage(ctx, withPage.ID, PageInput{})
	require.NoError(t, err)

	result, err := f.pages.GeneratePages(ctx, GenerateOptions{Mode: GenerateAll, Unpublished: true})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.Skipped)
	for _, page := range result.Pages {
		assert.False(t, page.IsPublished)
	}

	again, err := f.pages.GeneratePages(ctx, GenerateOptions{Mode: GenerateMissing})
	require.NoError(t, err)
	assert.Equal(t, 0, again.Created)
	assert.Equal(t, 0, again.Skipped)

	_, err = f.pages.GeneratePages(ctx, GenerateOptions{Mode: "some"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestDeletePage_KeepsProject(t *testing.T) {
	f := setupTestPages(t)
	ctx := context.Background()

	p := f.project(t, ProjectInput{Name: "Alpha"})
	page, err := f.pages.CreatePage(ctx, p.ID, PageInput{})
	require.NoError(t, err)

	require.NoError(t, f.pages.DeletePage(ctx, page.ID))
	_, err = f.projects.Get(ctx, p.ID)
	assert.NoError(t, err)
	_, err = f.pages.GetPageForProject(ctx, p.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
