package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestPage(t *testing.T, ts *testServer, projectID string, body map[string]any) PageResponse {
	t.Helper()

	resp := ts.api.Post("/api/admin/projects/"+projectID+"/page", body)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	return decode[SinglePageResponse](t, resp).Page
}

func TestAdminCreateProjectPage(t *testing.T) {
	ts := setupTestServer(t, Options{PublicBaseURL: "https://notes.example.com"})
	project := createTestProject(t, ts, "My Project")

	page := createTestPage(t, ts, project.ID, map[string]any{})
	assert.Equal(t, "my-project", page.Slug)
	assert.Equal(t, "https://notes.example.com/project/my-project", page.URL)
	assert.True(t, page.IsPublished)
	assert.Equal(t, project.ID, page.ProjectID)

	second := ts.api.Post("/api/admin/projects/"+project.ID+"/page", map[string]any{})
	require.Equal(t, http.StatusConflict, second.Code)
	assert.Equal(t, "CONFLICT", decode[errorBody](t, second).Code)

	got := decode[SinglePageResponse](t, ts.api.Get("/api/admin/projects/"+project.ID+"/page")).Page
	assert.Equal(t, page.ID, got.ID)
}

func TestAdminCreateProjectPage_SlugsStayUnique(t *testing.T) {
	ts := setupTestServer(t, Options{})

	var slugs []string
	for range 3 {
		project := createTestProject(t, ts, "My Project")
		slugs = append(slugs, createTestPage(t, ts, project.ID, map[string]any{}).Slug)
	}
	assert.Equal(t, []string{"my-project", "my-project-1", "my-project-2"}, slugs)
}

func TestAdminCreateProjectPage_ExplicitSlug(t *testing.T) {
	ts := setupTestServer(t, Options{})
	first := createTestProject(t, ts, "Alpha")
	second := createTestProject(t, ts, "Beta")

	page := createTestPage(t, ts, first.ID, map[string]any{"slug": "launch", "is_published": false})
	assert.Equal(t, "launch", page.Slug)
	assert.Equal(t, "/project/launch", page.URL)
	assert.False(t, page.IsPublished)

	taken := ts.api.Post("/api/admin/projects/"+second.ID+"/page", map[string]any{"slug": "launch"})
	assert.Equal(t, http.StatusConflict, taken.Code)

	invalid := ts.api.Post("/api/admin/projects/"+second.ID+"/page", map[string]any{"slug": "Not A Slug"})
	assert.Equal(t, http.StatusUnprocessableEntity, invalid.Code)
}

func TestAdminCreateProjectPage_UnsluggableName(t *testing.T) {
	ts := setupTestServer(t, Options{})
	project := createTestProject(t, ts, "!!!")

	resp := ts.api.Post("/api/admin/projects/"+project.ID+"/page", map[string]any{})
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Equal(t, "INVALID_SLUG_SOURCE", decode[errorBody](t, resp).Code)
}

func TestAdminUpdatePage(t *testing.T) {
	ts := setupTestServer(t, Options{})
	project := createTestProject(t, ts, "Alpha")
	page := createTestPage(t, ts, project.ID, map[string]any{})

	resp := ts.api.Patch("/api/admin/pages/"+page.ID, map[string]any{
		"slug":           "alpha-docs",
		"is_published":   false,
		"custom_content": "# Custom",
		"meta_data":      map[string]any{"description": "Docs"},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	updated := decode[SinglePageResponse](t, resp).Page
	assert.Equal(t, "alpha-docs", updated.Slug)
	assert.False(t, updated.IsPublished)
	require.NotNil(t, updated.CustomContent)
	assert.Equal(t, "# Custom", *updated.CustomContent)
	assert.Equal(t, "Docs", updated.MetaData["description"])

	renamed := ts.api.Patch("/api/admin/projects/"+project.ID, map[string]any{"name": "Renamed"})
	require.Equal(t, http.StatusOK, renamed.Code)
	got := decode[SinglePageResponse](t, ts.api.Get("/api/admin/pages/"+page.ID)).Page
	assert.Equal(t, "alpha-docs", got.Slug, "slugs do not follow renames")
}

func TestAdminGeneratePages(t *testing.T) {
	ts := setupTestServer(t, Options{})
	existing := createTestProject(t, ts, "Alpha")
	createTestPage(t, ts, existing.ID, map[string]any{})
	createTestProject(t, ts, "Beta")
	createTestProject(t, ts, "Gamma")

	resp := ts.api.Post("/api/admin/pages/generate", map[string]any{"mode": "all", "unpublished": true})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	body := decode[GeneratePagesResponse](t, resp)
	assert.Equal(t, 2, body.Created)
	assert.Equal(t, 1, body.Skipped)
	require.Len(t, body.Pages, 2)
	for _, p := range body.Pages {
		assert.False(t, p.IsPublished)
	}

	again := decode[GeneratePagesResponse](t, ts.api.Post("/api/admin/pages/generate", map[string]any{}))
	assert.Zero(t, again.Created)
	assert.Empty(t, again.Pages)

	list := decode[ListPagesResponse](t, ts.api.Get("/api/admin/pages"))
	assert.Len(t, list.Pages, 3)
}

func TestAdminDeletePage(t *testing.T) {
	ts := setupTestServer(t, Options{})
	project := createTestProject(t, ts, "Alpha")
	page := createTestPage(t, ts, project.ID, map[string]any{})

	assert.Equal(t, http.StatusNoContent, ts.api.Delete("/api/admin/pages/"+page.ID).Code)
	assert.Equal(t, http.StatusNotFound, ts.api.Get("/api/admin/pages/"+page.ID).Code)
	assert.Equal(t, http.StatusOK, ts.api.Get("/api/projects/"+project.ID).Code, "the project is kept")
}
