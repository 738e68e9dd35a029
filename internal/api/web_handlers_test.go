package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectPage_RendersPublishedPage(t *testing.T) {
	ts := setupTestServer(t, Options{PublicBaseURL: "https://notes.example.com"})

	synced := seedSync(t, ts, syncItem("Alpha", "Alpha [Analysis]", []string{"golang"}, []string{"production"}))
	projectID := synced.Results[0].ProjectID

	resp := ts.api.Patch("/api/admin/projects/"+projectID, map[string]any{
		"content": "## Overview\n\nBuilt with <script>alert(1)</script> care.",
		"context": "Internal tooling",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	createTestPage(t, ts, projectID, map[string]any{})

	page := ts.api.Get("/project/alpha")
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Header().Get("Content-Type"), "text/html")

	html := page.Body.String()
	assert.Contains(t, html, "<title>Alpha - Project</title>")
	assert.Contains(t, html, `<h2 id="overview">Overview</h2>`)
	assert.NotContains(t, html, "<script>alert(1)</script>", "raw HTML in markdown is not passed through")
	assert.Contains(t, html, "Internal tooling")
	assert.Contains(t, html, ">golang</span>")
	assert.Contains(t, html, "tag flag")
	assert.Contains(t, html, "--color-500: #ef4444")
	assert.Contains(t, html, "Alpha [Analysis]")
	assert.Contains(t, html, "Findings for Alpha")
	assert.Contains(t, html, `<link rel="canonical" href="https://notes.example.com/project/alpha">`)
}

func TestProjectPage_ContentFallsBack(t *testing.T) {
	ts := setupTestServer(t, Options{})

	withDescription := decode[ProjectResponse](t, ts.api.Post("/api/admin/projects", map[string]any{
		"name":        "Described",
		"description": "Only a *description*",
	})).Project
	createTestPage(t, ts, withDescription.ID, map[string]any{})

	custom := createTestProject(t, ts, "Custom")
	createTestPage(t, ts, custom.ID, map[string]any{"custom_content": "Custom **body**"})

	empty := createTestProject(t, ts, "Empty")
	createTestPage(t, ts, empty.ID, map[string]any{})

	described := ts.api.Get("/project/described").Body.String()
	assert.Contains(t, described, "Only a <em>description</em>")

	customHTML := ts.api.Get("/project/custom").Body.String()
	assert.Contains(t, customHTML, "Custom <strong>body</strong>")

	emptyHTML := ts.api.Get("/project/empty").Body.String()
	assert.Contains(t, emptyHTML, "No content available for this project yet.")
}

func TestProjectPage_NotFound(t *testing.T) {
	ts := setupTestServer(t, Options{})

	project := createTestProject(t, ts, "Hidden")
	createTestPage(t, ts, project.ID, map[string]any{"is_published": false})

	for _, path := range []string{"/project/hidden", "/project/missing"} {
		resp := ts.api.Get(path)
		assert.Equal(t, http.StatusNotFound, resp.Code, path)
		assert.Contains(t, resp.Body.String(), "has not been published", path)
	}
}
