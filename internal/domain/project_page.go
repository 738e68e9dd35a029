package domain

import "strings"

// ProjectPage is the public, slug-addressed rendering of a project.
// A project has at most one page and the slug never follows later renames.
type ProjectPage struct {
	Syncable
	ProjectID     string         `json:"project_id"`
	Slug          string         `json:"slug"`
	IsPublished   bool           `json:"is_published"`
	CustomContent *string        `json:"custom_content"`
	MetaData      map[string]any `json:"meta_data"`
}

// IsVisible reports whether the page may be served publicly.
func (p *ProjectPage) IsVisible() bool {
	return p != nil && p.IsPublished
}

// DisplayContent picks the body shown on the public page: the page's custom
// content when it is non-blank, otherwise the project's content when set,
// otherwise its description. Returns nil when nothing is available.
func (p *ProjectPage) DisplayContent(project *Project) *string {
	if nonEmpty(p.CustomContent) {
		return p.CustomContent
	}
	if project == nil {
		return nil
	}
	if project.Content != nil {
		return project.Content
	}
	return project.Description
}

func nonEmpty(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
