package api

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/notesapp/notes-server/internal/color"
	"github.com/notesapp/notes-server/internal/domain"
	domainerrors "github.com/notesapp/notes-server/internal/errors"
	"github.com/notesapp/notes-server/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

func (s *Server) registerWebRoutes() {
	s.router.Get("/project/{slug}", s.handleProjectPage)
}

// tagPill is a tag badge on the public page.
type tagPill struct {
	Name  string
	Kind  string
	Style template.CSS
}

// noteView is one note on the public page.
type noteView struct {
	Title     string
	Type      string
	UpdatedAt time.Time
	Tags      []tagPill
	Content   template.HTML
	Code      string
}

// projectPageData feeds templates/project.html.
type projectPageData struct {
	Name            string
	Description     string
	Context         string
	Color           string
	MetaDescription string
	CanonicalURL    string
	Tags            []tagPill
	Content         template.HTML
	Notes           []noteView
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// handleProjectPage serves a published project page.
// GET /project/{slug}
func (s *Server) handleProjectPage(w http.ResponseWriter, r *http.Request) {
	pageSlug := chi.URLParam(r, "slug")

	published, err := s.services.Page.GetPublishedBySlug(r.Context(), pageSlug)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			s.renderTemplate(w, http.StatusNotFound, "404.html", nil)
			return
		}
		s.logger.Error("failed to load project page", "slug", pageSlug, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data, err := s.buildProjectPageData(published)
	if err != nil {
		s.logger.Error("failed to render project page", "slug", pageSlug, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	s.renderTemplate(w, http.StatusOK, "project.html", data)
}

func (s *Server) buildProjectPageData(p *service.PublishedPage) (*projectPageData, error) {
	project := p.Project

	data := &projectPageData{
		Name:        project.Name,
		Description: deref(project.Description),
		Context:     deref(project.Context),
		Color:       project.Color,
		Tags:        toTagPills(p.Tags),
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
	if s.opts.PublicBaseURL != "" {
		data.CanonicalURL = s.pageURL(p.Page.Slug)
	}
	if desc, ok := p.Page.MetaData["description"].(string); ok {
		data.MetaDescription = desc
	} else {
		data.MetaDescription = data.Description
	}

	if p.Content != nil {
		html, err := s.renderer.Render(*p.Content)
		if err != nil {
			return nil, err
		}
		data.Content = html
	}

	for _, n := range project.Notes {
		view := noteView{
			Title:     n.Title,
			Type:      string(n.Type),
			UpdatedAt: n.UpdatedAt,
			Tags:      toTagPills(n.Tags),
		}
		if n.Type != domain.NoteTypeCode && n.Content != nil {
			html, err := s.renderer.Render(*n.Content)
			if err != nil {
				return nil, err
			}
			view.Content = html
		}
		if n.Type.HasCode() {
			view.Code = deref(n.CodeContent)
		}
		data.Notes = append(data.Notes, view)
	}

	return data, nil
}

// renderTemplate executes into a buffer first so a template error still
// produces a clean 500.
func (s *Server) renderTemplate(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("failed to execute template", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Debug("failed to write page", "template", name, "error", err)
	}
}

func toTagPills(tags []*domain.Tag) []tagPill {
	pills := make([]tagPill, 0, len(tags))
	for _, t := range tags {
		pills = append(pills, tagPill{
			Name: t.Name,
			Kind: t.Kind(),
			//nolint:gosec // built from a normalized hex color
			Style: template.CSS(color.BadgeStyle(t.Color)),
		})
	}
	return pills
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
