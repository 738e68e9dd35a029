package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/notesapp/notes-server/internal/domain"
	"github.com/notesapp/notes-server/internal/id"
	"github.com/notesapp/notes-server/internal/store"
)

func newTestPage(projectID, slug string) *domain.ProjectPage {
	p := &domain.ProjectPage{ProjectID: projectID, Slug: slug, IsPublished: true}
	p.ID = id.MustGenerate(id.PrefixPage)
	p.InitTimestamps()
	return p
}

func TestCreateAndGetPage(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	proj := makeTestProject(t, s, "Alpha")
	page := newTestPage(proj.ID, "alpha")
	page.MetaData = map[string]any{"repo": "github.com/x/alpha", "stars": float64(3)}
	if err := s.CreatePage(ctx, page); err != nil {
		t.Fatalf("CreatePage: %v", err)
	}

	got, err := s.GetPageBySlug(ctx, "alpha")
	if err != nil {
		t.Fatalf("GetPageBySlug: %v", err)
	}
	if got.ProjectID != proj.ID || !got.IsPublished {
		t.Errorf("unexpected page: %+v", got)
	}
	if got.MetaData["repo"] != "github.com/x/alpha" || got.MetaData["stars"] != float64(3) {
		t.Errorf("meta data round trip: %+v", got.MetaData)
	}

	byProject, err := s.GetPageByProject(ctx, proj.ID)
	if err != nil {
		t.Fatalf("GetPageByProject: %v", err)
	}
	if byProject.ID != page.ID {
		t.Errorf("GetPageByProject returned %s", byProject.ID)
	}
}

func TestCreatePage_UniqueSlugAndProject(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := makeTestProject(t, s, "a")
	b := makeTestProject(t, s, "b")
	if err := s.CreatePage(ctx, newTestPage(a.ID, "shared")); err != nil {
		t.Fatalf("CreatePage: %v", err)
	}

	err := s.CreatePage(ctx, newTestPage(b.ID, "shared"))
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("duplicate slug: expected ErrAlreadyExists, got %v", err)
	}

	err = s.CreatePage(ctx, newTestPage(a.ID, "other"))
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("second page for project: expected ErrAlreadyExists, got %v", err)
	}
}

func TestSlugExists(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := makeTestProject(t, s, "p")
	if err := s.CreatePage(ctx, newTestPage(p.ID, "my-project")); err != nil {
		t.Fatalf("CreatePage: %v", err)
	}

	exists, err := s.SlugExists(ctx, "my-project")
	if err != nil || !exists {
		t.Errorf("expected my-project to exist (err=%v)", err)
	}
	exists, err = s.SlugExists(ctx, "my-project-1")
	if err != nil || exists {
		t.Errorf("expected my-project-1 to be free (err=%v)", err)
	}
}

func TestUpdatePage_Unpublish(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := makeTestProject(t, s, "p")
	page := newTestPage(p.ID, "p")
	if err := s.CreatePage(ctx, page); err != nil {
		t.Fatalf("CreatePage: %v", err)
	}

	page.IsPublished = false
	page.CustomContent = strPtr("override")
	page.Touch()
	if err := s.UpdatePage(ctx, page); err != nil {
		t.Fatalf("UpdatePage: %v", err)
	}

	got, err := s.GetPage(ctx, page.ID)
	if err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	if got.IsPublished || got.CustomContent == nil || *got.CustomContent != "override" {
		t.Errorf("unexpected page after update: %+v", got)
	}
}

func TestListProjectsWithoutPage(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	withPage := makeTestProject(t, s, "with")
	without := makeTestProject(t, s, "without")
	if err := s.CreatePage(ctx, newTestPage(withPage.ID, "with")); err != nil {
		t.Fatalf("CreatePage: %v", err)
	}

	got, err := s.ListProjectsWithoutPage(ctx)
	if err != nil {
		t.Fatalf("ListProjectsWithoutPage: %v", err)
	}
	if len(got) != 1 || got[0].ID != without.ID {
		t.Errorf("expected only %s, got %d projects", without.ID, len(got))
	}
}

func TestDeletePage(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := makeTestProject(t, s, "p")
	page := newTestPage(p.ID, "p")
	if err := s.CreatePage(ctx, page); err != nil {
		t.Fatalf("CreatePage: %v", err)
	}
	if err := s.DeletePage(ctx, page.ID); err != nil {
		t.Fatalf("DeletePage: %v", err)
	}
	if _, err := s.GetPageBySlug(ctx, "p"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
