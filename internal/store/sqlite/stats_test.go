package sqlite

import (
	"context"
	"testing"
)

func TestGetStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := makeTestProject(t, s, "a")
	makeTestProject(t, s, "empty")
	makeTestNote(t, s, "Alpha [Analysis]", &a.ID)
	makeTestNote(t, s, "manual note", &a.ID)
	makeTestNote(t, s, "Beta [analysis]", nil) // wrong case, not an analyzer note
	makeTestTag(t, s, "php", false)
	makeTestTag(t, s, "go", false)
	makeTestTag(t, s, "production", true)

	stats, err := s.GetStats(ctx, 10)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}

	if stats.TotalProjects != 2 || stats.TotalNotes != 3 {
		t.Errorf("totals: %+v", stats)
	}
	if stats.TotalTags != 2 || stats.TotalFlags != 1 {
		t.Errorf("tag counts: tags=%d flags=%d", stats.TotalTags, stats.TotalFlags)
	}
	if stats.ProjectsWithNotes != 1 {
		t.Errorf("projects with notes: %d", stats.ProjectsWithNotes)
	}
	if len(stats.RecentSyncs) != 1 || stats.RecentSyncs[0].Title != "Alpha [Analysis]" {
		t.Errorf("recent syncs: %+v", stats.RecentSyncs)
	}
}

func TestGetStats_RecentLimit(t *testing.T) {
	s := newTestStore(t)

	for _, title := range []string{"a [Analysis]", "b [Analysis]", "c [Analysis]"} {
		makeTestNote(t, s, title, nil)
	}

	stats, err := s.GetStats(context.Background(), 2)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if len(stats.RecentSyncs) != 2 {
		t.Errorf("expected 2 recent syncs, got %d", len(stats.RecentSyncs))
	}
	if stats.RecentSyncs[0].Title != "c [Analysis]" {
		t.Errorf("expected newest first, got %q", stats.RecentSyncs[0].Title)
	}
}
