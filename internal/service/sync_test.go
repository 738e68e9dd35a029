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

func setupTestSync(t *testing.T) (*SyncService, *sqlite.Store) {
	t.Helper()
	s := newTestStore(t)
	return NewSyncService(s, discardLogger()), s
}

func bundle(project, note string, tags, flags []string) domain.ProjectBundle {
	b := domain.ProjectBundle{
		ProjectData: &domain.ProjectData{Name: project},
		NoteData:    &domain.NoteData{Title: note, Content: strPtr("analysis of " + project)},
	}
	for _, name := range tags {
		b.Tags = append(b.Tags, domain.TagSpec{Name: name})
	}
	for _, name := range flags {
		b.Flags = append(b.Flags, domain.TagSpec{Name: name})
	}
	return b
}

func tagNames(tags []*domain.Tag) []string {
	names := make([]string, len(tags))
	for i, tag := range tags {
		names[i] = tag.Name
	}
	return names
}

func TestSyncBatch_CreatesProjectNoteAndTags(t *testing.T) {
	svc, s := setupTestSync(t)
	ctx := context.Background()

	result, err := svc.SyncBatch(ctx, []domain.ProjectBundle{
		bundle("Alpha", "Alpha [Analysis]", []string{"php", "laravel"}, []string{"production"}),
	})
	require.NoError(t, err)

	assert.True(t, result.OK())
	assert.NotEmpty(t, result.RunID)
	require.Len(t, result.Results, 1)
	summary := result.Results[0]
	assert.Equal(t, "Alpha", summary.ProjectName)
	assert.Equal(t, "Alpha [Analysis]", summary.NoteTitle)
	assert.Equal(t, 3, summary.TagsAttached)

	project, err := s.GetProject(ctx, summary.ProjectID)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultProjectColor, project.Color)

	note, err := s.GetNote(ctx, summary.NoteID)
	require.NoError(t, err)
	assert.Equal(t, domain.NoteTypeMixed, note.Type)
	require.NotNil(t, note.ProjectID)
	assert.Equal(t, project.ID, *note.ProjectID)

	prod, err := s.FindTagByName(ctx, "production")
	require.NoError(t, err)
	assert.True(t, prod.IsFlag)
	assert.Equal(t, domain.DefaultTagColor, prod.Color)

	php, err := s.FindTagByName(ctx, "php")
	require.NoError(t, err)
	assert.False(t, php.IsFlag)

	tags, err := s.GetNoteTags(ctx, note.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"php", "laravel", "production"}, tagNames(tags))
}

func TestSyncBatch_Idempotent(t *testing.T) {
	svc, s := setupTestSync(t)
	ctx := context.Background()

	batch := []domain.ProjectBundle{
		bundle("Alpha", "Alpha [Analysis]", []string{"php"}, []string{"production"}),
		bundle("Beta", "Beta [Analysis]", []string{"php", "go"}, nil),
	}

	first, err := svc.SyncBatch(ctx, batch)
	require.NoError(t, err)
	require.True(t, first.OK())

	second, err := svc.SyncBatch(ctx, batch)
	require.NoError(t, err)
	require.True(t, second.OK())

	assert.NotEqual(t, first.RunID, second.RunID)
	for i := range first.Results {
		assert.Equal(t, first.Results[i].ProjectID, second.Results[i].ProjectID)
		assert.Equal(t, first.Results[i].NoteID, second.Results[i].NoteID)
		assert.Equal(t, first.Results[i].TagsAttached, second.Results[i].TagsAttached)
	}

	stats, err := s.GetStats(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalProjects)
	assert.Equal(t, 2, stats.TotalNotes)
	assert.Equal(t, 2, stats.TotalTags)
	assert.Equal(t, 1, stats.TotalFlags)
}

func TestSyncBatch_RollsBackWholeBatchOnItemFailure(t *testing.T) {
	svc, s := setupTestSync(t)
	ctx := context.Background()

	bad := bundle("Beta", "Beta [Analysis]", nil, nil)
	bad.Tags = []domain.TagSpec{{Name: "broken", Color: strPtr("not-a-color")}}

	result, err := svc.SyncBatch(ctx, []domain.ProjectBundle{
		bundle("Alpha", "Alpha [Analysis]", []string{"php"}, nil),
		bad,
		bundle("Gamma", "Gamma [Analysis]", []string{"go"}, nil),
	})
	require.NoError(t, err)

	assert.False(t, result.OK())
	assert.Equal(t, 2, result.Synced())
	assert.Equal(t, 1, result.FailedCount())
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 1, result.Errors[0].Index)
	assert.Equal(t, "Beta", result.Errors[0].Project)
	assert.Contains(t, result.Errors[0].Error, "Beta")

	projects, err := s.ListProjects(ctx, store.ProjectFilter{})
	require.NoError(t, err)
	assert.Empty(t, projects, "failed batch must leave no projects behind")

	tags, err := s.ListTags(ctx, store.TagFilter{})
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestSyncBatch_LaterItemSeesEarlierWrites(t *testing.T) {
	svc, s := setupTestSync(t)
	ctx := context.Background()

	// The same project twice in one batch resolves to one row.
	result, err := svc.SyncBatch(ctx, []domain.ProjectBundle{
		bundle("Alpha", "Alpha [Analysis]", []string{"php"}, nil),
		bundle("Alpha", "Alpha follow-up", []string{"php"}, nil),
	})
	require.NoError(t, err)
	require.True(t, result.OK())
	assert.Equal(t, result.Results[0].ProjectID, result.Results[1].ProjectID)

	projects, err := s.ListProjects(ctx, store.ProjectFilter{})
	require.NoError(t, err)
	assert.Len(t, projects, 1)
}

func TestSyncBatch_DuplicateTagAcrossTagsAndFlags(t *testing.T) {
	svc, s := setupTestSync(t)
	ctx := context.Background()

	result, err := svc.SyncBatch(ctx, []domain.ProjectBundle{
		bundle("Alpha", "Alpha [Analysis]", []string{"shared", "shared"}, []string{"shared"}),
	})
	require.NoError(t, err)
	require.True(t, result.OK())
	assert.Equal(t, 1, result.Results[0].TagsAttached)

	tag, err := s.FindTagByName(ctx, "shared")
	require.NoError(t, err)
	assert.False(t, tag.IsFlag, "first occurrence decides the kind")
}

func TestSyncBatch_ExplicitIsFlagWins(t *testing.T) {
	svc, s := setupTestSync(t)
	ctx := context.Background()

	b := bundle("Alpha", "Alpha [Analysis]", nil, nil)
	b.Flags = []domain.TagSpec{{Name: "needs-review", IsFlag: boolPtr(false)}}
	b.Tags = []domain.TagSpec{{Name: "deprecated", IsFlag: boolPtr(true), Color: strPtr("#EF4444")}}

	result, err := svc.SyncBatch(ctx, []domain.ProjectBundle{b})
	require.NoError(t, err)
	require.True(t, result.OK())

	review, err := s.FindTagByName(ctx, "needs-review")
	require.NoError(t, err)
	assert.False(t, review.IsFlag)

	deprecated, err := s.FindTagByName(ctx, "deprecated")
	require.NoError(t, err)
	assert.True(t, deprecated.IsFlag)
	assert.Equal(t, "#ef4444", deprecated.Color)
}

func TestSyncBatch_ExistingTagUntouched(t *testing.T) {
	svc, s := setupTestSync(t)
	ctx := context.Background()

	existing, err := NewTagService(s, discardLogger()).Create(ctx, TagInput{Name: "php", Color: strPtr("#ff0000")})
	require.NoError(t, err)

	b := bundle("Alpha", "Alpha [Analysis]", nil, nil)
	b.Flags = []domain.TagSpec{{Name: "php", Color: strPtr("#00ff00")}}
	result, err := svc.SyncBatch(ctx, []domain.ProjectBundle{b})
	require.NoError(t, err)
	require.True(t, result.OK())

	tag, err := s.GetTag(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "#ff0000", tag.Color)
	assert.False(t, tag.IsFlag)
}

func TestSyncBatch_ReplacesNoteTags(t *testing.T) {
	svc, s := setupTestSync(t)
	ctx := context.Background()

	first, err := svc.SyncBatch(ctx, []domain.ProjectBundle{
		bundle("Alpha", "Alpha [Analysis]", []string{"a", "b"}, nil),
	})
	require.NoError(t, err)
	require.True(t, first.OK())

	second, err := svc.SyncBatch(ctx, []domain.ProjectBundle{
		bundle("Alpha", "Alpha [Analysis]", []string{"b", "c"}, nil),
	})
	require.NoError(t, err)
	require.True(t, second.OK())

	tags, err := s.GetNoteTags(ctx, second.Results[0].NoteID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"b", "c"}, tagNames(tags))

	// The detached tag itself survives.
	_, err = s.FindTagByName(ctx, "a")
	assert.NoError(t, err)
}

func TestSyncBatch_MissingProjectDataReportsUnknown(t *testing.T) {
	svc, _ := setupTestSync(t)

	result, err := svc.SyncBatch(context.Background(), []domain.ProjectBundle{
		{NoteData: &domain.NoteData{Title: "orphan"}},
	})
	require.NoError(t, err)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, domain.UnknownProject, result.Errors[0].Project)
	assert.Empty(t, result.Results)
}

func TestUpsertProject_OverwritesOnlyProvidedFields(t *testing.T) {
	svc, s := setupTestSync(t)
	ctx := context.Background()

	created, err := svc.UpsertProject(ctx, s, domain.ProjectData{
		Name:        "Alpha",
		Description: strPtr("original"),
	})
	require.NoError(t, err)

	updated, err := svc.UpsertProject(ctx, s, domain.ProjectData{Name: "Alpha", Color: strPtr("#ABC")})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "original", *updated.Description)
	assert.Equal(t, "#aabbcc", updated.Color)
}

func TestUpsertProject_Validation(t *testing.T) {
	svc, s := setupTestSync(t)
	ctx := context.Background()

	_, err := svc.UpsertProject(ctx, s, domain.ProjectData{Name: "  "})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = svc.UpsertProject(ctx, s, domain.ProjectData{Name: "Alpha", Color: strPtr("teal")})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestUpsertNote_ScopedByProject(t *testing.T) {
	svc, s := setupTestSync(t)
	ctx := context.Background()

	a, err := svc.UpsertProject(ctx, s, domain.ProjectData{Name: "A"})
	require.NoError(t, err)
	b, err := svc.UpsertProject(ctx, s, domain.ProjectData{Name: "B"})
	require.NoError(t, err)

	inA, err := svc.UpsertNote(ctx, s, domain.NoteData{Title: "Notes", ProjectID: &a.ID})
	require.NoError(t, err)
	inB, err := svc.UpsertNote(ctx, s, domain.NoteData{Title: "Notes", ProjectID: &b.ID, Type: strPtr("code")})
	require.NoError(t, err)

	assert.NotEqual(t, inA.ID, inB.ID)
	assert.Equal(t, domain.NoteTypeMixed, inA.Type)
	assert.Equal(t, domain.NoteTypeCode, inB.Type)

	again, err := svc.UpsertNote(ctx, s, domain.NoteData{Title: "Notes", ProjectID: &a.ID, CodeContent: strPtr("fmt.Println()")})
	require.NoError(t, err)
	assert.Equal(t, inA.ID, again.ID)
	assert.Equal(t, domain.NoteTypeMixed, again.Type, "type is kept when not provided")
	require.NotNil(t, again.CodeContent)
}

func TestUpsertNote_InvalidType(t *testing.T) {
	svc, s := setupTestSync(t)

	_, err := svc.UpsertNote(context.Background(), s, domain.NoteData{Title: "x", Type: strPtr("video")})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestEnsureTags_OrderAndBlankNames(t *testing.T) {
	svc, s := setupTestSync(t)
	ctx := context.Background()

	ids, err := svc.EnsureTags(ctx, s, []domain.TagSpec{{Name: "b"}, {Name: "a"}, {Name: "b"}}, false)
	require.NoError(t, err)
	require.Len(t, ids, 3)
	assert.Equal(t, ids[0], ids[2])
	assert.NotEqual(t, ids[0], ids[1])

	_, err = svc.EnsureTags(ctx, s, []domain.TagSpec{{Name: " "}}, false)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}
