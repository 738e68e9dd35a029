package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/notesapp/notes-server/internal/color"
	"github.com/notesapp/notes-server/internal/domain"
	domainerrors "github.com/notesapp/notes-server/internal/errors"
	"github.com/notesapp/notes-server/internal/id"
	"github.com/notesapp/notes-server/internal/store"
)

// SyncService reconciles analyzer batches into projects, notes and tags.
//
// The upsert operations take a store.Queries so they run unchanged against
// the store or inside the batch transaction.
type SyncService struct {
	store  store.Store
	logger *slog.Logger
}

// NewSyncService creates a new sync service.
func NewSyncService(store store.Store, logger *slog.Logger) *SyncService {
	return &SyncService{
		store:  store,
		logger: logger,
	}
}

// tagReconciler resolves tag specs to IDs for one pass. Names seen earlier in
// the pass reuse the first ID, whichever list they came from.
type tagReconciler struct {
	q    store.Queries
	seen map[string]string
}

func newTagReconciler(q store.Queries) *tagReconciler {
	return &tagReconciler{q: q, seen: make(map[string]string)}
}

// ensure returns one ID per wanted tag, in input order. Existing tags are returned
// untouched; missing ones are created with flagDefault unless the TagSpec sets
// is_flag explicitly.
func (r *tagReconciler) ensure(ctx context.Context, wanted []domain.TagSpec, flagDefault bool) ([]string, error) {
	ids := make([]string, 0, len(wanted))
	for _, want := range wanted {
		if strings.TrimSpace(want.Name) == "" {
			return nil, domainerrors.Validation("tag name is required")
		}
		if tagID, ok := r.seen[want.Name]; ok {
			ids = append(ids, tagID)
			continue
		}

		tag, err := r.findOrCreate(ctx, want, flagDefault)
		if err != nil {
			return nil, err
		}
		r.seen[want.Name] = tag.ID
		ids = append(ids, tag.ID)
	}
	return ids, nil
}

func (r *tagReconciler) findOrCreate(ctx context.Context, want domain.TagSpec, flagDefault bool) (*domain.Tag, error) {
	existing, err := r.q.FindTagByName(ctx, want.Name)
	if err == nil {
		return existing, nil
	}
	if !domainerrors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("find tag %q: %w", want.Name, err)
	}

	hex, err := color.OrDefault(want.Color, domain.DefaultTagColor)
	if err != nil {
		return nil, domainerrors.Validationf("tag %q: %v", want.Name, err)
	}
	isFlag := flagDefault
	if want.IsFlag != nil {
		isFlag = *want.IsFlag
	}

	tagID, err := id.Generate(id.PrefixTag)
	if err != nil {
		return nil, err
	}
	tag := &domain.Tag{
		Syncable: domain.Syncable{ID: tagID},
		Name:     want.Name,
		Color:    hex,
		IsFlag:   isFlag,
	}
	tag.InitTimestamps()

	if err := r.q.CreateTag(ctx, tag); err != nil {
		// Lost a race with another writer; use theirs.
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return r.q.FindTagByName(ctx, want.Name)
		}
		return nil, fmt.Errorf("create tag %q: %w", want.Name, err)
	}
	return tag, nil
}

// EnsureTags finds or creates a tag for every TagSpec and returns their IDs in
// input order. flagDefault is the is_flag value given to new tags whose TagSpec
// leaves it unset: false for tags, true for flags.
func (s *SyncService) EnsureTags(ctx context.Context, q store.Queries, wanted []domain.TagSpec, flagDefault bool) ([]string, error) {
	return newTagReconciler(q).ensure(ctx, wanted, flagDefault)
}

// UpsertProject finds a project by exact name and overwrites the fields data
// provides, or creates it with the default color.
func (s *SyncService) UpsertProject(ctx context.Context, q store.Queries, data domain.ProjectData) (*domain.Project, error) {
	if strings.TrimSpace(data.Name) == "" {
		return nil, domainerrors.Validation("project name is required")
	}

	var hex *string
	if data.Color != nil {
		normalized, err := color.Normalize(*data.Color)
		if err != nil {
			return nil, domainerrors.Validationf("project color: %v", err)
		}
		hex = &normalized
	}

	project, err := q.FindProjectByName(ctx, data.Name)
	switch {
	case err == nil:
		changed := setIfChanged(&project.Description, data.Description)
		if hex != nil && project.Color != *hex {
			project.Color = *hex
			changed = true
		}
		if !changed {
			return project, nil
		}
		project.Touch()
		if err := q.UpdateProject(ctx, project); err != nil {
			return nil, fmt.Errorf("update project %q: %w", data.Name, err)
		}
		return project, nil

	case domainerrors.Is(err, store.ErrNotFound):
		projectID, err := id.Generate(id.PrefixProject)
		if err != nil {
			return nil, err
		}
		project = &domain.Project{
			Syncable:    domain.Syncable{ID: projectID},
			Name:        data.Name,
			Description: data.Description,
			Color:       domain.DefaultProjectColor,
		}
		if hex != nil {
			project.Color = *hex
		}
		project.InitTimestamps()
		if err := q.CreateProject(ctx, project); err != nil {
			return nil, fmt.Errorf("create project %q: %w", data.Name, err)
		}
		return project, nil

	default:
		return nil, fmt.Errorf("find project %q: %w", data.Name, err)
	}
}

// UpsertNote finds a note by (title, project) and overwrites the fields data
// provides, or creates it with type mixed unless data names another type.
func (s *SyncService) UpsertNote(ctx context.Context, q store.Queries, data domain.NoteData) (*domain.Note, error) {
	if strings.TrimSpace(data.Title) == "" {
		return nil, domainerrors.Validation("note title is required")
	}

	var noteType *domain.NoteType
	if data.Type != nil {
		t, err := domain.ParseNoteType(*data.Type)
		if err != nil {
			return nil, domainerrors.Validationf("note %q: %v", data.Title, err)
		}
		noteType = &t
	}

	note, err := q.FindNoteByTitle(ctx, data.Title, data.ProjectID)
	switch {
	case err == nil:
		changed := setIfChanged(&note.Content, data.Content)
		changed = setIfChanged(&note.CodeContent, data.CodeContent) || changed
		if noteType != nil && note.Type != *noteType {
			note.Type = *noteType
			changed = true
		}
		if !changed {
			return note, nil
		}
		note.Touch()
		if err := q.UpdateNote(ctx, note); err != nil {
			return nil, fmt.Errorf("update note %q: %w", data.Title, err)
		}
		return note, nil

	case domainerrors.Is(err, store.ErrNotFound):
		noteID, err := id.Generate(id.PrefixNote)
		if err != nil {
			return nil, err
		}
		note = &domain.Note{
			Syncable:    domain.Syncable{ID: noteID},
			Title:       data.Title,
			Type:        domain.DefaultNoteType,
			Content:     data.Content,
			CodeContent: data.CodeContent,
			ProjectID:   data.ProjectID,
		}
		if noteType != nil {
			note.Type = *noteType
		}
		note.InitTimestamps()
		if err := q.CreateNote(ctx, note); err != nil {
			return nil, fmt.Errorf("create note %q: %w", data.Title, err)
		}
		return note, nil

	default:
		return nil, fmt.Errorf("find note %q: %w", data.Title, err)
	}
}

// SyncBatch reconciles every bundle inside one transaction. Item failures are
// collected and processing continues; the batch commits only when every item
// succeeded and is rolled back otherwise. The returned error is non-nil only
// when the transaction itself could not be driven (begin, savepoint, commit),
// in which case no result is returned.
func (s *SyncService) SyncBatch(ctx context.Context, bundles []domain.ProjectBundle) (*domain.SyncResult, error) {
	result := &domain.SyncResult{
		RunID:   id.NewRunID(),
		Results: []domain.ItemSummary{},
		Errors:  []domain.ItemError{},
	}
	logger := s.logger.With("run_id", result.RunID)
	start := time.Now()

	logger.Info("sync batch started", "items", len(bundles))

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "begin sync transaction")
	}
	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Error("sync rollback failed", "error", rbErr)
			}
		}
	}()

	for i, bundle := range bundles {
		savepoint := fmt.Sprintf("item_%d", i)
		if err := tx.Savepoint(ctx, savepoint); err != nil {
			return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "open item savepoint")
		}

		summary, err := s.syncItem(ctx, tx, bundle)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, domainerrors.Wrap(ctxErr, domainerrors.CodeInternal, "sync aborted")
			}
			if err := tx.RollbackTo(ctx, savepoint); err != nil {
				return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "roll back item savepoint")
			}

			name := bundleProjectName(bundle)
			itemErr := domainerrors.Reconciliation(err, name)
			result.Failed(domain.ItemError{Index: i, Project: name, Error: itemErr.Error()})
			logger.Warn("sync item failed", "index", i, "project", name, "error", err)
		} else {
			result.Succeeded(*summary)
			logger.Debug("sync item reconciled",
				"index", i,
				"project_id", summary.ProjectID,
				"note_id", summary.NoteID,
				"tags_attached", summary.TagsAttached,
			)
		}

		if err := tx.Release(ctx, savepoint); err != nil {
			return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "release item savepoint")
		}
	}

	if !result.OK() {
		logger.Warn("sync batch rolled back",
			"synced", result.Synced(),
			"failed", result.FailedCount(),
			"duration", time.Since(start),
		)
		return result, nil
	}

	if err := tx.Commit(); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "commit sync transaction")
	}
	committed = true

	logger.Info("sync batch committed",
		"synced", result.Synced(),
		"duration", time.Since(start),
	)
	return result, nil
}

// syncItem reconciles one bundle: project, then tags and flags, then the note
// and its tag set.
func (s *SyncService) syncItem(ctx context.Context, q store.Queries, bundle domain.ProjectBundle) (*domain.ItemSummary, error) {
	if bundle.ProjectData == nil {
		return nil, domainerrors.Validation("project_data is required")
	}
	if bundle.NoteData == nil {
		return nil, domainerrors.Validation("note_data is required")
	}

	project, err := s.UpsertProject(ctx, q, *bundle.ProjectData)
	if err != nil {
		return nil, err
	}

	tags := newTagReconciler(q)
	tagIDs, err := tags.ensure(ctx, bundle.Tags, false)
	if err != nil {
		return nil, err
	}
	flagIDs, err := tags.ensure(ctx, bundle.Flags, true)
	if err != nil {
		return nil, err
	}

	noteData := *bundle.NoteData
	noteData.ProjectID = &project.ID
	note, err := s.UpsertNote(ctx, q, noteData)
	if err != nil {
		return nil, err
	}

	attached := distinct(append(tagIDs, flagIDs...))
	if err := q.SetNoteTags(ctx, note.ID, attached); err != nil {
		return nil, fmt.Errorf("attach tags to note %q: %w", note.Title, err)
	}

	return &domain.ItemSummary{
		ProjectID:    project.ID,
		ProjectName:  project.Name,
		NoteID:       note.ID,
		NoteTitle:    note.Title,
		TagsAttached: len(attached),
	}, nil
}

func bundleProjectName(b domain.ProjectBundle) string {
	if b.ProjectData == nil || strings.TrimSpace(b.ProjectData.Name) == "" {
		return domain.UnknownProject
	}
	return b.ProjectData.Name
}

// setIfChanged copies src into *dst when src is non-nil and differs.
func setIfChanged(dst **string, src *string) bool {
	if src == nil {
		return false
	}
	if *dst != nil && **dst == *src {
		return false
	}
	v := *src
	*dst = &v
	return true
}

func distinct(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
