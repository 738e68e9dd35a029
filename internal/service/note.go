package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/notesapp/notes-server/internal/domain"
	domainerrors "github.com/notesapp/notes-server/internal/errors"
	"github.com/notesapp/notes-server/internal/id"
	"github.com/notesapp/notes-server/internal/markdown"
	"github.com/notesapp/notes-server/internal/store"
)

// NoteInput creates a note from the admin API. ContentHTML, when set, is
// converted to Markdown and takes precedence over Content.
type NoteInput struct {
	Title       string
	Type        *string
	Content     *string
	ContentHTML *string
	CodeContent *string
	ProjectID   *string
	Tags        []string
}

// NotePatch updates a note. Nil fields are left untouched. An empty ProjectID
// detaches the note from its project.
type NotePatch struct {
	Title       *string
	Type        *string
	Content     *string
	ContentHTML *string
	CodeContent *string
	ProjectID   *string
}

// NoteService handles admin reads and writes of notes.
type NoteService struct {
	store  store.Store
	logger *slog.Logger
}

// NewNoteService creates a new note service.
func NewNoteService(store store.Store, logger *slog.Logger) *NoteService {
	return &NoteService{
		store:  store,
		logger: logger,
	}
}

// List returns one page of notes, most recently updated first.
func (s *NoteService) List(ctx context.Context, filter store.NoteFilter) (store.Page[*domain.Note], error) {
	if filter.Type != "" {
		if _, err := domain.ParseNoteType(filter.Type); err != nil {
			return store.Page[*domain.Note]{}, domainerrors.Validation(err.Error())
		}
	}
	page, err := s.store.ListNotes(ctx, filter)
	if err != nil {
		return store.Page[*domain.Note]{}, mapStoreError(err)
	}
	return page, nil
}

// Get returns a note with its tags.
func (s *NoteService) Get(ctx context.Context, noteID string) (*domain.Note, error) {
	note, err := s.store.GetNote(ctx, noteID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	tags, err := s.store.GetNoteTags(ctx, noteID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	note.Tags = tags
	return note, nil
}

// Create adds a note and attaches the named tags, creating missing ones.
func (s *NoteService) Create(ctx context.Context, in NoteInput) (*domain.Note, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domainerrors.Validation("note title is required")
	}

	noteType := domain.DefaultNoteType
	if in.Type != nil {
		t, err := domain.ParseNoteType(*in.Type)
		if err != nil {
			return nil, domainerrors.Validation(err.Error())
		}
		noteType = t
	}

	content, err := resolveContent(in.Content, in.ContentHTML)
	if err != nil {
		return nil, err
	}

	noteID, err := id.Generate(id.PrefixNote)
	if err != nil {
		return nil, err
	}
	note := &domain.Note{
		Syncable:    domain.Syncable{ID: noteID},
		Title:       title,
		Type:        noteType,
		Content:     content,
		CodeContent: in.CodeContent,
		ProjectID:   emptyToNil(in.ProjectID),
	}
	note.InitTimestamps()

	err = s.inTx(ctx, func(q store.Queries) error {
		if note.ProjectID != nil {
			if _, err := q.GetProject(ctx, *note.ProjectID); err != nil {
				return err
			}
		}
		if err := q.CreateNote(ctx, note); err != nil {
			return err
		}
		tags, err := attachTagNames(ctx, q, note.ID, in.Tags)
		if err != nil {
			return err
		}
		note.Tags = tags
		return nil
	})
	if err != nil {
		return nil, mapStoreError(err)
	}

	s.logger.Info("note created", "note_id", note.ID, "title", note.Title, "tags", len(note.Tags))
	return note, nil
}

// Update applies patch to a note.
func (s *NoteService) Update(ctx context.Context, noteID string, patch NotePatch) (*domain.Note, error) {
	note, err := s.store.GetNote(ctx, noteID)
	if err != nil {
		return nil, mapStoreError(err)
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, domainerrors.Validation("note title is required")
		}
		note.Title = title
	}
	if patch.Type != nil {
		t, err := domain.ParseNoteType(*patch.Type)
		if err != nil {
			return nil, domainerrors.Validation(err.Error())
		}
		note.Type = t
	}
	if patch.Content != nil || patch.ContentHTML != nil {
		content, err := resolveContent(patch.Content, patch.ContentHTML)
		if err != nil {
			return nil, err
		}
		note.Content = content
	}
	if patch.CodeContent != nil {
		note.CodeContent = emptyToNil(patch.CodeContent)
	}
	if patch.ProjectID != nil {
		note.ProjectID = emptyToNil(patch.ProjectID)
		if note.ProjectID != nil {
			if _, err := s.store.GetProject(ctx, *note.ProjectID); err != nil {
				return nil, mapStoreError(err)
			}
		}
	}

	note.Touch()
	if err := s.store.UpdateNote(ctx, note); err != nil {
		return nil, mapStoreError(err)
	}
	return s.Get(ctx, note.ID)
}

// UpdateCode replaces only the code body, as saved by the code editor.
func (s *NoteService) UpdateCode(ctx context.Context, noteID, code string) (*domain.Note, error) {
	note, err := s.store.GetNote(ctx, noteID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	note.CodeContent = &code
	note.Touch()
	if err := s.store.UpdateNote(ctx, note); err != nil {
		return nil, mapStoreError(err)
	}

	s.logger.Debug("note code saved", "note_id", noteID, "bytes", len(code))
	return note, nil
}

// SetTags replaces a note's tags with the named ones, creating missing tags
// as non-flags.
func (s *NoteService) SetTags(ctx context.Context, noteID string, names []string) ([]*domain.Tag, error) {
	var tags []*domain.Tag
	err := s.inTx(ctx, func(q store.Queries) error {
		if _, err := q.GetNote(ctx, noteID); err != nil {
			return err
		}
		var err error
		tags, err = attachTagNames(ctx, q, noteID, names)
		return err
	})
	if err != nil {
		return nil, mapStoreError(err)
	}
	return tags, nil
}

// Delete removes a note.
func (s *NoteService) Delete(ctx context.Context, noteID string) error {
	if err := s.store.DeleteNote(ctx, noteID); err != nil {
		return mapStoreError(err)
	}
	s.logger.Info("note deleted", "note_id", noteID)
	return nil
}

func (s *NoteService) inTx(ctx context.Context, fn func(q store.Queries) error) error {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("rollback failed", "error", rbErr)
		}
		return err
	}
	return tx.Commit()
}

// attachTagNames sets the note's tags to names and returns the attached tags.
func attachTagNames(ctx context.Context, q store.Queries, noteID string, names []string) ([]*domain.Tag, error) {
	specs := make([]domain.TagSpec, 0, len(names))
	for _, name := range names {
		specs = append(specs, domain.TagSpec{Name: strings.TrimSpace(name)})
	}
	ids, err := newTagReconciler(q).ensure(ctx, specs, false)
	if err != nil {
		return nil, err
	}
	if err := q.SetNoteTags(ctx, noteID, distinct(ids)); err != nil {
		return nil, err
	}
	return q.GetNoteTags(ctx, noteID)
}

// resolveContent prefers HTML (converted to Markdown) over Markdown.
func resolveContent(md, html *string) (*string, error) {
	if html == nil {
		return emptyToNil(md), nil
	}
	converted, err := markdown.FromHTML(*html)
	if err != nil {
		return nil, domainerrors.Validationf("content_html: %v", err)
	}
	return emptyToNil(&converted), nil
}
