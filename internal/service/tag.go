package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/notesapp/notes-server/internal/color"
	"github.com/notesapp/notes-server/internal/domain"
	domainerrors "github.com/notesapp/notes-server/internal/errors"
	"github.com/notesapp/notes-server/internal/id"
	"github.com/notesapp/notes-server/internal/store"
)

// TagInput creates a tag or flag from the admin API.
type TagInput struct {
	Name   string
	Color  *string
	IsFlag bool
}

// TagPatch updates a tag. Nil fields are left untouched.
type TagPatch struct {
	Name   *string
	Color  *string
	IsFlag *bool
}

// TagService handles admin reads and writes of tags and flags.
// Tags and flags share one namespace: a name is unique across both.
type TagService struct {
	store  store.Store
	logger *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(store store.Store, logger *slog.Logger) *TagService {
	return &TagService{
		store:  store,
		logger: logger,
	}
}

// List returns tags ordered by name, optionally only tags or only flags.
func (s *TagService) List(ctx context.Context, filter store.TagFilter) ([]*domain.Tag, error) {
	tags, err := s.store.ListTags(ctx, filter)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return tags, nil
}

// Get returns a tag by ID.
func (s *TagService) Get(ctx context.Context, tagID string) (*domain.Tag, error) {
	tag, err := s.store.GetTag(ctx, tagID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return tag, nil
}

// Create adds a tag. A name already used by a tag or flag is a conflict.
func (s *TagService) Create(ctx context.Context, in TagInput) (*domain.Tag, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domainerrors.Validation("tag name is required")
	}
	hex, err := color.OrDefault(in.Color, domain.DefaultTagColor)
	if err != nil {
		return nil, domainerrors.Validationf("tag color: %v", err)
	}

	tagID, err := id.Generate(id.PrefixTag)
	if err != nil {
		return nil, err
	}
	tag := &domain.Tag{
		Syncable: domain.Syncable{ID: tagID},
		Name:     name,
		Color:    hex,
		IsFlag:   in.IsFlag,
	}
	tag.InitTimestamps()

	if err := s.store.CreateTag(ctx, tag); err != nil {
		return nil, mapStoreError(err)
	}

	s.logger.Info("tag created", "tag_id", tag.ID, "name", tag.Name, "kind", tag.Kind())
	return tag, nil
}

// Update applies patch to a tag.
func (s *TagService) Update(ctx context.Context, tagID string, patch TagPatch) (*domain.Tag, error) {
	tag, err := s.store.GetTag(ctx, tagID)
	if err != nil {
		return nil, mapStoreError(err)
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, domainerrors.Validation("tag name is required")
		}
		tag.Name = name
	}
	if patch.Color != nil {
		hex, err := color.Normalize(*patch.Color)
		if err != nil {
			return nil, domainerrors.Validationf("tag color: %v", err)
		}
		tag.Color = hex
	}
	if patch.IsFlag != nil {
		tag.IsFlag = *patch.IsFlag
	}

	tag.Touch()
	if err := s.store.UpdateTag(ctx, tag); err != nil {
		return nil, mapStoreError(err)
	}
	return tag, nil
}

// Delete removes a tag and detaches it from every note.
func (s *TagService) Delete(ctx context.Context, tagID string) error {
	if err := s.store.DeleteTag(ctx, tagID); err != nil {
		return mapStoreError(err)
	}
	s.logger.Info("tag deleted", "tag_id", tagID)
	return nil
}
