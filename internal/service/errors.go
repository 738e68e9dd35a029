package service

import (
	"errors"
	"fmt"

	"github.com/notesapp/notes-server/internal/domain"
	domainerrors "github.com/notesapp/notes-server/internal/errors"
	"github.com/notesapp/notes-server/internal/slug"
	"github.com/notesapp/notes-server/internal/store"
)

// mapStoreError translates persistence and slug errors into domain errors.
// Anything it does not recognise is returned unchanged and surfaces as 500.
func mapStoreError(err error) error {
	if err == nil {
		return nil
	}

	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) {
		return err
	}

	switch {
	case errors.Is(err, store.ErrNotFound):
		return domainerrors.Wrap(err, domainerrors.CodeNotFound, store.Summary(err))
	case errors.Is(err, store.ErrAlreadyExists):
		return domainerrors.Wrap(err, domainerrors.CodeAlreadyExists, store.Summary(err))
	case errors.Is(err, store.ErrInvalidInput):
		return domainerrors.Wrap(err, domainerrors.CodeValidation, store.Summary(err))
	case errors.Is(err, slug.ErrInvalidSlugSource):
		return &domainerrors.Error{Code: domainerrors.CodeInvalidSlugSource, Message: err.Error()}
	case errors.Is(err, slug.ErrInvalidSlug):
		return domainerrors.Validation(err.Error())
	}
	return err
}

// conflictOnDuplicate reports a UNIQUE violation on a page's slug or project as
// a conflict. This is what a lost slug race looks like. The driver error stays
// as the cause and never reaches the message.
func conflictOnDuplicate(err error, page *domain.ProjectPage) error {
	var se *store.Error
	if !errors.As(err, &se) || se.Kind != store.KindAlreadyExists {
		return mapStoreError(err)
	}
	if se.Field == "project" {
		return domainerrors.Wrap(err, domainerrors.CodeConflict, "project already has a page")
	}
	return domainerrors.Wrap(err, domainerrors.CodeConflict, fmt.Sprintf("slug %q is already in use", page.Slug))
}
