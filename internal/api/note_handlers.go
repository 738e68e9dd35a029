package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/notesapp/notes-server/internal/domain"
	"github.com/notesapp/notes-server/internal/service"
	"github.com/notesapp/notes-server/internal/store"
)

func (s *Server) registerNoteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listNotes",
		Method:      http.MethodGet,
		Path:        "/api/admin/notes",
		Summary:     "List notes",
		Description: "Returns one page of notes, most recently updated first",
		Tags:        []string{"Admin: Notes"},
	}, s.handleListNotes)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createNote",
		Method:        http.MethodPost,
		Path:          "/api/admin/notes",
		Summary:       "Create note",
		Description:   "Creates a note and attaches the named tags, creating missing ones",
		Tags:          []string{"Admin: Notes"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "getNote",
		Method:      http.MethodGet,
		Path:        "/api/admin/notes/{id}",
		Summary:     "Get note",
		Description: "Returns a note with its tags",
		Tags:        []string{"Admin: Notes"},
	}, s.handleGetNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateNote",
		Method:      http.MethodPatch,
		Path:        "/api/admin/notes/{id}",
		Summary:     "Update note",
		Description: "Updates the given fields. content_html is converted to Markdown and wins over content.",
		Tags:        []string{"Admin: Notes"},
	}, s.handleUpdateNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteNote",
		Method:      http.MethodDelete,
		Path:        "/api/admin/notes/{id}",
		Summary:     "Delete note",
		Description: "Deletes a note",
		Tags:        []string{"Admin: Notes"},
	}, s.handleDeleteNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateNoteCode",
		Method:      http.MethodPut,
		Path:        "/api/admin/notes/{id}/code",
		Summary:     "Save note code",
		Description: "Replaces only the code body, as saved by the code editor",
		Tags:        []string{"Admin: Notes"},
	}, s.handleUpdateNoteCode)

	huma.Register(s.api, huma.Operation{
		OperationID: "setNoteTags",
		Method:      http.MethodPut,
		Path:        "/api/admin/notes/{id}/tags",
		Summary:     "Set note tags",
		Description: "Replaces the note's tags with the named ones, creating missing tags",
		Tags:        []string{"Admin: Notes"},
	}, s.handleSetNoteTags)
}

// === DTOs ===

// ListNotesInput contains parameters for listing notes.
type ListNotesInput struct {
	ProjectID string `query:"project_id" doc:"Only notes of this project"`
	Type      string `query:"type" doc:"Only notes of this type (markdown, code, mixed)"`
	Limit     int    `query:"limit" minimum:"0" maximum:"500" doc:"Items per page (default 50)"`
	Cursor    string `query:"cursor" doc:"Cursor from a previous page"`
}

// ListNotesResponse contains one page of notes.
type ListNotesResponse struct {
	Success    bool           `json:"success"`
	Notes      []*domain.Note `json:"notes"`
	NextCursor string         `json:"next_cursor,omitempty" doc:"Cursor for the next page"`
	HasMore    bool           `json:"has_more" doc:"Whether more pages follow"`
}

// ListNotesOutput wraps the list notes response for Huma.
type ListNotesOutput struct {
	Body ListNotesResponse
}

// NoteIDInput identifies a note by path.
type NoteIDInput struct {
	ID string `path:"id" doc:"Note ID"`
}

// NoteResponse contains a single note.
type NoteResponse struct {
	Success bool         `json:"success"`
	Note    *domain.Note `json:"note"`
}

// NoteOutput wraps the note response for Huma.
type NoteOutput struct {
	Body NoteResponse
}

// CreateNoteRequest is the request body for creating a note.
type CreateNoteRequest struct {
	Title       string   `json:"title" validate:"notblank,max=255" maxLength:"255" doc:"Note title"`
	Type        *string  `json:"type,omitempty" validate:"omitempty,oneof=markdown code mixed" doc:"Note type, defaults to mixed"`
	Content     *string  `json:"content,omitempty" doc:"Markdown body"`
	ContentHTML *string  `json:"content_html,omitempty" doc:"HTML body from a rich-text editor, converted to Markdown"`
	CodeContent *string  `json:"code_content,omitempty" doc:"Code body"`
	ProjectID   *string  `json:"project_id,omitempty" doc:"Owning project"`
	Tags        []string `json:"tags,omitempty" validate:"omitempty,dive,notblank,max=100" doc:"Tag names to attach"`
}

// CreateNoteInput wraps the create note request for Huma.
type CreateNoteInput struct {
	Body CreateNoteRequest
}

// UpdateNoteRequest is the request body for updating a note.
type UpdateNoteRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,notblank,max=255" doc:"Note title"`
	Type        *string `json:"type,omitempty" validate:"omitempty,oneof=markdown code mixed" doc:"Note type"`
	Content     *string `json:"content,omitempty" doc:"Markdown body"`
	ContentHTML *string `json:"content_html,omitempty" doc:"HTML body, converted to Markdown"`
	CodeContent *string `json:"code_content,omitempty" doc:"Code body"`
	ProjectID   *string `json:"project_id,omitempty" doc:"Owning project, empty to detach"`
}

// UpdateNoteInput wraps the update note request for Huma.
type UpdateNoteInput struct {
	ID   string `path:"id" doc:"Note ID"`
	Body UpdateNoteRequest
}

// UpdateNoteCodeRequest is the request body for saving a note's code.
type UpdateNoteCodeRequest struct {
	Code string `json:"code" doc:"Full code body"`
}

// UpdateNoteCodeInput wraps the code save request for Huma.
type UpdateNoteCodeInput struct {
	ID   string `path:"id" doc:"Note ID"`
	Body UpdateNoteCodeRequest
}

// SetNoteTagsRequest is the request body for replacing a note's tags.
type SetNoteTagsRequest struct {
	Tags []string `json:"tags" validate:"dive,notblank,max=100" doc:"Tag names; an empty list clears the tags"`
}

// SetNoteTagsInput wraps the set tags request for Huma.
type SetNoteTagsInput struct {
	ID   string `path:"id" doc:"Note ID"`
	Body SetNoteTagsRequest
}

// NoteTagsResponse contains a note's tags.
type NoteTagsResponse struct {
	Success bool          `json:"success"`
	Tags    []TagResponse `json:"tags"`
}

// NoteTagsOutput wraps the note tags response for Huma.
type NoteTagsOutput struct {
	Body NoteTagsResponse
}

// === Handlers ===

func (s *Server) handleListNotes(ctx context.Context, input *ListNotesInput) (*ListNotesOutput, error) {
	page, err := s.services.Note.List(ctx, store.NoteFilter{
		ProjectID: input.ProjectID,
		Type:      input.Type,
		Page:      store.PageParams{Limit: input.Limit, Cursor: input.Cursor},
	})
	if err != nil {
		return nil, err
	}
	return &ListNotesOutput{
		Body: ListNotesResponse{
			Success:    true,
			Notes:      nonNil(page.Items),
			NextCursor: page.NextCursor,
			HasMore:    page.HasMore,
		},
	}, nil
}

func (s *Server) handleCreateNote(ctx context.Context, input *CreateNoteInput) (*NoteOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	note, err := s.services.Note.Create(ctx, service.NoteInput{
		Title:       input.Body.Title,
		Type:        input.Body.Type,
		Content:     input.Body.Content,
		ContentHTML: input.Body.ContentHTML,
		CodeContent: input.Body.CodeContent,
		ProjectID:   input.Body.ProjectID,
		Tags:        input.Body.Tags,
	})
	if err != nil {
		return nil, err
	}
	return &NoteOutput{Body: NoteResponse{Success: true, Note: note}}, nil
}

func (s *Server) handleGetNote(ctx context.Context, input *NoteIDInput) (*NoteOutput, error) {
	note, err := s.services.Note.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &NoteOutput{Body: NoteResponse{Success: true, Note: note}}, nil
}

func (s *Server) handleUpdateNote(ctx context.Context, input *UpdateNoteInput) (*NoteOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	note, err := s.services.Note.Update(ctx, input.ID, service.NotePatch{
		Title:       input.Body.Title,
		Type:        input.Body.Type,
		Content:     input.Body.Content,
		ContentHTML: input.Body.ContentHTML,
		CodeContent: input.Body.CodeContent,
		ProjectID:   input.Body.ProjectID,
	})
	if err != nil {
		return nil, err
	}
	return &NoteOutput{Body: NoteResponse{Success: true, Note: note}}, nil
}

func (s *Server) handleDeleteNote(ctx context.Context, input *NoteIDInput) (*struct{}, error) {
	if err := s.services.Note.Delete(ctx, input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Server) handleUpdateNoteCode(ctx context.Context, input *UpdateNoteCodeInput) (*NoteOutput, error) {
	note, err := s.services.Note.UpdateCode(ctx, input.ID, input.Body.Code)
	if err != nil {
		return nil, err
	}
	return &NoteOutput{Body: NoteResponse{Success: true, Note: note}}, nil
}

func (s *Server) handleSetNoteTags(ctx context.Context, input *SetNoteTagsInput) (*NoteTagsOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	tags, err := s.services.Note.SetTags(ctx, input.ID, input.Body.Tags)
	if err != nil {
		return nil, err
	}
	return &NoteTagsOutput{
		Body: NoteTagsResponse{Success: true, Tags: toTagResponses(tags)},
	}, nil
}
