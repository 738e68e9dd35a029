package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/notesapp/notes-server/internal/color"
	"github.com/notesapp/notes-server/internal/domain"
	domainerrors "github.com/notesapp/notes-server/internal/errors"
	"github.com/notesapp/notes-server/internal/service"
	"github.com/notesapp/notes-server/internal/store"
)

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTags",
		Method:      http.MethodGet,
		Path:        "/api/admin/tags",
		Summary:     "List tags",
		Description: "Returns tags and flags ordered by name",
		Tags:        []string{"Admin: Tags"},
	}, s.handleListTags)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createTag",
		Method:        http.MethodPost,
		Path:          "/api/admin/tags",
		Summary:       "Create tag",
		Description:   "Creates a tag or flag. Names are unique across tags and flags.",
		Tags:          []string{"Admin: Tags"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTag",
		Method:      http.MethodGet,
		Path:        "/api/admin/tags/{id}",
		Summary:     "Get tag",
		Description: "Returns a tag by ID",
		Tags:        []string{"Admin: Tags"},
	}, s.handleGetTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateTag",
		Method:      http.MethodPatch,
		Path:        "/api/admin/tags/{id}",
		Summary:     "Update tag",
		Description: "Updates a tag",
		Tags:        []string{"Admin: Tags"},
	}, s.handleUpdateTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteTag",
		Method:      http.MethodDelete,
		Path:        "/api/admin/tags/{id}",
		Summary:     "Delete tag",
		Description: "Deletes a tag and detaches it from every note",
		Tags:        []string{"Admin: Tags"},
	}, s.handleDeleteTag)
}

// === DTOs ===

// ListTagsInput contains parameters for listing tags.
type ListTagsInput struct {
	Kind string `query:"kind" doc:"Only tags (tag) or only flags (flag); empty for both"`
}

// TagResponse contains tag data in API responses.
type TagResponse struct {
	ID         string      `json:"id" doc:"Tag ID"`
	Name       string      `json:"name" doc:"Tag name"`
	Color      string      `json:"color" doc:"Hex color"`
	IsFlag     bool        `json:"is_flag" doc:"Whether this is a flag"`
	Kind       string      `json:"kind" doc:"tag or flag"`
	Badge      color.Badge `json:"badge" doc:"Badge shades derived from the color"`
	BadgeStyle string      `json:"badge_style" doc:"Inline CSS for rendering the badge"`
	CreatedAt  time.Time   `json:"created_at" doc:"Creation time"`
	UpdatedAt  time.Time   `json:"updated_at" doc:"Last update time"`
}

// ListTagsResponse contains a list of tags.
type ListTagsResponse struct {
	Success bool          `json:"success"`
	Tags    []TagResponse `json:"tags" doc:"List of tags"`
}

// ListTagsOutput wraps the list tags response for Huma.
type ListTagsOutput struct {
	Body ListTagsResponse
}

// CreateTagRequest is the request body for creating a tag.
type CreateTagRequest struct {
	Name   string  `json:"name" validate:"notblank,max=100" maxLength:"100" doc:"Tag name"`
	Color  *string `json:"color,omitempty" validate:"omitempty,hexcolor" doc:"Hex color, defaults to #10b981"`
	IsFlag bool    `json:"is_flag,omitempty" doc:"Create a flag instead of a tag"`
}

// CreateTagInput wraps the create tag request for Huma.
type CreateTagInput struct {
	Body CreateTagRequest
}

// SingleTagResponse contains one tag.
type SingleTagResponse struct {
	Success bool        `json:"success"`
	Tag     TagResponse `json:"tag"`
}

// TagOutput wraps the tag response for Huma.
type TagOutput struct {
	Body SingleTagResponse
}

// TagIDInput identifies a tag by path.
type TagIDInput struct {
	ID string `path:"id" doc:"Tag ID"`
}

// UpdateTagRequest is the request body for updating a tag.
type UpdateTagRequest struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,notblank,max=100" doc:"Tag name"`
	Color  *string `json:"color,omitempty" validate:"omitempty,hexcolor" doc:"Hex color"`
	IsFlag *bool   `json:"is_flag,omitempty" doc:"Whether this is a flag"`
}

// UpdateTagInput wraps the update tag request for Huma.
type UpdateTagInput struct {
	ID   string `path:"id" doc:"Tag ID"`
	Body UpdateTagRequest
}

// === Handlers ===

func (s *Server) handleListTags(ctx context.Context, input *ListTagsInput) (*ListTagsOutput, error) {
	var filter store.TagFilter
	switch input.Kind {
	case "":
	case "tag", "flag":
		isFlag := input.Kind == "flag"
		filter.IsFlag = &isFlag
	default:
		return nil, domainerrors.Validationf("kind must be tag or flag, got %q", input.Kind)
	}

	tags, err := s.services.Tag.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ListTagsOutput{
		Body: ListTagsResponse{Success: true, Tags: toTagResponses(tags)},
	}, nil
}

func (s *Server) handleCreateTag(ctx context.Context, input *CreateTagInput) (*TagOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	tag, err := s.services.Tag.Create(ctx, service.TagInput{
		Name:   input.Body.Name,
		Color:  input.Body.Color,
		IsFlag: input.Body.IsFlag,
	})
	if err != nil {
		return nil, err
	}
	return &TagOutput{Body: SingleTagResponse{Success: true, Tag: toTagResponse(tag)}}, nil
}

func (s *Server) handleGetTag(ctx context.Context, input *TagIDInput) (*TagOutput, error) {
	tag, err := s.services.Tag.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &TagOutput{Body: SingleTagResponse{Success: true, Tag: toTagResponse(tag)}}, nil
}

func (s *Server) handleUpdateTag(ctx context.Context, input *UpdateTagInput) (*TagOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	tag, err := s.services.Tag.Update(ctx, input.ID, service.TagPatch{
		Name:   input.Body.Name,
		Color:  input.Body.Color,
		IsFlag: input.Body.IsFlag,
	})
	if err != nil {
		return nil, err
	}
	return &TagOutput{Body: SingleTagResponse{Success: true, Tag: toTagResponse(tag)}}, nil
}

func (s *Server) handleDeleteTag(ctx context.Context, input *TagIDInput) (*struct{}, error) {
	if err := s.services.Tag.Delete(ctx, input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

func toTagResponse(t *domain.Tag) TagResponse {
	badge := color.BadgeFor(t.Color)
	return TagResponse{
		ID:         t.ID,
		Name:       t.Name,
		Color:      t.Color,
		IsFlag:     t.IsFlag,
		Kind:       t.Kind(),
		Badge:      badge,
		BadgeStyle: badge.Style(),
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

func toTagResponses(tags []*domain.Tag) []TagResponse {
	out := make([]TagResponse, 0, len(tags))
	for _, t := range tags {
		out = append(out, toTagResponse(t))
	}
	return out
}
