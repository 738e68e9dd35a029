package domain

import "fmt"

// NoteType describes which bodies of a note are meaningful.
type NoteType string

// Note types.
const (
	NoteTypeMarkdown NoteType = "markdown"
	NoteTypeCode     NoteType = "code"
	NoteTypeMixed    NoteType = "mixed"
)

// DefaultNoteType is applied when a note is created without a type.
const DefaultNoteType = NoteTypeMixed

// Valid reports whether t is a known note type.
func (t NoteType) Valid() bool {
	switch t {
	case NoteTypeMarkdown, NoteTypeCode, NoteTypeMixed:
		return true
	}
	return false
}

// HasCode reports whether notes of this type carry a code body.
func (t NoteType) HasCode() bool {
	return t == NoteTypeCode || t == NoteTypeMixed
}

// ParseNoteType converts s to a NoteType, rejecting unknown values.
func ParseNoteType(s string) (NoteType, error) {
	t := NoteType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown note type %q", s)
	}
	return t, nil
}

// Note is a markdown and/or code entry, optionally scoped to a project.
// (Title, ProjectID) is the natural key used by sync.
type Note struct {
	Syncable
	Title       string   `json:"title"`
	Type        NoteType `json:"type"`
	Content     *string  `json:"content"`
	CodeContent *string  `json:"code_content"`
	ProjectID   *string  `json:"project_id"`

	// Tags is populated only by queries that eager-load them.
	Tags []*Tag `json:"tags,omitempty"`
}

// NoteTag is one row of the note/tag many-to-many relation.
type NoteTag struct {
	NoteID string `json:"note_id"`
	TagID  string `json:"tag_id"`
}
