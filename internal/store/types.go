package store

// ProjectFilter narrows project listings. Zero values match everything.
type ProjectFilter struct {
	// Tag matches projects with a note carrying a non-flag tag of this exact name.
	Tag string
	// Flag matches projects with a note carrying a flag of this exact name.
	Flag string
	// Query is a case-insensitive substring of the name or description.
	Query string
}

// NoteFilter narrows note listings.
type NoteFilter struct {
	ProjectID string // empty for all projects
	Type      string // empty for all types
	Page      PageParams
}

// TagFilter narrows tag listings. A nil IsFlag lists tags and flags together.
type TagFilter struct {
	IsFlag *bool
}
