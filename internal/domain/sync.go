package domain

// SyncBatch is the payload posted by the analyzer: one bundle per project.
type SyncBatch struct {
	_        struct{}        `json:"-" additionalProperties:"true"`
	Projects []ProjectBundle `json:"projects" yaml:"projects" validate:"required,min=1,dive" doc:"Project bundles, processed in order"`
}

// ProjectBundle carries one project, its analysis note, and the tags and
// flags to attach to that note.
type ProjectBundle struct {
	_           struct{}     `json:"-" additionalProperties:"true"`
	ProjectData *ProjectData `json:"project_data" yaml:"project_data" validate:"required" doc:"Project to create or update, matched by name"`
	NoteData    *NoteData    `json:"note_data" yaml:"note_data" validate:"required" doc:"Note to create or update, matched by title within the project"`
	Tags        []TagSpec    `json:"tags,omitempty" yaml:"tags" validate:"omitempty,dive" doc:"Tags to attach (is_flag defaults to false)"`
	Flags       []TagSpec    `json:"flags,omitempty" yaml:"flags" validate:"omitempty,dive" doc:"Flags to attach (is_flag defaults to true)"`
}

// ProjectData is the incoming half of a project upsert. Nil fields leave the
// stored value untouched.
type ProjectData struct {
	_           struct{} `json:"-" additionalProperties:"true"`
	Name        string   `json:"name" yaml:"name" validate:"notblank,max=255" doc:"Project name (natural key)"`
	Description *string  `json:"description,omitempty" yaml:"description" doc:"Project description"`
	Color       *string  `json:"color,omitempty" yaml:"color" validate:"omitempty,hexcolor" doc:"Hex color, defaults to #3b82f6"`
}

// NoteData is the incoming half of a note upsert. ProjectID is filled in by
// the orchestrator from the upserted project and is never read from payloads.
type NoteData struct {
	_           struct{} `json:"-" additionalProperties:"true"`
	Title       string   `json:"title" yaml:"title" validate:"notblank,max=255" doc:"Note title"`
	ProjectID   *string  `json:"-" yaml:"-"`
	Type        *string  `json:"type,omitempty" yaml:"type" validate:"omitempty,oneof=markdown code mixed" doc:"Note type, defaults to mixed"`
	Content     *string  `json:"content,omitempty" yaml:"content" doc:"Markdown body"`
	CodeContent *string  `json:"code_content,omitempty" yaml:"code_content" doc:"Code body"`
}

// TagSpec names a tag to find or create. Color and IsFlag are only used when
// the tag does not exist yet.
type TagSpec struct {
	_      struct{} `json:"-" additionalProperties:"true"`
	Name   string   `json:"name" yaml:"name" validate:"notblank,max=100" doc:"Tag name, unique across tags and flags"`
	Color  *string  `json:"color,omitempty" yaml:"color" validate:"omitempty,hexcolor" doc:"Hex color, defaults to #10b981"`
	IsFlag *bool    `json:"is_flag,omitempty" yaml:"is_flag" doc:"Whether the tag is a flag"`
}

// ItemSummary describes one successfully reconciled bundle.
type ItemSummary struct {
	ProjectID    string `json:"project_id"`
	ProjectName  string `json:"project_name"`
	NoteID       string `json:"note_id"`
	NoteTitle    string `json:"note_title"`
	TagsAttached int    `json:"tags_attached"`
}

// ItemError describes one bundle that failed to reconcile.
type ItemError struct {
	Index   int    `json:"index"`
	Project string `json:"project"`
	Error   string `json:"error"`
}

// UnknownProject is reported for failed bundles that carry no project name.
const UnknownProject = "unknown"

// SyncResult accumulates per-item outcomes for one batch run.
type SyncResult struct {
	RunID   string        `json:"run_id"`
	Results []ItemSummary `json:"results"`
	Errors  []ItemError   `json:"errors"`
}

// Succeeded records a reconciled item.
func (r *SyncResult) Succeeded(s ItemSummary) {
	r.Results = append(r.Results, s)
}

// Failed records a failed item.
func (r *SyncResult) Failed(e ItemError) {
	r.Errors = append(r.Errors, e)
}

// OK reports whether every item reconciled. Only an OK batch is committed.
func (r *SyncResult) OK() bool {
	return len(r.Errors) == 0
}

// Synced is the number of items that reconciled, committed or not.
func (r *SyncResult) Synced() int {
	return len(r.Results)
}

// FailedCount is the number of items that failed.
func (r *SyncResult) FailedCount() int {
	return len(r.Errors)
}
