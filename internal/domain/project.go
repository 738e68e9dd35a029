package domain

// DefaultProjectColor is used when a project is created without a color.
const DefaultProjectColor = "#3b82f6"

// Project groups notes and optionally owns a public page.
// Name is not unique in storage, but sync treats it as the natural key.
type Project struct {
	Syncable
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Color       string  `json:"color"`
	Content     *string `json:"content"` // README-like body, shown on the public page
	Context     *string `json:"context"`

	// Notes is populated only by queries that eager-load them.
	Notes []*Note `json:"notes,omitempty"`
}

// Tags returns the distinct tags attached to the project's loaded notes,
// in first-seen order.
func (p *Project) Tags() []*Tag {
	seen := make(map[string]bool)
	var tags []*Tag
	for _, n := range p.Notes {
		for _, t := range n.Tags {
			if seen[t.ID] {
				continue
			}
			seen[t.ID] = true
			tags = append(tags, t)
		}
	}
	return tags
}
