package domain

// DefaultTagColor is used when a tag is created without a color.
const DefaultTagColor = "#10b981"

// Tag labels notes. Flags are tags with IsFlag set; both share one namespace,
// so Name is globally unique across tags and flags.
type Tag struct {
	Syncable
	Name   string `json:"name"`
	Color  string `json:"color"`
	IsFlag bool   `json:"is_flag"`
}

// Kind returns "flag" or "tag" for display.
func (t *Tag) Kind() string {
	if t.IsFlag {
		return "flag"
	}
	return "tag"
}
