package store

import (
	"encoding/base64"
	"fmt"
	"strconv"
)

// Limits applied by PageParams.Validate.
const (
	DefaultPageLimit = 50
	MaxPageLimit     = 500
)

// PageParams requests one page of a listing.
type PageParams struct {
	Limit  int    // items per page (defaults to 50, at most 500)
	Cursor string // opaque cursor from a previous page, empty for the first
}

// Page is one page of results.
type Page[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"` // empty on the last page
	HasMore    bool   `json:"has_more"`
}

// Validate clamps the limit into range.
func (p *PageParams) Validate() {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
}

// Offset decodes the cursor into a row offset.
func (p PageParams) Offset() (int, error) {
	if p.Cursor == "" {
		return 0, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(p.Cursor)
	if err != nil {
		return 0, fmt.Errorf("invalid cursor: %w", err)
	}
	n, err := strconv.Atoi(string(raw))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid cursor %q", p.Cursor)
	}
	return n, nil
}

// EncodeCursor creates the opaque cursor for a row offset.
func EncodeCursor(offset int) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
}

// NewPage builds a page from items fetched with limit+1 rows, which tells us
// whether another page exists without a count query.
func NewPage[T any](items []T, limit, offset int) Page[T] {
	if len(items) <= limit {
		return Page[T]{Items: items}
	}
	return Page[T]{
		Items:      items[:limit],
		NextCursor: EncodeCursor(offset + limit),
		HasMore:    true,
	}
}
