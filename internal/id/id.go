// Package id generates identifiers for stored entities and sync runs.
package id

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes for each entity kind. The prefix makes an ID self-describing in logs.
const (
	PrefixProject = "prj"
	PrefixNote    = "note"
	PrefixTag     = "tag"
	PrefixPage    = "page"
)

// Generate creates a prefixed NanoID, e.g. "prj-V1StGXR8_Z5jdHi6B-myT".
func Generate(prefix string) (string, error) {
	nid, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + nid, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
func MustGenerate(prefix string) string {
	v, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return v
}

// HasPrefix reports whether v was generated with prefix.
func HasPrefix(v, prefix string) bool {
	return strings.HasPrefix(v, prefix+"-") && len(v) > len(prefix)+1
}

// NewRunID returns a random identifier for one sync run. Run IDs are echoed
// back to the analyzer and attached to every log line of the run.
func NewRunID() string {
	return uuid.NewString()
}
