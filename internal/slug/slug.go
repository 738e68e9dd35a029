// Package slug derives unique, URL-safe identifiers for project pages.
package slug

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	goslug "github.com/goliatone/go-slug"
	"golang.org/x/text/unicode/norm"
)

// ErrInvalidSlugSource is returned when a name normalises to an empty slug.
var ErrInvalidSlugSource = errors.New("name does not produce a usable slug")

// ErrInvalidSlug is returned by Validate for slugs not in normalised form.
var ErrInvalidSlug = errors.New("slug must be lowercase letters, digits and single hyphens")

// maxAttempts bounds the suffix loop so a broken exists func cannot spin forever.
const maxAttempts = 10000

// Matches whitespace, underscores, slashes and dashes (word separators).
var separatorRe = regexp.MustCompile(`[\s_/\-]+`)

// Letters NFKD does not decompose into an ASCII base.
var transliterations = strings.NewReplacer(
	"ß", "ss", "æ", "ae", "Æ", "AE", "œ", "oe", "Œ", "OE",
	"ø", "o", "Ø", "O", "đ", "d", "Đ", "D", "ł", "l", "Ł", "L",
	"þ", "th", "Þ", "TH", "@", " at ",
)

// Slugify converts a display name to its base slug.
//
//	"My Project"       -> "my-project"
//	"Café Déjà Vu"     -> "cafe-deja-vu"
//	"don't_panic/now"  -> "dont-panic-now"
//	"!!!"              -> ""
func Slugify(name string) string {
	s, _ := normalize(name)
	return s
}

// normalize folds name to ASCII and maps separators, then lets go-slug do the
// lowercasing, stripping and dash collapsing.
func normalize(name string) (string, error) {
	s := transliterations.Replace(name)

	// Decompose accented characters, then drop everything non-ASCII.
	s = norm.NFKD.String(s)
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	s = separatorRe.ReplaceAllString(s, "-")
	out, err := goslug.Normalize(s)
	if errors.Is(err, goslug.ErrEmptySlug) {
		return "", ErrInvalidSlugSource
	}
	return out, err
}

// ExistsFunc reports whether a slug is already taken in storage.
type ExistsFunc func(ctx context.Context, candidate string) (bool, error)

// Generate returns the base slug for name if it is free, otherwise the first
// free "base-N" for N = 1, 2, .... Each candidate is checked with exists
// individually; nothing is reserved, so callers must still rely on a unique
// index at insert time.
func Generate(ctx context.Context, name string, exists ExistsFunc) (string, error) {
	base, err := normalize(name)
	if err != nil {
		return "", fmt.Errorf("%w: %q", err, name)
	}

	candidate := base
	for n := 1; n <= maxAttempts; n++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(n)
	}
	return "", fmt.Errorf("no free slug for %q after %d attempts", base, maxAttempts)
}

// Validate checks a slug supplied directly, e.g. by an admin edit. It must be
// non-empty and already in go-slug's normalised form.
func Validate(s string) error {
	normalized, err := goslug.Normalize(s)
	if err != nil || normalized != s {
		return fmt.Errorf("%w: %q", ErrInvalidSlug, s)
	}
	return nil
}
