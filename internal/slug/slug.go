// Package slug derives URL slugs and resolves collisions deterministically.
package slug

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD, drops combining marks, and recomposes, so
// "Café" slugs to "cafe" rather than losing the rune.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Make normalizes s into a slug: Unicode accents folded, lower-cased,
// non-alphanumeric runs collapsed to single hyphens.
func Make(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}

// ExistsFunc reports whether a slug is already taken in the persistent
// store. It is consulted in addition to slugs seen during the current run.
type ExistsFunc func(ctx context.Context, slug string) (bool, error)

// Resolver assigns unique slugs in document order. The first occurrence of
// a slug keeps it; later collisions get -1, -2, ... suffixes, checked
// against both in-run assignments and persisted slugs.
type Resolver struct {
	seen   map[string]bool
	exists ExistsFunc
}

// NewResolver returns a Resolver. exists may be nil, in which case only
// in-run collisions are considered (dry runs against an empty store).
func NewResolver(exists ExistsFunc) *Resolver {
	return &Resolver{
		seen:   make(map[string]bool),
		exists: exists,
	}
}

// Unique returns base if free, otherwise the first base-N suffix that is
// free against this run and the persistent store. base must already be
// normalized; empty bases become "untitled".
func (r *Resolver) Unique(ctx context.Context, base string) (string, error) {
	if base == "" {
		base = "untitled"
	}

	candidate := base
	for n := 1; ; n++ {
		taken := r.seen[candidate]
		if !taken && r.exists != nil {
			persisted, err := r.exists(ctx, candidate)
			if err != nil {
				return "", fmt.Errorf("check slug %q: %w", candidate, err)
			}
			taken = persisted
		}
		if !taken {
			r.seen[candidate] = true
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}

// ForPost picks the slug source: the explicit WordPress slug when present,
// else the title, both normalized.
func ForPost(explicit, title string) string {
	if s := Make(explicit); s != "" {
		return s
	}
	return Make(title)
}
