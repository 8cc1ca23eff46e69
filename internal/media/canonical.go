// Package media discovers media references in post HTML and relocates them
// into object storage, producing an old-to-new URL mapping.
package media

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

// dimensionRe matches WordPress resized-image filenames: name-300x169.ext.
var dimensionRe = regexp.MustCompile(`^(.+)-\d+x\d+(\.[A-Za-z0-9]+)$`)

// CanonicalURL strips a trailing -{width}x{height} segment from the URL's
// filename, so every resized variant of an image collapses to the original
// asset. URLs without a dimension suffix are returned unchanged.
func CanonicalURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	dir, file := path.Split(u.Path)
	m := dimensionRe.FindStringSubmatch(file)
	if m == nil {
		return raw
	}

	u.Path = dir + m[1] + m[2]
	return u.String()
}

// Ext returns the lower-cased file extension of the URL path, including the
// leading dot, or "" when the path has none.
func Ext(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return strings.ToLower(path.Ext(raw))
	}
	return strings.ToLower(path.Ext(u.Path))
}
