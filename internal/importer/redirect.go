package importer

import (
	"net/url"
	"strings"
)

// redirectStatus is the HTTP status recorded for legacy-URL redirects.
const redirectStatus = 301

// DeriveRedirect derives the legacy-URL redirect for a post: the path of
// its original permalink pointing at the new /slug path. ok is false when
// no redirect should be recorded, either because the original URL is
// missing or unusable or because source and target paths are identical.
func DeriveRedirect(originalURL, slug string) (fromPath, toPath string, ok bool) {
	if originalURL == "" || slug == "" {
		return "", "", false
	}

	u, err := url.Parse(originalURL)
	if err != nil {
		return "", "", false
	}

	fromPath = u.EscapedPath()
	if fromPath == "" || fromPath == "/" {
		return "", "", false
	}
	if !strings.HasPrefix(fromPath, "/") {
		fromPath = "/" + fromPath
	}
	// Trailing-slash variants of the same path collapse to one record.
	fromPath = strings.TrimSuffix(fromPath, "/")

	toPath = "/" + slug
	if fromPath == toPath {
		return "", "", false
	}
	return fromPath, toPath, true
}
