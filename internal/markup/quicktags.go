package markup

import (
	"regexp"
	"strings"
)

// gutenbergRe matches Gutenberg block comment markers, opening and closing,
// including their serialized JSON attributes.
var gutenbergRe = regexp.MustCompile(`(?s)<!--\s*/?wp:.*?-->\n?`)

// StripBlockComments removes Gutenberg <!-- wp:* --> markers while keeping
// the wrapped markup verbatim.
func StripBlockComments(rawHTML string) string {
	return gutenbergRe.ReplaceAllString(rawHTML, "")
}

// moreRe matches the <!--more--> quicktag, with or without custom link text.
var moreRe = regexp.MustCompile(`<!--more(?:\s[^>]*)?-->`)

// ExtractMoreTag handles the first <!--more--> marker. When no explicit
// excerpt was supplied, everything before the marker becomes the derived
// excerpt and is removed from the body. Only the first occurrence is
// special: any later marker stays in the body untouched.
func ExtractMoreTag(rawHTML string, haveExcerpt bool) (body, excerpt string) {
	loc := moreRe.FindStringIndex(rawHTML)
	if loc == nil {
		return rawHTML, ""
	}

	before := rawHTML[:loc[0]]
	after := rawHTML[loc[1]:]

	if haveExcerpt {
		// Explicit excerpt wins; just drop the marker.
		return strings.TrimSpace(before + after), ""
	}
	return strings.TrimSpace(after), strings.TrimSpace(before)
}

const nextPageMarker = "<!--nextpage-->"

// pageBreakHTML is the element every <!--nextpage--> marker expands to.
const pageBreakHTML = `<hr data-page-break="true">`

// ExpandNextPage replaces every <!--nextpage--> marker with a page-break
// element and returns the number of markers replaced.
func ExpandNextPage(rawHTML string) (string, int) {
	n := strings.Count(rawHTML, nextPageMarker)
	if n == 0 {
		return rawHTML, 0
	}
	return strings.ReplaceAll(rawHTML, nextPageMarker, pageBreakHTML), n
}
