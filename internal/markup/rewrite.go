package markup

import "strings"

// RewriteURLs substitutes every old media URL in the HTML with its relocated
// counterpart. Pairs must already be ordered longest-old-URL-first so a
// dimensioned variant like photo-300x200.jpg is never clobbered by its
// shorter canonical prefix. Substitution is literal, so URLs inside
// attributes, srcset lists, and text all get rewritten the same way.
func RewriteURLs(rawHTML string, pairs []string) string {
	if len(pairs) == 0 {
		return rawHTML
	}
	return strings.NewReplacer(pairs...).Replace(rawHTML)
}
