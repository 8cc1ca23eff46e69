// Package sanitize provides the allow-list HTML sanitizer applied as the
// final normalization step, after media URLs have been rewritten.
package sanitize

import "github.com/microcosm-cc/bluemonday"

// Sanitizer cleans rendered post HTML. Implementations must be
// deterministic: the same input always yields the same output.
type Sanitizer interface {
	Sanitize(html string) string
}

// Policy is the fixed allow-list sanitizer used for imported content.
type Policy struct {
	p *bluemonday.Policy
}

// NewPolicy builds the import sanitizer: a fixed tag/attribute allow-list
// that strips scripts, styles and event-handler attributes. Anchors opened
// in a new tab get rel="noopener noreferrer".
func NewPolicy() *Policy {
	p := bluemonday.NewPolicy()

	p.AllowStandardURLs()
	p.AllowRelativeURLs(true)

	// Text structure
	p.AllowElements("p", "br", "hr", "blockquote", "figure", "figcaption",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"em", "strong", "i", "b", "u", "s", "sup", "sub", "code")
	p.AllowLists()
	p.AllowTables()

	// Page breaks produced by <!--nextpage--> expansion
	p.AllowAttrs("data-page-break").OnElements("hr")

	// Code blocks keep their detected language
	p.AllowElements("pre")
	p.AllowAttrs("data-language").OnElements("pre")

	// Links, including embed anchors tagged with a provider
	p.AllowAttrs("href", "title", "target", "data-embed-provider").OnElements("a")
	p.RequireNoReferrerOnLinks(true)

	// Media that survived the relocation policy
	p.AllowAttrs("src", "alt", "title", "width", "height", "srcset").OnElements("img")
	p.AllowAttrs("src", "poster", "controls", "width", "height").OnElements("video")
	p.AllowAttrs("src", "controls").OnElements("audio")
	p.AllowAttrs("src", "type").OnElements("source")
	p.AllowAttrs("src", "width", "height", "allowfullscreen", "frameborder").OnElements("iframe")

	return &Policy{p: p}
}

// Sanitize applies the allow-list policy.
func (s *Policy) Sanitize(html string) string {
	return s.p.Sanitize(html)
}
