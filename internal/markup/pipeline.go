package markup

import (
	"github.com/contentforge/wxrimport/internal/sanitize"
)

// Pipeline runs the ordered normalization stages over post HTML. A single
// Pipeline is safe for concurrent use.
type Pipeline struct {
	sanitizer      sanitize.Sanitizer
	placeholderURL string
}

// NewPipeline builds the pipeline with the sanitizer applied last and the
// placeholder image used when embedded media cannot be imported.
func NewPipeline(s sanitize.Sanitizer, placeholderURL string) *Pipeline {
	return &Pipeline{sanitizer: s, placeholderURL: placeholderURL}
}

// NormalizeResult is the output of the pre-media normalization stages.
type NormalizeResult struct {
	// HTML is the normalized body, still holding original media URLs.
	HTML string
	// Excerpt is the text before the first <!--more--> marker, set only
	// when no explicit excerpt was supplied.
	Excerpt string
	// PageBreaks counts the <!--nextpage--> markers that were expanded.
	PageBreaks int
}

// Normalize runs the structural stages that must happen before media URLs
// are collected: block comment stripping, quicktag handling, list repair,
// code block canonicalization and embed detection. Order matters; embed
// detection in particular must see markup with comment markers removed.
func (p *Pipeline) Normalize(rawHTML string, haveExcerpt bool) NormalizeResult {
	out := StripBlockComments(rawHTML)

	out, excerpt := ExtractMoreTag(out, haveExcerpt)
	out, breaks := ExpandNextPage(out)

	out = RepairLists(out)
	out = CanonicalizeCodeBlocks(out)
	out = DetectEmbeds(out)

	return NormalizeResult{HTML: out, Excerpt: excerpt, PageBreaks: breaks}
}

// Finalize runs the post-media stages on normalized HTML: relocated URL
// substitution, the media survival policy, then sanitization. pairs is the
// old/new substitution list ordered longest-old-first; relocated answers
// whether a URL (after substitution) points at relocated storage.
func (p *Pipeline) Finalize(normalizedHTML string, pairs []string, relocated RelocatedFunc) string {
	out := RewriteURLs(normalizedHTML, pairs)
	out = ApplyMediaPolicy(out, relocated, p.placeholderURL)
	return p.sanitizer.Sanitize(out)
}
