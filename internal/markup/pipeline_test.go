package markup

import (
	"strings"
	"testing"

	"github.com/contentforge/wxrimport/internal/sanitize"
)

func newTestPipeline() *Pipeline {
	return NewPipeline(sanitize.NewPolicy(), placeholder)
}

func TestPipelineNormalize(t *testing.T) {
	raw := "<!-- wp:paragraph -->\n<p>Teaser.</p>\n<!-- /wp:paragraph -->\n" +
		"<!--more-->\n" +
		"<p><ul><li><p>Point</p></li></ul></p>\n" +
		"<!--nextpage-->\n" +
		"https://youtu.be/abc123"

	res := newTestPipeline().Normalize(raw, false)

	if res.Excerpt != "<p>Teaser.</p>" {
		t.Errorf("Excerpt = %q", res.Excerpt)
	}
	if strings.Contains(res.HTML, "Teaser") {
		t.Errorf("excerpt text left in body: %q", res.HTML)
	}
	if res.PageBreaks != 1 {
		t.Errorf("PageBreaks = %d, want 1", res.PageBreaks)
	}
	// RepairLists re-renders the tree, so the void element carries the
	// self-closing serialization.
	if !strings.Contains(res.HTML, `<hr data-page-break="true"/>`) {
		t.Errorf("page break missing: %q", res.HTML)
	}
	if !strings.Contains(res.HTML, "<ul><li>Point</li></ul>") {
		t.Errorf("list not repaired: %q", res.HTML)
	}
	if !strings.Contains(res.HTML, `data-embed-provider="youtube"`) {
		t.Errorf("embed not detected: %q", res.HTML)
	}
}

func TestPipelineFinalize(t *testing.T) {
	normalized := `<p onclick="steal()">Text</p>` +
		`<img src="https://old.example.com/uploads/pic.jpg" alt="pic">` +
		`<script>alert(1)</script>` +
		`<video src="https://old.example.com/uploads/clip.mp4"></video>`

	pairs := []string{
		"https://old.example.com/uploads/pic.jpg", "/uploads/11/22.jpg",
		"https://old.example.com/uploads/clip.mp4", "/uploads/33/44.mp4",
	}
	relocated := relocatedSet("/uploads/11/22.jpg", "/uploads/33/44.mp4")

	got := newTestPipeline().Finalize(normalized, pairs, relocated)

	if strings.Contains(got, "old.example.com") {
		t.Errorf("old URL survived rewrite: %q", got)
	}
	if !strings.Contains(got, `src="/uploads/11/22.jpg"`) {
		t.Errorf("image URL not rewritten: %q", got)
	}
	if !strings.Contains(got, `src="/uploads/33/44.mp4"`) {
		t.Errorf("relocated video should survive: %q", got)
	}
	if strings.Contains(got, "script") || strings.Contains(got, "onclick") {
		t.Errorf("sanitizer missed unsafe markup: %q", got)
	}
}

func TestPipelineFinalizeUnresolvedVideo(t *testing.T) {
	normalized := `<video src="https://old.example.com/uploads/clip.mp4"></video>`

	// No mapping for the clip, so no pairs and nothing relocated.
	got := newTestPipeline().Finalize(normalized, nil, relocatedSet())

	if strings.Contains(got, "<video") {
		t.Errorf("unresolved video survived: %q", got)
	}
	if !strings.Contains(got, placeholder) {
		t.Errorf("placeholder missing: %q", got)
	}
}
