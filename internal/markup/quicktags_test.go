package markup

import (
	"strings"
	"testing"
)

func TestStripBlockComments(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "paragraph block",
			input: "<!-- wp:paragraph -->\n<p>Hello</p>\n<!-- /wp:paragraph -->",
			want:  "<p>Hello</p>\n",
		},
		{
			name:  "block with attributes",
			input: `<!-- wp:image {"id":42,"sizeSlug":"large"} --><figure><img src="a.jpg"></figure><!-- /wp:image -->`,
			want:  `<figure><img src="a.jpg"></figure>`,
		},
		{
			name:  "no markers",
			input: "<p>Plain</p>",
			want:  "<p>Plain</p>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripBlockComments(tt.input); got != tt.want {
				t.Errorf("StripBlockComments(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractMoreTagDerivesExcerpt(t *testing.T) {
	body, excerpt := ExtractMoreTag("<p>Intro.</p><!--more--><p>Rest.</p>", false)
	if excerpt != "<p>Intro.</p>" {
		t.Errorf("excerpt = %q, want %q", excerpt, "<p>Intro.</p>")
	}
	if body != "<p>Rest.</p>" {
		t.Errorf("body = %q, want %q", body, "<p>Rest.</p>")
	}
}

func TestExtractMoreTagExplicitExcerptWins(t *testing.T) {
	body, excerpt := ExtractMoreTag("<p>Intro.</p><!--more--><p>Rest.</p>", true)
	if excerpt != "" {
		t.Errorf("excerpt = %q, want empty", excerpt)
	}
	if body != "<p>Intro.</p><p>Rest.</p>" {
		t.Errorf("body = %q, want marker dropped with content intact", body)
	}
}

func TestExtractMoreTagFirstMarkerOnly(t *testing.T) {
	body, excerpt := ExtractMoreTag("<p>A</p><!--more--><p>B</p><!--more--><p>C</p>", false)
	if excerpt != "<p>A</p>" {
		t.Errorf("excerpt = %q, want %q", excerpt, "<p>A</p>")
	}
	if !strings.Contains(body, "<!--more-->") {
		t.Errorf("body = %q, want second marker preserved", body)
	}
}

func TestExtractMoreTagCustomLinkText(t *testing.T) {
	body, excerpt := ExtractMoreTag("Intro<!--more Keep reading-->Rest", false)
	if excerpt != "Intro" || body != "Rest" {
		t.Errorf("got body=%q excerpt=%q", body, excerpt)
	}
}

func TestExtractMoreTagAbsent(t *testing.T) {
	body, excerpt := ExtractMoreTag("<p>No marker here.</p>", false)
	if excerpt != "" || body != "<p>No marker here.</p>" {
		t.Errorf("got body=%q excerpt=%q, want passthrough", body, excerpt)
	}
}

func TestExpandNextPage(t *testing.T) {
	out, n := ExpandNextPage("<p>One</p><!--nextpage--><p>Two</p><!--nextpage--><p>Three</p>")
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
	if strings.Contains(out, "<!--nextpage-->") {
		t.Errorf("marker left in output: %q", out)
	}
	if strings.Count(out, `<hr data-page-break="true">`) != 2 {
		t.Errorf("expected two page-break elements, got %q", out)
	}

	out, n = ExpandNextPage("<p>Single page</p>")
	if n != 0 || out != "<p>Single page</p>" {
		t.Errorf("got %q count=%d, want passthrough", out, n)
	}
}
