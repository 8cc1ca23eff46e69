package markup

import "testing"

func TestRewriteURLsLongestMatchFirst(t *testing.T) {
	// Pairs arrive longest-old-first, so the dimensioned variant must be
	// rewritten as a whole rather than having its canonical prefix replaced.
	pairs := []string{
		"https://old.example.com/wp-content/uploads/photo-300x200.jpg", "/uploads/aa/bb.jpg",
		"https://old.example.com/wp-content/uploads/photo.jpg", "/uploads/aa/bb.jpg",
	}
	input := `<img src="https://old.example.com/wp-content/uploads/photo-300x200.jpg" ` +
		`srcset="https://old.example.com/wp-content/uploads/photo.jpg 1024w">`
	want := `<img src="/uploads/aa/bb.jpg" srcset="/uploads/aa/bb.jpg 1024w">`

	if got := RewriteURLs(input, pairs); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRewriteURLsNoPairs(t *testing.T) {
	input := `<img src="https://old.example.com/a.jpg">`
	if got := RewriteURLs(input, nil); got != input {
		t.Errorf("got %q, want passthrough", got)
	}
}
