package media

import (
	"reflect"
	"testing"
)

func TestScan(t *testing.T) {
	tests := []struct {
		name string
		html string
		want []string
	}{
		{
			name: "img src",
			html: `<p><img src="https://ex.com/a.png" alt=""></p>`,
			want: []string{"https://ex.com/a.png"},
		},
		{
			name: "img srcset candidates",
			html: `<img src="https://ex.com/a.png" srcset="https://ex.com/a-300x150.png 300w, https://ex.com/a-600x300.png 600w">`,
			want: []string{
				"https://ex.com/a.png",
				"https://ex.com/a-300x150.png",
				"https://ex.com/a-600x300.png",
			},
		},
		{
			name: "video with sources and poster",
			html: `<video src="https://ex.com/v.mp4" poster="https://ex.com/p.jpg"><source src="https://ex.com/v.webm" type="video/webm"></video>`,
			want: []string{
				"https://ex.com/v.mp4",
				"https://ex.com/p.jpg",
				"https://ex.com/v.webm",
			},
		},
		{
			name: "audio",
			html: `<audio src="https://ex.com/clip.mp3"></audio>`,
			want: []string{"https://ex.com/clip.mp3"},
		},
		{
			name: "document link",
			html: `<a href="https://ex.com/report.pdf">report</a>`,
			want: []string{"https://ex.com/report.pdf"},
		},
		{
			name: "plain link ignored",
			html: `<a href="https://ex.com/about">about</a>`,
			want: nil,
		},
		{
			name: "data URI ignored",
			html: `<img src="data:image/png;base64,AAAA">`,
			want: nil,
		},
		{
			name: "nested content",
			html: `<blockquote><figure><img src="/uploads/q.jpg"></figure></blockquote>`,
			want: []string{"/uploads/q.jpg"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Scan(tt.html); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Scan() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRewritePairsLongestFirst(t *testing.T) {
	m := Mapping{
		"https://ex.com/a.png":          "https://cdn/x.png",
		"https://ex.com/a.png?large=1":  "https://cdn/y.png",
		"https://ex.com/b.png":          "https://cdn/z.png",
	}

	pairs := m.RewritePairs()
	if len(pairs) != 6 {
		t.Fatalf("got %d pair entries, want 6", len(pairs))
	}
	// The longer URL (the one with a query string) must come first so the
	// shorter prefix never corrupts it.
	if pairs[0] != "https://ex.com/a.png?large=1" {
		t.Errorf("pairs[0] = %q, want the longest key first", pairs[0])
	}
}
