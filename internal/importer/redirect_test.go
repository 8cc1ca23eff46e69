package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveRedirect(t *testing.T) {
	tests := []struct {
		name     string
		original string
		slug     string
		wantFrom string
		wantTo   string
		wantOK   bool
	}{
		{
			name:     "dated permalink",
			original: "https://old.example.com/2019/06/my-post/",
			slug:     "my-post",
			wantFrom: "/2019/06/my-post",
			wantTo:   "/my-post",
			wantOK:   true,
		},
		{
			name:     "suppressed when paths match",
			original: "https://old.example.com/my-post",
			slug:     "my-post",
			wantOK:   false,
		},
		{
			name:     "suppressed when trailing slash is the only difference",
			original: "https://old.example.com/my-post/",
			slug:     "my-post",
			wantOK:   false,
		},
		{
			name:     "query-style permalink has no usable path",
			original: "https://old.example.com/?p=42",
			slug:     "my-post",
			wantOK:   false,
		},
		{
			name:     "missing original url",
			original: "",
			slug:     "my-post",
			wantOK:   false,
		},
		{
			name:     "missing slug",
			original: "https://old.example.com/2019/06/my-post/",
			slug:     "",
			wantOK:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, ok := DeriveRedirect(tt.original, tt.slug)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantFrom, from)
				assert.Equal(t, tt.wantTo, to)
			}
		})
	}
}
