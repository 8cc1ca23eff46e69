package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/contentforge/wxrimport/internal/media"
	"github.com/contentforge/wxrimport/internal/wxr"
)

func TestFeaturedImageExplicitThumbnail(t *testing.T) {
	post := &wxr.Post{ThumbnailID: "44"}
	attachments := map[int]*wxr.Attachment{
		44: {SourceID: 44, URL: "https://old.example.com/uploads/hero.jpg", Alt: "Hero shot"},
	}
	mapping := media.Mapping{
		"https://old.example.com/uploads/hero.jpg": "/uploads/ab/cd.jpg",
	}

	url, alt := FeaturedImage(post, attachments, mapping, `<p>no images</p>`)

	assert.Equal(t, "/uploads/ab/cd.jpg", url)
	assert.Equal(t, "Hero shot", alt)
}

func TestFeaturedImageThumbnailNotRelocated(t *testing.T) {
	post := &wxr.Post{ThumbnailID: "44"}
	attachments := map[int]*wxr.Attachment{
		44: {SourceID: 44, URL: "https://old.example.com/uploads/hero.jpg", Title: "Hero"},
	}

	url, alt := FeaturedImage(post, attachments, media.Mapping{}, "")

	assert.Equal(t, "https://old.example.com/uploads/hero.jpg", url)
	assert.Equal(t, "Hero", alt, "title fills in for a missing alt")
}

func TestFeaturedImageContentFallback(t *testing.T) {
	post := &wxr.Post{}
	html := `<p>Intro</p><img src="/uploads/11/22.jpg" alt="First"><img src="/uploads/33/44.jpg" alt="Second">`

	url, alt := FeaturedImage(post, nil, media.Mapping{}, html)

	assert.Equal(t, "/uploads/11/22.jpg", url)
	assert.Equal(t, "First", alt)
}

func TestFeaturedImageUnknownThumbnailFallsBack(t *testing.T) {
	post := &wxr.Post{ThumbnailID: "999"}
	html := `<img src="/uploads/11/22.jpg" alt="Only">`

	url, alt := FeaturedImage(post, map[int]*wxr.Attachment{}, media.Mapping{}, html)

	assert.Equal(t, "/uploads/11/22.jpg", url)
	assert.Equal(t, "Only", alt)
}

func TestFeaturedImageNone(t *testing.T) {
	url, alt := FeaturedImage(&wxr.Post{}, nil, media.Mapping{}, "<p>text only</p>")

	assert.Empty(t, url)
	assert.Empty(t, alt)
}
