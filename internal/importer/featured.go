package importer

import (
	"strconv"

	"github.com/contentforge/wxrimport/internal/markup"
	"github.com/contentforge/wxrimport/internal/media"
	"github.com/contentforge/wxrimport/internal/wxr"
)

// FeaturedImage resolves a post's featured image. An explicit thumbnail
// attachment reference wins, resolved through the media mapping to its
// relocated URL. Without one, the first <img> in the finalized content is
// used as the implied featured image.
func FeaturedImage(post *wxr.Post, attachments map[int]*wxr.Attachment, mapping media.Mapping, finalHTML string) (url, alt string) {
	if post.ThumbnailID != "" {
		if id, err := strconv.Atoi(post.ThumbnailID); err == nil {
			if att, ok := attachments[id]; ok && att.URL != "" {
				url = att.URL
				if relocated, ok := mapping[att.URL]; ok {
					url = relocated
				}
				alt = att.Alt
				if alt == "" {
					alt = att.Title
				}
				return url, alt
			}
		}
	}

	return markup.FirstImage(finalHTML)
}
