package wxr

import (
	"log/slog"
	"strings"
	"time"
)

// ClassifyResult carries the classified entries in document order plus the
// count of items that were skipped rather than errored.
type ClassifyResult struct {
	Entries []Entry
	Skipped int
}

// Classify walks the document's items in order and produces typed entries.
//
// Items are skipped (counted, never errored) when they lack a GUID, when
// their post_type is not post/attachment, or when their status is outside
// the allowed set. Attachments carry status "inherit", which is always
// allowed. Document order is preserved; slug collision numbering depends
// on it.
func Classify(doc *Document, allowedStatuses []string) ClassifyResult {
	allowed := make(map[string]bool, len(allowedStatuses))
	for _, s := range allowedStatuses {
		allowed[strings.ToLower(strings.TrimSpace(s))] = true
	}

	// Channel-level category definitions provide hierarchy and display
	// names by nicename.
	parentBySlug := make(map[string]string, len(doc.Channel.Categories))
	nameBySlug := make(map[string]string, len(doc.Channel.Categories))
	for _, def := range doc.Channel.Categories {
		if def.Slug != "" {
			parentBySlug[def.Slug] = def.Parent
			nameBySlug[def.Slug] = def.Name
		}
	}

	// The channel author table maps dc:creator logins to display names.
	displayName := make(map[string]string, len(doc.Channel.Authors))
	for _, a := range doc.Channel.Authors {
		if a.Login != "" {
			displayName[a.Login] = a.DisplayName
		}
	}

	var res ClassifyResult
	for i := range doc.Channel.Items {
		item := &doc.Channel.Items[i]

		if strings.TrimSpace(item.GUID) == "" {
			// The GUID is the idempotency anchor; synthesizing one would
			// not be stable across repeated imports.
			slog.Debug("skipping item without GUID", "title", item.Title)
			res.Skipped++
			continue
		}

		switch item.PostType {
		case "post":
			if !allowed[strings.ToLower(item.Status)] {
				res.Skipped++
				continue
			}
			res.Entries = append(res.Entries, buildPost(item, parentBySlug, nameBySlug, displayName))

		case "attachment":
			if item.Status != "inherit" && !allowed[strings.ToLower(item.Status)] {
				res.Skipped++
				continue
			}
			res.Entries = append(res.Entries, buildAttachment(item))

		default:
			res.Skipped++
		}
	}

	return res
}

func buildPost(item *Item, parentBySlug, nameBySlug, displayName map[string]string) *Post {
	author := item.Creator
	if dn := displayName[item.Creator]; dn != "" {
		author = dn
	}

	p := &Post{
		GUID:        strings.TrimSpace(item.GUID),
		SourceID:    item.PostID,
		Title:       item.Title,
		Slug:        item.PostName,
		HTML:        item.Content,
		Excerpt:     item.Excerpt,
		Author:      author,
		PublishedAt: parseWPTime(item.PostDateGMT),
		OriginalURL: item.Link,
		ThumbnailID: item.metaValue("_thumbnail_id"),
	}

	for _, cat := range item.Categories {
		term := Term{
			Name: strings.TrimSpace(cat.Name),
			Slug: cat.Slug,
		}
		switch cat.Domain {
		case "category":
			term.Taxonomy = "category"
			term.ParentSlug = parentBySlug[cat.Slug]
			if term.Name == "" {
				term.Name = nameBySlug[cat.Slug]
			}
			p.Categories = append(p.Categories, term)
		case "post_tag":
			term.Taxonomy = "post_tag"
			p.Tags = append(p.Tags, term)
		}
	}

	for _, c := range item.Comments {
		// Pingbacks and trackbacks are link notifications, not reader
		// comments; they are not imported.
		if c.Type == "pingback" || c.Type == "trackback" {
			continue
		}
		p.Comments = append(p.Comments, Comment{
			ID:          c.ID,
			Author:      c.Author,
			AuthorEmail: c.AuthorEmail,
			Content:     c.Content,
			Date:        parseWPTime(c.DateGMT),
			Approved:    parseModeration(c.Approved),
			ParentID:    c.Parent,
		})
	}

	return p
}

func buildAttachment(item *Item) *Attachment {
	url := item.AttachmentURL
	if url == "" {
		// Old exports put the file URL in the GUID.
		url = strings.TrimSpace(item.GUID)
	}
	return &Attachment{
		GUID:     strings.TrimSpace(item.GUID),
		SourceID: item.PostID,
		Title:    item.Title,
		URL:      url,
		Alt:      item.metaValue("_wp_attachment_image_alt"),
		ParentID: item.PostParent,
	}
}

// parseModeration maps the WXR comment_approved value onto the tri-state
// moderation status without promotion or demotion.
func parseModeration(approved string) Moderation {
	switch approved {
	case "1":
		return ModerationApproved
	case "spam", "trash":
		return ModerationSpam
	default:
		return ModerationPending
	}
}

// wpTimeLayout is the timestamp format used throughout WXR exports.
const wpTimeLayout = "2006-01-02 15:04:05"

// parseWPTime parses a WordPress GMT timestamp. Drafts and other non-dated
// statuses export the all-zero sentinel, which maps to nil.
func parseWPTime(val string) *time.Time {
	if val == "" || val == "0000-00-00 00:00:00" {
		return nil
	}
	t, err := time.Parse(wpTimeLayout, val)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}
