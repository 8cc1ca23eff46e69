package wxr

import "time"

// Entry is the classified form of a WXR <item>: either a *Post or an
// *Attachment. The interface is sealed so a type switch over its variants
// is exhaustive.
type Entry interface {
	ExternalID() string
	isEntry()
}

// Term is a taxonomy term assignment carried by a post. Taxonomy is
// "category" or "post_tag". ParentSlug is non-empty only for hierarchical
// categories whose parent is known from the channel-level definitions.
type Term struct {
	Taxonomy   string
	Name       string
	Slug       string
	ParentSlug string
}

// Moderation is the tri-state moderation status of a comment.
type Moderation string

const (
	ModerationApproved Moderation = "approved"
	ModerationPending  Moderation = "pending"
	ModerationSpam     Moderation = "spam"
)

// Comment is a reader comment on a post. ID and ParentID are source-local
// identifiers; they are only meaningful for reconstructing the thread
// within one import.
type Comment struct {
	ID          int
	Author      string
	AuthorEmail string
	Content     string
	Date        *time.Time
	Approved    Moderation
	ParentID    int // 0 means root
}

// Post is an importable article. GUID is the cross-run idempotency key.
type Post struct {
	GUID        string
	SourceID    int // wp:post_id, referenced by attachment parents and _thumbnail_id
	Title       string
	Slug        string // explicit wp:post_name, may be empty
	HTML        string
	Excerpt     string // explicit excerpt, may be empty
	Author      string
	PublishedAt *time.Time // nil for non-dated statuses
	OriginalURL string
	Categories  []Term
	Tags        []Term
	ThumbnailID string // attachment source ID from _thumbnail_id meta, may be empty
	Comments    []Comment
}

func (p *Post) ExternalID() string { return p.GUID }
func (p *Post) isEntry()           {}

// Attachment is an importable media item.
type Attachment struct {
	GUID     string
	SourceID int
	Title    string
	URL      string
	Alt      string
	ParentID int // source ID of the owning post, 0 if none
}

func (a *Attachment) ExternalID() string { return a.GUID }
func (a *Attachment) isEntry()           {}
