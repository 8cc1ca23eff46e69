// Package wxr parses WordPress eXtended RSS (WXR) export documents and
// classifies their items for import.
package wxr

// XML mapping structs for the WXR dialect. Element selectors are qualified
// with the full namespace URL; Parse normalizes older export namespaces
// (1.0, 1.1) to 1.2 before decoding so one set of selectors covers all
// format versions.

const (
	nsWP      = "http://wordpress.org/export/1.2/"
	nsExcerpt = "http://wordpress.org/export/1.2/excerpt/"
	nsContent = "http://purl.org/rss/1.0/modules/content/"
	nsDC      = "http://purl.org/dc/elements/1.1/"
)

// Document is the root of a parsed WXR file.
type Document struct {
	Channel Channel `xml:"channel"`
}

// Channel carries site-level metadata and the exported items.
type Channel struct {
	Title       string        `xml:"title"`
	Link        string        `xml:"link"`
	BaseBlogURL string        `xml:"http://wordpress.org/export/1.2/ base_blog_url"`
	WXRVersion  string        `xml:"http://wordpress.org/export/1.2/ wxr_version"`
	Authors     []Author      `xml:"http://wordpress.org/export/1.2/ wp_author"`
	Categories  []TermDef     `xml:"http://wordpress.org/export/1.2/ category"`
	Items       []Item        `xml:"item"`
}

// Author is a site user referenced by items via dc:creator login. Classify
// resolves the login to the display name.
type Author struct {
	Login       string `xml:"author_login"`
	Email       string `xml:"author_email"`
	DisplayName string `xml:"author_display_name"`
}

// TermDef is a channel-level category definition. It carries the parent
// nicename for hierarchy and the display name used when an item-level
// assignment omits one.
type TermDef struct {
	TermID int    `xml:"term_id"`
	Slug   string `xml:"category_nicename"`
	Parent string `xml:"category_parent"`
	Name   string `xml:"cat_name"`
}

// Item is one exported <item>: a post, page, attachment or custom type.
type Item struct {
	Title         string         `xml:"title"`
	Link          string         `xml:"link"`
	GUID          string         `xml:"guid"`
	Creator       string         `xml:"http://purl.org/dc/elements/1.1/ creator"`
	Content       string         `xml:"http://purl.org/rss/1.0/modules/content/ encoded"`
	Excerpt       string         `xml:"http://wordpress.org/export/1.2/excerpt/ encoded"`
	PostID        int            `xml:"http://wordpress.org/export/1.2/ post_id"`
	PostDateGMT   string         `xml:"http://wordpress.org/export/1.2/ post_date_gmt"`
	PostName      string         `xml:"http://wordpress.org/export/1.2/ post_name"`
	PostType      string         `xml:"http://wordpress.org/export/1.2/ post_type"`
	PostParent    int            `xml:"http://wordpress.org/export/1.2/ post_parent"`
	Status        string         `xml:"http://wordpress.org/export/1.2/ status"`
	AttachmentURL string         `xml:"http://wordpress.org/export/1.2/ attachment_url"`
	Categories    []ItemCategory `xml:"category"`
	Comments      []ItemComment  `xml:"http://wordpress.org/export/1.2/ comment"`
	Meta          []PostMeta     `xml:"http://wordpress.org/export/1.2/ postmeta"`
}

// ItemCategory is an item-level taxonomy assignment. Domain distinguishes
// categories ("category") from tags ("post_tag").
type ItemCategory struct {
	Domain string `xml:"domain,attr"`
	Slug   string `xml:"nicename,attr"`
	Name   string `xml:",chardata"`
}

// ItemComment is a comment attached to an item.
type ItemComment struct {
	ID          int    `xml:"comment_id"`
	Author      string `xml:"comment_author"`
	AuthorEmail string `xml:"comment_author_email"`
	DateGMT     string `xml:"comment_date_gmt"`
	Content     string `xml:"comment_content"`
	Approved    string `xml:"comment_approved"`
	Type        string `xml:"comment_type"`
	Parent      int    `xml:"comment_parent"`
}

// PostMeta is a key/value metadata row attached to an item.
type PostMeta struct {
	Key   string `xml:"meta_key"`
	Value string `xml:"meta_value"`
}

// metaValue returns the first meta value for key, or "".
func (it *Item) metaValue(key string) string {
	for _, m := range it.Meta {
		if m.Key == key {
			return m.Value
		}
	}
	return ""
}
