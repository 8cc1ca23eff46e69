package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

// PostParams carries every writable post field. The same struct feeds both
// the insert and the conflict update so the two paths cannot drift.
type PostParams struct {
	ExternalID       pgtype.Text
	Slug             string
	Title            string
	HTML             string
	Excerpt          pgtype.Text
	Author           pgtype.Text
	PublishedAt      pgtype.Timestamptz
	OriginalURL      pgtype.Text
	FeaturedImageURL pgtype.Text
	FeaturedImageAlt pgtype.Text
	PageBreaks       int32

	// OverwriteMarkdown clears the hand-editable markdown source column on
	// update. Off by default so re-imports never clobber manual edits.
	OverwriteMarkdown bool
}

const insertPost = `
INSERT INTO posts (
    external_id, slug, title, html, excerpt, author, published_at,
    original_url, featured_image_url, featured_image_alt, page_breaks
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING id
`

// InsertPost creates a new post row and returns its id.
func (q *Queries) InsertPost(ctx context.Context, p PostParams) (pgtype.UUID, error) {
	var id pgtype.UUID
	err := q.db.QueryRow(ctx, insertPost,
		p.ExternalID, p.Slug, p.Title, p.HTML, p.Excerpt, p.Author,
		p.PublishedAt, p.OriginalURL, p.FeaturedImageURL, p.FeaturedImageAlt,
		p.PageBreaks,
	).Scan(&id)
	return id, err
}

const updatePostByExternalID = `
UPDATE posts SET
    slug               = $2,
    title              = $3,
    html               = $4,
    excerpt            = $5,
    author             = $6,
    published_at       = $7,
    original_url       = $8,
    featured_image_url = $9,
    featured_image_alt = $10,
    page_breaks        = $11,
    markdown_source    = CASE WHEN $12 THEN NULL ELSE markdown_source END,
    updated_at         = now()
WHERE external_id = $1
RETURNING id
`

// UpdatePostByExternalID updates the content fields of the post identified
// by external id and returns its id. The markdown source column is only
// touched when OverwriteMarkdown is set. Returns pgx.ErrNoRows (via Scan)
// when no post matches.
func (q *Queries) UpdatePostByExternalID(ctx context.Context, p PostParams) (pgtype.UUID, error) {
	var id pgtype.UUID
	err := q.db.QueryRow(ctx, updatePostByExternalID,
		p.ExternalID, p.Slug, p.Title, p.HTML, p.Excerpt, p.Author,
		p.PublishedAt, p.OriginalURL, p.FeaturedImageURL, p.FeaturedImageAlt,
		p.PageBreaks, p.OverwriteMarkdown,
	).Scan(&id)
	return id, err
}

const updatePostBySlug = `
UPDATE posts SET
    external_id        = COALESCE(external_id, $1),
    title              = $3,
    html               = $4,
    excerpt            = $5,
    author             = $6,
    published_at       = $7,
    original_url       = $8,
    featured_image_url = $9,
    featured_image_alt = $10,
    page_breaks        = $11,
    markdown_source    = CASE WHEN $12 THEN NULL ELSE markdown_source END,
    updated_at         = now()
WHERE slug = $2
RETURNING id
`

// UpdatePostBySlug is the fallback upsert target for items without an
// external id. An existing NULL external id is backfilled, never replaced.
func (q *Queries) UpdatePostBySlug(ctx context.Context, p PostParams) (pgtype.UUID, error) {
	var id pgtype.UUID
	err := q.db.QueryRow(ctx, updatePostBySlug,
		p.ExternalID, p.Slug, p.Title, p.HTML, p.Excerpt, p.Author,
		p.PublishedAt, p.OriginalURL, p.FeaturedImageURL, p.FeaturedImageAlt,
		p.PageBreaks, p.OverwriteMarkdown,
	).Scan(&id)
	return id, err
}

const slugExists = `
SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1 AND ($2::text IS NULL OR external_id IS DISTINCT FROM $2))
`

// SlugExists reports whether slug is already taken by a post other than the
// one identified by externalID. Pass an invalid Text to check against all
// posts.
func (q *Queries) SlugExists(ctx context.Context, slug string, externalID pgtype.Text) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, slugExists, slug, externalID).Scan(&exists)
	return exists, err
}
