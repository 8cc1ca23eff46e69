package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

// CommentParams is one imported comment with its recomputed threading.
type CommentParams struct {
	PostID      pgtype.UUID
	SourceID    string
	Author      pgtype.Text
	AuthorEmail pgtype.Text
	Content     string
	PublishedAt pgtype.Timestamptz
	Status      string
	Path        string
	Depth       int32
}

const clearPostComments = `
DELETE FROM comments WHERE post_id = $1
`

// ClearPostComments removes a post's comments ahead of re-insertion, so a
// re-import rebuilds the thread from the source of truth.
func (q *Queries) ClearPostComments(ctx context.Context, postID pgtype.UUID) error {
	_, err := q.db.Exec(ctx, clearPostComments, postID)
	return err
}

const insertComment = `
INSERT INTO comments (
    post_id, source_id, author, author_email, content,
    published_at, status, path, depth
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

// InsertComment writes one comment row.
func (q *Queries) InsertComment(ctx context.Context, p CommentParams) error {
	_, err := q.db.Exec(ctx, insertComment,
		p.PostID, p.SourceID, p.Author, p.AuthorEmail, p.Content,
		p.PublishedAt, p.Status, p.Path, p.Depth,
	)
	return err
}
