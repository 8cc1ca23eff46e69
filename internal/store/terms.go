package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

// TermParams identifies a taxonomy term. Terms are unique per
// (taxonomy, slug) pair, never per slug alone.
type TermParams struct {
	Taxonomy string
	Slug     string
	Name     string
	ParentID pgtype.UUID
}

const upsertTerm = `
INSERT INTO terms (taxonomy, slug, name, parent_id)
VALUES ($1, $2, $3, $4)
ON CONFLICT (taxonomy, slug) DO UPDATE SET
    name      = EXCLUDED.name,
    parent_id = COALESCE(EXCLUDED.parent_id, terms.parent_id)
RETURNING id
`

// UpsertTerm creates or refreshes a term and returns its id. An upsert that
// carries no parent keeps a previously recorded one.
func (q *Queries) UpsertTerm(ctx context.Context, p TermParams) (pgtype.UUID, error) {
	var id pgtype.UUID
	err := q.db.QueryRow(ctx, upsertTerm, p.Taxonomy, p.Slug, p.Name, p.ParentID).Scan(&id)
	return id, err
}

const getTermID = `
SELECT id FROM terms WHERE taxonomy = $1 AND slug = $2
`

// GetTermID looks up a term id by (taxonomy, slug).
func (q *Queries) GetTermID(ctx context.Context, taxonomy, slug string) (pgtype.UUID, error) {
	var id pgtype.UUID
	err := q.db.QueryRow(ctx, getTermID, taxonomy, slug).Scan(&id)
	return id, err
}

const clearPostTerms = `
DELETE FROM post_terms WHERE post_id = $1
`

// ClearPostTerms removes every term link for a post, so a re-import
// replaces the link set instead of accumulating.
func (q *Queries) ClearPostTerms(ctx context.Context, postID pgtype.UUID) error {
	_, err := q.db.Exec(ctx, clearPostTerms, postID)
	return err
}

const linkPostTerm = `
INSERT INTO post_terms (post_id, term_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING
`

// LinkPostTerm attaches a term to a post.
func (q *Queries) LinkPostTerm(ctx context.Context, postID, termID pgtype.UUID) error {
	_, err := q.db.Exec(ctx, linkPostTerm, postID, termID)
	return err
}
