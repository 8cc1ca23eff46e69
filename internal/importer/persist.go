package importer

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/contentforge/wxrimport/internal/logging"
	"github.com/contentforge/wxrimport/internal/slug"
	"github.com/contentforge/wxrimport/internal/store"
	"github.com/contentforge/wxrimport/internal/wxr"
)

// preparedPost is a post with every derived value resolved, ready to write.
type preparedPost struct {
	post       *wxr.Post
	slug       string
	html       string
	excerpt    string
	pageBreaks int

	featuredURL string
	featuredAlt string

	fromPath     string
	toPath       string
	wantRedirect bool

	comments []ThreadedComment

	overwriteMarkdown bool
}

// persist writes one post and everything attached to it inside a single
// transaction. A failure rolls the whole item back and isolates to it.
func (s *Service) persist(ctx context.Context, p preparedPost) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	q := store.New(tx)

	postID, err := upsertPost(ctx, q, p)
	if err != nil {
		return fmt.Errorf("upsert post: %w", err)
	}

	if err := persistTerms(ctx, q, postID, p.post); err != nil {
		return fmt.Errorf("persist terms: %w", err)
	}

	if err := persistComments(ctx, q, postID, p.comments); err != nil {
		return fmt.Errorf("persist comments: %w", err)
	}

	if p.wantRedirect {
		if err := q.UpsertRedirect(ctx, p.fromPath, p.toPath, redirectStatus); err != nil {
			return fmt.Errorf("upsert redirect: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}
	logging.FromContext(ctx).Debug("post persisted",
		"post_id", store.PgUUIDToString(postID), "slug", p.slug)
	return nil
}

// upsertPost applies the update-then-insert pattern: try the update keyed by
// external id (or slug for items without one); on no match insert; if the
// insert loses a unique-constraint race, the row exists now, so update once
// more.
func upsertPost(ctx context.Context, q *store.Queries, p preparedPost) (pgtype.UUID, error) {
	params := store.PostParams{
		ExternalID:        store.ToPgText(p.post.GUID),
		Slug:              p.slug,
		Title:             p.post.Title,
		HTML:              p.html,
		Excerpt:           store.ToPgText(p.excerpt),
		Author:            store.ToPgText(p.post.Author),
		PublishedAt:       store.ToPgTimestamptz(p.post.PublishedAt),
		OriginalURL:       store.ToPgText(p.post.OriginalURL),
		FeaturedImageURL:  store.ToPgText(p.featuredURL),
		FeaturedImageAlt:  store.ToPgText(p.featuredAlt),
		PageBreaks:        int32(p.pageBreaks),
		OverwriteMarkdown: p.overwriteMarkdown,
	}

	update := func() (pgtype.UUID, error) {
		if params.ExternalID.Valid {
			return q.UpdatePostByExternalID(ctx, params)
		}
		return q.UpdatePostBySlug(ctx, params)
	}

	id, err := update()
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return id, err
	}

	id, err = q.InsertPost(ctx, params)
	if err == nil {
		return id, nil
	}
	if store.IsUniqueViolation(err) {
		return update()
	}
	return id, err
}

// persistTerms replaces the post's term links. Terms are upserted per
// (taxonomy, slug); a declared parent that cannot be resolved leaves the
// term as a root.
func persistTerms(ctx context.Context, q *store.Queries, postID pgtype.UUID, p *wxr.Post) error {
	if err := q.ClearPostTerms(ctx, postID); err != nil {
		return err
	}

	terms := make([]wxr.Term, 0, len(p.Categories)+len(p.Tags))
	terms = append(terms, p.Categories...)
	terms = append(terms, p.Tags...)

	for _, t := range terms {
		termSlug := slug.Make(t.Slug)
		if termSlug == "" {
			termSlug = slug.Make(t.Name)
		}
		if termSlug == "" {
			continue
		}

		parent := pgtype.UUID{}
		if t.ParentSlug != "" {
			id, err := q.GetTermID(ctx, t.Taxonomy, t.ParentSlug)
			switch {
			case err == nil:
				parent = id
			case errors.Is(err, pgx.ErrNoRows):
				// Parent never imported: the term becomes a root.
			default:
				return err
			}
		}

		termID, err := q.UpsertTerm(ctx, store.TermParams{
			Taxonomy: t.Taxonomy,
			Slug:     termSlug,
			Name:     t.Name,
			ParentID: parent,
		})
		if err != nil {
			return err
		}
		if err := q.LinkPostTerm(ctx, postID, termID); err != nil {
			return err
		}
	}
	return nil
}

// persistComments rebuilds the post's comment thread from the import.
func persistComments(ctx context.Context, q *store.Queries, postID pgtype.UUID, comments []ThreadedComment) error {
	if err := q.ClearPostComments(ctx, postID); err != nil {
		return err
	}

	for _, c := range comments {
		err := q.InsertComment(ctx, store.CommentParams{
			PostID:      postID,
			SourceID:    strconv.Itoa(c.ID),
			Author:      store.ToPgText(c.Author),
			AuthorEmail: store.ToPgText(c.AuthorEmail),
			Content:     c.Content,
			PublishedAt: store.ToPgTimestamptz(c.Date),
			Status:      string(c.Approved),
			Path:        c.Path,
			Depth:       int32(c.Depth),
		})
		if err != nil {
			return err
		}
	}
	return nil
}
