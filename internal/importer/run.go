package importer

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/contentforge/wxrimport/internal/logging"
	"github.com/contentforge/wxrimport/internal/media"
	"github.com/contentforge/wxrimport/internal/slug"
	"github.com/contentforge/wxrimport/internal/store"
	"github.com/contentforge/wxrimport/internal/wxr"
)

// postWork carries one post through the staged pipeline with its document
// position, used for error reporting and deterministic slug numbering.
type postWork struct {
	position int
	post     *wxr.Post
	html     string // normalized, pre-media
	excerpt  string
	breaks   int
}

// run executes one import job. Item processing is single-threaded and
// strictly ordered; media relocation is the only concurrent stage.
func (s *Service) run(job *Job) {
	ctx := s.baseCtx
	defer s.limiter.Release()
	if job.opts.RemoveFile {
		defer os.Remove(job.opts.FilePath)
	}

	log := logging.ForJob(ctx, job.ID.String())
	q := s.queries

	f, err := os.Open(job.opts.FilePath)
	if err != nil {
		s.fail(ctx, job, q, fmt.Errorf("open import file: %w", err))
		return
	}
	doc, err := wxr.Parse(f)
	f.Close()
	if err != nil {
		s.fail(ctx, job, q, fmt.Errorf("parse export: %w", err))
		return
	}

	classified := wxr.Classify(doc, job.opts.AllowedStatuses)
	job.start(len(classified.Entries), classified.Skipped)
	s.flush(ctx, job, q)

	var posts []postWork
	attachments := make(map[int]*wxr.Attachment)
	var attachmentList []*wxr.Attachment
	for i, entry := range classified.Entries {
		switch v := entry.(type) {
		case *wxr.Post:
			posts = append(posts, postWork{position: i, post: v})
		case *wxr.Attachment:
			attachments[v.SourceID] = v
			attachmentList = append(attachmentList, v)
		}
	}

	// Stage 1: structural normalization, before media URLs are collected.
	for i := range posts {
		p := posts[i].post
		haveExcerpt := p.Excerpt != "" && !job.opts.RebuildExcerpts
		norm := s.pipeline.Normalize(p.HTML, haveExcerpt)

		posts[i].html = norm.HTML
		posts[i].breaks = norm.PageBreaks
		if haveExcerpt {
			posts[i].excerpt = p.Excerpt
		} else {
			posts[i].excerpt = norm.Excerpt
		}
	}

	// Stage 2: concurrent media relocation over the deduplicated URL set.
	// This runs even in dry-run mode so the preview reports how many
	// distinct assets would actually relocate.
	mapping := media.Mapping{}
	if !job.opts.SkipMedia {
		urls := collectMediaURLs(posts, attachmentList)
		if len(urls) > 0 {
			resolver := media.NewResolver(s.storage, media.NewCache(), media.Options{
				AllowedHosts:    s.cfg.Media.AllowedHosts,
				Concurrency:     s.cfg.Media.Concurrency,
				FetchTimeout:    s.cfg.Media.FetchTimeout,
				LocalUploadsDir: s.cfg.Media.LocalUploadsDir,
				SourceRootURL:   s.cfg.Media.SourceRootURL,
				KeyPrefix:       s.cfg.Storage.KeyPrefix,
			})
			mapping = resolver.ResolveAll(ctx, urls)
			log.Info("media relocation finished", "urls", len(urls), "stats", resolver.Stats().String())
		}
	}
	job.setMediaURLs(mapping)
	job.update(func(p *Progress) { p.AttachmentsProcessed = len(attachmentList) })
	s.flush(ctx, job, q)

	relocated := make(map[string]bool, len(mapping))
	for _, newURL := range mapping {
		relocated[newURL] = true
	}
	pairs := mapping.RewritePairs()

	// Stage 3: finalize, slug, persist. Ordered, with cooperative
	// cancellation observed between items only.
	var currentExternal pgtype.Text
	slugs := slug.NewResolver(func(ctx context.Context, candidate string) (bool, error) {
		return q.SlugExists(ctx, candidate, currentExternal)
	})

	cancelled := false
	for _, w := range posts {
		if job.cancelRequested() {
			cancelled = true
			break
		}
		currentExternal = store.ToPgText(w.post.GUID)

		finalHTML := s.pipeline.Finalize(w.html, pairs, func(u string) bool { return relocated[u] })

		assigned, err := slugs.Unique(ctx, slug.ForPost(w.post.Slug, w.post.Title))
		if err != nil {
			s.itemError(ctx, job, q, w, err)
			continue
		}

		featuredURL, featuredAlt := FeaturedImage(w.post, attachments, mapping, finalHTML)
		fromPath, toPath, wantRedirect := DeriveRedirect(w.post.OriginalURL, assigned)

		if !job.opts.DryRun {
			prepared := preparedPost{
				post:              w.post,
				slug:              assigned,
				html:              finalHTML,
				excerpt:           w.excerpt,
				pageBreaks:        w.breaks,
				featuredURL:       featuredURL,
				featuredAlt:       featuredAlt,
				fromPath:          fromPath,
				toPath:            toPath,
				wantRedirect:      wantRedirect,
				comments:          Thread(w.post.Comments),
				overwriteMarkdown: job.opts.OverwriteMarkdown,
			}
			if err := s.persist(ctx, prepared); err != nil {
				s.itemError(ctx, job, q, w, err)
				continue
			}
		}

		job.update(func(p *Progress) {
			p.PostsImported++
			if wantRedirect {
				p.RedirectsCreated++
			}
		})
		s.flush(ctx, job, q)
	}

	status := StatusCompleted
	if cancelled {
		status = StatusCancelled
	}
	job.finish(status, "")
	s.flush(ctx, job, q)
	if err := q.FinishImportJob(ctx, store.ToPgUUID(job.ID), string(status), pgtype.Text{}); err != nil {
		log.Warn("finalize job record failed", "error", err)
	}

	snap := job.Snapshot()
	log.Info("import finished",
		"status", status,
		"posts", snap.PostsImported,
		"attachments", snap.AttachmentsProcessed,
		"redirects", snap.RedirectsCreated,
		"skipped", snap.Skipped,
		"errors", len(snap.Errors),
		"dryRun", snap.DryRun,
	)
}

// collectMediaURLs gathers every media URL referenced by post content or
// attachment items, deduplicated but order-preserving.
func collectMediaURLs(posts []postWork, attachments []*wxr.Attachment) []string {
	seen := make(map[string]bool)
	var urls []string
	add := func(u string) {
		if u != "" && !seen[u] {
			seen[u] = true
			urls = append(urls, u)
		}
	}

	for _, w := range posts {
		for _, u := range media.Scan(w.html) {
			add(u)
		}
	}
	for _, a := range attachments {
		add(a.URL)
	}
	return urls
}

// fail marks the job failed with a fatal error. Only unparsable input and
// unreadable files land here; per-item failures go through itemError.
func (s *Service) fail(ctx context.Context, job *Job, q jobQueries, err error) {
	job.finish(StatusFailed, err.Error())
	logging.ForJob(ctx, job.ID.String()).Error("import failed", "error", err)
	if dbErr := q.FinishImportJob(ctx, store.ToPgUUID(job.ID), string(StatusFailed), store.ToPgText(err.Error())); dbErr != nil {
		logging.ForJob(ctx, job.ID.String()).Warn("record job failure failed", "error", dbErr)
	}
}

// itemError records a per-item failure and lets the run continue.
func (s *Service) itemError(ctx context.Context, job *Job, q jobQueries, w postWork, err error) {
	e := ItemError{
		Position:   w.position,
		ExternalID: w.post.GUID,
		Title:      w.post.Title,
		Message:    err.Error(),
	}
	job.addItemError(e)
	logging.ForJob(ctx, job.ID.String()).Warn("item failed",
		"position", e.Position, "title", e.Title, "error", err)

	if dbErr := q.InsertImportError(ctx, store.ToPgUUID(job.ID), int32(e.Position),
		store.ToPgText(e.ExternalID), store.ToPgText(e.Title), e.Message); dbErr != nil {
		logging.ForJob(ctx, job.ID.String()).Warn("record item error failed", "error", dbErr)
	}
}

// flush writes the job's counters to the job record so pollers reading the
// database see the same monotonic progress as in-process pollers.
func (s *Service) flush(ctx context.Context, job *Job, q jobQueries) {
	snap := job.Snapshot()
	err := q.UpdateImportJobProgress(ctx, store.ImportJobProgress{
		ID:                   store.ToPgUUID(job.ID),
		Status:               string(snap.Status),
		TotalItems:           int32(snap.TotalItems),
		PostsImported:        int32(snap.PostsImported),
		AttachmentsProcessed: int32(snap.AttachmentsProcessed),
		RedirectsCreated:     int32(snap.RedirectsCreated),
		Skipped:              int32(snap.Skipped),
		StartedAt:            store.ToPgTimestamptz(snap.StartedAt),
	})
	if err != nil {
		logging.ForJob(ctx, job.ID.String()).Warn("progress flush failed", "error", err)
	}
}
