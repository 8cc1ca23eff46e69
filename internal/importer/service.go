package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/contentforge/wxrimport/internal/config"
	"github.com/contentforge/wxrimport/internal/markup"
	"github.com/contentforge/wxrimport/internal/sanitize"
	"github.com/contentforge/wxrimport/internal/storage"
	"github.com/contentforge/wxrimport/internal/store"
)

// jobQueries is the slice of the store layer the run loop and the poll
// fallback need. Per-item content writes run through their own transaction
// in persist and are not part of it.
type jobQueries interface {
	InsertImportJob(ctx context.Context, id pgtype.UUID, status string, dryRun bool, fileName pgtype.Text) error
	UpdateImportJobProgress(ctx context.Context, p store.ImportJobProgress) error
	FinishImportJob(ctx context.Context, id pgtype.UUID, status string, jobErr pgtype.Text) error
	InsertImportError(ctx context.Context, jobID pgtype.UUID, position int32, externalID, title pgtype.Text, message string) error
	SlugExists(ctx context.Context, slug string, externalID pgtype.Text) (bool, error)
	GetImportJob(ctx context.Context, id pgtype.UUID) (store.ImportJobRow, error)
	ListImportErrors(ctx context.Context, jobID pgtype.UUID) ([]store.ImportErrorRow, error)
}

// Service runs import jobs in the background and answers poll requests.
type Service struct {
	pool     *pgxpool.Pool
	queries  jobQueries
	storage  storage.Store
	pipeline *markup.Pipeline
	cfg      *config.Config
	limiter  *Limiter
	jobs     *registry

	// baseCtx outlives the HTTP request that started a job; cancelBase is
	// the hard stop used after graceful drain times out.
	baseCtx    context.Context
	cancelBase context.CancelFunc
}

// NewService wires the import service from its collaborators. pool may be
// nil in tests, in which case only the in-process registry serves polls.
func NewService(pool *pgxpool.Pool, st storage.Store, cfg *config.Config) *Service {
	baseCtx, cancel := context.WithCancel(context.Background())

	var queries jobQueries
	if pool != nil {
		queries = store.New(pool)
	}

	return &Service{
		pool:       pool,
		queries:    queries,
		storage:    st,
		pipeline:   markup.NewPipeline(sanitize.NewPolicy(), cfg.Media.PlaceholderURL),
		cfg:        cfg,
		limiter:    NewLimiter(cfg.Import.MaxConcurrent, cfg.Import.MaxWaitTime),
		jobs:       newRegistry(),
		baseCtx:    baseCtx,
		cancelBase: cancel,
	}
}

// Start queues an import job and begins processing it in the background.
// Returns ErrTooManyImports when no job slot frees up in time.
func (s *Service) Start(ctx context.Context, opts Options) (*Job, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}

	if len(opts.AllowedStatuses) == 0 {
		opts.AllowedStatuses = s.cfg.Import.Statuses
	}

	job := newJob(opts)
	s.jobs.add(job)

	if err := s.queries.InsertImportJob(ctx, store.ToPgUUID(job.ID), string(StatusQueued), opts.DryRun, store.ToPgText(opts.FileName)); err != nil {
		s.limiter.Release()
		return nil, fmt.Errorf("record import job: %w", err)
	}

	go s.run(job)
	return job, nil
}

// Snapshot returns the current state of a job. Jobs started by an earlier
// process are served from their persisted record.
func (s *Service) Snapshot(ctx context.Context, id uuid.UUID) (Result, error) {
	if job, ok := s.jobs.get(id); ok {
		return job.Snapshot(), nil
	}
	if s.queries == nil {
		return Result{}, ErrJobNotFound
	}

	row, err := s.queries.GetImportJob(ctx, store.ToPgUUID(id))
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return Result{}, ErrJobNotFound
	case err != nil:
		return Result{}, fmt.Errorf("load job %s: %w", id, err)
	}

	itemErrs, err := s.queries.ListImportErrors(ctx, store.ToPgUUID(id))
	if err != nil {
		return Result{}, fmt.Errorf("load job errors %s: %w", id, err)
	}
	return resultFromRow(row, itemErrs), nil
}

// Cancel requests cooperative cancellation of a job. The flag is observed
// between items; an in-flight item finishes its transaction first. A job
// known only from its persisted record cannot be cancelled; its recorded
// state comes back unchanged.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (Result, error) {
	if job, ok := s.jobs.get(id); ok {
		job.RequestCancel()
		return job.Snapshot(), nil
	}
	return s.Snapshot(ctx, id)
}

// ActiveCount returns the number of running jobs.
func (s *Service) ActiveCount() int {
	return s.limiter.ActiveCount()
}

// Drain waits for running jobs to finish, for graceful shutdown.
func (s *Service) Drain(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// Close hard-stops any jobs still running after a drain deadline.
func (s *Service) Close() {
	s.cancelBase()
}

// resultFromRow rebuilds a Result from the persisted job record.
func resultFromRow(row store.ImportJobRow, itemErrs []store.ImportErrorRow) Result {
	res := Result{
		Status:   JobStatus(row.Status),
		DryRun:   row.DryRun,
		FileName: row.FileName.String,
		Progress: Progress{
			TotalItems:           int(row.TotalItems),
			PostsImported:        int(row.PostsImported),
			AttachmentsProcessed: int(row.AttachmentsProcessed),
			RedirectsCreated:     int(row.RedirectsCreated),
			Skipped:              int(row.Skipped),
		},
		Errors: make([]ItemError, 0, len(itemErrs)),
		Error:  row.Error.String,
	}
	if row.ID.Valid {
		res.JobID = uuid.UUID(row.ID.Bytes)
	}
	if row.StartedAt.Valid {
		t := row.StartedAt.Time
		res.StartedAt = &t
	}
	if row.FinishedAt.Valid {
		t := row.FinishedAt.Time
		res.FinishedAt = &t
	}
	for _, e := range itemErrs {
		res.Errors = append(res.Errors, ItemError{
			Position:   int(e.Position),
			ExternalID: e.ExternalID.String,
			Title:      e.Title.String,
			Message:    e.Message,
		})
	}
	return res
}
