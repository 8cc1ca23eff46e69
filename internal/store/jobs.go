package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

// ImportJobRow mirrors one import_jobs record.
type ImportJobRow struct {
	ID                   pgtype.UUID
	Status               string
	DryRun               bool
	FileName             pgtype.Text
	TotalItems           int32
	PostsImported        int32
	AttachmentsProcessed int32
	RedirectsCreated     int32
	Skipped              int32
	Error                pgtype.Text
	StartedAt            pgtype.Timestamptz
	FinishedAt           pgtype.Timestamptz
}

const insertImportJob = `
INSERT INTO import_jobs (id, status, dry_run, file_name)
VALUES ($1, $2, $3, $4)
`

// InsertImportJob records a freshly queued job.
func (q *Queries) InsertImportJob(ctx context.Context, id pgtype.UUID, status string, dryRun bool, fileName pgtype.Text) error {
	_, err := q.db.Exec(ctx, insertImportJob, id, status, dryRun, fileName)
	return err
}

const updateImportJobProgress = `
UPDATE import_jobs SET
    status                = $2,
    total_items           = $3,
    posts_imported        = $4,
    attachments_processed = $5,
    redirects_created     = $6,
    skipped               = $7,
    started_at            = COALESCE(started_at, $8)
WHERE id = $1
`

// ImportJobProgress is one progress flush. Counters only ever grow.
type ImportJobProgress struct {
	ID                   pgtype.UUID
	Status               string
	TotalItems           int32
	PostsImported        int32
	AttachmentsProcessed int32
	RedirectsCreated     int32
	Skipped              int32
	StartedAt            pgtype.Timestamptz
}

// UpdateImportJobProgress flushes the job's counters and status.
func (q *Queries) UpdateImportJobProgress(ctx context.Context, p ImportJobProgress) error {
	_, err := q.db.Exec(ctx, updateImportJobProgress,
		p.ID, p.Status, p.TotalItems, p.PostsImported,
		p.AttachmentsProcessed, p.RedirectsCreated, p.Skipped, p.StartedAt,
	)
	return err
}

const finishImportJob = `
UPDATE import_jobs SET
    status      = $2,
    error       = $3,
    finished_at = now()
WHERE id = $1
`

// FinishImportJob records the terminal status and optional fatal error.
func (q *Queries) FinishImportJob(ctx context.Context, id pgtype.UUID, status string, jobErr pgtype.Text) error {
	_, err := q.db.Exec(ctx, finishImportJob, id, status, jobErr)
	return err
}

const getImportJob = `
SELECT id, status, dry_run, file_name, total_items, posts_imported,
       attachments_processed, redirects_created, skipped, error,
       started_at, finished_at
FROM import_jobs
WHERE id = $1
`

// GetImportJob loads one job record.
func (q *Queries) GetImportJob(ctx context.Context, id pgtype.UUID) (ImportJobRow, error) {
	var row ImportJobRow
	err := q.db.QueryRow(ctx, getImportJob, id).Scan(
		&row.ID, &row.Status, &row.DryRun, &row.FileName, &row.TotalItems,
		&row.PostsImported, &row.AttachmentsProcessed, &row.RedirectsCreated,
		&row.Skipped, &row.Error, &row.StartedAt, &row.FinishedAt,
	)
	return row, err
}

const insertImportError = `
INSERT INTO import_errors (job_id, position, external_id, title, message)
VALUES ($1, $2, $3, $4, $5)
`

// InsertImportError appends one item-level error to a job.
func (q *Queries) InsertImportError(ctx context.Context, jobID pgtype.UUID, position int32, externalID, title pgtype.Text, message string) error {
	_, err := q.db.Exec(ctx, insertImportError, jobID, position, externalID, title, message)
	return err
}

const listImportErrors = `
SELECT position, external_id, title, message
FROM import_errors
WHERE job_id = $1
ORDER BY position
`

// ImportErrorRow is one persisted item-level error.
type ImportErrorRow struct {
	Position   int32
	ExternalID pgtype.Text
	Title      pgtype.Text
	Message    string
}

// ListImportErrors returns a job's item errors in document order.
func (q *Queries) ListImportErrors(ctx context.Context, jobID pgtype.UUID) ([]ImportErrorRow, error) {
	rows, err := q.db.Query(ctx, listImportErrors, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ImportErrorRow
	for rows.Next() {
		var r ImportErrorRow
		if err := rows.Scan(&r.Position, &r.ExternalID, &r.Title, &r.Message); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
