package store

import "context"

const upsertRedirect = `
INSERT INTO redirects (from_path, to_path, status)
VALUES ($1, $2, $3)
ON CONFLICT (from_path) DO UPDATE SET
    to_path = EXCLUDED.to_path,
    status  = EXCLUDED.status
`

// UpsertRedirect records a legacy-URL redirect, replacing any previous
// target for the same source path.
func (q *Queries) UpsertRedirect(ctx context.Context, fromPath, toPath string, status int32) error {
	_, err := q.db.Exec(ctx, upsertRedirect, fromPath, toPath, status)
	return err
}
