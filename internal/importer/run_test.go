package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contentforge/wxrimport/internal/config"
	"github.com/contentforge/wxrimport/internal/store"
)

// fakeQueries records job bookkeeping calls and lets tests inject failures.
type fakeQueries struct {
	slugExists func(slug string) (bool, error)
	getJob     func(id pgtype.UUID) (store.ImportJobRow, error)
	listErrors func(id pgtype.UUID) ([]store.ImportErrorRow, error)

	insertedJobs   int
	flushes        []store.ImportJobProgress
	finishedStatus string
	itemErrors     []string
}

func (f *fakeQueries) InsertImportJob(context.Context, pgtype.UUID, string, bool, pgtype.Text) error {
	f.insertedJobs++
	return nil
}

func (f *fakeQueries) UpdateImportJobProgress(_ context.Context, p store.ImportJobProgress) error {
	f.flushes = append(f.flushes, p)
	return nil
}

func (f *fakeQueries) FinishImportJob(_ context.Context, _ pgtype.UUID, status string, _ pgtype.Text) error {
	f.finishedStatus = status
	return nil
}

func (f *fakeQueries) InsertImportError(_ context.Context, _ pgtype.UUID, _ int32, _, _ pgtype.Text, message string) error {
	f.itemErrors = append(f.itemErrors, message)
	return nil
}

func (f *fakeQueries) SlugExists(_ context.Context, slug string, _ pgtype.Text) (bool, error) {
	if f.slugExists != nil {
		return f.slugExists(slug)
	}
	return false, nil
}

func (f *fakeQueries) GetImportJob(_ context.Context, id pgtype.UUID) (store.ImportJobRow, error) {
	if f.getJob != nil {
		return f.getJob(id)
	}
	return store.ImportJobRow{}, pgx.ErrNoRows
}

func (f *fakeQueries) ListImportErrors(_ context.Context, id pgtype.UUID) ([]store.ImportErrorRow, error) {
	if f.listErrors != nil {
		return f.listErrors(id)
	}
	return nil, nil
}

// captureStore records every stored object. The media stage runs
// concurrently, so it is mutex-guarded.
type captureStore struct {
	mu   sync.Mutex
	puts []string
}

func (c *captureStore) Put(_ context.Context, key string, _ []byte, _ string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.puts = append(c.puts, key)
	return c.PublicURL(key), nil
}

func (c *captureStore) PublicURL(key string) string { return "https://cdn.test/" + key }

func (c *captureStore) DeletePrefix(context.Context, string) error { return nil }

func (c *captureStore) putCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.puts)
}

const exportHeader = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"
	xmlns:excerpt="http://wordpress.org/export/1.2/excerpt/"
	xmlns:content="http://purl.org/rss/1.0/modules/content/"
	xmlns:dc="http://purl.org/dc/elements/1.1/"
	xmlns:wp="http://wordpress.org/export/1.2/">
<channel>
	<title>Legacy Blog</title>
	<link>https://old.example.com</link>
	<wp:wxr_version>1.2</wp:wxr_version>
`

const exportFooter = "</channel>\n</rss>\n"

func postItem(id int, slug, content string) string {
	return fmt.Sprintf(`	<item>
		<title>%[2]s</title>
		<link>https://old.example.com/%[2]s/</link>
		<guid>https://old.example.com/?p=%[1]d</guid>
		<content:encoded><![CDATA[%[3]s]]></content:encoded>
		<wp:post_id>%[1]d</wp:post_id>
		<wp:post_name>%[2]s</wp:post_name>
		<wp:post_type>post</wp:post_type>
		<wp:status>publish</wp:status>
	</item>
`, id, slug, content)
}

func attachmentItem(id int, url string) string {
	return fmt.Sprintf(`	<item>
		<title>Attachment %[1]d</title>
		<guid>https://old.example.com/?p=%[1]d</guid>
		<wp:post_id>%[1]d</wp:post_id>
		<wp:post_type>attachment</wp:post_type>
		<wp:status>inherit</wp:status>
		<wp:attachment_url>%[2]s</wp:attachment_url>
	</item>
`, id, url)
}

func writeExport(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.xml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func runConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Import.MaxConcurrent = 1
	cfg.Import.MaxWaitTime = time.Second
	cfg.Media.Concurrency = 2
	cfg.Media.FetchTimeout = time.Second
	return cfg
}

func newRunService(q *fakeQueries, st *captureStore, cfg *config.Config) *Service {
	s := NewService(nil, st, cfg)
	s.queries = q
	return s
}

// runJob drives one import synchronously the way Start's goroutine would.
func runJob(t *testing.T, s *Service, opts Options) *Job {
	t.Helper()
	require.NoError(t, s.limiter.Acquire(context.Background()))
	job := newJob(opts)
	s.jobs.add(job)
	s.run(job)
	return job
}

func TestRunDryRunStillRelocatesMedia(t *testing.T) {
	uploads := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(uploads, "2021"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(uploads, "2021", "pic.png"), []byte("png-bytes"), 0o644))

	mediaURL := "https://old.example.com/wp-content/uploads/2021/pic.png"
	export := writeExport(t, exportHeader+
		postItem(1, "photo-post", `<p>Look:</p><img src="`+mediaURL+`" alt="Pic">`)+
		attachmentItem(2, mediaURL)+
		exportFooter)

	cfg := runConfig()
	cfg.Media.LocalUploadsDir = uploads
	cfg.Media.SourceRootURL = "https://old.example.com/wp-content/uploads"

	q := &fakeQueries{}
	st := &captureStore{}
	s := newRunService(q, st, cfg)

	job := runJob(t, s, Options{
		FilePath:        export,
		DryRun:          true,
		AllowedStatuses: []string{"publish"},
	})

	snap := job.Snapshot()
	assert.Equal(t, StatusCompleted, snap.Status)
	assert.Empty(t, snap.Errors)
	assert.Equal(t, 1, snap.PostsImported)
	assert.Equal(t, 1, snap.AttachmentsProcessed)

	// The relocation side effect happens even though nothing is persisted:
	// the asset is stored and the mapping reported.
	assert.Equal(t, 1, st.putCount())
	require.Contains(t, snap.MediaURLs, mediaURL)
	assert.True(t, strings.HasPrefix(snap.MediaURLs[mediaURL], "https://cdn.test/"))

	assert.Equal(t, "completed", q.finishedStatus)
	assert.NotEmpty(t, q.flushes)
}

func TestRunMalformedDocumentFailsJob(t *testing.T) {
	export := writeExport(t, "this is not a WXR document")

	q := &fakeQueries{}
	s := newRunService(q, &captureStore{}, runConfig())

	job := runJob(t, s, Options{FilePath: export, DryRun: true})

	snap := job.Snapshot()
	assert.Equal(t, StatusFailed, snap.Status)
	assert.NotEmpty(t, snap.Error)
	assert.Zero(t, snap.PostsImported)
	assert.Equal(t, "failed", q.finishedStatus)
}

func TestRunIsolatesItemFailures(t *testing.T) {
	export := writeExport(t, exportHeader+
		postItem(1, "alpha", "<p>First.</p>")+
		postItem(2, "beta", "<p>Second.</p>")+
		exportFooter)

	q := &fakeQueries{
		slugExists: func(slug string) (bool, error) {
			if strings.HasPrefix(slug, "alpha") {
				return false, errors.New("connection reset")
			}
			return false, nil
		},
	}
	s := newRunService(q, &captureStore{}, runConfig())

	job := runJob(t, s, Options{
		FilePath:        export,
		DryRun:          true,
		SkipMedia:       true,
		AllowedStatuses: []string{"publish"},
	})

	snap := job.Snapshot()
	assert.Equal(t, StatusCompleted, snap.Status, "one bad item must not fail the run")
	assert.Equal(t, 1, snap.PostsImported)
	require.Len(t, snap.Errors, 1)
	assert.Equal(t, 0, snap.Errors[0].Position)
	assert.Contains(t, snap.Errors[0].Message, "connection reset")
	assert.Len(t, q.itemErrors, 1)
}

func TestRunRepeatedDryRunIsStable(t *testing.T) {
	uploads := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(uploads, "pic.png"), []byte("png-bytes"), 0o644))

	mediaURL := "https://old.example.com/wp-content/uploads/pic.png"
	export := writeExport(t, exportHeader+
		postItem(1, "alpha", `<img src="`+mediaURL+`">`)+
		postItem(2, "beta", "<p>Second.</p>")+
		exportFooter)

	cfg := runConfig()
	cfg.Media.LocalUploadsDir = uploads
	cfg.Media.SourceRootURL = "https://old.example.com/wp-content/uploads"
	opts := Options{FilePath: export, DryRun: true, AllowedStatuses: []string{"publish"}}

	first := runJob(t, newRunService(&fakeQueries{}, &captureStore{}, cfg), opts).Snapshot()
	second := runJob(t, newRunService(&fakeQueries{}, &captureStore{}, cfg), opts).Snapshot()

	assert.Equal(t, first.Progress, second.Progress)
	assert.Equal(t, first.MediaURLs, second.MediaURLs)
	assert.Empty(t, second.Errors)
}
