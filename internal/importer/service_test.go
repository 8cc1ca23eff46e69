package importer

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contentforge/wxrimport/internal/store"
)

func persistedRow(id uuid.UUID) store.ImportJobRow {
	started := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	finished := started.Add(time.Minute)
	return store.ImportJobRow{
		ID:                   store.ToPgUUID(id),
		Status:               string(StatusCompleted),
		FileName:             store.ToPgText("export.xml"),
		TotalItems:           5,
		PostsImported:        4,
		AttachmentsProcessed: 1,
		Skipped:              1,
		StartedAt:            pgtype.Timestamptz{Time: started, Valid: true},
		FinishedAt:           pgtype.Timestamptz{Time: finished, Valid: true},
	}
}

func TestSnapshotFallsBackToJobRecord(t *testing.T) {
	id := uuid.New()
	q := &fakeQueries{
		getJob: func(pgtype.UUID) (store.ImportJobRow, error) {
			return persistedRow(id), nil
		},
		listErrors: func(pgtype.UUID) ([]store.ImportErrorRow, error) {
			return []store.ImportErrorRow{
				{Position: 2, Title: store.ToPgText("Broken"), Message: "upsert post: boom"},
			}, nil
		},
	}
	s := newRunService(q, &captureStore{}, runConfig())

	snap, err := s.Snapshot(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, id, snap.JobID)
	assert.Equal(t, StatusCompleted, snap.Status)
	assert.Equal(t, "export.xml", snap.FileName)
	assert.Equal(t, 4, snap.PostsImported)
	assert.Equal(t, 1, snap.Skipped)
	require.NotNil(t, snap.StartedAt)
	require.NotNil(t, snap.FinishedAt)
	require.Len(t, snap.Errors, 1)
	assert.Equal(t, 2, snap.Errors[0].Position)
	assert.Equal(t, "upsert post: boom", snap.Errors[0].Message)
}

func TestSnapshotUnknownJob(t *testing.T) {
	s := newRunService(&fakeQueries{}, &captureStore{}, runConfig())

	_, err := s.Snapshot(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestCancelLiveJob(t *testing.T) {
	s := newRunService(&fakeQueries{}, &captureStore{}, runConfig())
	job := newJob(Options{})
	s.jobs.add(job)

	snap, err := s.Cancel(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelling, snap.Status)
	assert.True(t, job.cancelRequested())
}

func TestCancelFallsBackToJobRecord(t *testing.T) {
	id := uuid.New()
	q := &fakeQueries{
		getJob: func(pgtype.UUID) (store.ImportJobRow, error) {
			return persistedRow(id), nil
		},
	}
	s := newRunService(q, &captureStore{}, runConfig())

	snap, err := s.Cancel(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, snap.Status, "a finished job's record is returned unchanged")
}
