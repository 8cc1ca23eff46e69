// Package importer orchestrates a WXR import run: parse, classify,
// normalize, relocate media, assign slugs, and persist each item in its own
// transaction with per-item error isolation.
package importer

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// JobStatus is the lifecycle state of an import job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusRunning    JobStatus = "running"
	StatusCancelling JobStatus = "cancelling"
	StatusCancelled  JobStatus = "cancelled"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Terminal reports whether the status is final.
func (s JobStatus) Terminal() bool {
	switch s {
	case StatusCancelled, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// ErrJobNotFound is returned when a job id is unknown to this process.
var ErrJobNotFound = errors.New("import job not found")

// Options configures one import run.
type Options struct {
	// FilePath is the spooled WXR file to import.
	FilePath string

	// FileName is the original upload name, recorded on the job.
	FileName string

	// RemoveFile removes FilePath once the job finishes. Set for spooled
	// uploads, not for server-side paths the caller owns.
	RemoveFile bool

	// DryRun gates persistence writes only. Media fetch/upload still runs,
	// so the preview reports how many assets would actually relocate.
	DryRun bool

	// SkipMedia skips the media relocation stage entirely; every media URL
	// stays unresolved.
	SkipMedia bool

	// AllowedStatuses is the post-status allow-list. Empty means the
	// configured default.
	AllowedStatuses []string

	// RebuildExcerpts derives excerpts from the first <!--more--> marker
	// even for posts that carry an explicit excerpt.
	RebuildExcerpts bool

	// OverwriteMarkdown lets a re-import clear the hand-editable markdown
	// source column. Off by default.
	OverwriteMarkdown bool
}

// Progress holds the job's monotonically increasing counters.
type Progress struct {
	TotalItems           int `json:"totalItems"`
	PostsImported        int `json:"postsImported"`
	AttachmentsProcessed int `json:"attachmentsProcessed"`
	RedirectsCreated     int `json:"redirectsCreated"`
	Skipped              int `json:"skipped"`
}

// ItemError records one item-level failure. Position is the item's index in
// document order.
type ItemError struct {
	Position   int    `json:"position"`
	ExternalID string `json:"externalId,omitempty"`
	Title      string `json:"title,omitempty"`
	Message    string `json:"message"`
}

// Result is a point-in-time snapshot of a job, final once Status is
// terminal.
type Result struct {
	JobID    uuid.UUID `json:"jobId"`
	Status   JobStatus `json:"status"`
	DryRun   bool      `json:"dryRun"`
	FileName string    `json:"fileName,omitempty"`

	Progress

	// Errors lists item-level failures in document order.
	Errors []ItemError `json:"errors"`

	// MediaURLs is the old-to-new media URL mapping produced by the run.
	MediaURLs map[string]string `json:"mediaUrls,omitempty"`

	// Error is the fatal error message when Status is failed.
	Error string `json:"error,omitempty"`

	StartedAt  *time.Time `json:"startedAt,omitempty"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}
