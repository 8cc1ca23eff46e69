package importer

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Job is the in-process state of one import run. All mutation goes through
// the mutex so pollers always see a consistent snapshot.
type Job struct {
	ID   uuid.UUID
	opts Options

	mu         sync.Mutex
	status     JobStatus
	progress   Progress
	itemErrors []ItemError
	mediaURLs  map[string]string
	fatal      string
	startedAt  *time.Time
	finishedAt *time.Time
	cancel     bool
}

func newJob(opts Options) *Job {
	return &Job{
		ID:     uuid.New(),
		opts:   opts,
		status: StatusQueued,
	}
}

// Snapshot returns the job's current state as a Result.
func (j *Job) Snapshot() Result {
	j.mu.Lock()
	defer j.mu.Unlock()

	errs := make([]ItemError, len(j.itemErrors))
	copy(errs, j.itemErrors)

	var media map[string]string
	if j.mediaURLs != nil {
		media = make(map[string]string, len(j.mediaURLs))
		for k, v := range j.mediaURLs {
			media[k] = v
		}
	}

	return Result{
		JobID:      j.ID,
		Status:     j.status,
		DryRun:     j.opts.DryRun,
		FileName:   j.opts.FileName,
		Progress:   j.progress,
		Errors:     errs,
		MediaURLs:  media,
		Error:      j.fatal,
		StartedAt:  j.startedAt,
		FinishedAt: j.finishedAt,
	}
}

// RequestCancel flips a queued or running job to cancelling. Returns false
// when the job is already terminal.
func (j *Job) RequestCancel() bool {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.status.Terminal() {
		return false
	}
	j.cancel = true
	j.status = StatusCancelling
	return true
}

// cancelRequested is checked between items, never mid-item.
func (j *Job) cancelRequested() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.cancel
}

func (j *Job) start(total, skipped int) {
	now := time.Now().UTC()
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status == StatusQueued {
		j.status = StatusRunning
	}
	j.startedAt = &now
	j.progress.TotalItems = total
	j.progress.Skipped = skipped
}

func (j *Job) finish(status JobStatus, fatal string) {
	now := time.Now().UTC()
	j.mu.Lock()
	defer j.mu.Unlock()
	j.status = status
	j.fatal = fatal
	j.finishedAt = &now
}

func (j *Job) addItemError(e ItemError) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.itemErrors = append(j.itemErrors, e)
}

func (j *Job) setMediaURLs(m map[string]string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.mediaURLs = m
}

func (j *Job) update(fn func(p *Progress)) Progress {
	j.mu.Lock()
	defer j.mu.Unlock()
	fn(&j.progress)
	return j.progress
}

func (j *Job) currentStatus() JobStatus {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status
}

// registry tracks live jobs by id.
type registry struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]*Job
}

func newRegistry() *registry {
	return &registry{jobs: make(map[uuid.UUID]*Job)}
}

func (r *registry) add(j *Job) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[j.ID] = j
}

func (r *registry) get(id uuid.UUID) (*Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.jobs[id]
	return j, ok
}
