package indexer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rubiojr/cari/pkg/realtime"
	"github.com/rubiojr/cari/pkg/storage"
)

// ErrReindexRunning is returned when a job is requested while another one
// is still in progress.
var ErrReindexRunning = errors.New("reindex already running")

// Job describes one reindex run.
type Job struct {
	ID         string
	Folder     string
	StartedAt  time.Time
	FinishedAt time.Time
	Documents  int
	Err        string
}

// Running reports whether the job has not finished yet.
func (j Job) Running() bool {
	return j.FinishedAt.IsZero()
}

// Status is a snapshot of the reindexer.
type Status struct {
	// Current is the running job, if any.
	Current *Job
	// Last is the most recently finished job, if any.
	Last *Job
}

// Reindexer rebuilds the index from the corpus folder, one job at a time.
type Reindexer struct {
	index   *storage.Index
	root    string
	include []string
	hub     *realtime.Hub

	mu      sync.Mutex
	current *Job
	last    *Job
	wg      sync.WaitGroup
}

// NewReindexer creates a reindexer for the corpus at root. hub may be nil.
func NewReindexer(index *storage.Index, root string, include []string, hub *realtime.Hub) *Reindexer {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return &Reindexer{
		index:   index,
		root:    root,
		include: include,
		hub:     hub,
	}
}

// Folder returns the absolute corpus folder.
func (r *Reindexer) Folder() string {
	return r.root
}

// Start launches a reindex job in the background and returns immediately.
// If a job is already running it returns that job and ErrReindexRunning.
func (r *Reindexer) Start(ctx context.Context) (Job, error) {
	job, err := r.begin()
	if err != nil {
		return job, err
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if _, err := r.run(ctx, job, nil); err != nil {
			logger.Errorf("reindex %s failed: %v", job.ID, err)
		}
	}()
	return job, nil
}

// Run reindexes synchronously, reporting per-file progress.
func (r *Reindexer) Run(ctx context.Context, progress ProgressFunc) (Job, error) {
	job, err := r.begin()
	if err != nil {
		return job, err
	}
	return r.run(ctx, job, progress)
}

// Wait blocks until background jobs started with Start have finished.
func (r *Reindexer) Wait() {
	r.wg.Wait()
}

// Status returns copies of the running and last finished jobs.
func (r *Reindexer) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	var s Status
	if r.current != nil {
		c := *r.current
		s.Current = &c
	}
	if r.last != nil {
		l := *r.last
		s.Last = &l
	}
	return s
}

func (r *Reindexer) begin() (Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current != nil {
		return *r.current, ErrReindexRunning
	}

	job := &Job{
		ID:        uuid.NewString(),
		Folder:    r.root,
		StartedAt: time.Now().UTC(),
	}
	r.current = job

	logger.Infof("reindex %s started for %s", job.ID, job.Folder)
	r.hub.Publish(realtime.Event{Type: realtime.ReindexStarted, JobID: job.ID, Folder: job.Folder})
	return *job, nil
}

func (r *Reindexer) run(ctx context.Context, job Job, progress ProgressFunc) (Job, error) {
	docs, err := Build(ctx, r.root, r.include, progress)
	if err == nil {
		err = r.index.ReplaceAll(ctx, docs)
	}

	r.mu.Lock()
	job.FinishedAt = time.Now().UTC()
	if err != nil {
		job.Err = err.Error()
	} else {
		job.Documents = len(docs)
	}
	r.current = nil
	r.last = &job
	r.mu.Unlock()

	if err != nil {
		r.hub.Publish(realtime.Event{Type: realtime.ReindexFailed, JobID: job.ID, Folder: job.Folder, Error: job.Err})
		return job, fmt.Errorf("reindexing %s: %w", job.Folder, err)
	}

	logger.Infof("reindex %s finished: %d documents in %s", job.ID, job.Documents, job.FinishedAt.Sub(job.StartedAt).Round(time.Millisecond))
	r.hub.Publish(realtime.Event{Type: realtime.ReindexFinished, JobID: job.ID, Folder: job.Folder, Documents: job.Documents})
	return job, nil
}
