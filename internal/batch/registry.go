// Package batch runs detection and cleaning over large files by splitting
// the data rows into fixed-size chunks, processing chunks concurrently under
// a bounded semaphore, and merging per-chunk outputs in original order. Each
// job is driven by exactly one coordinator goroutine; external callers read
// job state or request cancellation through the registry.
package batch

import (
	"context"
	"sync"

	"datascrub/domain/batch"
	"datascrub/domain/core"
	"datascrub/internal"
	"datascrub/ports"
)

// managed pairs a job record with the cancel function for its run goroutine.
// The registry lock guards every mutation of the record.
type managed struct {
	job    *batch.Job
	cancel context.CancelFunc
}

// Registry is the in-memory job map. It is the source of truth while the
// process is alive; when a JobStore is configured, every state transition is
// mirrored to it so records survive restarts.
type Registry struct {
	mu    sync.RWMutex
	jobs  map[core.JobID]*managed
	store ports.JobStore
	log   *internal.Logger
}

// NewRegistry creates a registry. The store may be nil, in which case jobs
// live only in memory.
func NewRegistry(store ports.JobStore, log *internal.Logger) *Registry {
	if log == nil {
		log = internal.DefaultLogger
	}
	return &Registry{
		jobs:  make(map[core.JobID]*managed),
		store: store,
		log:   log.Component("JobRegistry"),
	}
}

// Add registers a new job and persists its initial state
func (r *Registry) Add(ctx context.Context, job *batch.Job, cancel context.CancelFunc) {
	r.mu.Lock()
	r.jobs[job.ID] = &managed{job: job, cancel: cancel}
	snapshot := job.Clone()
	r.mu.Unlock()

	r.persist(ctx, snapshot)
}

// Get returns a copy of the job record. Jobs absent from memory fall back to
// the store, so a restarted process can still answer status queries for jobs
// persisted by a previous run.
func (r *Registry) Get(ctx context.Context, id core.JobID) (*batch.Job, error) {
	r.mu.RLock()
	m, ok := r.jobs[id]
	var snapshot *batch.Job
	if ok {
		snapshot = m.job.Clone()
	}
	r.mu.RUnlock()

	if ok {
		return snapshot, nil
	}
	if r.store != nil {
		return r.store.Get(ctx, id)
	}
	return nil, core.ErrJobNotFound
}

// Cancel requests cancellation of a job. Pending and processing jobs move to
// cancelled immediately and their run goroutine's context is cancelled so no
// further chunks are scheduled. Cancelling an already-cancelled job is a
// no-op; cancelling a completed or failed job reports the terminal state.
func (r *Registry) Cancel(ctx context.Context, id core.JobID) error {
	r.mu.Lock()
	m, ok := r.jobs[id]
	if !ok {
		r.mu.Unlock()
		return core.ErrJobNotFound
	}
	if m.job.Status == batch.StatusCancelled {
		r.mu.Unlock()
		return nil
	}
	if err := m.job.TransitionTo(batch.StatusCancelled); err != nil {
		r.mu.Unlock()
		return err
	}
	cancel := m.cancel
	snapshot := m.job.Clone()
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	r.log.Info("job %s cancelled", id)
	r.persist(ctx, snapshot)
	return nil
}

// update applies a mutation to the job under the registry lock, then
// persists the new state. The mutation runs only while the coordinator owns
// the job; once a job is terminal, updates fail and the coordinator backs
// off.
func (r *Registry) update(ctx context.Context, id core.JobID, mutate func(*batch.Job) error) error {
	r.mu.Lock()
	m, ok := r.jobs[id]
	if !ok {
		r.mu.Unlock()
		return core.ErrJobNotFound
	}
	if err := mutate(m.job); err != nil {
		r.mu.Unlock()
		return err
	}
	snapshot := m.job.Clone()
	r.mu.Unlock()

	r.persist(ctx, snapshot)
	return nil
}

// isCancelled reports whether the job has been moved to cancelled
func (r *Registry) isCancelled(id core.JobID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.jobs[id]
	return ok && m.job.Status == batch.StatusCancelled
}

// persist mirrors a job snapshot to the store. Persistence problems are
// logged rather than failing the job: the in-memory record stays correct.
func (r *Registry) persist(ctx context.Context, snapshot *batch.Job) {
	if r.store == nil {
		return
	}
	if err := r.store.Save(ctx, snapshot); err != nil {
		r.log.Warn("failed to persist job %s (%s): %v", snapshot.ID, snapshot.Status, err)
	}
}
