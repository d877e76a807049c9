package ports

import (
	"context"

	"datascrub/domain/batch"
	"datascrub/domain/core"
)

// JobStore persists batch job state. The coordinator invokes Save on every
// state transition so job records survive process restarts; the in-memory
// registry remains the source of truth while the process is alive.
type JobStore interface {
	Save(ctx context.Context, job *batch.Job) error
	Get(ctx context.Context, id core.JobID) (*batch.Job, error)
}
