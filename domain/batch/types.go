package batch

import (
	"math"

	"datascrub/domain/cleaning"
	"datascrub/domain/core"
	"datascrub/domain/quality"
)

// JobStatus tracks a batch job through its lifecycle.
// Valid transitions: pending -> processing -> {completed, failed, cancelled},
// plus cancellation from any non-terminal state. Terminal states are final.
type JobStatus string

const (
	StatusPending    JobStatus = "pending"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusCancelled  JobStatus = "cancelled"
)

// Terminal reports whether the status is final
func (s JobStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether moving to next is a legal transition
func (s JobStatus) CanTransition(next JobStatus) bool {
	if s.Terminal() {
		return false
	}
	switch s {
	case StatusPending:
		return next == StatusProcessing || next == StatusCancelled
	case StatusProcessing:
		return next == StatusProcessing ||
			next == StatusCompleted ||
			next == StatusFailed ||
			next == StatusCancelled
	}
	return false
}

// JobKind selects which engine path a batch job runs
type JobKind string

const (
	KindDetect JobKind = "detect"
	KindClean  JobKind = "clean"
)

// Results carries the merged output of a completed job.
// Exactly one of the two fields is set, matching the job's kind.
type Results struct {
	Detection *quality.DetectionReport `json:"detection,omitempty"`
	Cleaning  *cleaning.Result         `json:"cleaning,omitempty"`
}

// Job is the record for one batch detection/cleaning run over one file.
// The coordinator that created a job is its only writer; external callers
// read it or request cancellation.
type Job struct {
	ID              core.JobID      `json:"job_id"`
	FileID          core.FileID     `json:"file_id"`
	Kind            JobKind         `json:"kind"`
	Operation       cleaning.OpName `json:"operation,omitempty"`
	TargetColumns   []string        `json:"target_columns,omitempty"`
	Status          JobStatus       `json:"status"`
	Progress        int             `json:"progress"`
	ChunkSize       int             `json:"chunk_size"`
	TotalChunks     int             `json:"total_chunks"`
	ProcessedChunks int             `json:"processed_chunks"`
	ChunkErrors     []string        `json:"chunk_errors,omitempty"`
	Results         *Results        `json:"results,omitempty"`
	Error           string          `json:"error,omitempty"`
	CreatedAt       core.Timestamp  `json:"created_at"`
	UpdatedAt       core.Timestamp  `json:"updated_at"`
}

// NewJob creates a pending job record
func NewJob(fileID core.FileID, kind JobKind, op cleaning.OpName, targetColumns []string, chunkSize int) *Job {
	now := core.Now()
	return &Job{
		ID:            core.NewJobID(),
		FileID:        fileID,
		Kind:          kind,
		Operation:     op,
		TargetColumns: targetColumns,
		Status:        StatusPending,
		ChunkSize:     chunkSize,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// TransitionTo advances the job's status, rejecting illegal transitions
func (j *Job) TransitionTo(next JobStatus) error {
	if j.Status.Terminal() {
		return core.ErrJobTerminal
	}
	if !j.Status.CanTransition(next) {
		return core.NewInvalidTransitionError(string(j.Status), string(next))
	}
	j.Status = next
	j.UpdatedAt = core.Now()
	return nil
}

// RecordChunkProgress updates processed counts and the derived progress value
func (j *Job) RecordChunkProgress(processed int) {
	j.ProcessedChunks = processed
	if j.TotalChunks > 0 {
		j.Progress = int(math.Round(100 * float64(processed) / float64(j.TotalChunks)))
	}
	j.UpdatedAt = core.Now()
}

// Clone returns a deep-enough copy for handing to readers outside the
// coordinator's single-writer scope.
func (j *Job) Clone() *Job {
	out := *j
	if j.TargetColumns != nil {
		out.TargetColumns = append([]string(nil), j.TargetColumns...)
	}
	if j.ChunkErrors != nil {
		out.ChunkErrors = append([]string(nil), j.ChunkErrors...)
	}
	return &out
}
