// Package postgres persists batch job records. The store mirrors the
// in-memory registry: every state transition is upserted, so job status
// survives process restarts when a database is configured.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"datascrub/domain/batch"
	"datascrub/domain/core"
	"datascrub/ports"
)

// jobStore implements the JobStore interface
type jobStore struct {
	db *sqlx.DB
}

// NewJobStore creates a new postgres-backed job store
func NewJobStore(db *sqlx.DB) ports.JobStore {
	return &jobStore{db: db}
}

// EnsureSchema creates the batch_jobs table if it doesn't exist
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS batch_jobs (
			id TEXT PRIMARY KEY,
			file_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			operation TEXT NOT NULL DEFAULT '',
			target_columns JSONB,
			status TEXT NOT NULL,
			progress INT NOT NULL DEFAULT 0,
			chunk_size INT NOT NULL,
			total_chunks INT NOT NULL DEFAULT 0,
			processed_chunks INT NOT NULL DEFAULT 0,
			chunk_errors JSONB,
			results JSONB,
			error_message TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("failed to create batch_jobs table: %w", err)
	}
	return nil
}

// Save upserts a job snapshot keyed by job id
func (s *jobStore) Save(ctx context.Context, job *batch.Job) error {
	targetsJSON, err := json.Marshal(job.TargetColumns)
	if err != nil {
		return fmt.Errorf("failed to marshal target columns: %w", err)
	}
	chunkErrorsJSON, err := json.Marshal(job.ChunkErrors)
	if err != nil {
		return fmt.Errorf("failed to marshal chunk errors: %w", err)
	}
	var resultsJSON []byte
	if job.Results != nil {
		resultsJSON, err = json.Marshal(job.Results)
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
	}

	query := `INSERT INTO batch_jobs (
		id, file_id, kind, operation, target_columns, status, progress,
		chunk_size, total_chunks, processed_chunks, chunk_errors, results,
		error_message, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
	) ON CONFLICT (id) DO UPDATE SET
		status = EXCLUDED.status,
		progress = EXCLUDED.progress,
		total_chunks = EXCLUDED.total_chunks,
		processed_chunks = EXCLUDED.processed_chunks,
		chunk_errors = EXCLUDED.chunk_errors,
		results = EXCLUDED.results,
		error_message = EXCLUDED.error_message,
		updated_at = EXCLUDED.updated_at`

	_, err = s.db.ExecContext(ctx, query,
		job.ID, job.FileID, job.Kind, job.Operation, targetsJSON, job.Status, job.Progress,
		job.ChunkSize, job.TotalChunks, job.ProcessedChunks, chunkErrorsJSON, resultsJSON,
		job.Error, job.CreatedAt.Time(), job.UpdatedAt.Time(),
	)
	if err != nil {
		return fmt.Errorf("failed to save job: %w", err)
	}
	return nil
}

// Get retrieves a job by its ID
func (s *jobStore) Get(ctx context.Context, id core.JobID) (*batch.Job, error) {
	query := `SELECT
		id, file_id, kind, operation, target_columns, status, progress,
		chunk_size, total_chunks, processed_chunks, chunk_errors, results,
		COALESCE(error_message, '') as error_message, created_at, updated_at
	FROM batch_jobs WHERE id = $1`

	var job batch.Job
	var targetsJSON, chunkErrorsJSON, resultsJSON []byte
	var createdAt, updatedAt time.Time

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&job.ID, &job.FileID, &job.Kind, &job.Operation, &targetsJSON, &job.Status, &job.Progress,
		&job.ChunkSize, &job.TotalChunks, &job.ProcessedChunks, &chunkErrorsJSON, &resultsJSON,
		&job.Error, &createdAt, &updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, core.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	if len(targetsJSON) > 0 {
		if err := json.Unmarshal(targetsJSON, &job.TargetColumns); err != nil {
			return nil, fmt.Errorf("failed to unmarshal target columns: %w", err)
		}
	}
	if len(chunkErrorsJSON) > 0 {
		if err := json.Unmarshal(chunkErrorsJSON, &job.ChunkErrors); err != nil {
			return nil, fmt.Errorf("failed to unmarshal chunk errors: %w", err)
		}
	}
	if len(resultsJSON) > 0 {
		var results batch.Results
		if err := json.Unmarshal(resultsJSON, &results); err != nil {
			return nil, fmt.Errorf("failed to unmarshal results: %w", err)
		}
		job.Results = &results
	}
	job.CreatedAt = core.NewTimestamp(createdAt)
	job.UpdatedAt = core.NewTimestamp(updatedAt)

	return &job, nil
}
