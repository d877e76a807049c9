package batch

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"

	"datascrub/domain/batch"
	"datascrub/domain/cleaning"
	"datascrub/domain/core"
	"datascrub/domain/quality"
	"datascrub/internal"
	"datascrub/internal/dataset"
)

// Detector runs issue detection over one chunk of CSV text
type Detector interface {
	Detect(csvText string) (*quality.DetectionReport, error)
}

// Cleaner applies one cleaning operation to one chunk of CSV text
type Cleaner interface {
	Apply(csvText string, op cleaning.OpName, targets []string) (*cleaning.Result, error)
}

// Options tunes chunking and concurrency
type Options struct {
	ChunkSize           int // data rows per chunk
	MaxConcurrentChunks int // chunks processed simultaneously, across all jobs
}

// DefaultOptions returns the standard chunking parameters
func DefaultOptions() Options {
	return Options{
		ChunkSize:           10000,
		MaxConcurrentChunks: 3,
	}
}

// Coordinator owns the lifecycle of every batch job it accepts. One run
// goroutine per job drives the state machine; the shared weighted semaphore
// bounds how many chunks are in flight across all jobs at once.
type Coordinator struct {
	registry *Registry
	detector Detector
	cleaner  Cleaner
	sem      *semaphore.Weighted
	opts     Options
	log      *internal.Logger
}

// NewCoordinator creates a coordinator backed by the given registry and
// chunk workers.
func NewCoordinator(registry *Registry, detector Detector, cleaner Cleaner, opts Options, log *internal.Logger) *Coordinator {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultOptions().ChunkSize
	}
	if opts.MaxConcurrentChunks <= 0 {
		opts.MaxConcurrentChunks = DefaultOptions().MaxConcurrentChunks
	}
	if log == nil {
		log = internal.DefaultLogger
	}
	return &Coordinator{
		registry: registry,
		detector: detector,
		cleaner:  cleaner,
		sem:      semaphore.NewWeighted(int64(opts.MaxConcurrentChunks)),
		opts:     opts,
		log:      log.Component("BatchCoordinator"),
	}
}

// Registry exposes the job registry for status reads and cancellation
func (c *Coordinator) Registry() *Registry {
	return c.registry
}

// Job returns a copy of the job record
func (c *Coordinator) Job(ctx context.Context, id core.JobID) (*batch.Job, error) {
	return c.registry.Get(ctx, id)
}

// Cancel requests cancellation of a job
func (c *Coordinator) Cancel(ctx context.Context, id core.JobID) error {
	return c.registry.Cancel(ctx, id)
}

// Submit validates the input, registers a pending job, and starts its run
// goroutine. The returned record is a snapshot; poll Job for progress.
func (c *Coordinator) Submit(ctx context.Context, csvText string, fileID core.FileID, kind batch.JobKind, op cleaning.OpName, targets []string) (*batch.Job, error) {
	if strings.TrimSpace(csvText) == "" {
		return nil, core.ErrEmptyInput
	}
	lines := dataset.Lines(csvText)
	if len(lines) < 2 {
		return nil, core.ErrTooFewLines
	}
	if kind == batch.KindClean && !op.Valid() {
		return nil, core.NewUnknownOperationError(string(op))
	}

	job := batch.NewJob(fileID, kind, op, targets, c.opts.ChunkSize)
	dataRows := len(lines) - 1
	job.TotalChunks = (dataRows + c.opts.ChunkSize - 1) / c.opts.ChunkSize

	// The job context outlives the submitting request; only cancellation
	// ends it early.
	jobCtx, cancel := context.WithCancel(context.Background())
	c.registry.Add(ctx, job, cancel)
	c.log.Info("job %s accepted: %s over %d rows in %d chunks", job.ID, kind, dataRows, job.TotalChunks)

	go c.run(jobCtx, job.ID, lines[0], lines[1:], kind, op, targets)

	return job.Clone(), nil
}

// outcome holds one chunk's result, exactly one field set
type outcome struct {
	report  *quality.DetectionReport
	cleaned *cleaning.Result
	err     error
}

// run drives one job to a terminal state. Chunks are processed in groups of
// MaxConcurrentChunks; cancellation is checked between groups, never
// mid-chunk, so an in-flight chunk always finishes (its output is then
// discarded).
func (c *Coordinator) run(ctx context.Context, id core.JobID, header string, rows []string, kind batch.JobKind, op cleaning.OpName, targets []string) {
	defer func() {
		if rec := recover(); rec != nil {
			c.log.Error("job %s orchestration panic: %v", id, rec)
			c.fail(ctx, id, fmt.Sprintf("internal error: %v", rec))
		}
	}()

	if err := c.registry.update(ctx, id, func(j *batch.Job) error {
		return j.TransitionTo(batch.StatusProcessing)
	}); err != nil {
		// Cancelled before processing began.
		return
	}

	chunks := splitChunks(rows, c.opts.ChunkSize)
	outcomes := make([]outcome, len(chunks))

	for start := 0; start < len(chunks); start += c.opts.MaxConcurrentChunks {
		if c.registry.isCancelled(id) {
			c.log.Info("job %s cancelled after %d of %d chunks", id, start, len(chunks))
			return
		}

		end := start + c.opts.MaxConcurrentChunks
		if end > len(chunks) {
			end = len(chunks)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				if err := c.sem.Acquire(ctx, 1); err != nil {
					outcomes[i] = outcome{err: err}
					return
				}
				defer c.sem.Release(1)
				outcomes[i] = c.processChunk(header, chunks[i], kind, op, targets)
			}(i)
		}
		wg.Wait()

		processed := end
		if err := c.registry.update(ctx, id, func(j *batch.Job) error {
			if err := j.TransitionTo(batch.StatusProcessing); err != nil {
				return err
			}
			j.RecordChunkProgress(processed)
			return nil
		}); err != nil {
			// Job went terminal underneath us; stop scheduling.
			return
		}
		c.log.Debug("job %s processed %d/%d chunks", id, processed, len(chunks))
	}

	if c.registry.isCancelled(id) {
		return
	}
	c.finish(ctx, id, kind, outcomes)
}

// finish tallies chunk errors and either fails the job (every chunk
// errored) or merges the successful chunks and completes it.
func (c *Coordinator) finish(ctx context.Context, id core.JobID, kind batch.JobKind, outcomes []outcome) {
	var chunkErrors []string
	failed := 0
	for i, o := range outcomes {
		if o.err != nil {
			failed++
			chunkErrors = append(chunkErrors, fmt.Sprintf("chunk %d: %v", i, o.err))
		}
	}

	if failed == len(outcomes) {
		c.log.Error("job %s failed: all %d chunks errored", id, failed)
		if err := c.registry.update(ctx, id, func(j *batch.Job) error {
			if err := j.TransitionTo(batch.StatusFailed); err != nil {
				return err
			}
			j.ChunkErrors = chunkErrors
			j.Error = fmt.Sprintf("all %d chunks failed; first error: %s", failed, chunkErrors[0])
			return nil
		}); err != nil {
			c.log.Warn("job %s could not record failure: %v", id, err)
		}
		return
	}

	var results *batch.Results
	switch kind {
	case batch.KindDetect:
		results = &batch.Results{Detection: mergeDetection(outcomes)}
	case batch.KindClean:
		results = &batch.Results{Cleaning: mergeCleaning(outcomes)}
	}

	if err := c.registry.update(ctx, id, func(j *batch.Job) error {
		if err := j.TransitionTo(batch.StatusCompleted); err != nil {
			return err
		}
		j.ChunkErrors = chunkErrors
		j.Results = results
		j.RecordChunkProgress(j.TotalChunks)
		return nil
	}); err != nil {
		// Cancelled in the window after the last batch; results discarded.
		return
	}
	c.log.Info("job %s completed (%d chunks, %d errors)", id, len(outcomes), failed)
}

// fail marks the job failed with a message, tolerating already-terminal jobs
func (c *Coordinator) fail(ctx context.Context, id core.JobID, message string) {
	_ = c.registry.update(ctx, id, func(j *batch.Job) error {
		if err := j.TransitionTo(batch.StatusFailed); err != nil {
			return err
		}
		j.Error = message
		return nil
	})
}

// processChunk rebuilds one chunk's CSV text with the header prepended and
// hands it to the matching worker.
func (c *Coordinator) processChunk(header string, chunkRows []string, kind batch.JobKind, op cleaning.OpName, targets []string) outcome {
	chunkText := header + "\n" + strings.Join(chunkRows, "\n")

	switch kind {
	case batch.KindDetect:
		report, err := c.detector.Detect(chunkText)
		if err != nil {
			return outcome{err: err}
		}
		return outcome{report: report}
	case batch.KindClean:
		res, err := c.cleaner.Apply(chunkText, op, targets)
		if err != nil {
			return outcome{err: err}
		}
		return outcome{cleaned: res}
	}
	return outcome{err: fmt.Errorf("unknown job kind %q", kind)}
}

// splitChunks groups data rows into contiguous chunks of at most size rows,
// preserving order.
func splitChunks(rows []string, size int) [][]string {
	var chunks [][]string
	for start := 0; start < len(rows); start += size {
		end := start + size
		if end > len(rows) {
			end = len(rows)
		}
		chunks = append(chunks, rows[start:end])
	}
	return chunks
}

// mergeDetection concatenates per-chunk issue lists in chunk order and sums
// the row counts. Example row numbers stay chunk-relative; the disclosure is
// cheaper than renumbering every example string.
func mergeDetection(outcomes []outcome) *quality.DetectionReport {
	merged := &quality.DetectionReport{}
	for _, o := range outcomes {
		if o.err != nil || o.report == nil {
			continue
		}
		if merged.Info.ColumnNames == nil {
			merged.Info.TotalColumns = o.report.Info.TotalColumns
			merged.Info.ColumnNames = o.report.Info.ColumnNames
		}
		merged.Info.TotalRows += o.report.Info.TotalRows
		merged.Info.Sampled = merged.Info.Sampled || o.report.Info.Sampled
		merged.Issues = append(merged.Issues, o.report.Issues...)
	}
	return merged
}

// mergeCleaning writes the first successful chunk's header once, then every
// chunk's cleaned data rows in original chunk order, summing the counters.
func mergeCleaning(outcomes []outcome) *cleaning.Result {
	merged := &cleaning.Result{}
	var b strings.Builder

	for _, o := range outcomes {
		if o.err != nil || o.cleaned == nil {
			continue
		}
		lines := dataset.Lines(o.cleaned.CSVText)
		if len(lines) == 0 {
			continue
		}
		if b.Len() == 0 {
			merged.Operation = o.cleaned.Operation
			b.WriteString(lines[0])
		}
		for _, line := range lines[1:] {
			b.WriteByte('\n')
			b.WriteString(line)
		}
		merged.Changes += o.cleaned.Changes
		merged.OriginalRows += o.cleaned.OriginalRows
		merged.CleanedRows += o.cleaned.CleanedRows
	}

	merged.CSVText = b.String()
	return merged
}
