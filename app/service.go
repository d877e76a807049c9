// Package app exposes the engine behind one facade. The service validates
// input at the boundary, translates domain sentinels into coded errors for
// external callers, and routes large inputs to the batch coordinator.
package app

import (
	"context"

	domainBatch "datascrub/domain/batch"
	"datascrub/domain/cleaning"
	"datascrub/domain/core"
	"datascrub/domain/quality"
	"datascrub/internal"
	"datascrub/internal/batch"
	"datascrub/internal/clean"
	"datascrub/internal/detect"
	"datascrub/internal/errors"
	"datascrub/internal/mlreport"
)

// Service is the application facade for detection, cleaning, reporting,
// and batch jobs
type Service struct {
	detector      *detect.Detector
	cleaner       *clean.Registry
	reporter      *mlreport.Reporter
	coordinator   *batch.Coordinator
	maxInputBytes int
	log           *internal.Logger
}

// NewService creates the service. maxInputBytes of zero disables the size
// guard.
func NewService(
	detector *detect.Detector,
	cleaner *clean.Registry,
	reporter *mlreport.Reporter,
	coordinator *batch.Coordinator,
	maxInputBytes int,
	log *internal.Logger,
) *Service {
	if log == nil {
		log = internal.DefaultLogger
	}
	return &Service{
		detector:      detector,
		cleaner:       cleaner,
		reporter:      reporter,
		coordinator:   coordinator,
		maxInputBytes: maxInputBytes,
		log:           log.Component("Service"),
	}
}

// Detect runs the full check suite over CSV text and returns the ordered
// issue list
func (s *Service) Detect(ctx context.Context, csvText string) (*quality.DetectionReport, error) {
	if err := s.checkSize(csvText); err != nil {
		return nil, err
	}
	report, err := s.detector.Detect(csvText)
	if err != nil {
		return nil, serviceError(err)
	}
	return report, nil
}

// Apply runs one cleaning operation over CSV text. Unknown operation names
// are rejected before any parsing or processing happens.
func (s *Service) Apply(ctx context.Context, csvText string, op cleaning.OpName, targets []string) (*cleaning.Result, error) {
	if err := s.checkSize(csvText); err != nil {
		return nil, err
	}
	result, err := s.cleaner.Apply(csvText, op, targets)
	if err != nil {
		return nil, serviceError(err)
	}
	return result, nil
}

// Report computes the tool-style quality report for CSV text
func (s *Service) Report(ctx context.Context, csvText, fileName string) (*mlreport.Report, error) {
	if err := s.checkSize(csvText); err != nil {
		return nil, err
	}
	report, err := s.reporter.Report(csvText, fileName, int64(len(csvText)))
	if err != nil {
		return nil, serviceError(err)
	}
	return report, nil
}

// Operations returns the fixed cleaning operation catalog
func (s *Service) Operations() []cleaning.OpName {
	return cleaning.Catalog()
}

// SubmitBatch starts an asynchronous chunked job and returns its initial
// record. Processing continues after this call returns; poll JobStatus for
// progress and results.
func (s *Service) SubmitBatch(ctx context.Context, csvText string, fileID core.FileID, kind domainBatch.JobKind, op cleaning.OpName, targets []string) (*domainBatch.Job, error) {
	if err := s.checkSize(csvText); err != nil {
		return nil, err
	}
	job, err := s.coordinator.Submit(ctx, csvText, fileID, kind, op, targets)
	if err != nil {
		return nil, serviceError(err)
	}
	s.log.Info("submitted %s job %s (%d chunks, content %s)",
		kind, job.ID, job.TotalChunks, core.DatasetFingerprint(csvText).ShortHash())
	return job, nil
}

// JobStatus returns a snapshot of the job record
func (s *Service) JobStatus(ctx context.Context, id core.JobID) (*domainBatch.Job, error) {
	job, err := s.coordinator.Job(ctx, id)
	if err != nil {
		return nil, serviceError(err)
	}
	return job, nil
}

// CancelJob requests cancellation of a pending or processing job
func (s *Service) CancelJob(ctx context.Context, id core.JobID) error {
	if err := s.coordinator.Cancel(ctx, id); err != nil {
		return serviceError(err)
	}
	s.log.Info("cancelled job %s", id)
	return nil
}

func (s *Service) checkSize(csvText string) error {
	if s.maxInputBytes > 0 && len(csvText) > s.maxInputBytes {
		return serviceError(core.NewInputTooLargeError(len(csvText), s.maxInputBytes))
	}
	return nil
}

// serviceError maps domain sentinels onto the coded error taxonomy callers
// switch on
func serviceError(err error) error {
	switch {
	case err == nil:
		return nil
	case core.IsUnknownOperation(err):
		return errors.WithCode(errors.CodeUnknownOperation, err)
	case core.IsInputTooLarge(err):
		return errors.WithCode(errors.CodeInputTooLarge, err)
	case core.IsInputRejection(err):
		return errors.WithCode(errors.CodeInvalidInput, err)
	case core.IsNotFoundError(err):
		return errors.WithCode(errors.CodeNotFound, err)
	case core.IsJobStateError(err):
		return errors.WithCode(errors.CodeJobState, err)
	default:
		return errors.WithCode(errors.CodeInternalError, err)
	}
}
