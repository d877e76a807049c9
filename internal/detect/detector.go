// Package detect runs the data-quality checks over parsed CSV content and
// produces the ordered issue list. Checks run in a fixed order: duplicates,
// missing values, phone formats, email formats, whitespace, outliers, type
// mismatches, anomalous content, then the sampling disclosure when one was
// taken. Files above the large-file threshold are analyzed on a prefix
// sample with counts extrapolated back to the full row count.
package detect

import (
	"fmt"
	"math"

	"datascrub/domain/quality"
	"datascrub/internal"
	"datascrub/internal/dataset"
)

// Options tunes the detector's sampling behavior
type Options struct {
	LargeFileThreshold int // data rows above which a prefix sample is analyzed
	SampleSize         int // rows in the prefix sample
}

// DefaultOptions returns the standard thresholds
func DefaultOptions() Options {
	return Options{
		LargeFileThreshold: 10000,
		SampleSize:         5000,
	}
}

// Detector runs the full check suite. It holds no per-run state, so one
// detector can serve concurrent callers.
type Detector struct {
	opts Options
	log  *internal.Logger
}

// NewDetector creates a detector with the given options
func NewDetector(opts Options, log *internal.Logger) *Detector {
	if opts.LargeFileThreshold <= 0 {
		opts.LargeFileThreshold = DefaultOptions().LargeFileThreshold
	}
	if opts.SampleSize <= 0 {
		opts.SampleSize = DefaultOptions().SampleSize
	}
	if log == nil {
		log = internal.DefaultLogger
	}
	return &Detector{opts: opts, log: log.Component("Detector")}
}

// scan is one detection run's working view of the data: the header, the
// analyzed rows (raw, whitespace preserved), and the sampling context.
type scan struct {
	header    []string
	rows      [][]string
	totalRows int
	sampled   bool
}

// cell returns the raw value at (row, col), "" for short rows
func (s *scan) cell(row, col int) string {
	r := s.rows[row]
	if col >= len(r) {
		return ""
	}
	return r[col]
}

// extrapolate scales a sampled count up to a full-file estimate
func (s *scan) extrapolate(count int) int {
	if !s.sampled || len(s.rows) == 0 {
		return count
	}
	return int(math.Round(float64(count) / float64(len(s.rows)) * float64(s.totalRows)))
}

// Detect analyzes CSV text and returns the issue list with dataset
// dimensions. Input rejection (empty text, header-only text) is the only
// error path; individual checks degrade to producing no issue.
func (d *Detector) Detect(csvText string) (*quality.DetectionReport, error) {
	parsed, err := dataset.ParseRaw(csvText)
	if err != nil {
		return nil, err
	}

	s := &scan{
		header:    parsed.Header,
		rows:      parsed.Rows,
		totalRows: parsed.NumRows(),
	}
	if s.totalRows > d.opts.LargeFileThreshold {
		s.sampled = true
		s.rows = s.rows[:d.opts.SampleSize]
		d.log.Info("large file: analyzing %d of %d rows", len(s.rows), s.totalRows)
	}

	var issues []quality.Issue
	issues = appendIssues(issues, d.checkDuplicates(s))
	issues = appendIssues(issues, d.checkMissingValues(s))
	issues = appendIssues(issues, d.checkPhoneFormats(s))
	issues = appendIssues(issues, d.checkEmailFormats(s))
	issues = appendIssues(issues, d.checkWhitespace(s))
	issues = appendIssues(issues, d.runGuarded("outliers", func() []quality.Issue { return d.checkOutliers(s) }))
	issues = appendIssues(issues, d.runGuarded("data_types", func() []quality.Issue { return d.checkDataTypes(s) }))
	issues = appendIssues(issues, d.runGuarded("anomalous_content", func() []quality.Issue { return d.checkAnomalousContent(s) }))
	if s.sampled {
		issues = append(issues, d.samplingNote(s))
	}

	return &quality.DetectionReport{
		Info: quality.DatasetInfo{
			TotalRows:    s.totalRows,
			TotalColumns: len(s.header),
			ColumnNames:  s.header,
			Sampled:      s.sampled,
			SampleSize:   sampleSizeOf(s),
		},
		Issues: issues,
	}, nil
}

func sampleSizeOf(s *scan) int {
	if !s.sampled {
		return 0
	}
	return len(s.rows)
}

func appendIssues(issues, more []quality.Issue) []quality.Issue {
	return append(issues, more...)
}

// runGuarded shields detection from a panicking heuristic check. The
// statistical and semantic checks are exploratory; losing one check's
// findings beats failing the whole run.
func (d *Detector) runGuarded(name string, check func() []quality.Issue) (issues []quality.Issue) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Warn("%s check failed, skipping: %v", name, r)
			issues = nil
		}
	}()
	return check()
}

// samplingNote discloses the sampling ratio applied to a large file
func (d *Detector) samplingNote(s *scan) quality.Issue {
	ratio := 100 * float64(len(s.rows)) / float64(s.totalRows)
	return quality.Issue{
		Type:            quality.IssuePerformanceNote,
		Severity:        quality.SeverityLow,
		Description:     fmt.Sprintf("Large file: counts are extrapolated from the first %d rows", len(s.rows)),
		AffectedColumns: []string{},
		Count:           len(s.rows),
		Suggestion:      quality.SuggestionFor(quality.IssuePerformanceNote),
		Examples: []string{
			fmt.Sprintf("Analyzed %d of %d rows (%.1f%%)", len(s.rows), s.totalRows, ratio),
		},
	}
}
