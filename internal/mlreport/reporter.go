package mlreport

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/montanaflynn/stats"

	"datascrub/internal"
	"datascrub/internal/dataset"
)

const (
	// completeness expectation passes at 95%, the profiling constraint at 90%
	completenessExpectationMin = 0.95
	completenessConstraintMin  = 0.9
	emailValidityMin           = 0.90

	// null-like pattern confidence: 0.95 for strong patterns, otherwise
	// scaled up from the base by the observed share
	strongPatternShare      = 0.05
	strongPatternConfidence = 0.95
	weakPatternBase         = 0.7
	weakPatternSlope        = 5

	medianRepairConfidence = 0.85
	modeRepairConfidence   = 0.75

	// labels rarer than the low-confidence share are reported; below the
	// mislabel share they are marked likely mislabels
	lowConfidenceShare  = 0.6
	likelyMislabelShare = 0.4
	maxMislabelDetails  = 10
	maxLabelColumns     = 2

	// fill used for missing values when scoring label columns
	missingLabel = "Unknown"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// nullLikeTokens is the extended placeholder set scanned by the repair
// section. Broader than the engine's missing-value set on purpose: it also
// catches fills like "unknown" and "-" that count as present elsewhere.
var nullLikeTokens = map[string]bool{
	"n/a":     true,
	"na":      true,
	"null":    true,
	"none":    true,
	"missing": true,
	"":        true,
	"unknown": true,
	"?":       true,
	"-":       true,
	"nan":     true,
}

// Options tunes the report's sampling cap
type Options struct {
	MaxRows int // data rows analyzed; larger inputs use the first MaxRows
}

// DefaultOptions returns the standard row cap
func DefaultOptions() Options {
	return Options{MaxRows: 10000}
}

// Reporter computes tool-style reports. It holds no per-run state.
type Reporter struct {
	opts Options
	log  *internal.Logger
}

// NewReporter creates a reporter with the given options
func NewReporter(opts Options, log *internal.Logger) *Reporter {
	if opts.MaxRows <= 0 {
		opts.MaxRows = DefaultOptions().MaxRows
	}
	if log == nil {
		log = internal.DefaultLogger
	}
	return &Reporter{opts: opts, log: log.Component("Reporter")}
}

// Report analyzes CSV text and returns all four report sections. fileName
// and sizeBytes feed dataset_info only. Inputs above the row cap are
// analyzed on their leading rows and the reported row count reflects the
// analyzed rows.
func (r *Reporter) Report(csvText, fileName string, sizeBytes int64) (*Report, error) {
	ds, err := dataset.Parse(csvText)
	if err != nil {
		return nil, err
	}
	if ds.NumRows() > r.opts.MaxRows {
		r.log.Info("dataset has %d rows, analyzing the first %d", ds.NumRows(), r.opts.MaxRows)
		ds.Rows = ds.Rows[:r.opts.MaxRows]
	}

	rows := ds.NumRows()
	profiles := buildProfiles(ds)

	return &Report{
		Info: DatasetInfo{
			File:        fileName,
			Rows:        rows,
			Columns:     ds.NumColumns(),
			ColumnNames: ds.Header,
			FileSizeMB:  math.Round(float64(sizeBytes)/1024/1024*100) / 100,
		},
		Expectations: buildExpectations(rows, profiles),
		Constraints:  buildConstraints(rows, profiles),
		Repairs:      buildRepairs(rows, profiles),
		Mislabels:    buildMislabels(rows, profiles),
	}, nil
}

// columnProfile is one column's precomputed view: every cell, the
// non-missing cells, and their numeric parses. A column is numeric when it
// has values and all of them parse.
type columnProfile struct {
	name       string
	values     []string
	nonMissing []string
	numbers    []float64
	numeric    bool
}

func buildProfiles(ds *dataset.Dataset) []columnProfile {
	profiles := make([]columnProfile, ds.NumColumns())
	for c := range profiles {
		p := &profiles[c]
		p.name = ds.Header[c]
		for i := range ds.Rows {
			v := ds.Cell(i, c)
			p.values = append(p.values, v)
			if dataset.IsMissing(v) {
				continue
			}
			p.nonMissing = append(p.nonMissing, v)
			if f, ok := dataset.ParseNumeric(v); ok {
				p.numbers = append(p.numbers, f)
			}
		}
		p.numeric = len(p.nonMissing) > 0 && len(p.numbers) == len(p.nonMissing)
	}
	return profiles
}

// buildExpectations generates per-column completeness expectations, range
// expectations for numeric columns, and a regex expectation for columns
// named like email addresses.
func buildExpectations(rows int, profiles []columnProfile) ExpectationSet {
	var exps []Expectation
	for _, p := range profiles {
		completeness := float64(len(p.nonMissing)) / float64(rows)
		exps = append(exps, Expectation{
			Expectation:   "expect_column_values_to_not_be_null",
			Column:        p.name,
			Threshold:     floatRef(completeness),
			CurrentValue:  floatRef(completeness),
			Passes:        completeness >= completenessExpectationMin,
			AutoGenerated: true,
		})

		if p.numeric {
			minVal, _ := stats.Min(p.numbers)
			maxVal, _ := stats.Max(p.numbers)
			exps = append(exps, Expectation{
				Expectation:   "expect_column_values_to_be_between",
				Column:        p.name,
				MinValue:      floatRef(minVal),
				MaxValue:      floatRef(maxVal),
				Passes:        true,
				AutoGenerated: true,
			})
		}

		if strings.Contains(strings.ToLower(p.name), "email") {
			validity := 0.0
			if len(p.nonMissing) > 0 {
				valid := 0
				for _, v := range p.nonMissing {
					if emailPattern.MatchString(v) {
						valid++
					}
				}
				validity = float64(valid) / float64(len(p.nonMissing))
			}
			exps = append(exps, Expectation{
				Expectation:   "expect_column_values_to_match_regex",
				Column:        p.name,
				Pattern:       "email_pattern",
				Validity:      floatRef(validity),
				Passes:        validity >= emailValidityMin,
				AutoGenerated: true,
			})
		}
	}

	passed := 0
	for _, e := range exps {
		if e.Passes {
			passed++
		}
	}
	return ExpectationSet{
		Tool:              "Great Expectations Style",
		TotalExpectations: len(exps),
		Passed:            passed,
		Failed:            len(exps) - passed,
		Expectations:      exps,
		AutoGenerated:     true,
		ViolationReports:  "Available for failed expectations",
	}
}

// buildConstraints generates completeness and uniqueness constraints per
// column. Uniqueness constraints record the observed ratio and always pass.
func buildConstraints(rows int, profiles []columnProfile) ConstraintSet {
	var cons []Constraint
	for _, p := range profiles {
		completeness := float64(len(p.nonMissing)) / float64(rows)
		cons = append(cons, Constraint{
			Type:          "completeness",
			Column:        p.name,
			ObservedValue: completeness,
			Constraint:    "completeness >= 0.9",
			Passes:        completeness >= completenessConstraintMin,
		})

		uniqueness := 0.0
		if len(p.nonMissing) > 0 {
			uniqueness = float64(distinctCount(p.nonMissing)) / float64(len(p.nonMissing))
		}
		cons = append(cons, Constraint{
			Type:          "uniqueness",
			Column:        p.name,
			ObservedValue: uniqueness,
			Constraint:    fmt.Sprintf("uniqueness ratio: %.2f", uniqueness),
			Passes:        true,
		})
	}
	return ConstraintSet{
		Tool:                 "Deequ Style (Amazon)",
		ConstraintsGenerated: len(cons),
		Constraints:          cons,
		MLAnomalyDetection:   map[string]interface{}{},
		LargeScale:           "Would run on Spark in production",
		AutoProfiling:        true,
	}
}

// buildRepairs scans every column for null-like placeholder tokens and
// suggests a fill: the median for numeric columns, the most frequent value
// for the rest.
func buildRepairs(rows int, profiles []columnProfile) RepairFindings {
	details := make(map[string]ColumnErrors)
	repairs := make(map[string]ColumnRepair)

	for _, p := range profiles {
		nullLike := 0
		for _, v := range p.values {
			if nullLikeTokens[strings.ToLower(strings.TrimSpace(v))] {
				nullLike++
			}
		}
		if nullLike == 0 {
			continue
		}

		strength := float64(nullLike) / float64(rows)
		confidence := strongPatternConfidence
		if strength <= strongPatternShare {
			confidence = weakPatternBase + strength*weakPatternSlope
		}
		details[p.name] = ColumnErrors{
			ErrorType:              "null_like_patterns",
			ErrorsFound:            nullLike,
			Confidence:             confidence,
			ProbabilisticInference: true,
			PatternStrength:        strength,
		}
		repairs[p.name] = suggestRepair(p)
	}

	return RepairFindings{
		Tool:                   "HoloClean Style",
		ProbabilisticInference: true,
		ErrorsDetected:         len(details),
		ErrorDetails:           details,
		RepairSuggestions:      repairs,
		Method:                 "Uses constraints + probabilistic models",
	}
}

func suggestRepair(p columnProfile) ColumnRepair {
	if p.numeric {
		median, _ := stats.Median(p.numbers)
		return ColumnRepair{
			Method:         "median_imputation",
			SuggestedValue: median,
			Confidence:     medianRepairConfidence,
			Probabilistic:  true,
		}
	}
	suggested := missingLabel
	if len(p.nonMissing) > 0 {
		suggested = modalValue(p.nonMissing)
	}
	return ColumnRepair{
		Method:         "mode_imputation",
		SuggestedValue: suggested,
		Confidence:     modeRepairConfidence,
		Probabilistic:  true,
	}
}

// buildMislabels scores label-like columns by label frequency. A column
// qualifies as a label when it is non-numeric with between 2 and rows/2
// distinct values; at least one numeric feature column must exist. A row's
// confidence is the share of rows carrying its label, so rare labels
// surface as potential mislabels with the modal label as the prediction.
func buildMislabels(rows int, profiles []columnProfile) MislabelSummary {
	var labelCols []columnProfile
	for _, p := range profiles {
		if p.numeric {
			continue
		}
		card := distinctCount(p.nonMissing)
		if card >= 2 && float64(card) <= float64(rows)*0.5 {
			labelCols = append(labelCols, p)
		}
	}
	if len(labelCols) == 0 {
		return MislabelSummary{
			Tool:     "Cleanlab",
			Message:  "No suitable categorical columns for mislabel detection",
			Requires: "Categorical target + numeric features",
		}
	}

	hasNumericFeature := false
	for _, p := range profiles {
		if p.numeric {
			hasNumericFeature = true
			break
		}
	}

	results := make(map[string]ColumnMislabels)
	if hasNumericFeature {
		if len(labelCols) > maxLabelColumns {
			labelCols = labelCols[:maxLabelColumns]
		}
		for _, p := range labelCols {
			if entry, ok := scoreLabels(p.values); ok {
				results[p.name] = entry
			}
		}
	}

	return MislabelSummary{
		Tool:              "Cleanlab Style",
		MLPowered:         true,
		MislabelDetection: results,
		Method:            "Frequency-based mislabel detection",
		UseCase:           "Identifies suspicious/ambiguous labels",
	}
}

func scoreLabels(values []string) (ColumnMislabels, bool) {
	labels := make([]string, len(values))
	freq := make(map[string]int, len(values))
	for i, v := range values {
		if dataset.IsMissing(v) {
			v = missingLabel
		}
		labels[i] = v
		freq[v]++
	}
	if len(freq) < 2 {
		return ColumnMislabels{}, false
	}

	modal := modalValue(labels)
	total := float64(len(labels))

	var details []MislabelDetail
	flagged := 0
	for i, label := range labels {
		confidence := float64(freq[label]) / total
		if confidence >= lowConfidenceShare {
			continue
		}
		flagged++
		if len(details) < maxMislabelDetails {
			details = append(details, MislabelDetail{
				RowIndex:       i,
				CurrentLabel:   label,
				PredictedLabel: modal,
				Confidence:     confidence,
				LikelyMislabel: confidence < likelyMislabelShare,
			})
		}
	}
	if flagged == 0 {
		return ColumnMislabels{}, false
	}
	return ColumnMislabels{
		TotalPotentialMislabels: flagged,
		Percentage:              float64(flagged) / total * 100,
		Details:                 details,
		Method:                  "label frequency confidence scoring",
	}, true
}

// modalValue returns the most frequent value, first seen winning ties
func modalValue(values []string) string {
	counts := make(map[string]int, len(values))
	best := ""
	bestCount := 0
	for _, v := range values {
		counts[v]++
		if counts[v] > bestCount {
			bestCount = counts[v]
			best = v
		}
	}
	return best
}

func distinctCount(values []string) int {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	return len(seen)
}

func floatRef(v float64) *float64 {
	return &v
}
