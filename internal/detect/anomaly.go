package detect

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"datascrub/domain/quality"
	"datascrub/internal/classify"
	"datascrub/internal/dataset"
)

// minAnomalyValues is the smallest column the content scan will profile;
// feature statistics over fewer values are noise.
const minAnomalyValues = 5

const (
	anomalyZThreshold = 2.5
	anomalySignals    = 2
)

var (
	loremRe       = regexp.MustCompile(`(?i)\b(lorem|ipsum)\b`)
	urlPrefixRe   = regexp.MustCompile(`(?i)^(https?://|www\.)`)
	emailShapeRe  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	commonWordsRe = regexp.MustCompile(`(?i)\b(the|and|for|with|this|that|from)\b`)
)

// hasRepeatedRun reports whether v contains the same non-newline rune three
// or more times in a row — the backreference pattern `(.)\1\1`, which Go's
// RE2-based regexp engine cannot express.
func hasRepeatedRun(v string) bool {
	var prev rune
	run := 0
	for _, r := range v {
		if r == prev {
			run++
		} else {
			prev, run = r, 1
		}
		if run >= 3 && r != '\n' {
			return true
		}
	}
	return false
}

// valueFeatures is the per-value feature vector the content scan profiles.
// The boolean flags mirror the numeric ratios so a column's shape can be
// compared without re-walking the strings.
type valueFeatures struct {
	row   int
	value string

	length       float64
	wordCount    float64
	digitRatio   float64
	upperRatio   float64
	specialRatio float64

	hasSpaces    bool
	leadingDigit bool
	looksURL     bool
	looksEmail   bool
	repeatedRun  bool
	capitalized  bool
	commonWords  bool

	numeric  bool
	lorem    bool
	nonLatin bool
}

// extractFeatures computes the feature vector for one cell value
func extractFeatures(row int, v string) valueFeatures {
	f := valueFeatures{row: row, value: v}

	runes := []rune(v)
	f.length = float64(len(runes))
	f.wordCount = float64(len(strings.Fields(v)))
	f.hasSpaces = strings.Contains(v, " ")
	f.looksURL = urlPrefixRe.MatchString(v)
	f.looksEmail = emailShapeRe.MatchString(v)
	f.repeatedRun = hasRepeatedRun(v)
	f.commonWords = commonWordsRe.MatchString(v)
	f.lorem = loremRe.MatchString(v)
	_, f.numeric = dataset.ParseNumeric(v)

	if len(runes) == 0 {
		return f
	}
	f.leadingDigit = unicode.IsDigit(runes[0])
	f.capitalized = unicode.IsUpper(runes[0])

	digits, uppers, specials := 0, 0, 0
	for _, r := range runes {
		switch {
		case unicode.IsDigit(r):
			digits++
		case unicode.IsUpper(r):
			uppers++
		case !unicode.IsLetter(r) && !unicode.IsSpace(r):
			specials++
		}
		// Latin Extended-B ends at U+024F; anything beyond it is content
		// from another script or symbol plane.
		if r > 0x024F {
			f.nonLatin = true
		}
	}
	f.digitRatio = float64(digits) / float64(len(runes))
	f.upperRatio = float64(uppers) / float64(len(runes))
	f.specialRatio = float64(specials) / float64(len(runes))
	return f
}

// featureStats holds one feature's distribution across a column
type featureStats struct {
	mean   float64
	stdDev float64
	median float64
}

func (fs featureStats) zExceeds(x, threshold float64) bool {
	if fs.stdDev == 0 {
		return false
	}
	return abs(x-fs.mean)/fs.stdDev > threshold
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// columnProfile summarizes a column's feature distributions
type columnProfile struct {
	length       featureStats
	wordCount    featureStats
	digitRatio   featureStats
	upperRatio   featureStats
	specialRatio featureStats

	spacesShare  float64
	numericShare float64
}

func profileColumn(features []valueFeatures) columnProfile {
	pick := func(get func(valueFeatures) float64) featureStats {
		xs := make([]float64, len(features))
		for i, f := range features {
			xs[i] = get(f)
		}
		mean, std := stat.MeanStdDev(xs, nil)
		median, _ := stats.Median(xs)
		return featureStats{mean: mean, stdDev: std, median: median}
	}

	p := columnProfile{
		length:       pick(func(f valueFeatures) float64 { return f.length }),
		wordCount:    pick(func(f valueFeatures) float64 { return f.wordCount }),
		digitRatio:   pick(func(f valueFeatures) float64 { return f.digitRatio }),
		upperRatio:   pick(func(f valueFeatures) float64 { return f.upperRatio }),
		specialRatio: pick(func(f valueFeatures) float64 { return f.specialRatio }),
	}

	spaces, numeric := 0, 0
	for _, f := range features {
		if f.hasSpaces {
			spaces++
		}
		if f.numeric {
			numeric++
		}
	}
	p.spacesShare = float64(spaces) / float64(len(features))
	p.numericShare = float64(numeric) / float64(len(features))
	return p
}

// anomalySignalCount tallies how many independent signals mark a value as
// inconsistent with its column. Lorem-ipsum content is handled separately
// by the caller: it flags on its own.
func anomalySignalCount(f valueFeatures, p columnProfile, colType classify.ColumnType) int {
	signals := 0

	if p.length.zExceeds(f.length, anomalyZThreshold) ||
		p.wordCount.zExceeds(f.wordCount, anomalyZThreshold) ||
		p.digitRatio.zExceeds(f.digitRatio, anomalyZThreshold) ||
		p.upperRatio.zExceeds(f.upperRatio, anomalyZThreshold) ||
		p.specialRatio.zExceeds(f.specialRatio, anomalyZThreshold) {
		signals++
	}
	if f.wordCount > 10 && p.wordCount.median < 3 {
		signals++
	}
	if f.digitRatio > 0.8 && p.digitRatio.median < 0.3 {
		signals++
	}
	if f.specialRatio > 0.3 && p.specialRatio.median < 0.1 {
		signals++
	}
	if !f.hasSpaces && p.spacesShare > 0.5 {
		signals++
	}
	if p.numericShare > 0.5 && !f.numeric {
		signals++
	}
	if (f.looksURL && colType != classify.TypeURL) ||
		(f.looksEmail && colType != classify.TypeEmail) {
		signals++
	}
	if f.nonLatin {
		signals++
	}
	return signals
}

// checkAnomalousContent profiles each column's value features and flags
// values that diverge from the column's own distribution. Skipped in
// sampled mode: feature statistics over a prefix sample are not worth the
// false positives.
func (d *Detector) checkAnomalousContent(s *scan) []quality.Issue {
	if s.sampled {
		return nil
	}

	var issues []quality.Issue
	for col, name := range s.header {
		colType, _ := classify.Classify(name)

		var features []valueFeatures
		for i := range s.rows {
			raw := s.cell(i, col)
			if dataset.IsMissing(raw) {
				continue
			}
			features = append(features, extractFeatures(i, strings.TrimSpace(raw)))
		}
		if len(features) < minAnomalyValues {
			continue
		}

		profile := profileColumn(features)
		flagged := 0
		var examples []string
		for _, f := range features {
			if !f.lorem && anomalySignalCount(f, profile, colType) < anomalySignals {
				continue
			}
			flagged++
			if len(examples) < maxColumnExamples {
				examples = append(examples, fmt.Sprintf("Row %d: %q", dataset.DisplayRow(f.row), f.value))
			}
		}
		if flagged == 0 {
			continue
		}

		issues = append(issues, quality.Issue{
			Type:     quality.IssuePotentialMislabels,
			Severity: quality.SeverityMedium,
			Description: fmt.Sprintf("Column %q has %d values that do not fit the column's content pattern",
				name, flagged),
			AffectedColumns: []string{name},
			Count:           flagged,
			Suggestion:      quality.SuggestionFor(quality.IssuePotentialMislabels),
			Examples:        examples,
		})
	}
	return issues
}
