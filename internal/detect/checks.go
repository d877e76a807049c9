package detect

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"datascrub/domain/core"
	"datascrub/domain/quality"
	"datascrub/internal/classify"
	"datascrub/internal/dataset"
	"datascrub/internal/outliers"
)

const (
	maxExamples        = 3
	maxColumnExamples  = 5
	maxSampledTypeCols = 10
)

// checkDuplicates buckets rows by their normalized fingerprint; every row
// beyond the first in a bucket is a duplicate.
func (d *Detector) checkDuplicates(s *scan) []quality.Issue {
	firstSeen := make(map[core.Hash]int, len(s.rows))
	dupCount := 0
	var examples []string

	for i, row := range s.rows {
		fp := core.RowFingerprint(row)
		first, seen := firstSeen[fp]
		if !seen {
			firstSeen[fp] = i
			continue
		}
		dupCount++
		if len(examples) < maxExamples {
			examples = append(examples,
				fmt.Sprintf("Row %d duplicates row %d", dataset.DisplayRow(i), dataset.DisplayRow(first)))
		}
	}

	if dupCount == 0 {
		return nil
	}
	count := s.extrapolate(dupCount)
	return []quality.Issue{{
		Type:            quality.IssueDuplicates,
		Severity:        quality.SeverityHigh,
		Description:     fmt.Sprintf("Found %d duplicate rows", count),
		AffectedColumns: []string{},
		Count:           count,
		Suggestion:      quality.SuggestionFor(quality.IssueDuplicates),
		Examples:        examples,
	}}
}

// checkMissingValues produces one issue per column that has empty or
// null-like cells.
func (d *Detector) checkMissingValues(s *scan) []quality.Issue {
	var issues []quality.Issue

	for col, name := range s.header {
		missing := 0
		var examples []string
		for i := range s.rows {
			raw := s.cell(i, col)
			if !dataset.IsMissing(raw) {
				continue
			}
			missing++
			if len(examples) < maxExamples {
				examples = append(examples, fmt.Sprintf("Row %d: %q", dataset.DisplayRow(i), raw))
			}
		}
		if missing == 0 {
			continue
		}

		count := s.extrapolate(missing)
		pct := 100 * float64(count) / float64(s.totalRows)
		severity := quality.SeverityLow
		switch {
		case pct > 50:
			severity = quality.SeverityHigh
		case pct > 20:
			severity = quality.SeverityMedium
		}

		issues = append(issues, quality.Issue{
			Type:            quality.IssueMissingValues,
			Severity:        severity,
			Description:     fmt.Sprintf("Column %q has %d missing values (%.1f%%)", name, count, pct),
			AffectedColumns: []string{name},
			Count:           count,
			Suggestion:      quality.SuggestionFor(quality.IssueMissingValues),
			Examples:        examples,
		})
	}
	return issues
}

// phoneMatch records one non-empty phone value and the format it matched,
// -1 when it matched none.
type phoneMatch struct {
	row    int
	value  string
	format int
}

// checkPhoneFormats flags phone-named columns that mix formats or carry
// values matching no known format. The format list is the phone rule's
// pattern table, so the classifier and this check stay in sync.
func (d *Detector) checkPhoneFormats(s *scan) []quality.Issue {
	rule, ok := classify.RuleFor(classify.TypePhone)
	if !ok {
		return nil
	}

	var issues []quality.Issue
	for col, name := range s.header {
		if !strings.Contains(strings.ToLower(name), "phone") {
			continue
		}

		var matches []phoneMatch
		formatCounts := make(map[int]int)
		invalid := 0
		for i := range s.rows {
			v := strings.TrimSpace(s.cell(i, col))
			if v == "" {
				continue
			}
			format := -1
			for k, re := range rule.Patterns {
				if re.MatchString(v) {
					format = k
					break
				}
			}
			matches = append(matches, phoneMatch{row: i, value: v, format: format})
			if format < 0 {
				invalid++
			} else {
				formatCounts[format]++
			}
		}

		mixed := len(formatCounts) > 1
		if invalid == 0 && !mixed {
			continue
		}

		// Count values needing attention: unparseable ones always, plus
		// every value outside the dominant format when formats are mixed.
		count := invalid
		if mixed {
			dominant := dominantFormat(formatCounts)
			for f, n := range formatCounts {
				if f != dominant {
					count += n
				}
			}
		}

		var examples []string
		for _, m := range matches {
			if m.format >= 0 {
				continue
			}
			if len(examples) == maxExamples {
				break
			}
			examples = append(examples, fmt.Sprintf("Row %d: %q", dataset.DisplayRow(m.row), m.value))
		}
		if mixed {
			dominant := dominantFormat(formatCounts)
			for _, m := range matches {
				if len(examples) == maxExamples {
					break
				}
				if m.format >= 0 && m.format != dominant {
					examples = append(examples, fmt.Sprintf("Row %d: %q", dataset.DisplayRow(m.row), m.value))
				}
			}
		}

		description := fmt.Sprintf("Column %q has %d phone numbers matching no known format", name, s.extrapolate(invalid))
		if mixed {
			description = fmt.Sprintf("Column %q mixes %d phone number formats", name, len(formatCounts))
			if invalid > 0 {
				description += fmt.Sprintf(" and has %d unparseable values", s.extrapolate(invalid))
			}
		}

		issues = append(issues, quality.Issue{
			Type:            quality.IssuePhoneFormat,
			Severity:        quality.SeverityMedium,
			Description:     description,
			AffectedColumns: []string{name},
			Count:           s.extrapolate(count),
			Suggestion:      quality.SuggestionFor(quality.IssuePhoneFormat),
			Examples:        examples,
		})
	}
	return issues
}

// dominantFormat returns the most common format index, lowest index on ties
func dominantFormat(counts map[int]int) int {
	best, bestCount := -1, -1
	for f, n := range counts {
		if n > bestCount || (n == bestCount && f < best) {
			best, bestCount = f, n
		}
	}
	return best
}

// checkEmailFormats flags email-named columns with values failing the email
// shape check.
func (d *Detector) checkEmailFormats(s *scan) []quality.Issue {
	var issues []quality.Issue
	for col, name := range s.header {
		if !strings.Contains(strings.ToLower(name), "email") {
			continue
		}

		invalid := 0
		var examples []string
		for i := range s.rows {
			v := strings.TrimSpace(s.cell(i, col))
			if v == "" || classify.MatchesPattern(classify.TypeEmail, v) {
				continue
			}
			invalid++
			if len(examples) < maxExamples {
				examples = append(examples, fmt.Sprintf("Row %d: %q", dataset.DisplayRow(i), v))
			}
		}
		if invalid == 0 {
			continue
		}

		count := s.extrapolate(invalid)
		issues = append(issues, quality.Issue{
			Type:            quality.IssueEmailFormat,
			Severity:        quality.SeverityMedium,
			Description:     fmt.Sprintf("Column %q has %d invalid email addresses", name, count),
			AffectedColumns: []string{name},
			Count:           count,
			Suggestion:      quality.SuggestionFor(quality.IssueEmailFormat),
			Examples:        examples,
		})
	}
	return issues
}

var doubleSpace = "  "

// checkWhitespace scans every cell for stray padding or repeated internal
// spaces. One example per offending row, first offending cell only.
func (d *Detector) checkWhitespace(s *scan) []quality.Issue {
	count := 0
	var examples []string
	offendingCols := make(map[int]bool)

	for i := range s.rows {
		rowFlagged := false
		for col := range s.header {
			raw := s.cell(i, col)
			if raw == strings.TrimSpace(raw) && !strings.Contains(raw, doubleSpace) {
				continue
			}
			count++
			offendingCols[col] = true
			if !rowFlagged {
				rowFlagged = true
				if len(examples) < maxExamples {
					examples = append(examples, fmt.Sprintf("Row %d: %q", dataset.DisplayRow(i), raw))
				}
			}
		}
	}
	if count == 0 {
		return nil
	}

	var affected []string
	for col, name := range s.header {
		if offendingCols[col] {
			affected = append(affected, name)
		}
	}

	total := s.extrapolate(count)
	return []quality.Issue{{
		Type:            quality.IssueWhitespace,
		Severity:        quality.SeverityLow,
		Description:     fmt.Sprintf("%d values have leading, trailing, or repeated whitespace", total),
		AffectedColumns: affected,
		Count:           total,
		Suggestion:      quality.SuggestionFor(quality.IssueWhitespace),
		Examples:        examples,
	}}
}

// checkOutliers runs the IQR/modified-z detector on each sufficiently
// numeric column. Skipped entirely in sampled mode: bounds computed on a
// prefix would misstate the full file.
func (d *Detector) checkOutliers(s *scan) []quality.Issue {
	if s.sampled {
		return nil
	}

	var issues []quality.Issue
	for col, name := range s.header {
		nonMissing := 0
		var samples []outliers.Sample
		for i := range s.rows {
			raw := s.cell(i, col)
			if dataset.IsMissing(raw) {
				continue
			}
			nonMissing++
			if v, ok := dataset.ParseNumeric(raw); ok {
				samples = append(samples, outliers.Sample{Row: i, Value: v})
			}
		}
		if nonMissing == 0 || float64(len(samples)) < 0.6*float64(nonMissing) {
			continue
		}

		res, ok := outliers.Detect(samples)
		if !ok || len(res.Flags) == 0 {
			continue
		}

		severity := quality.SeverityMedium
		if float64(len(res.Flags)) > 0.1*float64(len(samples)) {
			severity = quality.SeverityHigh
		}

		var examples []string
		for _, f := range res.Flags {
			if len(examples) == maxColumnExamples {
				break
			}
			examples = append(examples,
				fmt.Sprintf("Row %d: %s (%s)", dataset.DisplayRow(f.Row), dataset.FormatNumeric(f.Value), f.Label))
		}

		issues = append(issues, quality.Issue{
			Type:     quality.IssueOutliers,
			Severity: severity,
			Description: fmt.Sprintf("Column %q has %d statistical outliers outside [%s, %s]",
				name, len(res.Flags), dataset.FormatNumeric(res.LowerBound), dataset.FormatNumeric(res.UpperBound)),
			AffectedColumns: []string{name},
			Count:           len(res.Flags),
			Suggestion:      quality.SuggestionFor(quality.IssueOutliers),
			Examples:        examples,
		})
	}
	return issues
}

var (
	letterRun    = regexp.MustCompile(`[a-zA-Z]{3,}`)
	pureCurrency = regexp.MustCompile(`^\$?-?[\d,]+\.?\d*$`)
	fillerWords  = regexp.MustCompile(`(?i)\b(lorem|ipsum|dolor|amet|test|sample|example|placeholder)\b`)
)

// checkDataTypes flags values that contradict the semantic type inferred
// from their column's name. Columns with no inferred type are skipped, and
// sampled runs cap the scan to the first columns to bound the regex work.
func (d *Detector) checkDataTypes(s *scan) []quality.Issue {
	cols := len(s.header)
	if s.sampled && cols > maxSampledTypeCols {
		cols = maxSampledTypeCols
	}

	var issues []quality.Issue
	for col := 0; col < cols; col++ {
		name := s.header[col]
		expected, ok := classify.Classify(name)
		if !ok {
			continue
		}

		checked := 0
		mismatched := 0
		var examples []string
		for i := range s.rows {
			v := strings.TrimSpace(s.cell(i, col))
			if v == "" {
				continue
			}
			checked++
			if !classify.MatchesInvalid(expected, v) && !typeMismatch(expected, v) {
				continue
			}
			mismatched++
			if len(examples) < maxColumnExamples {
				examples = append(examples, fmt.Sprintf("Row %d: %q", dataset.DisplayRow(i), v))
			}
		}
		if mismatched == 0 {
			continue
		}

		severity := quality.SeverityMedium
		if float64(mismatched) > 0.3*float64(checked) {
			severity = quality.SeverityHigh
		}

		issues = append(issues, quality.Issue{
			Type:     quality.IssueDataTypes,
			Severity: severity,
			Description: fmt.Sprintf("Column %q contains %d values inconsistent with its %s type",
				name, s.extrapolate(mismatched), expected),
			AffectedColumns: []string{name},
			Count:           s.extrapolate(mismatched),
			Suggestion:      quality.SuggestionFor(quality.IssueDataTypes),
			Examples:        examples,
		})
	}
	return issues
}

// typeMismatch applies the per-type content rules beyond the pattern tables
func typeMismatch(t classify.ColumnType, v string) bool {
	switch t {
	case classify.TypeID:
		return len(strings.Fields(v)) > 3 || wrappedInPunct(v) || fillerWords.MatchString(v)
	case classify.TypeNumber:
		return letterRun.MatchString(v) && !pureCurrency.MatchString(v)
	case classify.TypeEmail:
		return len(v) > 3 && !strings.Contains(v, "@")
	}
	return false
}

// wrappedInPunct reports values enclosed in punctuation or symbol runes,
// like "(value)" or "*value*".
func wrappedInPunct(v string) bool {
	runes := []rune(v)
	if len(runes) < 2 {
		return false
	}
	first, last := runes[0], runes[len(runes)-1]
	return (unicode.IsPunct(first) || unicode.IsSymbol(first)) &&
		(unicode.IsPunct(last) || unicode.IsSymbol(last))
}
