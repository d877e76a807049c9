package detect

import (
	"fmt"
	"strings"
	"testing"

	"datascrub/domain/quality"
)

func newTestDetector() *Detector {
	return NewDetector(DefaultOptions(), nil)
}

func mustDetect(t *testing.T, csvText string) *quality.DetectionReport {
	t.Helper()
	report, err := newTestDetector().Detect(csvText)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	return report
}

func issueOfType(t *testing.T, report *quality.DetectionReport, typ quality.IssueType) quality.Issue {
	t.Helper()
	matches := report.IssuesOfType(typ)
	if len(matches) == 0 {
		t.Fatalf("no %s issue in report: %+v", typ, report.Issues)
	}
	return matches[0]
}

// TestDetectEndToEnd runs the canonical three-issue scenario: a duplicate
// row, a missing name, and an invalid email.
func TestDetectEndToEnd(t *testing.T) {
	report := mustDetect(t, "name,email\nJohn,john@x.com\nJohn,john@x.com\n,bad\n")

	if report.Info.TotalRows != 3 {
		t.Errorf("TotalRows = %d, want 3", report.Info.TotalRows)
	}
	if report.Info.TotalColumns != 2 {
		t.Errorf("TotalColumns = %d, want 2", report.Info.TotalColumns)
	}
	if report.Info.Sampled {
		t.Error("small file should not be sampled")
	}

	dup := issueOfType(t, report, quality.IssueDuplicates)
	if dup.Count != 1 {
		t.Errorf("duplicates count = %d, want 1", dup.Count)
	}
	if dup.Severity != quality.SeverityHigh {
		t.Errorf("duplicates severity = %s, want high", dup.Severity)
	}
	if len(dup.Examples) != 1 || dup.Examples[0] != "Row 3 duplicates row 2" {
		t.Errorf("duplicates examples = %v", dup.Examples)
	}

	missing := issueOfType(t, report, quality.IssueMissingValues)
	if missing.Count != 1 {
		t.Errorf("missing count = %d, want 1", missing.Count)
	}
	if len(missing.AffectedColumns) != 1 || missing.AffectedColumns[0] != "name" {
		t.Errorf("missing affected columns = %v, want [name]", missing.AffectedColumns)
	}

	email := issueOfType(t, report, quality.IssueEmailFormat)
	if email.Count != 1 {
		t.Errorf("email count = %d, want 1", email.Count)
	}
	if len(email.Examples) != 1 || !strings.Contains(email.Examples[0], `"bad"`) {
		t.Errorf("email examples = %v", email.Examples)
	}
}

// TestDetectNeverErrorsOnValidShape verifies detection succeeds on any
// header-plus-one-row input and reports exact dimensions.
func TestDetectNeverErrorsOnValidShape(t *testing.T) {
	inputs := []string{
		"a\nx\n",
		"a,b,c\n1,2\n",
		"a,b\n\"odd,quote\n",
		"col with space, another \n ,, \n",
	}
	for _, input := range inputs {
		report, err := newTestDetector().Detect(input)
		if err != nil {
			t.Errorf("Detect(%q) failed: %v", input, err)
			continue
		}
		lines := strings.Count(strings.TrimRight(input, "\n"), "\n") + 1
		if report.Info.TotalRows != lines-1 {
			t.Errorf("Detect(%q) TotalRows = %d, want %d", input, report.Info.TotalRows, lines-1)
		}
	}
}

// TestDuplicatesNormalized verifies case and padding do not defeat the
// duplicate check.
func TestDuplicatesNormalized(t *testing.T) {
	report := mustDetect(t, "name,score\nA,1\n a , 1 \n")
	dup := issueOfType(t, report, quality.IssueDuplicates)
	if dup.Count != 1 {
		t.Errorf("count = %d, want 1 (case/whitespace variants collide)", dup.Count)
	}
}

// TestMissingValueSeverity verifies the percentage thresholds
func TestMissingValueSeverity(t *testing.T) {
	tests := []struct {
		name     string
		rows     []string
		severity quality.Severity
	}{
		{"low at 10%", []string{"x", "x", "x", "x", "x", "x", "x", "x", "x", ""}, quality.SeverityLow},
		{"medium above 20%", []string{"x", "x", "null", "NA", "n/a", "x", "x", "x", "x", "x"}, quality.SeverityMedium},
		{"high above 50%", []string{"", "null", "n/a", "NA", "", "NULL", "x", "x", "x", "x"}, quality.SeverityHigh},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			csvText := "v\n" + strings.Join(test.rows, "\n") + "\n"
			report := mustDetect(t, csvText)
			issue := issueOfType(t, report, quality.IssueMissingValues)
			if issue.Severity != test.severity {
				t.Errorf("severity = %s, want %s", issue.Severity, test.severity)
			}
		})
	}
}

// TestPhoneFormatCheck verifies mixed formats and unparseable values flag
// the column, with the count covering both kinds of offender.
func TestPhoneFormatCheck(t *testing.T) {
	csvText := "phone\n(123) 456-7890\n(987) 654-3210\n123-456-7890\nnot-a-phone\n"
	report := mustDetect(t, csvText)

	issue := issueOfType(t, report, quality.IssuePhoneFormat)
	if issue.Severity != quality.SeverityMedium {
		t.Errorf("severity = %s, want medium", issue.Severity)
	}
	// One unparseable value plus one value outside the dominant format.
	if issue.Count != 2 {
		t.Errorf("count = %d, want 2", issue.Count)
	}
	if len(issue.Examples) == 0 || !strings.Contains(issue.Examples[0], "not-a-phone") {
		t.Errorf("examples should lead with the unparseable value: %v", issue.Examples)
	}
}

// TestPhoneUniformFormatClean verifies a single consistent format raises
// nothing.
func TestPhoneUniformFormatClean(t *testing.T) {
	report := mustDetect(t, "phone\n123-456-7890\n987-654-3210\n")
	if issues := report.IssuesOfType(quality.IssuePhoneFormat); len(issues) != 0 {
		t.Errorf("unexpected phone issues: %v", issues)
	}
}

// TestWhitespaceCheck verifies padded cells and doubled spaces are counted
// with one example per row.
func TestWhitespaceCheck(t *testing.T) {
	report := mustDetect(t, "name,city\n John ,Paris\nAnna,New  York\nBob,Lyon\n")

	issue := issueOfType(t, report, quality.IssueWhitespace)
	if issue.Count != 2 {
		t.Errorf("count = %d, want 2", issue.Count)
	}
	if issue.Severity != quality.SeverityLow {
		t.Errorf("severity = %s, want low", issue.Severity)
	}
	if len(issue.Examples) != 2 {
		t.Errorf("examples = %v, want one per offending row", issue.Examples)
	}
	if len(issue.AffectedColumns) != 2 {
		t.Errorf("affected columns = %v, want both", issue.AffectedColumns)
	}
}

// TestOutlierIssue verifies the outlier check fires on a 60%-numeric column
// and reports the flagged row.
func TestOutlierIssue(t *testing.T) {
	var b strings.Builder
	b.WriteString("amount\n")
	for i := 1; i <= 9; i++ {
		fmt.Fprintf(&b, "%d\n", i)
	}
	b.WriteString("100\n")

	report := mustDetect(t, b.String())
	issue := issueOfType(t, report, quality.IssueOutliers)
	if issue.Count != 1 {
		t.Errorf("count = %d, want 1", issue.Count)
	}
	// One outlier in ten values exceeds the 10% threshold.
	if issue.Severity != quality.SeverityMedium {
		t.Errorf("severity = %s, want medium at exactly 10%%", issue.Severity)
	}
	if len(issue.Examples) != 1 || !strings.Contains(issue.Examples[0], "Row 11") {
		t.Errorf("examples = %v, want row 11", issue.Examples)
	}
}

// TestOutlierSkipsTextColumns verifies mostly-text columns are not analyzed
func TestOutlierSkipsTextColumns(t *testing.T) {
	var b strings.Builder
	b.WriteString("code\n")
	for i := 0; i < 12; i++ {
		fmt.Fprintf(&b, "item-%d\n", i)
	}
	report := mustDetect(t, b.String())
	if issues := report.IssuesOfType(quality.IssueOutliers); len(issues) != 0 {
		t.Errorf("unexpected outlier issues on text column: %v", issues)
	}
}

// TestDataTypeMismatch verifies sentence-like content in an id column flags
// the column with high severity when pervasive.
func TestDataTypeMismatch(t *testing.T) {
	csvText := "user_id\nlorem ipsum dolor sit\nabc123\nthis is not an id at all\n"
	report := mustDetect(t, csvText)

	issue := issueOfType(t, report, quality.IssueDataTypes)
	if issue.Count != 2 {
		t.Errorf("count = %d, want 2", issue.Count)
	}
	if issue.Severity != quality.SeverityHigh {
		t.Errorf("severity = %s, want high (2 of 3 values mismatch)", issue.Severity)
	}
	if len(issue.AffectedColumns) != 1 || issue.AffectedColumns[0] != "user_id" {
		t.Errorf("affected columns = %v", issue.AffectedColumns)
	}
}

// TestDataTypeSkipsUnclassifiedColumns verifies no-keyword columns are
// silently skipped.
func TestDataTypeSkipsUnclassifiedColumns(t *testing.T) {
	report := mustDetect(t, "notes\nlorem ipsum dolor sit amet\nanything goes here really\n")
	if issues := report.IssuesOfType(quality.IssueDataTypes); len(issues) != 0 {
		t.Errorf("unexpected data type issues on unclassified column: %v", issues)
	}
}

// TestLargeFileSampling verifies the 5,000-row prefix sample, count
// extrapolation, and the disclosure note.
func TestLargeFileSampling(t *testing.T) {
	var b strings.Builder
	b.WriteString("id,email\n")
	for i := 0; i < 20000; i++ {
		if i < 100 {
			// Invalid emails land inside the sampled prefix.
			fmt.Fprintf(&b, "%d,bad-address\n", i)
		} else {
			fmt.Fprintf(&b, "%d,user%d@example.com\n", i, i)
		}
	}

	report := mustDetect(t, b.String())
	if !report.Info.Sampled {
		t.Fatal("expected sampled mode for 20000 rows")
	}
	if report.Info.TotalRows != 20000 {
		t.Errorf("TotalRows = %d, want 20000", report.Info.TotalRows)
	}
	if report.Info.SampleSize != 5000 {
		t.Errorf("SampleSize = %d, want 5000", report.Info.SampleSize)
	}

	note := issueOfType(t, report, quality.IssuePerformanceNote)
	if len(note.Examples) != 1 || !strings.Contains(note.Examples[0], "25.0%") {
		t.Errorf("performance note example = %v, want the 25.0%% ratio", note.Examples)
	}

	// 100 invalid emails among 5000 sampled rows extrapolate to 400.
	email := issueOfType(t, report, quality.IssueEmailFormat)
	if email.Count != 400 {
		t.Errorf("extrapolated email count = %d, want 400", email.Count)
	}

	// Outlier and content scans stay off in sampled mode.
	if issues := report.IssuesOfType(quality.IssueOutliers); len(issues) != 0 {
		t.Errorf("outlier check ran in sampled mode: %v", issues)
	}
	if issues := report.IssuesOfType(quality.IssuePotentialMislabels); len(issues) != 0 {
		t.Errorf("content scan ran in sampled mode: %v", issues)
	}
}

// TestIssueOrder verifies issues arrive in the fixed check order
func TestIssueOrder(t *testing.T) {
	csvText := "name,email\nJohn,john@x.com\nJohn,john@x.com\n,bad\n John ,ok@x.com\n"
	report := mustDetect(t, csvText)

	order := map[quality.IssueType]int{}
	for rank, typ := range quality.AllIssueTypes() {
		order[typ] = rank
	}
	lastRank := -1
	for _, issue := range report.Issues {
		rank := order[issue.Type]
		if rank < lastRank {
			t.Fatalf("issues out of check order: %+v", report.Issues)
		}
		lastRank = rank
	}
}
