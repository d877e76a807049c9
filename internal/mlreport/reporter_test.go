package mlreport

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"datascrub/domain/core"
)

func mustReport(t *testing.T, csvText string) *Report {
	t.Helper()
	report, err := NewReporter(DefaultOptions(), nil).Report(csvText, "test.csv", int64(len(csvText)))
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	return report
}

const sectionsCSV = "name,email,salary,status\n" +
	"Alice,alice@example.com,50000,active\n" +
	"Bob,bob@example.com,60000,active\n" +
	"Carol,n/a,55000,active\n" +
	"Dave,not-an-email,52000,active\n" +
	"Eve,eve@example.com,58000,inactive\n"

// TestReportExpectations checks the auto-generated expectation list: one
// completeness expectation per column, a range expectation for the numeric
// column, and a failing regex expectation for the email column.
func TestReportExpectations(t *testing.T) {
	report := mustReport(t, sectionsCSV)

	exp := report.Expectations
	if exp.Tool != "Great Expectations Style" {
		t.Errorf("tool = %q", exp.Tool)
	}
	if exp.TotalExpectations != 6 {
		t.Fatalf("TotalExpectations = %d, want 6 (4 completeness + 1 range + 1 regex)", exp.TotalExpectations)
	}
	if exp.Passed != 4 || exp.Failed != 2 {
		t.Errorf("passed/failed = %d/%d, want 4/2", exp.Passed, exp.Failed)
	}

	var regex *Expectation
	var ranged *Expectation
	for i := range exp.Expectations {
		e := &exp.Expectations[i]
		switch e.Expectation {
		case "expect_column_values_to_match_regex":
			regex = e
		case "expect_column_values_to_be_between":
			ranged = e
		}
	}

	if regex == nil || regex.Column != "email" {
		t.Fatal("no regex expectation for the email column")
	}
	// "n/a" counts as missing, so validity is 3 valid of 4 present
	if regex.Validity == nil || *regex.Validity != 0.75 {
		t.Errorf("email validity = %v, want 0.75", regex.Validity)
	}
	if regex.Passes {
		t.Error("email regex expectation should fail below 0.90")
	}

	if ranged == nil || ranged.Column != "salary" {
		t.Fatal("no range expectation for the salary column")
	}
	if *ranged.MinValue != 50000 || *ranged.MaxValue != 60000 {
		t.Errorf("salary range = [%v, %v], want [50000, 60000]", *ranged.MinValue, *ranged.MaxValue)
	}
	if !ranged.Passes {
		t.Error("range expectations always pass")
	}
}

// TestReportConstraints checks completeness and uniqueness constraints are
// generated for every column and only the gappy column fails.
func TestReportConstraints(t *testing.T) {
	report := mustReport(t, sectionsCSV)

	cons := report.Constraints
	if cons.Tool != "Deequ Style (Amazon)" {
		t.Errorf("tool = %q", cons.Tool)
	}
	if cons.ConstraintsGenerated != 8 || len(cons.Constraints) != 8 {
		t.Fatalf("constraints = %d, want 2 per column", cons.ConstraintsGenerated)
	}

	for _, c := range cons.Constraints {
		switch {
		case c.Type == "completeness" && c.Column == "email":
			if c.Passes || c.ObservedValue != 0.8 {
				t.Errorf("email completeness = %+v, want failing 0.8", c)
			}
		case c.Type == "completeness":
			if !c.Passes {
				t.Errorf("%s completeness should pass: %+v", c.Column, c)
			}
		case c.Type == "uniqueness":
			if !c.Passes {
				t.Errorf("uniqueness constraints always pass: %+v", c)
			}
			if c.Column == "name" && c.Constraint != "uniqueness ratio: 1.00" {
				t.Errorf("name uniqueness constraint = %q", c.Constraint)
			}
		}
	}
}

// TestReportRepairs checks the null-like scan and both imputation methods
func TestReportRepairs(t *testing.T) {
	report := mustReport(t, sectionsCSV)

	rep := report.Repairs
	if rep.Tool != "HoloClean Style" {
		t.Errorf("tool = %q", rep.Tool)
	}
	if rep.ErrorsDetected != 1 {
		t.Fatalf("ErrorsDetected = %d, want only the email column", rep.ErrorsDetected)
	}

	detail, ok := rep.ErrorDetails["email"]
	if !ok {
		t.Fatal("no error detail for email")
	}
	if detail.ErrorsFound != 1 || detail.PatternStrength != 0.2 {
		t.Errorf("detail = %+v, want 1 error at strength 0.2", detail)
	}
	if detail.Confidence != 0.95 {
		t.Errorf("confidence = %v, want 0.95 for a strong pattern", detail.Confidence)
	}

	repair, ok := rep.RepairSuggestions["email"]
	if !ok {
		t.Fatal("no repair suggestion for email")
	}
	if repair.Method != "mode_imputation" || repair.Confidence != 0.75 {
		t.Errorf("repair = %+v, want mode imputation at 0.75", repair)
	}
	if repair.SuggestedValue != "alice@example.com" {
		t.Errorf("suggested value = %v, want the first-seen mode", repair.SuggestedValue)
	}
}

// TestReportNumericRepair checks numeric columns get median imputation and
// a sub-threshold pattern gets the scaled confidence.
func TestReportNumericRepair(t *testing.T) {
	var b strings.Builder
	b.WriteString("qty\n")
	for i := 0; i < 39; i++ {
		fmt.Fprintf(&b, "%d\n", i+1)
	}
	b.WriteString("null\n")

	report := mustReport(t, b.String())

	detail, ok := report.Repairs.ErrorDetails["qty"]
	if !ok {
		t.Fatal("no error detail for qty")
	}
	// 1 of 40 rows: strength 0.025, confidence 0.7 + 0.025*5
	if math.Abs(detail.Confidence-0.825) > 1e-9 {
		t.Errorf("confidence = %v, want 0.825 for a weak pattern", detail.Confidence)
	}

	repair := report.Repairs.RepairSuggestions["qty"]
	if repair.Method != "median_imputation" || repair.Confidence != 0.85 {
		t.Errorf("repair = %+v, want median imputation at 0.85", repair)
	}
	if repair.SuggestedValue != 20.0 {
		t.Errorf("suggested value = %v, want the median 20", repair.SuggestedValue)
	}
}

// TestReportMislabels checks the frequency-scored label section: the rare
// status label is flagged with the modal label as the prediction.
func TestReportMislabels(t *testing.T) {
	report := mustReport(t, sectionsCSV)

	mis := report.Mislabels
	if mis.Tool != "Cleanlab Style" {
		t.Fatalf("tool = %q", mis.Tool)
	}
	entry, ok := mis.MislabelDetection["status"]
	if !ok {
		t.Fatalf("status column not scored: %+v", mis.MislabelDetection)
	}
	if entry.TotalPotentialMislabels != 1 || entry.Percentage != 20 {
		t.Errorf("entry = %+v, want 1 flagged row at 20%%", entry)
	}

	if len(entry.Details) != 1 {
		t.Fatalf("details = %+v, want one row", entry.Details)
	}
	d := entry.Details[0]
	if d.RowIndex != 4 || d.CurrentLabel != "inactive" || d.PredictedLabel != "active" {
		t.Errorf("detail = %+v, want row 4 inactive predicted active", d)
	}
	if d.Confidence != 0.2 || !d.LikelyMislabel {
		t.Errorf("detail = %+v, want confidence 0.2 marked likely", d)
	}
}

// TestReportMislabelsFallback covers datasets with no label-like column
func TestReportMislabelsFallback(t *testing.T) {
	report := mustReport(t, "a,b\n1,2\n3,4\n")

	mis := report.Mislabels
	if mis.Tool != "Cleanlab" {
		t.Errorf("fallback tool = %q, want the bare name", mis.Tool)
	}
	if mis.Message == "" || mis.Requires == "" {
		t.Error("fallback must explain what is missing")
	}
	if len(mis.MislabelDetection) != 0 {
		t.Errorf("fallback carries detections: %+v", mis.MislabelDetection)
	}
}

// TestReportDatasetInfo checks dimensions and the rounded size
func TestReportDatasetInfo(t *testing.T) {
	report, err := NewReporter(DefaultOptions(), nil).Report(sectionsCSV, "people.csv", 1572864)
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	info := report.Info
	if info.File != "people.csv" || info.Rows != 5 || info.Columns != 4 {
		t.Errorf("info = %+v", info)
	}
	if len(info.ColumnNames) != 4 || info.ColumnNames[3] != "status" {
		t.Errorf("column names = %v", info.ColumnNames)
	}
	if info.FileSizeMB != 1.5 {
		t.Errorf("FileSizeMB = %v, want 1.5", info.FileSizeMB)
	}
}

// TestReportRowCap verifies large inputs are analyzed on their leading rows
// and the reported count reflects the analyzed rows.
func TestReportRowCap(t *testing.T) {
	var b strings.Builder
	b.WriteString("n\n")
	for i := 0; i < 25; i++ {
		fmt.Fprintf(&b, "%d\n", i)
	}

	report, err := NewReporter(Options{MaxRows: 10}, nil).Report(b.String(), "big.csv", 100)
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if report.Info.Rows != 10 {
		t.Errorf("Rows = %d, want the capped count", report.Info.Rows)
	}
}

// TestReportJSONShape pins the section keys consumers parse
func TestReportJSONShape(t *testing.T) {
	report := mustReport(t, sectionsCSV)

	raw, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{
		`"dataset_info"`,
		`"great_expectations_real"`,
		`"deequ_real"`,
		`"holoclean_real"`,
		`"cleanlab_real"`,
		`"ml_anomaly_detection"`,
		`"expect_column_values_to_not_be_null"`,
	} {
		if !strings.Contains(string(raw), key) {
			t.Errorf("report JSON is missing %s", key)
		}
	}
}

func TestReportRejectsBadInput(t *testing.T) {
	r := NewReporter(DefaultOptions(), nil)
	if _, err := r.Report("", "x.csv", 0); !errors.Is(err, core.ErrEmptyInput) {
		t.Errorf("empty input error = %v, want ErrEmptyInput", err)
	}
	if _, err := r.Report("only_header\n", "x.csv", 11); !errors.Is(err, core.ErrTooFewLines) {
		t.Errorf("header-only error = %v, want ErrTooFewLines", err)
	}
}
