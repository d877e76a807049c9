package clean

import (
	"strings"
	"testing"

	"datascrub/domain/cleaning"
)

const outlierColumn = "value\n1\n2\n3\n4\n5\n6\n7\n8\n9\n100\n"

// TestRemoveOutlierRows verifies the flagged row is dropped
func TestRemoveOutlierRows(t *testing.T) {
	res := mustApply(t, outlierColumn, cleaning.OpHandleOutliersRemove, nil)
	if res.Changes != 1 {
		t.Errorf("Changes = %d, want 1", res.Changes)
	}
	if res.CleanedRows != 9 {
		t.Errorf("CleanedRows = %d, want 9", res.CleanedRows)
	}
	if strings.Contains(res.CSVText, "100") {
		t.Errorf("outlier survived: %q", res.CSVText)
	}
}

// TestReplaceOutliersMedian verifies the flagged cell takes the column
// median while the row stays.
func TestReplaceOutliersMedian(t *testing.T) {
	res := mustApply(t, outlierColumn, cleaning.OpHandleOutliersReplaceMedian, nil)
	if res.Changes != 1 {
		t.Errorf("Changes = %d, want 1", res.Changes)
	}
	if res.CleanedRows != 10 {
		t.Errorf("CleanedRows = %d, want 10", res.CleanedRows)
	}
	if res.CSVText != "value\n1\n2\n3\n4\n5\n6\n7\n8\n9\n6" {
		t.Errorf("CSVText = %q", res.CSVText)
	}
}

// TestRemoveOutlierRowsMultiColumn verifies rows flagged in any column are
// dropped together, with flags computed before removal.
func TestRemoveOutlierRowsMultiColumn(t *testing.T) {
	input := "v1,v2\n1,100\n2,2\n3,3\n4,4\n5,5\n6,6\n7,7\n8,8\n9,9\n100,1\n"
	res := mustApply(t, input, cleaning.OpHandleOutliersRemove, nil)
	if res.Changes != 2 {
		t.Errorf("Changes = %d, want 2", res.Changes)
	}
	if res.CleanedRows != 8 {
		t.Errorf("CleanedRows = %d, want 8", res.CleanedRows)
	}
	if strings.Contains(res.CSVText, "100") {
		t.Errorf("outlier rows survived: %q", res.CSVText)
	}
}

// TestOutlierOpsSkipTextColumns verifies non-numeric columns pass through
func TestOutlierOpsSkipTextColumns(t *testing.T) {
	input := "name\na\nb\nc\nd\ne\nf\ng\nh\ni\nj\n"
	res := mustApply(t, input, cleaning.OpHandleOutliersRemove, nil)
	if res.Changes != 0 || res.CleanedRows != 10 {
		t.Errorf("text column was touched: Changes = %d, CleanedRows = %d", res.Changes, res.CleanedRows)
	}
}
