package clean

import (
	"testing"

	"datascrub/domain/cleaning"
)

// TestFillNulls verifies every missing token becomes the placeholder
func TestFillNulls(t *testing.T) {
	res := mustApply(t, "name,score\n,5\nnull,6\nJohn,NA\n", cleaning.OpHandleNullsFill, nil)
	if res.Changes != 3 {
		t.Errorf("Changes = %d, want 3", res.Changes)
	}
	if res.CSVText != "name,score\nUnknown,5\nUnknown,6\nJohn,Unknown" {
		t.Errorf("CSVText = %q", res.CSVText)
	}
}

// TestFillNullsZeroTargeted verifies the zero variant respects targets
func TestFillNullsZeroTargeted(t *testing.T) {
	res := mustApply(t, "a,b\n,1\nnull,n/a\n", cleaning.OpHandleNullsZero, []string{"a"})
	if res.Changes != 2 {
		t.Errorf("Changes = %d, want 2", res.Changes)
	}
	if res.CSVText != "a,b\n0,1\n0,n/a" {
		t.Errorf("CSVText = %q", res.CSVText)
	}
}

// TestImputeMedian verifies true median substitution over the column's
// numeric values.
func TestImputeMedian(t *testing.T) {
	res := mustApply(t, "score\n1\n2\n3\n4\nnull\n", cleaning.OpHandleNullsMedian, nil)
	if res.Changes != 1 {
		t.Errorf("Changes = %d, want 1", res.Changes)
	}
	if res.CSVText != "score\n1\n2\n3\n4\n2.5" {
		t.Errorf("CSVText = %q", res.CSVText)
	}

	res = mustApply(t, "score\n1\n2\n9\nNA\n", cleaning.OpHandleNullsMedian, nil)
	if res.CSVText != "score\n1\n2\n9\n2" {
		t.Errorf("odd count: CSVText = %q", res.CSVText)
	}
}

// TestImputeMedianFallback verifies non-numeric columns get the placeholder
func TestImputeMedianFallback(t *testing.T) {
	res := mustApply(t, "name\nab\ncd\nnull\n", cleaning.OpHandleNullsMedian, nil)
	if res.CSVText != "name\nab\ncd\nUnknown" {
		t.Errorf("CSVText = %q", res.CSVText)
	}
}

// TestImputeMode verifies most-frequent substitution with first-seen ties
func TestImputeMode(t *testing.T) {
	res := mustApply(t, "city\nParis\nOslo\nParis\nnull\n", cleaning.OpHandleNullsMode, nil)
	if res.CSVText != "city\nParis\nOslo\nParis\nParis" {
		t.Errorf("CSVText = %q", res.CSVText)
	}

	res = mustApply(t, "city\nOslo\nParis\nnull\n", cleaning.OpHandleNullsMode, nil)
	if res.CSVText != "city\nOslo\nParis\nOslo" {
		t.Errorf("tie: CSVText = %q", res.CSVText)
	}
}

// TestImputeModeEmptyColumn verifies a column with no usable values falls
// back to the placeholder.
func TestImputeModeEmptyColumn(t *testing.T) {
	res := mustApply(t, "city,x\nnull,1\nNA,2\n", cleaning.OpHandleNullsMode, []string{"city"})
	if res.Changes != 2 {
		t.Errorf("Changes = %d, want 2", res.Changes)
	}
	if res.CSVText != "city,x\nUnknown,1\nUnknown,2" {
		t.Errorf("CSVText = %q", res.CSVText)
	}
}
