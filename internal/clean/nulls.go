package clean

import (
	"github.com/montanaflynn/stats"

	"datascrub/internal/dataset"
)

// missingFallback is written when a statistical imputation has nothing to
// work with.
const missingFallback = "Unknown"

// fillNulls returns a handler that writes a fixed placeholder into missing
// cells of the eligible columns.
func fillNulls(placeholder string) opFunc {
	return func(req *request) (string, int) {
		changes := fillMissingCells(req, func(int) string { return placeholder })
		return req.ds.Render(), changes
	}
}

// dropNullRows deletes any row with a missing value in an eligible column.
// Short rows count: a field absent after padding is a blank field.
func dropNullRows(req *request) (string, int) {
	kept := make([][]string, 0, len(req.ds.Rows))
	dropped := 0
	for i := range req.ds.Rows {
		row := req.ds.PaddedRow(i)
		if rowHasMissing(row, req.targets) {
			dropped++
			continue
		}
		kept = append(kept, row)
	}
	req.ds.Rows = kept
	return req.ds.Render(), dropped
}

// imputeMedian fills missing cells with the column's numeric median,
// falling back to the placeholder for columns with no numeric content.
func imputeMedian(req *request) (string, int) {
	changes := fillMissingCells(req, func(col int) string {
		var values []float64
		for i := range req.ds.Rows {
			raw := req.ds.Cell(i, col)
			if dataset.IsMissing(raw) {
				continue
			}
			if v, ok := dataset.ParseNumeric(raw); ok {
				values = append(values, v)
			}
		}
		median, err := stats.Median(values)
		if err != nil {
			return missingFallback
		}
		return dataset.FormatNumeric(median)
	})
	return req.ds.Render(), changes
}

// imputeMode fills missing cells with the column's most frequent value,
// breaking ties toward the value seen first.
func imputeMode(req *request) (string, int) {
	changes := fillMissingCells(req, func(col int) string {
		counts := make(map[string]int)
		var order []string
		for i := range req.ds.Rows {
			v := req.ds.Cell(i, col)
			if dataset.IsMissing(v) {
				continue
			}
			if counts[v] == 0 {
				order = append(order, v)
			}
			counts[v]++
		}

		best, bestCount := missingFallback, 0
		for _, v := range order {
			if counts[v] > bestCount {
				best, bestCount = v, counts[v]
			}
		}
		return best
	})
	return req.ds.Render(), changes
}

// fillMissingCells writes fill(col) into every missing cell of the eligible
// columns. The fill value is computed before any cell in the column is
// touched, so imputations read the original data.
func fillMissingCells(req *request, fill func(col int) string) int {
	changes := 0
	for _, col := range req.targets {
		value := fill(col)
		for i := range req.ds.Rows {
			row := req.ds.PaddedRow(i)
			req.ds.Rows[i] = row
			if dataset.IsMissing(row[col]) {
				row[col] = value
				changes++
			}
		}
	}
	return changes
}

func rowHasMissing(row []string, cols []int) bool {
	for _, col := range cols {
		if dataset.IsMissing(row[col]) {
			return true
		}
	}
	return false
}
