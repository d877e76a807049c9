package clean

import (
	"datascrub/internal/dataset"
	"datascrub/internal/outliers"
)

// outlierNumericShare mirrors the detection eligibility rule: a column
// qualifies when at least this share of its non-missing values is numeric.
const outlierNumericShare = 0.6

// removeOutlierRows drops every row flagged in any eligible column. Flags
// for all columns are computed from the original data before any row is
// removed.
func removeOutlierRows(req *request) (string, int) {
	doomed := make(map[int]bool)
	for _, col := range req.targets {
		res, ok := detectColumnOutliers(req.ds, col)
		if !ok {
			continue
		}
		for row := range res.FlaggedRows() {
			doomed[row] = true
		}
	}
	if len(doomed) == 0 {
		return req.ds.Render(), 0
	}

	kept := make([][]string, 0, len(req.ds.Rows)-len(doomed))
	for i, row := range req.ds.Rows {
		if doomed[i] {
			continue
		}
		kept = append(kept, row)
	}
	req.ds.Rows = kept
	return req.ds.Render(), len(doomed)
}

// replaceOutliersMedian substitutes the column median into flagged cells,
// keeping the rows.
func replaceOutliersMedian(req *request) (string, int) {
	changes := 0
	for _, col := range req.targets {
		res, ok := detectColumnOutliers(req.ds, col)
		if !ok {
			continue
		}
		median := dataset.FormatNumeric(res.Median)
		for _, f := range res.Flags {
			row := req.ds.PaddedRow(f.Row)
			req.ds.Rows[f.Row] = row
			row[col] = median
			changes++
		}
	}
	return req.ds.Render(), changes
}

// detectColumnOutliers gathers one column's numeric samples and runs the
// detector, reporting false for columns that are too small or not numeric
// enough.
func detectColumnOutliers(ds *dataset.Dataset, col int) (*outliers.Result, bool) {
	nonMissing := 0
	var samples []outliers.Sample
	for i := range ds.Rows {
		raw := ds.Cell(i, col)
		if dataset.IsMissing(raw) {
			continue
		}
		nonMissing++
		if v, ok := dataset.ParseNumeric(raw); ok {
			samples = append(samples, outliers.Sample{Row: i, Value: v})
		}
	}
	if nonMissing == 0 || float64(len(samples)) < outlierNumericShare*float64(nonMissing) {
		return nil, false
	}
	return outliers.Detect(samples)
}
