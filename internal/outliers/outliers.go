// Package outliers flags numeric values that violate IQR bounds or carry an
// extreme modified z-score. Quartiles and medians use the floor-index
// convention on the sorted values (no interpolation); both detection and
// the outlier cleaning operations depend on these exact positions.
package outliers

import (
	"math"
	"sort"
)

// MinValues is the smallest numeric sample the detector will analyze
const MinValues = 10

// zThreshold and iqrFactor are the classic robust-statistics constants.
const (
	zScale      = 0.6745
	zThreshold  = 3.5
	iqrFactor   = 1.5
	quartileLow = 0.25
	quartileHi  = 0.75
)

// Label grades how strongly a value violates the checks
type Label string

const (
	LabelModerate Label = "moderate"
	LabelExtreme  Label = "extreme"
)

// Sample pairs a numeric value with the data row it came from
type Sample struct {
	Row   int
	Value float64
}

// Flag is one outlier with its original row and violation grade
type Flag struct {
	Row       int
	Value     float64
	Label     Label
	ModifiedZ float64
}

// Result carries the computed statistics and every flagged value, in the
// input's row order.
type Result struct {
	Q1         float64
	Q3         float64
	IQR        float64
	LowerBound float64
	UpperBound float64
	Median     float64
	MAD        float64
	Flags      []Flag
}

// Detect analyzes a numeric column. It returns false when fewer than
// MinValues samples are present; statistics are recomputed from scratch on
// every call so results always reflect the current data.
func Detect(samples []Sample) (*Result, bool) {
	n := len(samples)
	if n < MinValues {
		return nil, false
	}

	sorted := make([]float64, n)
	for i, s := range samples {
		sorted[i] = s.Value
	}
	sort.Float64s(sorted)

	q1 := sorted[int(math.Floor(quartileLow*float64(n)))]
	q3 := sorted[int(math.Floor(quartileHi*float64(n)))]
	iqr := q3 - q1

	res := &Result{
		Q1:         q1,
		Q3:         q3,
		IQR:        iqr,
		LowerBound: q1 - iqrFactor*iqr,
		UpperBound: q3 + iqrFactor*iqr,
		Median:     floorMedian(sorted),
		MAD:        medianAbsoluteDeviation(sorted),
	}

	for _, s := range samples {
		z := 0.0
		if res.MAD != 0 {
			z = zScale * (s.Value - res.Median) / res.MAD
		}

		iqrViolation := s.Value < res.LowerBound || s.Value > res.UpperBound
		zViolation := math.Abs(z) > zThreshold
		if !iqrViolation && !zViolation {
			continue
		}

		label := LabelModerate
		if iqrViolation && zViolation {
			label = LabelExtreme
		}
		res.Flags = append(res.Flags, Flag{
			Row:       s.Row,
			Value:     s.Value,
			Label:     label,
			ModifiedZ: z,
		})
	}

	return res, true
}

// FlaggedRows returns the flagged row indices as a set
func (r *Result) FlaggedRows() map[int]bool {
	rows := make(map[int]bool, len(r.Flags))
	for _, f := range r.Flags {
		rows[f.Row] = true
	}
	return rows
}

// floorMedian takes sorted values and returns the element at floor(n/2)
func floorMedian(sorted []float64) float64 {
	return sorted[len(sorted)/2]
}

// medianAbsoluteDeviation is the floor-median of |x - median| over sorted values
func medianAbsoluteDeviation(sorted []float64) float64 {
	median := floorMedian(sorted)
	deviations := make([]float64, len(sorted))
	for i, v := range sorted {
		deviations[i] = math.Abs(v - median)
	}
	sort.Float64s(deviations)
	return floorMedian(deviations)
}
