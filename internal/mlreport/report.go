// Package mlreport builds the tool-style quality report: four sections
// shaped after the output of well-known data-quality tools (Great
// Expectations, Deequ, HoloClean, Cleanlab) plus dataset dimensions. The
// sections are computed with plain deterministic statistics. No models are
// trained; label confidence in the mislabel section comes from label
// frequency alone.
package mlreport

// Report is the full tool-style report. Field order matches the section
// order consumers expect in the JSON output.
type Report struct {
	Info         DatasetInfo     `json:"dataset_info"`
	Expectations ExpectationSet  `json:"great_expectations_real"`
	Constraints  ConstraintSet   `json:"deequ_real"`
	Repairs      RepairFindings  `json:"holoclean_real"`
	Mislabels    MislabelSummary `json:"cleanlab_real"`
}

// DatasetInfo records the analyzed file's dimensions. Rows is the analyzed
// row count, after any sampling cap was applied.
type DatasetInfo struct {
	File        string   `json:"file"`
	Rows        int      `json:"rows"`
	Columns     int      `json:"columns"`
	ColumnNames []string `json:"column_names"`
	FileSizeMB  float64  `json:"file_size_mb"`
}

// Expectation is one auto-generated check. The optional fields depend on
// the expectation kind: completeness carries threshold/current_value, range
// carries min_value/max_value, regex carries pattern/validity.
type Expectation struct {
	Expectation   string   `json:"expectation"`
	Column        string   `json:"column"`
	Threshold     *float64 `json:"threshold,omitempty"`
	CurrentValue  *float64 `json:"current_value,omitempty"`
	MinValue      *float64 `json:"min_value,omitempty"`
	MaxValue      *float64 `json:"max_value,omitempty"`
	Pattern       string   `json:"pattern,omitempty"`
	Validity      *float64 `json:"validity,omitempty"`
	Passes        bool     `json:"passes"`
	AutoGenerated bool     `json:"auto_generated"`
}

// ExpectationSet is the Great Expectations style section
type ExpectationSet struct {
	Tool              string        `json:"tool"`
	TotalExpectations int           `json:"total_expectations"`
	Passed            int           `json:"passed"`
	Failed            int           `json:"failed"`
	Expectations      []Expectation `json:"expectations"`
	AutoGenerated     bool          `json:"auto_generated"`
	ViolationReports  string        `json:"violation_reports"`
}

// Constraint is one profiled data constraint
type Constraint struct {
	Type          string  `json:"constraint_type"`
	Column        string  `json:"column"`
	ObservedValue float64 `json:"observed_value"`
	Constraint    string  `json:"constraint"`
	Passes        bool    `json:"passes"`
}

// ConstraintSet is the Deequ style section
type ConstraintSet struct {
	Tool                 string                 `json:"tool"`
	ConstraintsGenerated int                    `json:"constraints_generated"`
	Constraints          []Constraint           `json:"constraints"`
	MLAnomalyDetection   map[string]interface{} `json:"ml_anomaly_detection"`
	LargeScale           string                 `json:"large_scale"`
	AutoProfiling        bool                   `json:"auto_profiling"`
}

// ColumnErrors describes the null-like values found in one column
type ColumnErrors struct {
	ErrorType              string  `json:"error_type"`
	ErrorsFound            int     `json:"errors_found"`
	Confidence             float64 `json:"confidence"`
	ProbabilisticInference bool    `json:"probabilistic_inference"`
	PatternStrength        float64 `json:"pattern_strength"`
}

// ColumnRepair is the suggested fill for one column's null-like values.
// SuggestedValue is a number for median imputation and a string for mode
// imputation.
type ColumnRepair struct {
	Method         string      `json:"repair_method"`
	SuggestedValue interface{} `json:"suggested_value"`
	Confidence     float64     `json:"confidence"`
	Probabilistic  bool        `json:"probabilistic"`
}

// RepairFindings is the HoloClean style section
type RepairFindings struct {
	Tool                   string                  `json:"tool"`
	ProbabilisticInference bool                    `json:"probabilistic_inference"`
	ErrorsDetected         int                     `json:"errors_detected"`
	ErrorDetails           map[string]ColumnErrors `json:"error_details"`
	RepairSuggestions      map[string]ColumnRepair `json:"repair_suggestions"`
	Method                 string                  `json:"method"`
}

// MislabelDetail is one suspicious label. RowIndex is the zero-based data
// row within the analyzed rows.
type MislabelDetail struct {
	RowIndex       int     `json:"row_index"`
	CurrentLabel   string  `json:"current_label"`
	PredictedLabel string  `json:"predicted_label"`
	Confidence     float64 `json:"confidence"`
	LikelyMislabel bool    `json:"likely_mislabel"`
}

// ColumnMislabels aggregates the suspicious labels of one label column
type ColumnMislabels struct {
	TotalPotentialMislabels int              `json:"total_potential_mislabels"`
	Percentage              float64          `json:"percentage"`
	Details                 []MislabelDetail `json:"details"`
	Method                  string           `json:"ml_method"`
}

// MislabelSummary is the Cleanlab style section. When no column qualifies
// as a label, only Tool, Message, and Requires are set.
type MislabelSummary struct {
	Tool              string                     `json:"tool"`
	MLPowered         bool                       `json:"ml_powered,omitempty"`
	MislabelDetection map[string]ColumnMislabels `json:"mislabel_detection,omitempty"`
	Method            string                     `json:"method,omitempty"`
	UseCase           string                     `json:"use_case,omitempty"`
	Message           string                     `json:"message,omitempty"`
	Requires          string                     `json:"requires,omitempty"`
}
