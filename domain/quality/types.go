package quality

// IssueType identifies one category of data-quality problem
type IssueType string

const (
	IssueDuplicates         IssueType = "duplicates"
	IssueMissingValues      IssueType = "missing_values"
	IssuePhoneFormat        IssueType = "phone_format"
	IssueEmailFormat        IssueType = "email_format"
	IssueWhitespace         IssueType = "whitespace"
	IssueOutliers           IssueType = "outliers"
	IssueDataTypes          IssueType = "data_types"
	IssuePotentialMislabels IssueType = "potential_mislabels"
	IssuePerformanceNote    IssueType = "performance_note"
)

// AllIssueTypes lists every issue category in detection order
func AllIssueTypes() []IssueType {
	return []IssueType{
		IssueDuplicates,
		IssueMissingValues,
		IssuePhoneFormat,
		IssueEmailFormat,
		IssueWhitespace,
		IssueOutliers,
		IssueDataTypes,
		IssuePotentialMislabels,
		IssuePerformanceNote,
	}
}

// Severity ranks how urgent an issue is
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Issue is one detected data-quality problem.
// Count may be extrapolated when the detector sampled a large file.
// Examples carry 1-based display row numbers (data row i is displayed as
// row i+2, accounting for the header line).
type Issue struct {
	Type            IssueType `json:"type"`
	Severity        Severity  `json:"severity"`
	Description     string    `json:"description"`
	AffectedColumns []string  `json:"affected_columns"`
	Count           int       `json:"count"`
	Suggestion      string    `json:"suggestion"`
	Examples        []string  `json:"examples,omitempty"`
}

// DatasetInfo summarizes the analyzed file's dimensions
type DatasetInfo struct {
	TotalRows    int      `json:"total_rows"`
	TotalColumns int      `json:"total_columns"`
	ColumnNames  []string `json:"column_names"`
	Sampled      bool     `json:"sampled"`
	SampleSize   int      `json:"sample_size,omitempty"`
}

// DetectionReport is the complete output of one detection run
type DetectionReport struct {
	Info   DatasetInfo `json:"dataset_info"`
	Issues []Issue     `json:"issues"`
}

// CountByType tallies issues per category (handy for summaries and tests)
func (r *DetectionReport) CountByType() map[IssueType]int {
	counts := make(map[IssueType]int)
	for _, issue := range r.Issues {
		counts[issue.Type]++
	}
	return counts
}

// IssuesOfType returns the issues matching one category, in report order
func (r *DetectionReport) IssuesOfType(t IssueType) []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Type == t {
			out = append(out, issue)
		}
	}
	return out
}

// ColumnStatistics holds per-column quartile statistics, computed fresh
// from the column's current numeric values on every use.
type ColumnStatistics struct {
	Median float64 `json:"median"`
	Q1     float64 `json:"q1"`
	Q3     float64 `json:"q3"`
	IQR    float64 `json:"iqr"`
}

// SuggestionFor returns the static remediation text for an issue category
func SuggestionFor(t IssueType) string {
	switch t {
	case IssueDuplicates:
		return "Remove duplicate rows to avoid double counting"
	case IssueMissingValues:
		return "Fill missing values or drop incomplete rows"
	case IssuePhoneFormat:
		return "Standardize phone numbers to a single format"
	case IssueEmailFormat:
		return "Correct or remove invalid email addresses"
	case IssueWhitespace:
		return "Trim whitespace and collapse repeated spaces"
	case IssueOutliers:
		return "Review flagged values; remove or cap them if they are data errors"
	case IssueDataTypes:
		return "Review values that do not match the column's expected type"
	case IssuePotentialMislabels:
		return "Review anomalous values for possible data entry errors"
	case IssuePerformanceNote:
		return "Counts are extrapolated from a sample; split the file for exact results"
	default:
		return ""
	}
}
