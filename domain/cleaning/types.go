package cleaning

// OpName identifies one cleaning operation from the fixed catalog
type OpName string

const (
	OpRemoveDuplicates OpName = "remove_duplicates"
	OpRemoveColumn     OpName = "remove_column"

	OpHandleNullsFill   OpName = "handle_nulls_fill"
	OpHandleNullsZero   OpName = "handle_nulls_zero"
	OpHandleNullsDrop   OpName = "handle_nulls_drop"
	OpHandleNullsMedian OpName = "handle_nulls_median"
	OpHandleNullsMode   OpName = "handle_nulls_mode"

	OpTrimWhitespace    OpName = "trim_whitespace"
	OpRemoveExtraSpaces OpName = "remove_extra_spaces"

	OpStandardizePhoneUS   OpName = "standardize_phone_us"
	OpStandardizePhoneDash OpName = "standardize_phone_dash"
	OpStandardizePhoneDots OpName = "standardize_phone_dots"

	OpValidateEmails       OpName = "validate_emails"
	OpStandardizeEmailCase OpName = "standardize_email_case"

	OpStandardizeDatesISO OpName = "standardize_dates_iso"
	OpStandardizeDatesUS  OpName = "standardize_dates_us"

	OpStandardizeCaseTitle OpName = "standardize_case_title"
	OpStandardizeCaseUpper OpName = "standardize_case_upper"
	OpStandardizeCaseLower OpName = "standardize_case_lower"

	OpStandardizeColumns OpName = "standardize_columns"
	OpCleanColumnNames   OpName = "clean_column_names"

	OpHandleOutliersRemove        OpName = "handle_outliers_remove"
	OpHandleOutliersReplaceMedian OpName = "handle_outliers_replace_median"

	OpFixDataTypes OpName = "fix_data_types"
)

// Catalog lists every operation the engine supports, in stable order.
// The operation registry is validated against this list at construction.
func Catalog() []OpName {
	return []OpName{
		OpRemoveDuplicates,
		OpRemoveColumn,
		OpHandleNullsFill,
		OpHandleNullsZero,
		OpHandleNullsDrop,
		OpHandleNullsMedian,
		OpHandleNullsMode,
		OpTrimWhitespace,
		OpRemoveExtraSpaces,
		OpStandardizePhoneUS,
		OpStandardizePhoneDash,
		OpStandardizePhoneDots,
		OpValidateEmails,
		OpStandardizeEmailCase,
		OpStandardizeDatesISO,
		OpStandardizeDatesUS,
		OpStandardizeCaseTitle,
		OpStandardizeCaseUpper,
		OpStandardizeCaseLower,
		OpStandardizeColumns,
		OpCleanColumnNames,
		OpHandleOutliersRemove,
		OpHandleOutliersReplaceMedian,
		OpFixDataTypes,
	}
}

// Valid reports whether the name belongs to the catalog
func (n OpName) Valid() bool {
	for _, op := range Catalog() {
		if op == n {
			return true
		}
	}
	return false
}

// String returns the operation name
func (n OpName) String() string {
	return string(n)
}

// Result is the complete output of applying one cleaning operation.
// CSVText is the full rewritten file; the input is never mutated.
type Result struct {
	Operation    OpName `json:"operation"`
	CSVText      string `json:"csv_text"`
	Changes      int    `json:"changes"`
	OriginalRows int    `json:"original_rows"`
	CleanedRows  int    `json:"cleaned_rows"`
}

// RowsRemoved reports how many data rows the operation dropped
func (r *Result) RowsRemoved() int {
	removed := r.OriginalRows - r.CleanedRows
	if removed < 0 {
		return 0
	}
	return removed
}
