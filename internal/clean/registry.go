// Package clean applies the cleaning operation catalog to CSV text. Every
// operation is pure: the input is re-parsed on each call, a fresh dataset is
// rewritten, and the new text is returned with a change count. The registry
// maps each catalog name to its handler and is validated at construction, so
// a cataloged operation without a handler fails fast instead of surfacing as
// a silent no-op.
package clean

import (
	"fmt"

	"datascrub/domain/cleaning"
	"datascrub/domain/core"
	"datascrub/internal"
	"datascrub/internal/classify"
	"datascrub/internal/dataset"
)

// request is one invocation's working view: the original text, the parsed
// dataset, the caller's requested column names, and the resolved eligible
// column indexes.
type request struct {
	text      string
	ds        *dataset.Dataset
	requested []string
	targets   []int
}

type opFunc func(*request) (string, int)

// entry binds a handler to its parsing and targeting policy. Handlers that
// read surrounding whitespace parse raw; format handlers fall back to the
// columns whose names classify to their type when no targets are given.
type entry struct {
	raw     bool
	colType classify.ColumnType
	fn      opFunc
}

// Registry resolves operation names to handlers. It holds no per-call
// state, so one registry can serve concurrent callers.
type Registry struct {
	table map[cleaning.OpName]entry
	log   *internal.Logger
}

// NewRegistry builds the operation table and validates it against the
// catalog: every cataloged name needs a handler and every handler needs a
// catalog entry. A mismatch is a programming error caught at startup.
func NewRegistry(log *internal.Logger) (*Registry, error) {
	if log == nil {
		log = internal.DefaultLogger
	}
	r := &Registry{log: log.Component("Cleaner")}
	r.table = map[cleaning.OpName]entry{
		cleaning.OpRemoveDuplicates: {fn: removeDuplicates},
		cleaning.OpRemoveColumn:     {fn: removeColumn},

		cleaning.OpHandleNullsFill:   {fn: fillNulls(missingFallback)},
		cleaning.OpHandleNullsZero:   {fn: fillNulls("0")},
		cleaning.OpHandleNullsDrop:   {fn: dropNullRows},
		cleaning.OpHandleNullsMedian: {fn: imputeMedian},
		cleaning.OpHandleNullsMode:   {fn: imputeMode},

		cleaning.OpTrimWhitespace:    {raw: true, fn: trimWhitespace},
		cleaning.OpRemoveExtraSpaces: {raw: true, fn: removeExtraSpaces},

		cleaning.OpStandardizePhoneUS:   {colType: classify.TypePhone, fn: phoneUS},
		cleaning.OpStandardizePhoneDash: {colType: classify.TypePhone, fn: phoneDash},
		cleaning.OpStandardizePhoneDots: {colType: classify.TypePhone, fn: phoneDots},

		cleaning.OpValidateEmails:       {colType: classify.TypeEmail, fn: validateEmails},
		cleaning.OpStandardizeEmailCase: {colType: classify.TypeEmail, fn: lowerEmailCase},

		cleaning.OpStandardizeDatesISO: {colType: classify.TypeDate, fn: datesISO},
		cleaning.OpStandardizeDatesUS:  {colType: classify.TypeDate, fn: datesUS},

		cleaning.OpStandardizeCaseTitle: {fn: caseTitle},
		cleaning.OpStandardizeCaseUpper: {fn: caseUpper},
		cleaning.OpStandardizeCaseLower: {fn: caseLower},

		cleaning.OpStandardizeColumns: {fn: standardizeColumns},
		cleaning.OpCleanColumnNames:   {fn: cleanColumnNames},

		cleaning.OpHandleOutliersRemove:        {fn: removeOutlierRows},
		cleaning.OpHandleOutliersReplaceMedian: {fn: replaceOutliersMedian},

		cleaning.OpFixDataTypes: {fn: fixDataTypes},
	}

	for _, op := range cleaning.Catalog() {
		if _, ok := r.table[op]; !ok {
			return nil, fmt.Errorf("cleaning operation %q has no handler", op)
		}
	}
	if got, want := len(r.table), len(cleaning.Catalog()); got != want {
		return nil, fmt.Errorf("registry holds %d handlers for %d cataloged operations", got, want)
	}
	return r, nil
}

// Apply runs one operation over CSV text. Unknown names are rejected before
// parsing; parse failures surface the input-rejection sentinels unchanged.
// The targets slice names the columns to affect; nil means the operation's
// default scope.
func (r *Registry) Apply(csvText string, op cleaning.OpName, targets []string) (*cleaning.Result, error) {
	e, ok := r.table[op]
	if !ok {
		return nil, core.NewUnknownOperationError(string(op))
	}

	parse := dataset.Parse
	if e.raw {
		parse = dataset.ParseRaw
	}
	ds, err := parse(csvText)
	if err != nil {
		return nil, err
	}

	req := &request{
		text:      csvText,
		ds:        ds,
		requested: targets,
		targets:   resolveTargets(ds, targets, e.colType),
	}
	originalRows := ds.NumRows()

	out, changes := e.fn(req)
	r.log.Debug("applied %s: %d changes", op, changes)

	return &cleaning.Result{
		Operation:    op,
		CSVText:      out,
		Changes:      changes,
		OriginalRows: originalRows,
		CleanedRows:  countDataRows(out),
	}, nil
}

// resolveTargets picks the eligible column indexes in header order: the
// caller's named columns when given, otherwise the columns classified to
// the operation's type, otherwise every column. Names that match no header
// are skipped rather than erroring.
func resolveTargets(ds *dataset.Dataset, requested []string, colType classify.ColumnType) []int {
	if len(requested) > 0 {
		want := make(map[string]bool, len(requested))
		for _, name := range requested {
			want[name] = true
		}
		var idx []int
		for i, name := range ds.Header {
			if want[name] {
				idx = append(idx, i)
			}
		}
		return idx
	}

	var idx []int
	for i, name := range ds.Header {
		if colType == "" {
			idx = append(idx, i)
			continue
		}
		if t, ok := classify.Classify(name); ok && t == colType {
			idx = append(idx, i)
		}
	}
	return idx
}

// countDataRows counts non-blank lines after the header
func countDataRows(csvText string) int {
	lines := dataset.Lines(csvText)
	if len(lines) == 0 {
		return 0
	}
	return len(lines) - 1
}

// rewriteCells applies a transform to every cell of the eligible columns,
// counting cells whose value changed. Short rows are padded so writes land
// in the right column.
func rewriteCells(req *request, transform func(string) string) (string, int) {
	changes := 0
	for _, col := range req.targets {
		for i := range req.ds.Rows {
			row := req.ds.PaddedRow(i)
			req.ds.Rows[i] = row
			if cleaned := transform(row[col]); cleaned != row[col] {
				row[col] = cleaned
				changes++
			}
		}
	}
	return req.ds.Render(), changes
}

// rewriteAllCells applies a transform to every cell of every row, ignoring
// targeting. Whitespace repair is always whole-file.
func rewriteAllCells(req *request, transform func(string) string) (string, int) {
	changes := 0
	for _, row := range req.ds.Rows {
		for i, v := range row {
			if cleaned := transform(v); cleaned != v {
				row[i] = cleaned
				changes++
			}
		}
	}
	return req.ds.Render(), changes
}
