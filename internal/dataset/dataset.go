package dataset

import (
	"strings"

	"datascrub/domain/core"
)

// Dataset is parsed CSV content: a fixed header plus ordered data rows.
// The header is immutable once parsed. Cleaning operations never mutate a
// Dataset in place; they build a new value and render it back to text.
type Dataset struct {
	Header []string
	Rows   [][]string
}

// Lines splits CSV text into lines, dropping blank lines. A trailing
// carriage return is stripped so CRLF files parse like LF files.
func Lines(csvText string) []string {
	raw := strings.Split(csvText, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// SplitLine tokenizes one CSV line: commas inside double-quoted spans do not
// split, each field is trimmed, and any remaining quote characters are
// stripped from the result. Doubled quotes are NOT unescaped. The quote flag
// simply toggles on every quote seen, so a line with an odd quote count
// keeps the remainder in one field. This tolerant behavior is load-bearing
// for malformed real-world files; do not swap in a strict RFC 4180 reader.
func SplitLine(line string) []string {
	return splitFields(line, true)
}

// SplitLineRaw tokenizes like SplitLine but keeps each field's surrounding
// whitespace. Used where leading/trailing whitespace is itself the signal.
func SplitLineRaw(line string) []string {
	return splitFields(line, false)
}

func splitFields(line string, trim bool) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			cur.WriteRune(r)
		case r == ',' && !inQuotes:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	fields = append(fields, cur.String())

	for i, f := range fields {
		if trim {
			f = strings.TrimSpace(f)
		}
		fields[i] = strings.ReplaceAll(f, `"`, "")
	}
	return fields
}

// Parse builds a Dataset from CSV text. The first non-blank line is the
// header; fields are trimmed per SplitLine.
func Parse(csvText string) (*Dataset, error) {
	return parse(csvText, SplitLine)
}

// ParseRaw builds a Dataset whose data cells keep their surrounding
// whitespace. Header names are always trimmed.
func ParseRaw(csvText string) (*Dataset, error) {
	return parse(csvText, SplitLineRaw)
}

func parse(csvText string, split func(string) []string) (*Dataset, error) {
	if strings.TrimSpace(csvText) == "" {
		return nil, core.ErrEmptyInput
	}
	lines := Lines(csvText)
	if len(lines) < 2 {
		return nil, core.ErrTooFewLines
	}

	header := SplitLine(lines[0])
	rows := make([][]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		rows = append(rows, split(line))
	}
	return &Dataset{Header: header, Rows: rows}, nil
}

// NumRows returns the number of data rows
func (d *Dataset) NumRows() int {
	return len(d.Rows)
}

// NumColumns returns the header width
func (d *Dataset) NumColumns() int {
	return len(d.Header)
}

// Cell returns the value at (row, col), or "" when the row is shorter than
// the header. Out-of-range rows also yield "".
func (d *Dataset) Cell(row, col int) string {
	if row < 0 || row >= len(d.Rows) {
		return ""
	}
	r := d.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// ColumnIndex finds a header name's position, or -1 when absent
func (d *Dataset) ColumnIndex(name string) int {
	for i, h := range d.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// ColumnValues collects one column top to bottom, padding short rows with ""
func (d *Dataset) ColumnValues(col int) []string {
	values := make([]string, len(d.Rows))
	for i := range d.Rows {
		values[i] = d.Cell(i, col)
	}
	return values
}

// PaddedRow returns row i extended with empty fields to the header width.
// Rows longer than the header are returned as-is.
func (d *Dataset) PaddedRow(i int) []string {
	row := d.Rows[i]
	if len(row) >= len(d.Header) {
		return row
	}
	padded := make([]string, len(d.Header))
	copy(padded, row)
	return padded
}

// Render writes the Dataset back to CSV text. Fields containing commas are
// quoted so they survive a re-parse; short rows are padded to the header
// width, keeping the column count stable.
func (d *Dataset) Render() string {
	var b strings.Builder
	writeRow(&b, d.Header)
	for i := range d.Rows {
		b.WriteByte('\n')
		row := d.Rows[i]
		if len(row) < len(d.Header) {
			row = d.PaddedRow(i)
		}
		writeRow(&b, row)
	}
	return b.String()
}

func writeRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(QuoteField(f))
	}
}

// QuoteField wraps a value in quotes when it contains a comma
func QuoteField(f string) string {
	if strings.Contains(f, ",") {
		return `"` + f + `"`
	}
	return f
}

// missing-value tokens, matched case-insensitively after trimming
var missingTokens = map[string]bool{
	"":     true,
	"null": true,
	"na":   true,
	"n/a":  true,
}

// IsMissing reports whether a cell represents a missing value: empty,
// whitespace-only, or a null-like literal in any casing.
func IsMissing(value string) bool {
	return missingTokens[strings.ToLower(strings.TrimSpace(value))]
}

// DisplayRow converts a 0-based data row index to the 1-based row number
// shown to users, counting the header line.
func DisplayRow(dataIndex int) int {
	return dataIndex + 2
}
