// Package excel loads workbook data for the engine. The first sheet is
// rendered as CSV text, so xlsx uploads flow through the same detection and
// cleaning paths as plain CSV files.
package excel

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"datascrub/internal/dataset"
)

// Source reads the first sheet of an xlsx workbook
type Source struct {
	path string
}

// NewSource creates a workbook source for the given path
func NewSource(path string) *Source {
	return &Source{path: path}
}

// Name identifies the source file
func (s *Source) Name() string {
	return s.path
}

// ReadCSV opens the workbook and renders its first sheet as CSV text.
// Cells containing commas are quoted; embedded newlines become spaces
// because the engine is line oriented.
func (s *Source) ReadCSV(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return "", fmt.Errorf("workbook not found: %s", s.path)
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return "", fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets: %s", s.path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return "", fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	var b strings.Builder
	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(dataset.QuoteField(flatten(cell)))
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func flatten(cell string) string {
	if !strings.ContainsAny(cell, "\r\n") {
		return cell
	}
	cell = strings.ReplaceAll(cell, "\r\n", " ")
	cell = strings.ReplaceAll(cell, "\n", " ")
	return strings.ReplaceAll(cell, "\r", " ")
}
