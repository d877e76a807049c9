package excel

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"datascrub/internal/dataset"
)

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}

	path := filepath.Join(t.TempDir(), "fixture.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

// TestSourceRoundTrip writes a workbook and checks the rendered CSV parses
// back to the same grid, including a comma-bearing cell.
func TestSourceRoundTrip(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"name", "city"},
		{"John", "Paris, FR"},
		{"Ann", "Oslo"},
	})

	csvText, err := NewSource(path).ReadCSV(context.Background())
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}

	ds, err := dataset.Parse(csvText)
	if err != nil {
		t.Fatalf("rendered CSV does not parse: %v", err)
	}
	if ds.NumRows() != 2 || ds.NumColumns() != 2 {
		t.Fatalf("parsed %dx%d, want 2 rows x 2 columns", ds.NumRows(), ds.NumColumns())
	}
	if got := ds.Cell(0, 1); got != "Paris, FR" {
		t.Errorf("comma cell = %q, want it kept whole", got)
	}
	if got := ds.Cell(1, 0); got != "Ann" {
		t.Errorf("cell = %q, want Ann", got)
	}
}

func TestSourceMissingFile(t *testing.T) {
	_, err := NewSource(filepath.Join(t.TempDir(), "nope.xlsx")).ReadCSV(context.Background())
	if err == nil {
		t.Fatal("expected an error for a missing workbook")
	}
}

func TestSourceName(t *testing.T) {
	if got := NewSource("data/book.xlsx").Name(); got != "data/book.xlsx" {
		t.Errorf("Name() = %q", got)
	}
}
