package ports

import "context"

// DatasetSource loads raw tabular data from some backing file format and
// hands it to the engine as comma-delimited text whose first line is the
// header. Adapters exist for plain CSV files and Excel workbooks.
type DatasetSource interface {
	// ReadCSV returns the full file contents as CSV text.
	ReadCSV(ctx context.Context) (string, error)

	// Name identifies the source for logs and job records.
	Name() string
}
