// Package pricelist reads tabular price-list files into header-keyed rows
// for the catalog builder. The readers only surface file/sheet level
// failures; per-row problems are the builder's to warn about.
package pricelist

// Row is one price-list record, keyed by the column headers as they appear
// in the source file. The catalog builder resolves canonical field names
// from these raw headers.
type Row map[string]string

// Reader supplies tabular price-list data from a file.
type Reader interface {
	// ListSheets returns the sheet names available in the file.
	ListSheets(path string) ([]string, error)

	// ReadRows returns every data row of the named sheet, keyed by the
	// header row. Rows with no populated cells are dropped.
	ReadRows(path, sheet string) ([]Row, error)
}
