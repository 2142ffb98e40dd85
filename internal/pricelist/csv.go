package pricelist

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"mecatech/parts-ledger/internal/logging"
)

// CSVSheetName is the synthetic sheet name a CSV price list exposes.
const CSVSheetName = "Sheet1"

// CSVReader reads a headered CSV file as a single-sheet price list, so
// plain-text exports work alongside Excel workbooks.
type CSVReader struct {
	Comma rune
}

// NewCSVReader returns a Reader over comma-separated files.
func NewCSVReader() *CSVReader {
	return &CSVReader{Comma: ','}
}

// ListSheets returns the single synthetic sheet name after checking the file
// is readable.
func (r *CSVReader) ListSheets(path string) ([]string, error) {
	f, err := os.Open(path) // #nosec G304 -- price-list path is user supplied by design
	if err != nil {
		return nil, fmt.Errorf("error opening price list %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		log.WithError(err).Warn("Failed to close price list")
	}
	return []string{CSVSheetName}, nil
}

// ReadRows reads the whole file into header-keyed rows. The sheet argument
// is accepted for interface symmetry; anything other than the synthetic
// sheet name is an error, mirroring a missing workbook sheet.
func (r *CSVReader) ReadRows(path, sheet string) ([]Row, error) {
	if sheet != "" && sheet != CSVSheetName {
		return nil, fmt.Errorf("sheet '%s' does not exist in CSV price list %s", sheet, path)
	}

	f, err := os.Open(path) // #nosec G304 -- price-list path is user supplied by design
	if err != nil {
		return nil, fmt.Errorf("error opening price list %s: %w", path, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Warn("Failed to close price list")
		}
	}()

	reader := csv.NewReader(f)
	if r.Comma != 0 {
		reader.Comma = r.Comma
	}
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading price list %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := make([]string, len(records[0]))
	for i, cell := range records[0] {
		header[i] = strings.TrimSpace(cell)
	}

	var rows []Row
	for _, cells := range records[1:] {
		row := make(Row)
		populated := false
		for i, cell := range cells {
			if i >= len(header) || header[i] == "" {
				continue
			}
			value := strings.TrimSpace(cell)
			row[header[i]] = value
			if value != "" {
				populated = true
			}
		}
		if populated {
			rows = append(rows, row)
		}
	}

	log.WithFields(logrus.Fields{
		logging.FieldFile:  path,
		logging.FieldCount: len(rows),
	}).Debug("Read price-list rows")
	return rows, nil
}
