package pricelist

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"mecatech/parts-ledger/internal/logging"
)

var log = logging.GetLogger()

// ExcelReader reads .xlsx workbooks via excelize.
type ExcelReader struct{}

// NewExcelReader returns a Reader over Excel workbooks.
func NewExcelReader() *ExcelReader {
	return &ExcelReader{}
}

// ListSheets returns the sheet names of the workbook.
func (r *ExcelReader) ListSheets(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("error opening workbook %s: %w", path, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Warn("Failed to close workbook")
		}
	}()

	return f.GetSheetList(), nil
}

// ReadRows reads one sheet into header-keyed rows. The first row is the
// header; trailing blank cells and fully blank rows are dropped.
func (r *ExcelReader) ReadRows(path, sheet string) ([]Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("error opening workbook %s: %w", path, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Warn("Failed to close workbook")
		}
	}()

	raw, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("error reading sheet '%s' of %s: %w", sheet, path, err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	header := make([]string, len(raw[0]))
	for i, cell := range raw[0] {
		header[i] = strings.TrimSpace(cell)
	}

	var rows []Row
	for _, cells := range raw[1:] {
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
		logging.FieldSheet: sheet,
		logging.FieldCount: len(rows),
	}).Debug("Read price-list rows")
	return rows, nil
}
