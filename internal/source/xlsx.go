package source

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSX reads sheets from an .xlsx workbook on the local filesystem.
// The workbook is opened and closed per read, so no file handle is held
// between pipeline steps or across scheduled runs.
type XLSX struct {
	path string
}

// NewXLSX returns a reader for the workbook at path. The file is not
// touched until Rows is called.
func NewXLSX(path string) *XLSX {
	return &XLSX{path: path}
}

// Rows returns all cell rows of the named sheet.
func (x *XLSX) Rows(sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(x.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", x.path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rows, nil
}
