// Package source provides read access to the spreadsheet the pipeline
// extracts from. It returns raw rectangular cell data only; all
// interpretation and validation happens in internal/transform.
package source

// Source provides the cell rows of named sheets in a workbook. Rows
// come back as strings in sheet order; trailing empty cells of a row
// may be omitted by the underlying reader.
type Source interface {
	Rows(sheet string) ([][]string, error)
}
