package transform

import (
	"fmt"
	"strings"

	"graphfeed/internal/domain"
)

// BuildNodes parses the node roster sheet into an ordered node table.
// The first skipRows rows are banner/header rows and are ignored; each
// remaining row carries (ordinal, identifier, display name) in that
// column order. Fully blank rows are skipped.
//
// Row order is preserved. Any structural problem fails the whole build
// with an error wrapping ErrValidation.
func BuildNodes(rows [][]string, skipRows int) ([]domain.Node, error) {
	if skipRows < 0 {
		skipRows = 0
	}
	if skipRows > len(rows) {
		skipRows = len(rows)
	}

	var nodes []domain.Node
	seenIDs := make(map[string]int)
	seenOrdinals := make(map[int]string)

	for i, row := range rows[skipRows:] {
		rowNum := skipRows + i + 1 // 1-based sheet row for error messages

		if isBlankRow(row) {
			continue
		}
		if len(row) < 3 {
			return nil, fmt.Errorf("row %d: expected ordinal, identifier and name columns: %w", rowNum, ErrValidation)
		}

		ordinal, err := parseSmallInt(strings.TrimSpace(row[0]))
		if err != nil || ordinal < 0 || ordinal > domain.MaxOrdinal {
			return nil, fmt.Errorf("row %d: ordinal %q is not a small integer: %w", rowNum, row[0], ErrValidation)
		}

		id := strings.TrimSpace(row[1])
		if id == "" {
			return nil, fmt.Errorf("row %d: empty identifier: %w", rowNum, ErrValidation)
		}
		if len(id) > domain.MaxIDLength {
			return nil, fmt.Errorf("row %d: identifier %q exceeds %d characters: %w", rowNum, id, domain.MaxIDLength, ErrValidation)
		}

		name := strings.TrimSpace(row[2])
		if name == "" {
			return nil, fmt.Errorf("row %d: empty name for %q: %w", rowNum, id, ErrValidation)
		}

		if prev, dup := seenIDs[id]; dup {
			return nil, fmt.Errorf("row %d: identifier %q already defined at row %d: %w", rowNum, id, prev, ErrValidation)
		}
		if prevID, dup := seenOrdinals[ordinal]; dup {
			return nil, fmt.Errorf("row %d: ordinal %d already assigned to %q: %w", rowNum, ordinal, prevID, ErrValidation)
		}
		seenIDs[id] = rowNum
		seenOrdinals[ordinal] = id

		nodes = append(nodes, domain.Node{ID: id, Ordinal: ordinal, Name: name})
	}

	return nodes, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
