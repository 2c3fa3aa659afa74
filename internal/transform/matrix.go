package transform

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"graphfeed/internal/domain"
)

// NormalizeMatrix converts the dense adjacency matrix sheet into a
// sparse edge list. Row headerRow holds the column labels (node
// identifiers) starting after labelCols leading label columns; each
// data row carries its own identifier in the last label column.
//
// Both axis label sets must equal the known node identifier set
// exactly; anything missing, extra or duplicated fails with an error
// wrapping ErrSchemaMismatch.
//
// Blank and zero cells are excluded (the sparse representation). Any
// other cell must coerce to an integer in 1..domain.MaxWeight or the
// whole transform fails with an error wrapping ErrValueRange.
//
// Edges come out in row-major traversal order of the source matrix, so
// the same workbook always yields the same sequence.
func NormalizeMatrix(rows [][]string, headerRow, labelCols int, known domain.NodeSet) ([]domain.Edge, error) {
	if labelCols < 1 {
		labelCols = 1
	}
	if headerRow < 0 || headerRow >= len(rows) {
		return nil, fmt.Errorf("matrix sheet has no header row: %w", ErrSchemaMismatch)
	}

	colLabels, err := readColumnLabels(rows[headerRow], labelCols, known)
	if err != nil {
		return nil, err
	}

	edges := make([]domain.Edge, 0, len(known))
	seenRows := make(map[string]struct{}, len(known))
	type pair struct{ from, to string }
	seenPairs := make(map[pair]struct{})

	for i, row := range rows[headerRow+1:] {
		rowNum := headerRow + i + 2 // 1-based sheet row

		if isBlankRow(row) {
			continue
		}
		if len(row) < labelCols {
			return nil, fmt.Errorf("row %d: missing row label: %w", rowNum, ErrSchemaMismatch)
		}

		from := strings.TrimSpace(row[labelCols-1])
		if from == "" {
			return nil, fmt.Errorf("row %d: empty row label: %w", rowNum, ErrSchemaMismatch)
		}
		if !known.Contains(from) {
			return nil, fmt.Errorf("row %d: unknown row label %q: %w", rowNum, from, ErrSchemaMismatch)
		}
		if _, dup := seenRows[from]; dup {
			return nil, fmt.Errorf("row %d: duplicate row label %q: %w", rowNum, from, ErrSchemaMismatch)
		}
		seenRows[from] = struct{}{}

		for j, to := range colLabels {
			col := labelCols + j
			var cell string
			if col < len(row) {
				cell = strings.TrimSpace(row[col])
			}
			if cell == "" {
				continue
			}

			weight, err := parseSmallInt(cell)
			if err != nil {
				return nil, fmt.Errorf("cell (%q,%q): weight %q: %w", from, to, cell, ErrValueRange)
			}
			if weight == 0 {
				continue
			}
			if weight < 0 {
				return nil, fmt.Errorf("cell (%q,%q): negative weight %d: %w", from, to, weight, ErrValueRange)
			}

			// Row-major traversal over unique axis labels cannot
			// repeat a pair; assert the invariant anyway.
			p := pair{from, to}
			if _, dup := seenPairs[p]; dup {
				return nil, fmt.Errorf("cell (%q,%q): duplicate edge pair: %w", from, to, ErrSchemaMismatch)
			}
			seenPairs[p] = struct{}{}

			edges = append(edges, domain.Edge{From: from, To: to, Weight: weight})
		}
	}

	if len(seenRows) != len(known) {
		for id := range known {
			if _, ok := seenRows[id]; !ok {
				return nil, fmt.Errorf("matrix has no row for node %q: %w", id, ErrSchemaMismatch)
			}
		}
	}

	return edges, nil
}

// readColumnLabels extracts and validates the column axis of the
// matrix. Trailing blank header cells are tolerated; anything else must
// be a known, unrepeated node identifier, and every known identifier
// must appear.
func readColumnLabels(header []string, labelCols int, known domain.NodeSet) ([]string, error) {
	var labels []string
	seen := make(map[string]struct{}, len(known))

	cells := header
	if labelCols < len(cells) {
		cells = cells[labelCols:]
	} else {
		cells = nil
	}
	// Drop trailing blanks before validating.
	for len(cells) > 0 && strings.TrimSpace(cells[len(cells)-1]) == "" {
		cells = cells[:len(cells)-1]
	}

	for i, cell := range cells {
		label := strings.TrimSpace(cell)
		if label == "" {
			return nil, fmt.Errorf("blank column label at column %d: %w", labelCols+i+1, ErrSchemaMismatch)
		}
		if !known.Contains(label) {
			return nil, fmt.Errorf("unknown column label %q: %w", label, ErrSchemaMismatch)
		}
		if _, dup := seen[label]; dup {
			return nil, fmt.Errorf("duplicate column label %q: %w", label, ErrSchemaMismatch)
		}
		seen[label] = struct{}{}
		labels = append(labels, label)
	}

	if len(labels) != len(known) {
		for id := range known {
			if _, ok := seen[id]; !ok {
				return nil, fmt.Errorf("matrix has no column for node %q: %w", id, ErrSchemaMismatch)
			}
		}
	}

	return labels, nil
}

// parseSmallInt coerces a cell string to an integer within the
// destination's SMALLINT range. Integral floats ("5.0", as spreadsheet
// cells sometimes render) are accepted; fractional values are not.
func parseSmallInt(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n > domain.MaxWeight || n < -domain.MaxWeight {
			return 0, fmt.Errorf("value %d overflows smallint", n)
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not numeric: %q", s)
	}
	if math.Trunc(f) != f {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	if f > domain.MaxWeight || f < -domain.MaxWeight {
		return 0, fmt.Errorf("value %v overflows smallint", f)
	}
	return int(f), nil
}
