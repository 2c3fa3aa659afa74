package transform

import "errors"

// Sentinel errors for the transform stage. Callers match them with
// errors.Is; contextual detail (sheet coordinates, offending values) is
// wrapped around them with fmt.Errorf("...: %w", Err...).
var (
	// ErrValidation indicates a malformed node roster row: missing
	// columns, empty identifier or name, a duplicate identifier or
	// ordinal, or an ordinal outside the small-integer range.
	ErrValidation = errors.New("transform: invalid node row")

	// ErrSchemaMismatch indicates the matrix's row-label or
	// column-label set is not exactly the known node identifier set.
	ErrSchemaMismatch = errors.New("transform: matrix labels do not match node set")

	// ErrValueRange indicates a matrix cell that is present and
	// non-zero but does not coerce to a positive small integer.
	ErrValueRange = errors.New("transform: weight not a positive small integer")
)
