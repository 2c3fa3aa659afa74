package repository

import (
	"context"
	"errors"

	"graphfeed/internal/domain"
)

// ErrLoad indicates a destination failure during a full replace:
// connectivity loss, a constraint violation inside the batch, or a
// failed commit. A load that fails leaves the prior table contents in
// place.
var ErrLoad = errors.New("repository: load failed")

// Loader persists pipeline output into the destination store. Each
// call replaces the named table's entire prior content with the given
// rows — on success the table holds exactly the input, in input order.
//
// ReplaceNodes must have committed before ReplaceEdges is called for
// the same run; edges reference node identifiers and the destination
// carries no foreign-key check of its own.
type Loader interface {
	ReplaceNodes(ctx context.Context, nodes []domain.Node) (int, error)
	ReplaceEdges(ctx context.Context, edges []domain.Edge) (int, error)

	// Close releases the destination connection.
	Close() error
}
