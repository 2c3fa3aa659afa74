package domain

// MaxWeight is the largest edge weight representable in the
// destination's SMALLINT column.
const MaxWeight = 32767

// Edge is a directed, weighted relationship between two nodes. The
// ordered pair (From, To) is the primary key in the destination; a
// normalized edge list holds at most one edge per pair.
type Edge struct {
	From   string
	To     string
	Weight int
}
