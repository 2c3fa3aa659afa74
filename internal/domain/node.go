package domain

// MaxIDLength is the width of the destination identifier column.
const MaxIDLength = 32

// MaxOrdinal is the largest ordinal representable in the destination's
// SMALLINT column.
const MaxOrdinal = 32767

// Node is one entity of the relational graph: a short identifier code
// (the primary key in the destination), a small stable ordinal, and a
// display name.
type Node struct {
	ID      string
	Ordinal int
	Name    string
}

// NodeSet is the identifier set of a node roster, used to validate the
// adjacency matrix axes against the known nodes.
type NodeSet map[string]struct{}

// NewNodeSet collects the identifiers of nodes into a set.
func NewNodeSet(nodes []Node) NodeSet {
	set := make(NodeSet, len(nodes))
	for _, n := range nodes {
		set[n.ID] = struct{}{}
	}
	return set
}

// Contains reports whether id is a known node identifier.
func (s NodeSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}
