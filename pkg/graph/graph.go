// Package graph holds the CSR adjacency representation of the sampled
// water-node graph, its on-disk binary format, and diagnostic connected
// component reporting.
package graph

// Graph represents a directed graph in CSR (Compressed Sparse Row) format.
// The base graph is symmetric (every edge has a reverse edge); shortcut
// edges appended by the shortcut builder need not be.
type Graph struct {
	NumNodes uint32
	NumEdges uint32
	FirstOut []uint32  // len: NumNodes + 1; FirstOut[i]..FirstOut[i+1] are edges from node i
	Head     []uint32  // len: NumEdges; target node for each edge
	Weight   []uint32  // len: NumEdges; great-circle distance in meters, rounded
	NodeLat  []float64 // len: NumNodes
	NodeLon  []float64 // len: NumNodes

	// Expansion holds, for shortcut edges only, the interior base-node
	// sequence they bypass (spec §4.7). ExpansionIndex[e] == 0 means edge e
	// is a base edge with no expansion; any other value is the 1-based
	// start offset into ExpansionNodes, with the sequence running until the
	// next nonzero start (or the end of the array).
	ExpansionIndex []uint64 // len: NumEdges, optional (nil for a base-only graph)
	ExpansionNodes []uint32
}

// EdgesFrom returns the range of edge indices for edges originating from node u.
func (g *Graph) EdgesFrom(u uint32) (start, end uint32) {
	return g.FirstOut[u], g.FirstOut[u+1]
}

// HasShortcuts reports whether this graph carries a shortcut overlay.
func (g *Graph) HasShortcuts() bool {
	return g.ExpansionIndex != nil
}

// Expansion returns the interior base-node sequence for edge e, or nil if e
// is a base edge (spec §4.7's expansion side table).
func (g *Graph) Expansion(e uint32) []uint32 {
	if g.ExpansionIndex == nil {
		return nil
	}
	start := g.ExpansionIndex[e]
	if start == 0 {
		return nil
	}
	begin := start - 1

	end := uint64(len(g.ExpansionNodes))
	for _, idx := range g.ExpansionIndex[e+1:] {
		if idx != 0 {
			end = idx - 1
			break
		}
	}
	return g.ExpansionNodes[begin:end]
}
