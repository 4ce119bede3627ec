package graph

// UnionFind implements a disjoint-set data structure with path compression
// and union by rank.
type UnionFind struct {
	parent []uint32
	rank   []byte // byte is sufficient — max rank ~30 for realistic graphs
	size   []uint32
}

// NewUnionFind creates a UnionFind for n elements.
func NewUnionFind(n uint32) *UnionFind {
	parent := make([]uint32, n)
	size := make([]uint32, n)
	for i := range n {
		parent[i] = i
		size[i] = 1
	}
	return &UnionFind{
		parent: parent,
		rank:   make([]byte, n),
		size:   size,
	}
}

// Find returns the representative of the set containing x, with path halving.
func (uf *UnionFind) Find(x uint32) uint32 {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]] // path halving
		x = uf.parent[x]
	}
	return x
}

// Union merges the sets containing x and y. Returns false if already same set.
func (uf *UnionFind) Union(x, y uint32) bool {
	rx := uf.Find(x)
	ry := uf.Find(y)
	if rx == ry {
		return false
	}

	if uf.rank[rx] < uf.rank[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	uf.size[rx] += uf.size[ry]
	if uf.rank[rx] == uf.rank[ry] {
		uf.rank[rx]++
	}
	return true
}

// ComponentStats summarizes the weakly connected component structure of a
// graph, purely for extraction-time reporting. Unlike the original
// car-road router, isolated water nodes are never filtered out of the
// written graph (spec §4.4's failure model explicitly retains them as
// unreachable islands) — ComponentStats exists only to log how fragmented
// the graph is, not to prune it.
type ComponentStats struct {
	NumComponents        int
	LargestSize          uint32
	SecondLargestSize    uint32
	LargestFractionOfAll float64
}

// ComputeComponentStats runs union-find over g's edges (treated as
// undirected) and summarizes component sizes.
func ComputeComponentStats(g *Graph) ComponentStats {
	if g.NumNodes == 0 {
		return ComponentStats{}
	}

	uf := NewUnionFind(g.NumNodes)
	for u := uint32(0); u < g.NumNodes; u++ {
		start, end := g.EdgesFrom(u)
		for e := start; e < end; e++ {
			uf.Union(u, g.Head[e])
		}
	}

	sizes := make(map[uint32]uint32)
	for i := uint32(0); i < g.NumNodes; i++ {
		sizes[uf.Find(i)]++
	}

	var largest, second uint32
	for _, sz := range sizes {
		if sz > largest {
			second = largest
			largest = sz
		} else if sz > second {
			second = sz
		}
	}

	return ComponentStats{
		NumComponents:        len(sizes),
		LargestSize:          largest,
		SecondLargestSize:    second,
		LargestFractionOfAll: float64(largest) / float64(g.NumNodes),
	}
}
