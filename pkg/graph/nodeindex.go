package graph

import (
	"sort"

	"github.com/tidwall/rtree"

	"shiproute/pkg/geo"
)

// NodeIndex is a spherical nearest-neighbor index over a fixed set of graph
// nodes, backed by an R-tree of degenerate (point) boxes. It's built once
// over the sampled water nodes during construction, and rebuilt once at
// query-time load for endpoint snapping (spec §4.4, §4.6).
type NodeIndex struct {
	tree  rtree.RTree[uint32]
	lat   []float64
	lon   []float64
	cells float64 // starting search radius in degrees
}

// NewNodeIndex builds an index over the given node coordinates.
func NewNodeIndex(lat, lon []float64) *NodeIndex {
	idx := &NodeIndex{lat: lat, lon: lon, cells: 0.25}
	for i := range lat {
		p := [2]float64{lon[i], lat[i]}
		idx.tree.Insert(p, p, uint32(i))
	}
	return idx
}

type candidate struct {
	node uint32
	dist float64
}

// KNearest returns up to k node indices nearest to (lat, lon). When hasSelf
// is set, the node whose index equals excludeSelf is skipped — used by
// GraphBuilder when querying a node's own position. Results are sorted by
// ascending distance.
func (idx *NodeIndex) KNearest(lat, lon float64, k int, excludeSelf uint32, hasSelf bool) []uint32 {
	cands := idx.searchExpanding(lat, lon, k+1)

	out := make([]uint32, 0, k)
	for _, c := range cands {
		if hasSelf && c.node == excludeSelf {
			continue
		}
		out = append(out, c.node)
		if len(out) == k {
			break
		}
	}
	return out
}

// Nearest returns the single closest node to (lat, lon), used for query
// endpoint snapping.
func (idx *NodeIndex) Nearest(lat, lon float64) (node uint32, distMeters float64, ok bool) {
	cands := idx.searchExpanding(lat, lon, 1)
	if len(cands) == 0 {
		return 0, 0, false
	}
	return cands[0].node, cands[0].dist, true
}

// searchExpanding grows a bounding box around (lat, lon) until at least
// want candidates are found (or the whole sphere has been searched), then
// returns them sorted by true great-circle distance.
//
// The box scan itself can return far more candidates than want once the
// radius has doubled a few times, so it ranks them by the cheaper
// equirectangular approximation first and only pays for exact Haversine on
// the closest handful before the final sort.
func (idx *NodeIndex) searchExpanding(lat, lon float64, want int) []candidate {
	radius := idx.cells
	var approx []candidate

	for iter := 0; iter < 12; iter++ {
		approx = approx[:0]
		min := [2]float64{lon - radius, lat - radius}
		max := [2]float64{lon + radius, lat + radius}

		idx.tree.Search(min, max, func(_, _ [2]float64, node uint32) bool {
			d := geo.EquirectangularDist(lat, lon, idx.lat[node], idx.lon[node])
			approx = append(approx, candidate{node: node, dist: d})
			return true
		})

		if len(approx) >= want || radius >= 180 {
			break
		}
		radius *= 2
	}

	sort.Slice(approx, func(i, j int) bool { return approx[i].dist < approx[j].dist })

	refineN := want * 4
	if refineN > len(approx) {
		refineN = len(approx)
	}
	cands := make([]candidate, refineN)
	for i := 0; i < refineN; i++ {
		c := approx[i]
		c.dist = geo.Haversine(lat, lon, idx.lat[c.node], idx.lon[c.node])
		cands[i] = c
	}
	sort.Slice(cands, func(i, j int) bool { return cands[i].dist < cands[j].dist })
	return cands
}
