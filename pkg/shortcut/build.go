package shortcut

import (
	"log"

	"shiproute/pkg/graph"
)

// shortcutEdge is a pending shortcut before it's merged into the graph's CSR
// arrays: a direct edge between two border nodes, carrying the base-node
// path strictly between them (spec §4.7 step 3).
type shortcutEdge struct {
	from, to uint32
	weight   uint32
	path     []uint32 // interior nodes, exclusive of from/to; may be empty
}

// Build augments g with shortcut edges for every rectangle in rects,
// returning a new graph whose edge list is g's base edges followed by the
// generated shortcuts, re-sorted into CSR form, with an expansion side table
// recording each shortcut's interior path (spec §4.7). g itself is untouched.
func Build(g *graph.Graph, rects []Rectangle) *graph.Graph {
	var all []shortcutEdge

	ss := newInteriorSearchState(g.NumNodes)
	inRect := make([]bool, g.NumNodes)
	isBorder := make([]bool, g.NumNodes)

	for ri, rect := range rects {
		members := classify(g, rect, inRect, isBorder)
		if len(members) == 0 {
			continue
		}

		var borders []uint32
		for _, n := range members {
			if isBorder[n] {
				borders = append(borders, n)
			}
		}

		log.Printf("rectangle %d: %d nodes in region, %d border nodes", ri, len(members), len(borders))

		for _, b := range borders {
			runInteriorSearch(ss, g, b, inRect)
			for _, bp := range borders {
				if bp == b {
					continue
				}
				d := ss.dist[bp]
				if d == maxUint32 {
					// Isolated islands inside the rectangle split it into
					// disconnected pieces; border pairs with no interior
					// path just get no shortcut rather than an error.
					continue
				}
				all = append(all, shortcutEdge{
					from:   b,
					to:     bp,
					weight: d,
					path:   interiorPath(ss.pred, b, bp),
				})
			}
		}

		// Clear the membership markers before the next rectangle so they
		// don't leak between iterations.
		for _, n := range members {
			inRect[n] = false
			isBorder[n] = false
		}
	}

	log.Printf("generated %d shortcut edges across %d rectangles", len(all), len(rects))

	return mergeShortcuts(g, all)
}

// classify marks every node geographically within rect in inRect, and every
// such node that has an edge leaving the rectangle in isBorder (spec §4.7
// step 1: "A node is a border node if it has at least one graph edge leaving
// the rectangle"). It returns the list of members so the caller can reset
// the marker slices cheaply afterward.
func classify(g *graph.Graph, rect Rectangle, inRect, isBorder []bool) []uint32 {
	var members []uint32
	for n := uint32(0); n < g.NumNodes; n++ {
		if rect.Contains(g.NodeLat[n], g.NodeLon[n]) {
			inRect[n] = true
			members = append(members, n)
		}
	}
	for _, n := range members {
		start, end := g.EdgesFrom(n)
		for e := start; e < end; e++ {
			v := g.Head[e]
			if !inRect[v] {
				isBorder[n] = true
				break
			}
		}
	}
	return members
}

// interiorPath walks pred from b' back to b and reverses it, dropping both
// endpoints — the result is exactly the sequence expandPath splices between
// a shortcut edge's two base nodes.
func interiorPath(pred []uint32, b, bp uint32) []uint32 {
	var rev []uint32
	for n := pred[bp]; n != b; n = pred[n] {
		rev = append(rev, n)
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}

// mergeShortcuts concatenates g's base edges with the generated shortcuts,
// grouped by source node, and rebuilds CSR arrays plus the expansion side
// table (spec §4.7's output format).
func mergeShortcuts(g *graph.Graph, shortcuts []shortcutEdge) *graph.Graph {
	n := g.NumNodes
	byFrom := make([][]shortcutEdge, n)
	for _, sc := range shortcuts {
		byFrom[sc.from] = append(byFrom[sc.from], sc)
	}

	totalEdges := g.NumEdges + uint32(len(shortcuts))
	firstOut := make([]uint32, n+1)
	head := make([]uint32, totalEdges)
	weight := make([]uint32, totalEdges)
	expansionIndex := make([]uint64, totalEdges)
	var expansionNodes []uint32

	pos := uint32(0)
	for u := uint32(0); u < n; u++ {
		firstOut[u] = pos

		start, end := g.EdgesFrom(u)
		for e := start; e < end; e++ {
			head[pos] = g.Head[e]
			weight[pos] = g.Weight[e]
			expansionIndex[pos] = 0
			pos++
		}

		for _, sc := range byFrom[u] {
			head[pos] = sc.to
			weight[pos] = sc.weight
			if len(sc.path) > 0 {
				expansionIndex[pos] = uint64(len(expansionNodes)) + 1
				expansionNodes = append(expansionNodes, sc.path...)
			} else {
				expansionIndex[pos] = 0
			}
			pos++
		}
	}
	firstOut[n] = pos

	return &graph.Graph{
		NumNodes:       n,
		NumEdges:       totalEdges,
		FirstOut:       firstOut,
		Head:           head,
		Weight:         weight,
		NodeLat:        g.NodeLat,
		NodeLon:        g.NodeLon,
		ExpansionIndex: expansionIndex,
		ExpansionNodes: expansionNodes,
	}
}
