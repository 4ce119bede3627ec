// Package coastline fuses directed OSM coastline fragments end-to-end into
// closed rings, the input CoastlineStitcher and PolygonIndex are built on.
package coastline

import (
	"github.com/paulmach/orb"
)

// NodeID identifies an OSM node by its stable integer id.
type NodeID = int64

// Segment is an open, directed coastline fragment: an ordered list of node
// ids with land to the left of travel, plus the resolved coordinate for each
// node. Points[0] corresponds to NodeIDs[0] and Points[len-1] to the last id.
type Segment struct {
	NodeIDs []NodeID
	Points  orb.Ring
}

// Ring is a closed, stitched coastline: a cyclic coordinate sequence with no
// duplicated closing point (index 0 follows index len-1), plus the
// orientation computed once at stitch time by the right-hand rule.
type Ring struct {
	Points     orb.Ring
	NodeIDs    []NodeID
	SignedArea float64 // > 0: ring winds so the enclosed region is land
	IsLandRing bool
}

// Stats summarizes a Stitch run for extraction-time reporting.
type Stats struct {
	InputSegments   int
	InputPoints     int
	RingsProduced   int
	DanglingCount   int
	DanglingPoints  int
	DegenerateCount int // rings with <3 distinct points after stitching, dropped
}

// segState is a segment under construction, fused in place as matches are
// found. Pointer identity distinguishes it from others sharing an endpoint.
type segState struct {
	nodeIDs []NodeID
	points  orb.Ring
}

func (s *segState) head() NodeID { return s.nodeIDs[0] }
func (s *segState) tail() NodeID { return s.nodeIDs[len(s.nodeIDs)-1] }

// Stitch assembles closed rings from an unordered collection of directed
// coastline segments (spec §4.2). It maintains two endpoint-keyed maps —
// headOf and tailOf — and transitively fuses a segment with whatever
// currently ends at its head or begins at its tail, until either a closed
// ring falls out or no further fusion applies. Segments that never close
// after all input is consumed are reported as dangling and discarded; this
// never aborts the run (the caller decides whether the dangling count
// exceeds the InputMalformed threshold).
func Stitch(segments []Segment) ([]Ring, Stats) {
	headOf := make(map[NodeID]*segState, len(segments))
	tailOf := make(map[NodeID]*segState, len(segments))

	var rings []Ring
	stats := Stats{InputSegments: len(segments)}

	register := func(s *segState) {
		headOf[s.head()] = s
		tailOf[s.tail()] = s
	}
	unregister := func(s *segState) {
		if headOf[s.head()] == s {
			delete(headOf, s.head())
		}
		if tailOf[s.tail()] == s {
			delete(tailOf, s.tail())
		}
	}

	// mergeAppend glues next onto the end of cur: cur.tail() == next.head().
	// The shared node id is stored once.
	mergeAppend := func(cur, next *segState) *segState {
		nodeIDs := make([]NodeID, 0, len(cur.nodeIDs)+len(next.nodeIDs)-1)
		nodeIDs = append(nodeIDs, cur.nodeIDs...)
		nodeIDs = append(nodeIDs, next.nodeIDs[1:]...)

		points := make(orb.Ring, 0, len(cur.points)+len(next.points)-1)
		points = append(points, cur.points...)
		points = append(points, next.points[1:]...)

		return &segState{nodeIDs: nodeIDs, points: points}
	}

	for _, seg := range segments {
		stats.InputPoints += len(seg.NodeIDs)

		cur := &segState{
			nodeIDs: append([]NodeID(nil), seg.NodeIDs...),
			points:  append(orb.Ring(nil), seg.Points...),
		}

		for {
			if len(cur.nodeIDs) > 1 && cur.head() == cur.tail() {
				break // closed
			}

			if prev, ok := tailOf[cur.head()]; ok && prev != cur {
				unregister(prev)
				cur = mergeAppend(prev, cur)
				continue
			}
			if next, ok := headOf[cur.tail()]; ok && next != cur {
				unregister(next)
				cur = mergeAppend(cur, next)
				continue
			}
			break
		}

		if len(cur.nodeIDs) > 1 && cur.head() == cur.tail() {
			ring, ok := finalizeRing(cur)
			if ok {
				rings = append(rings, ring)
			} else {
				stats.DegenerateCount++
			}
			continue
		}

		register(cur)
	}

	// Final pass: whatever is left registered never closed.
	seen := make(map[*segState]bool)
	for _, s := range headOf {
		if seen[s] {
			continue
		}
		seen[s] = true
		stats.DanglingCount++
		stats.DanglingPoints += len(s.nodeIDs)
	}

	stats.RingsProduced = len(rings)
	return rings, stats
}

// finalizeRing drops the duplicated closing point (cur.head() == cur.tail())
// to produce the cyclic, non-duplicated storage convention (spec §9), and
// computes the ring's orientation once.
func finalizeRing(cur *segState) (Ring, bool) {
	points := cur.points[:len(cur.points)-1]
	nodeIDs := cur.nodeIDs[:len(cur.nodeIDs)-1]

	if !hasThreeDistinctPoints(points) {
		return Ring{}, false // GeometryDegenerate, spec §7
	}

	area := SignedArea(points)
	return Ring{
		Points:     points,
		NodeIDs:    nodeIDs,
		SignedArea: area,
		IsLandRing: area > 0,
	}, true
}

// hasThreeDistinctPoints reports whether ring contains at least 3 distinct
// points, stopping as soon as the answer is known rather than scanning the
// whole ring — rings routinely hold 1e5-1e6 points, so this runs on every
// finalized ring and must not be O(n^2).
func hasThreeDistinctPoints(ring orb.Ring) bool {
	seen := make(map[orb.Point]struct{}, 3)
	for _, p := range ring {
		seen[p] = struct{}{}
		if len(seen) >= 3 {
			return true
		}
	}
	return false
}
