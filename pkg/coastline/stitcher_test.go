package coastline

import (
	"testing"

	"github.com/paulmach/orb"
)

func seg(ids []NodeID, pts []orb.Point) Segment {
	return Segment{NodeIDs: ids, Points: orb.Ring(pts)}
}

func TestStitchTwoSegmentsIntoOneRing(t *testing.T) {
	// A square: 1 -> 2 -> 3 -> 4 -> 1, split into two open segments.
	s1 := seg([]NodeID{1, 2, 3}, []orb.Point{{0, 0}, {1, 0}, {1, 1}})
	s2 := seg([]NodeID{3, 4, 1}, []orb.Point{{1, 1}, {0, 1}, {0, 0}})

	rings, stats := Stitch([]Segment{s1, s2})
	if len(rings) != 1 {
		t.Fatalf("got %d rings, want 1", len(rings))
	}
	if stats.DanglingCount != 0 {
		t.Fatalf("dangling = %d, want 0", stats.DanglingCount)
	}

	ring := rings[0]
	if len(ring.Points) != 4 {
		t.Errorf("ring has %d points, want 4 (no duplicated closing point)", len(ring.Points))
	}
	// Total input points = 3 + 3 = 6. Two segments join at one interior
	// junction (node 3) and close at one more (node 1), so both are
	// collapsed: 6 - 2 junctions = 4.
	if stats.InputPoints-4 != 2 {
		t.Errorf("expected exactly 2 collapsed junctions, got %d", stats.InputPoints-4)
	}
}

func TestStitchTransitiveFusion(t *testing.T) {
	// Four segments chained, only the last closes the ring.
	s1 := seg([]NodeID{1, 2}, []orb.Point{{0, 0}, {1, 0}})
	s2 := seg([]NodeID{2, 3}, []orb.Point{{1, 0}, {2, 1}})
	s3 := seg([]NodeID{3, 4}, []orb.Point{{2, 1}, {1, 2}})
	s4 := seg([]NodeID{4, 1}, []orb.Point{{1, 2}, {0, 0}})

	rings, stats := Stitch([]Segment{s1, s2, s3, s4})
	if len(rings) != 1 {
		t.Fatalf("got %d rings, want 1", len(rings))
	}
	if len(rings[0].Points) != 4 {
		t.Errorf("ring has %d points, want 4", len(rings[0].Points))
	}
	if stats.DanglingCount != 0 {
		t.Errorf("dangling = %d, want 0", stats.DanglingCount)
	}
}

func TestStitchDangling(t *testing.T) {
	s1 := seg([]NodeID{1, 2}, []orb.Point{{0, 0}, {1, 0}})
	s2 := seg([]NodeID{5, 6}, []orb.Point{{5, 5}, {6, 6}}) // shares nothing

	_, stats := Stitch([]Segment{s1, s2})
	if stats.DanglingCount != 2 {
		t.Errorf("dangling = %d, want 2", stats.DanglingCount)
	}
}

func TestStitchDegenerateRingDropped(t *testing.T) {
	// A "ring" that collapses to 2 distinct points is geometrically degenerate.
	s1 := seg([]NodeID{1, 2}, []orb.Point{{0, 0}, {1, 1}})
	s2 := seg([]NodeID{2, 1}, []orb.Point{{1, 1}, {0, 0}})

	rings, stats := Stitch([]Segment{s1, s2})
	if len(rings) != 0 {
		t.Errorf("got %d rings, want 0 (degenerate)", len(rings))
	}
	if stats.DegenerateCount != 1 {
		t.Errorf("DegenerateCount = %d, want 1", stats.DegenerateCount)
	}
}

func TestRingOrientationConsistency(t *testing.T) {
	ring := orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	a1 := SignedArea(ring)
	a2 := SignedArea(ring)
	if (a1 > 0) != (a2 > 0) {
		t.Errorf("SignedArea sign not stable across calls: %f vs %f", a1, a2)
	}

	reversed := orb.Ring{{0, 1}, {1, 1}, {1, 0}, {0, 0}}
	a3 := SignedArea(reversed)
	if (a1 > 0) == (a3 > 0) {
		t.Errorf("reversed ring should flip sign: forward=%f reversed=%f", a1, a3)
	}
}
