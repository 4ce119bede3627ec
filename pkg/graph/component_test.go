package graph

import "testing"

func TestUnionFind(t *testing.T) {
	uf := NewUnionFind(5)

	for i := range uint32(5) {
		if uf.Find(i) != i {
			t.Errorf("Find(%d) = %d, want %d", i, uf.Find(i), i)
		}
	}

	uf.Union(0, 1)
	if uf.Find(0) != uf.Find(1) {
		t.Error("0 and 1 should be in same set")
	}

	uf.Union(2, 3)
	if uf.Find(2) != uf.Find(3) {
		t.Error("2 and 3 should be in same set")
	}

	if uf.Find(0) == uf.Find(2) {
		t.Error("0 and 2 should be in different sets")
	}

	uf.Union(1, 3)
	if uf.Find(0) != uf.Find(3) {
		t.Error("0 and 3 should now be in same set")
	}
}

func twoComponentGraph() *Graph {
	// Component 1: 0 <-> 1 <-> 2 (path). Component 2: 3 <-> 4 (pair).
	return &Graph{
		NumNodes: 5,
		NumEdges: 6,
		FirstOut: []uint32{0, 1, 3, 4, 5, 6},
		Head:     []uint32{1, 0, 2, 1, 4, 3},
		Weight:   []uint32{100, 100, 200, 200, 300, 300},
	}
}

func TestComputeComponentStatsTwoComponents(t *testing.T) {
	stats := ComputeComponentStats(twoComponentGraph())

	if stats.NumComponents != 2 {
		t.Fatalf("NumComponents = %d, want 2", stats.NumComponents)
	}
	if stats.LargestSize != 3 {
		t.Errorf("LargestSize = %d, want 3", stats.LargestSize)
	}
	if stats.SecondLargestSize != 2 {
		t.Errorf("SecondLargestSize = %d, want 2", stats.SecondLargestSize)
	}
}

func TestComputeComponentStatsEmptyGraph(t *testing.T) {
	stats := ComputeComponentStats(&Graph{})
	if stats.NumComponents != 0 {
		t.Errorf("NumComponents = %d, want 0", stats.NumComponents)
	}
}

func TestComputeComponentStatsFullyIsolated(t *testing.T) {
	g := &Graph{NumNodes: 4, FirstOut: []uint32{0, 0, 0, 0, 0}}
	stats := ComputeComponentStats(g)
	if stats.NumComponents != 4 {
		t.Fatalf("NumComponents = %d, want 4", stats.NumComponents)
	}
	if stats.LargestSize != 1 {
		t.Errorf("LargestSize = %d, want 1", stats.LargestSize)
	}
}
