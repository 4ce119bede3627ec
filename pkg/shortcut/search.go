package shortcut

import "shiproute/pkg/graph"

const noNode = ^uint32(0)
const maxUint32 = ^uint32(0)

// searchHeapItem is an entry in the interior-search min-heap.
type searchHeapItem struct {
	node uint32
	dist uint32
}

// searchHeap is a concrete-typed binary min-heap, the same hole-sift shape
// as the teacher's pkg/ch witnessHeap.
type searchHeap struct {
	items []searchHeapItem
}

func (h *searchHeap) Len() int { return len(h.items) }

func (h *searchHeap) Push(node, dist uint32) {
	h.items = append(h.items, searchHeapItem{node, dist})
	h.siftUp(len(h.items) - 1)
}

func (h *searchHeap) Pop() searchHeapItem {
	top := h.items[0]
	n := len(h.items) - 1
	h.items[0] = h.items[n]
	h.items = h.items[:n]
	if n > 0 {
		h.siftDown(0)
	}
	return top
}

func (h *searchHeap) siftUp(i int) {
	item := h.items[i]
	for i > 0 {
		parent := (i - 1) / 2
		if item.dist >= h.items[parent].dist {
			break
		}
		h.items[i] = h.items[parent]
		i = parent
	}
	h.items[i] = item
}

func (h *searchHeap) siftDown(i int) {
	n := len(h.items)
	item := h.items[i]
	for {
		child := 2*i + 1
		if child >= n {
			break
		}
		if right := child + 1; right < n && h.items[right].dist < h.items[child].dist {
			child = right
		}
		if item.dist <= h.items[child].dist {
			break
		}
		h.items[i] = h.items[child]
		i = child
	}
	h.items[i] = item
}

func (h *searchHeap) Reset() {
	h.items = h.items[:0]
}

// interiorSearchState holds reusable scratch state for the per-border-node
// restricted Dijkstra (spec §4.7 step 2), reset by touched-list instead of
// reallocating dist/pred arrays between border nodes — the same pattern as
// the teacher's witnessState, minus the maxSettled/maxHops early exits:
// shortcuts must carry the *exact* interior distance, so this search always
// runs to completion over the rectangle's node set.
type interiorSearchState struct {
	dist    []uint32
	pred    []uint32
	touched []uint32
	heap    searchHeap
}

func newInteriorSearchState(numNodes uint32) *interiorSearchState {
	dist := make([]uint32, numNodes)
	pred := make([]uint32, numNodes)
	for i := range dist {
		dist[i] = maxUint32
		pred[i] = noNode
	}
	return &interiorSearchState{
		dist: dist,
		pred: pred,
		heap: searchHeap{items: make([]searchHeapItem, 0, 256)},
	}
}

func (ss *interiorSearchState) reset() {
	for _, n := range ss.touched {
		ss.dist[n] = maxUint32
		ss.pred[n] = noNode
	}
	ss.touched = ss.touched[:0]
	ss.heap.Reset()
}

// runInteriorSearch runs Dijkstra from source, relaxing only edges whose
// source and target both belong to inRect (spec §4.7 step 2: "restricted to
// relaxing edges whose target is in I ∪ B and whose source is in I ∪ B").
// The caller reads dist/pred for every border node after this returns.
func runInteriorSearch(ss *interiorSearchState, g *graph.Graph, source uint32, inRect []bool) {
	ss.reset()

	ss.dist[source] = 0
	ss.touched = append(ss.touched, source)
	ss.heap.Push(source, 0)

	for ss.heap.Len() > 0 {
		cur := ss.heap.Pop()
		if cur.dist > ss.dist[cur.node] {
			continue // stale entry
		}

		start, end := g.EdgesFrom(cur.node)
		for e := start; e < end; e++ {
			v := g.Head[e]
			if !inRect[v] {
				continue
			}
			nd := cur.dist + g.Weight[e]
			if nd < ss.dist[v] {
				if ss.dist[v] == maxUint32 {
					ss.touched = append(ss.touched, v)
				}
				ss.dist[v] = nd
				ss.pred[v] = cur.node
				ss.heap.Push(v, nd)
			}
		}
	}
}
