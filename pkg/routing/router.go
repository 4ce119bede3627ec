// Package routing implements the five query algorithms spec §4.6 describes
// over a shared heap/distance-table/parent-table substrate (MinHeap and
// QueryState). There is no generic driver: Dijkstra, AStar and BiDijkstra
// are three separate search loops, Router.Query picks one with a switch on
// the algorithm selected at service startup, and the two Shortcut variants
// run the Dijkstra and AStar loops unchanged.
package routing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"shiproute/pkg/geo"
	"shiproute/pkg/graph"
)

// LatLng is a geographic coordinate in the result polyline.
type LatLng struct {
	Lat float64
	Lon float64
}

// QueryResult is the outcome of a route query. Reachable is false exactly
// when no path exists between the snapped endpoints — spec §7 classifies
// this as a normal outcome, not an error.
type QueryResult struct {
	DistanceM uint32
	Polyline  []LatLng
	Reachable bool
}

// Router answers shortest-path queries over a single immutable graph using
// one selected algorithm. A Router is safe for concurrent use: the graph is
// read-only and every query gets private scratch state from a pool (spec
// §5: "concurrent queries on the same graph are safe").
type Router struct {
	g       *graph.Graph
	algo    Algorithm
	snapper *snapper
	qsPool  sync.Pool
}

// NewRouter builds a Router over g using the given algorithm. g may or may
// not carry a shortcut overlay; algo should match (ShortcutDijkstra/
// ShortcutAStar are meant for a shortcut-augmented graph, but nothing
// enforces that here beyond the CLI's own bookkeeping).
func NewRouter(g *graph.Graph, algo Algorithm) *Router {
	r := &Router{g: g, algo: algo, snapper: newSnapper(g)}
	r.qsPool.New = func() any {
		return NewQueryState(g.NumNodes)
	}
	return r
}

// Query answers one shortest-path request (spec §4.6's public operation).
func (r *Router) Query(ctx context.Context, srcLat, srcLon, dstLat, dstLon float64) (QueryResult, error) {
	if !validCoordinate(srcLat, srcLon) || !validCoordinate(dstLat, dstLon) {
		return QueryResult{}, ErrInvalidCoordinate
	}

	srcSnap, ok := r.snapper.snap(srcLat, srcLon)
	if !ok {
		return QueryResult{}, nil
	}
	dstSnap, ok := r.snapper.snap(dstLat, dstLon)
	if !ok {
		return QueryResult{}, nil
	}

	if srcSnap.Node == dstSnap.Node {
		return QueryResult{
			DistanceM: 0,
			Polyline:  []LatLng{{Lat: r.g.NodeLat[srcSnap.Node], Lon: r.g.NodeLon[srcSnap.Node]}},
			Reachable: true,
		}, nil
	}

	qs := r.qsPool.Get().(*QueryState)
	defer func() {
		qs.Reset()
		r.qsPool.Put(qs)
	}()

	var (
		distM    uint32
		nodePath []uint32
	)

	switch r.algo.baseline() {
	case BiDijkstra:
		mu, meetNode, err := runBiDijkstra(ctx, r.g, qs, srcSnap.Node, dstSnap.Node)
		if err != nil {
			return QueryResult{}, translateErr(err)
		}
		if meetNode == noNode || mu == math.MaxUint32 {
			return QueryResult{}, nil
		}
		distM = mu
		nodePath = reconstructBidirectionalPath(meetNode, qs.PredFwd, qs.PredBwd)

	case AStar:
		targetLat, targetLon := r.g.NodeLat[dstSnap.Node], r.g.NodeLon[dstSnap.Node]
		dist, reached, err := runAStar(ctx, r.g, qs, srcSnap.Node, dstSnap.Node, targetLat, targetLon)
		if err != nil {
			return QueryResult{}, translateErr(err)
		}
		if !reached {
			return QueryResult{}, nil
		}
		distM = dist
		nodePath = reconstructUnidirectionalPath(dstSnap.Node, qs.PredFwd)

	default: // Dijkstra
		dist, reached, err := runDijkstra(ctx, r.g, qs, srcSnap.Node, dstSnap.Node)
		if err != nil {
			return QueryResult{}, translateErr(err)
		}
		if !reached {
			return QueryResult{}, nil
		}
		distM = dist
		nodePath = reconstructUnidirectionalPath(dstSnap.Node, qs.PredFwd)
	}

	expanded := expandPath(r.g, nodePath)
	polyline := make([]LatLng, len(expanded))
	for i, n := range expanded {
		polyline[i] = LatLng{Lat: r.g.NodeLat[n], Lon: r.g.NodeLon[n]}
	}

	return QueryResult{DistanceM: distM, Polyline: polyline, Reachable: true}, nil
}

func translateErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrDeadlineExceeded, err)
	}
	return err
}

func validCoordinate(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// runDijkstra runs unidirectional Dijkstra from source, stopping as soon as
// target is popped settled.
func runDijkstra(ctx context.Context, g *graph.Graph, qs *QueryState, source, target uint32) (uint32, bool, error) {
	qs.touchFwd(source, 0)
	qs.FwdPQ.Push(source, 0)

	iterations := uint32(0)
	for qs.FwdPQ.Len() > 0 {
		iterations++
		if iterations&255 == 0 {
			if err := ctx.Err(); err != nil {
				return 0, false, err
			}
		}

		item := qs.FwdPQ.Pop()
		u, d := item.Node, item.Dist
		if d > qs.DistFwd[u] {
			continue // stale entry
		}
		if u == target {
			return d, true, nil
		}

		start, end := g.EdgesFrom(u)
		for e := start; e < end; e++ {
			v := g.Head[e]
			nd := d + g.Weight[e]
			if nd < qs.DistFwd[v] {
				qs.touchFwd(v, nd)
				qs.PredFwd[v] = u
				qs.FwdPQ.Push(v, nd)
			}
		}
	}
	return 0, false, nil
}

// runAStar runs A* with the great-circle distance to target as heuristic
// (spec §4.6: consistent because it's a metric lower bound on edge cost).
// The heap key is f = g + h; qs.DistFwd still holds the tentative g-score,
// so staleness is checked by recomputing f from the current best g.
func runAStar(ctx context.Context, g *graph.Graph, qs *QueryState, source, target uint32, targetLat, targetLon float64) (uint32, bool, error) {
	h := func(u uint32) uint32 {
		return geo.DistanceMeters(
			geo.Point{Lat: g.NodeLat[u], Lon: g.NodeLon[u]},
			geo.Point{Lat: targetLat, Lon: targetLon},
		)
	}

	qs.touchFwd(source, 0)
	qs.FwdPQ.Push(source, h(source))

	iterations := uint32(0)
	for qs.FwdPQ.Len() > 0 {
		iterations++
		if iterations&255 == 0 {
			if err := ctx.Err(); err != nil {
				return 0, false, err
			}
		}

		item := qs.FwdPQ.Pop()
		u := item.Node
		gu := qs.DistFwd[u]
		if item.Dist > gu+h(u) {
			continue // stale: g(u) has since improved
		}
		if u == target {
			return gu, true, nil
		}

		start, end := g.EdgesFrom(u)
		for e := start; e < end; e++ {
			v := g.Head[e]
			nd := gu + g.Weight[e]
			if nd < qs.DistFwd[v] {
				qs.touchFwd(v, nd)
				qs.PredFwd[v] = u
				qs.FwdPQ.Push(v, nd+h(v))
			}
		}
	}
	return 0, false, nil
}

// runBiDijkstra runs forward search from source and backward search from
// target, both over the same adjacency: the base graph is symmetric (every
// edge has a reverse edge of equal cost, spec §4.4), so exploring a node's
// outgoing edges during the "backward" search is equivalent to exploring
// its incoming edges — no separate reverse-graph structure is needed, which
// is simpler than the teacher's CH engine, which kept independent Fwd/Bwd
// CSR arrays because its upward-only CH edges are not symmetric.
func runBiDijkstra(ctx context.Context, g *graph.Graph, qs *QueryState, source, target uint32) (uint32, uint32, error) {
	qs.touchFwd(source, 0)
	qs.FwdPQ.Push(source, 0)
	qs.touchBwd(target, 0)
	qs.BwdPQ.Push(target, 0)

	mu := uint32(math.MaxUint32)
	meetNode := noNode
	iterations := uint32(0)

	for {
		fwdMin := qs.FwdPQ.PeekDist()
		bwdMin := qs.BwdPQ.PeekDist()
		// Stop once the two frontier keys together can no longer beat mu.
		// An empty heap peeks as MaxUint32, so an exhausted side also stops.
		if uint64(fwdMin)+uint64(bwdMin) >= uint64(mu) {
			break
		}

		iterations++
		if iterations&255 == 0 {
			if err := ctx.Err(); err != nil {
				return mu, meetNode, err
			}
		}

		if fwdMin < mu {
			item := qs.FwdPQ.Pop()
			u, d := item.Node, item.Dist
			if d <= qs.DistFwd[u] {
				if qs.DistBwd[u] < math.MaxUint32 {
					if cand := d + qs.DistBwd[u]; cand < mu {
						mu = cand
						meetNode = u
					}
				}
				start, end := g.EdgesFrom(u)
				for e := start; e < end; e++ {
					v := g.Head[e]
					nd := d + g.Weight[e]
					if nd < qs.DistFwd[v] {
						qs.touchFwd(v, nd)
						qs.PredFwd[v] = u
						qs.FwdPQ.Push(v, nd)
					}
				}
			}
		}

		if qs.BwdPQ.PeekDist() < mu {
			item := qs.BwdPQ.Pop()
			u, d := item.Node, item.Dist
			if d <= qs.DistBwd[u] {
				if qs.DistFwd[u] < math.MaxUint32 {
					if cand := qs.DistFwd[u] + d; cand < mu {
						mu = cand
						meetNode = u
					}
				}
				start, end := g.EdgesFrom(u)
				for e := start; e < end; e++ {
					v := g.Head[e]
					nd := d + g.Weight[e]
					if nd < qs.DistBwd[v] {
						qs.touchBwd(v, nd)
						qs.PredBwd[v] = u
						qs.BwdPQ.Push(v, nd)
					}
				}
			}
		}
	}

	return mu, meetNode, nil
}

// reconstructUnidirectionalPath walks the parent chain from target back to
// source and reverses it.
func reconstructUnidirectionalPath(target uint32, predFwd []uint32) []uint32 {
	path := make([]uint32, 0, 16)
	node := target
	for {
		path = append(path, node)
		pred := predFwd[node]
		if pred == noNode {
			break
		}
		node = pred
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// reconstructBidirectionalPath builds the full node path from source
// through meetNode to target out of the two search trees.
func reconstructBidirectionalPath(meetNode uint32, predFwd, predBwd []uint32) []uint32 {
	fwdPath := make([]uint32, 0, 16)
	node := meetNode
	for {
		fwdPath = append(fwdPath, node)
		pred := predFwd[node]
		if pred == noNode {
			break
		}
		node = pred
	}
	for i, j := 0, len(fwdPath)-1; i < j; i, j = i+1, j-1 {
		fwdPath[i], fwdPath[j] = fwdPath[j], fwdPath[i]
	}

	node = meetNode
	for {
		pred := predBwd[node]
		if pred == noNode {
			break
		}
		fwdPath = append(fwdPath, pred)
		node = pred
	}

	return fwdPath
}
