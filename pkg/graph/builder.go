package graph

import (
	"log"
	"runtime"
	"sort"
	"sync"

	"shiproute/pkg/geo"
	"shiproute/pkg/polygon"
)

const (
	targetWaterNodes = 1_000_000
	targetTolerance  = 0.01 // retry with rescaled K if off by more than 1%
	maxSampleRetries = 6

	knnK           = 6 // nearest neighbors attempted per node
	crossingProbes = 5 // intermediate points sampled per candidate edge
)

// BuildOptions configures sphere sampling and neighbor connection.
type BuildOptions struct {
	TargetNodes int // defaults to targetWaterNodes if zero
}

// Build samples the sphere for water nodes, connects each to its nearest
// surviving neighbors with land-crossing rejection, and assembles the CSR
// graph (spec §4.3, §4.4). It retries with a rescaled K if the retained
// water-node count misses the target by more than 1%, since the exact
// water fraction of the sphere isn't known up front.
func Build(idx *polygon.Index, opts ...BuildOptions) *Graph {
	opt := BuildOptions{TargetNodes: targetWaterNodes}
	if len(opts) > 0 && opts[0].TargetNodes > 0 {
		opt.TargetNodes = opts[0].TargetNodes
	}

	lat, lon := sampleWaterNodes(idx, opt.TargetNodes)
	numNodes := uint32(len(lat))
	log.Printf("Retained %d water nodes", numNodes)

	if numNodes == 0 {
		return &Graph{}
	}

	nodeIdx := NewNodeIndex(lat, lon)
	edges := connectNeighbors(idx, nodeIdx, lat, lon)

	return assembleCSR(numNodes, lat, lon, edges)
}

// sampleWaterNodes runs the golden-angle sampler, retaining only points
// classified as water, retrying with a rescaled K until the retained count
// is within 1% of target (spec §4.3).
func sampleWaterNodes(idx *polygon.Index, target int) (lat, lon []float64) {
	k := target * 3 // water covers roughly 2/3 of Earth's surface
	if k < target {
		k = target
	}

	for attempt := 0; attempt < maxSampleRetries; attempt++ {
		pts := polygon.Sample(k)
		lat = lat[:0]
		lon = lon[:0]
		for _, p := range pts {
			if idx.IsWater(p) {
				lat = append(lat, p.Lat)
				lon = append(lon, p.Lon)
			}
		}

		got := len(lat)
		log.Printf("Sampling attempt %d: K=%d produced %d water nodes (target %d)", attempt+1, k, got, target)

		if got == 0 {
			k *= 2
			continue
		}

		deviation := float64(got-target) / float64(target)
		if deviation < 0 {
			deviation = -deviation
		}
		if deviation <= targetTolerance {
			return lat, lon
		}

		// Rescale K proportionally to the observed water fraction and retry.
		waterFraction := float64(got) / float64(k)
		if waterFraction <= 0 {
			k *= 2
			continue
		}
		k = int(float64(target) / waterFraction)
	}

	log.Printf("Giving up after %d sampling attempts; using %d water nodes", maxSampleRetries, len(lat))
	return lat, lon
}

type rawEdge struct {
	from, to uint32
	costM    uint32
}

// connectNeighbors attempts K nearest neighbors per node, keeping an edge
// only if the geodesic between endpoints doesn't cross land (spec §4.4),
// and adds the reverse edge for symmetry. Partitioned by node range over a
// worker pool, since candidate evaluation per node is independent.
func connectNeighbors(idx *polygon.Index, nodeIdx *NodeIndex, lat, lon []float64) []rawEdge {
	n := uint32(len(lat))
	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	chunk := (int(n) + workers - 1) / workers

	results := make([][]rawEdge, workers)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		start := uint32(w * chunk)
		end := uint32(min((w+1)*chunk, int(n)))
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(w int, start, end uint32) {
			defer wg.Done()
			var local []rawEdge
			for u := start; u < end; u++ {
				neighbors := nodeIdx.KNearest(lat[u], lon[u], knnK, u, true)
				for _, v := range neighbors {
					if !edgeIsWater(idx, lat[u], lon[u], lat[v], lon[v]) {
						continue
					}
					cost := geo.DistanceMeters(geo.Point{Lat: lat[u], Lon: lon[u]}, geo.Point{Lat: lat[v], Lon: lon[v]})
					if cost == 0 {
						continue // no self-loops (spec §3)
					}
					local = append(local, rawEdge{from: u, to: v, costM: cost})
					local = append(local, rawEdge{from: v, to: u, costM: cost}) // symmetry
				}
			}
			results[w] = local
		}(w, start, end)
	}
	wg.Wait()

	var edges []rawEdge
	for _, r := range results {
		edges = append(edges, r...)
	}
	return edges
}

// edgeIsWater samples crossingProbes intermediate points along the great
// circle between a and b and requires every one to be water.
func edgeIsWater(idx *polygon.Index, aLat, aLon, bLat, bLon float64) bool {
	a := geo.Point{Lat: aLat, Lon: aLon}
	b := geo.Point{Lat: bLat, Lon: bLon}
	for i := 1; i <= crossingProbes; i++ {
		t := float64(i) / float64(crossingProbes+1)
		p := geo.InterpolateGreatCircle(a, b, t)
		if !idx.IsWater(p) {
			return false
		}
	}
	return true
}

// assembleCSR sorts adjacency by (from, to), deduplicates, and writes the
// CSR layout (spec §4.4's "sort adjacency lists by target, deduplicate").
// Nodes with zero surviving edges are retained as isolated islands
// (spec's failure model never drops them).
func assembleCSR(numNodes uint32, lat, lon []float64, edges []rawEdge) *Graph {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].from != edges[j].from {
			return edges[i].from < edges[j].from
		}
		return edges[i].to < edges[j].to
	})

	deduped := edges[:0:0]
	for i, e := range edges {
		if i > 0 && e.from == edges[i-1].from && e.to == edges[i-1].to {
			continue
		}
		deduped = append(deduped, e)
	}

	numEdges := uint32(len(deduped))
	firstOut := make([]uint32, numNodes+1)
	head := make([]uint32, numEdges)
	weight := make([]uint32, numEdges)

	for i, e := range deduped {
		head[i] = e.to
		weight[i] = e.costM
		firstOut[e.from+1]++
	}
	for i := uint32(1); i <= numNodes; i++ {
		firstOut[i] += firstOut[i-1]
	}

	return &Graph{
		NumNodes: numNodes,
		NumEdges: numEdges,
		FirstOut: firstOut,
		Head:     head,
		Weight:   weight,
		NodeLat:  append([]float64(nil), lat...),
		NodeLon:  append([]float64(nil), lon...),
	}
}
