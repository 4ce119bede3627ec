package osm

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"

	"shiproute/pkg/coastline"
)

// BBox defines a geographic bounding box for filtering.
// If non-zero, only ways with at least one node inside the box are kept.
type BBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// IsZero returns true if the bbox is unset.
func (b BBox) IsZero() bool {
	return b.MinLat == 0 && b.MaxLat == 0 && b.MinLng == 0 && b.MaxLng == 0
}

// Contains returns true if the point is inside the bounding box.
func (b BBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

// ParseOptions configures the OSM parser.
type ParseOptions struct {
	BBox BBox // if non-zero, restrict coastline ingestion to this region
}

// ParseResult holds the output of scanning an OSM PBF file for coastlines.
type ParseResult struct {
	Segments []coastline.Segment
}

// isCoastline reports whether w is tagged as a coastline way.
func isCoastline(tags osm.Tags) bool {
	return tags.Find("natural") == "coastline"
}

// wayInfo holds parsed way data collected during Pass 1.
type wayInfo struct {
	NodeIDs []osm.NodeID
}

// Parse reads an OSM PBF file and returns the coastline segments referenced
// by natural=coastline ways, resolved to coordinates. The reader is consumed
// twice (seeks back to start for the second pass), so it must implement
// io.ReadSeeker — the same two-pass shape used for highway parsing: collect
// referenced node ids first, then scan once more for just those coordinates.
func Parse(ctx context.Context, rs io.ReadSeeker, opts ...ParseOptions) (*ParseResult, error) {
	var opt ParseOptions
	if len(opts) > 0 {
		opt = opts[0]
	}

	// Pass 1: scan ways to collect referenced node IDs.
	referencedNodes := make(map[osm.NodeID]struct{})
	var ways []wayInfo

	scanner := osmpbf.New(ctx, rs, 1)
	scanner.SkipNodes = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		obj := scanner.Object()
		w, ok := obj.(*osm.Way)
		if !ok {
			continue
		}
		if !isCoastline(w.Tags) {
			continue
		}
		if len(w.Nodes) < 2 {
			continue
		}

		nodeIDs := make([]osm.NodeID, len(w.Nodes))
		for i, wn := range w.Nodes {
			nodeIDs[i] = wn.ID
			referencedNodes[wn.ID] = struct{}{}
		}
		ways = append(ways, wayInfo{NodeIDs: nodeIDs})
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pass 1 (coastline ways): %w", err)
	}
	scanner.Close()

	log.Printf("Pass 1 complete: %d coastline ways, %d referenced nodes", len(ways), len(referencedNodes))

	// Pass 2: scan nodes to collect coordinates for referenced nodes only.
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek for pass 2: %w", err)
	}

	nodeLat := make(map[osm.NodeID]float64, len(referencedNodes))
	nodeLon := make(map[osm.NodeID]float64, len(referencedNodes))

	scanner = osmpbf.New(ctx, rs, 1)
	scanner.SkipWays = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		obj := scanner.Object()
		n, ok := obj.(*osm.Node)
		if !ok {
			continue
		}
		if _, needed := referencedNodes[n.ID]; !needed {
			continue
		}
		nodeLat[n.ID] = n.Lat
		nodeLon[n.ID] = n.Lon
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pass 2 (coastline nodes): %w", err)
	}
	scanner.Close()

	log.Printf("Pass 2 complete: %d node coordinates collected", len(nodeLat))

	// Build segments.
	useBBox := !opt.BBox.IsZero()
	var segments []coastline.Segment
	var skipped, bboxFiltered int

	for _, w := range ways {
		ids := make([]coastline.NodeID, 0, len(w.NodeIDs))
		pts := make(orb.Ring, 0, len(w.NodeIDs))
		ok := true
		anyInBBox := !useBBox

		for _, id := range w.NodeIDs {
			lat, latOK := nodeLat[id]
			lon := nodeLon[id]
			if !latOK {
				ok = false
				break
			}
			if useBBox && opt.BBox.Contains(lat, lon) {
				anyInBBox = true
			}
			ids = append(ids, coastline.NodeID(id))
			pts = append(pts, orb.Point{lon, lat})
		}

		if !ok {
			skipped++
			continue
		}
		if useBBox && !anyInBBox {
			bboxFiltered++
			continue
		}

		segments = append(segments, coastline.Segment{NodeIDs: ids, Points: pts})
	}

	if skipped > 0 {
		log.Printf("Warning: skipped %d coastline ways due to missing node coordinates", skipped)
	}
	if bboxFiltered > 0 {
		log.Printf("Filtered %d coastline ways outside bounding box", bboxFiltered)
	}
	log.Printf("Built %d coastline segments", len(segments))

	return &ParseResult{Segments: segments}, nil
}
