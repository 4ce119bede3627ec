// Package shortcut augments a base graph with precomputed "shortcut" edges
// across open-sea rectangles (spec §4.7), grounded on the teacher's
// pkg/ch contraction hierarchy: the same batched-search-with-touched-list
// idiom, retargeted from approximate witness pruning (skip a shortcut if
// *some* alternate path is good enough) to exact interior shortest-path
// distances (a shortcut always equals the true interior distance).
package shortcut

import "encoding/json"

// Rectangle is a lat/lon bounding box selecting a region of open sea whose
// interior shortest paths get precomputed (spec §4.7's "water rectangles").
type Rectangle struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

// Contains reports whether (lat, lon) falls within the rectangle, inclusive
// of its boundary.
func (r Rectangle) Contains(lat, lon float64) bool {
	return lat >= r.MinLat && lat <= r.MaxLat && lon >= r.MinLon && lon <= r.MaxLon
}

// ParseRectangles decodes the structured JSON array accepted by
// `create_shortcuts --create` (spec §6; rectangle selection itself is an
// external collaborator, the core only consumes the structured result).
func ParseRectangles(data []byte) ([]Rectangle, error) {
	var rects []Rectangle
	if err := json.Unmarshal(data, &rects); err != nil {
		return nil, err
	}
	return rects, nil
}
