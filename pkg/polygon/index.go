// Package polygon indexes stitched coastline rings into a latitude-banded
// grid for fast point-in-polygon water classification (spec §4.3).
package polygon

import (
	"math"

	"github.com/paulmach/orb"

	"shiproute/pkg/coastline"
	"shiproute/pkg/geo"
)

const (
	bands   = 180 // 1 band per degree of latitude, -90..90
	columns = 360 // 1 column per degree of longitude, -180..180
)

// Index organizes rings into a 180x360 1-degree grid: each cell holds the
// rings whose bounding box intersects it.
type Index struct {
	rings []coastline.Ring
	cells [][]int32 // bands*columns buckets of ring indices
}

// Build constructs an Index over the given rings.
func Build(rings []coastline.Ring) *Index {
	idx := &Index{
		rings: rings,
		cells: make([][]int32, bands*columns),
	}

	for ri, r := range rings {
		minLat, maxLat, minLon, maxLon := ringBound(r.Points)
		latLo, latHi := bandOf(minLat), bandOf(maxLat)
		lonLo, lonHi := columnOf(minLon), columnOf(maxLon)

		for la := latLo; la <= latHi; la++ {
			for lo := lonLo; lo <= lonHi; lo++ {
				c := cellIndex(la, lo)
				idx.cells[c] = append(idx.cells[c], int32(ri))
			}
		}
	}

	return idx
}

// NumRings reports how many rings the index holds.
func (idx *Index) NumRings() int { return len(idx.rings) }

// IsWater reports whether p lies in open water: false unless p falls inside
// an odd number of land-oriented rings (spec §4.3). Water-oriented rings
// (a lake on an island, say) never flip the classification for this
// application, since all indexed rings are coastlines bounding land.
func (idx *Index) IsWater(p geo.Point) bool {
	band := bandOf(p.Lat)
	col := columnOf(p.Lon)
	c := cellIndex(band, col)

	inLand := false
	for _, ri := range idx.cells[c] {
		r := idx.rings[ri]
		if !r.IsLandRing {
			continue
		}
		if rayCrossingInside(p, r.Points) {
			inLand = !inLand
		}
	}

	return !inLand
}

// rayCrossingInside reports whether p is inside ring by casting a ray due
// north from p and counting crossings against each ring edge; odd means
// inside. Edges are taken cyclically (index 0 follows the last index).
func rayCrossingInside(p geo.Point, ring orb.Ring) bool {
	n := len(ring)
	crossings := 0

	for i := 0; i < n; i++ {
		a := orbToGeoPoint(ring[i])
		b := orbToGeoPoint(ring[(i+1)%n])

		crosses, lat := geo.SegmentCrossesMeridian(a, b, p.Lon)
		if crosses && lat > p.Lat {
			crossings++
		}
	}

	return crossings%2 == 1
}

func orbToGeoPoint(pt orb.Point) geo.Point {
	return geo.Point{Lat: pt.Y(), Lon: pt.X()}
}

func bandOf(lat float64) int32 {
	b := int32(math.Floor(lat)) + 90
	if b < 0 {
		b = 0
	}
	if b >= bands {
		b = bands - 1
	}
	return b
}

func columnOf(lon float64) int32 {
	c := int32(math.Floor(lon)) + 180
	if c < 0 {
		c = 0
	}
	if c >= columns {
		c = columns - 1
	}
	return c
}

func cellIndex(band, col int32) int {
	return int(band)*columns + int(col)
}

func ringBound(ring orb.Ring) (minLat, maxLat, minLon, maxLon float64) {
	minLat, maxLat = ring[0].Y(), ring[0].Y()
	minLon, maxLon = ring[0].X(), ring[0].X()
	for _, pt := range ring[1:] {
		if pt.Y() < minLat {
			minLat = pt.Y()
		}
		if pt.Y() > maxLat {
			maxLat = pt.Y()
		}
		if pt.X() < minLon {
			minLon = pt.X()
		}
		if pt.X() > maxLon {
			maxLon = pt.X()
		}
	}
	return
}
