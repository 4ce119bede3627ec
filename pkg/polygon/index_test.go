package polygon

import (
	"math"
	"testing"

	"github.com/paulmach/orb"

	"shiproute/pkg/coastline"
	"shiproute/pkg/geo"
)

func squareRing(land bool) coastline.Ring {
	ring := orb.Ring{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} // lon,lat order
	area := coastline.SignedArea(ring)
	isLand := area > 0
	if isLand != land {
		// flip winding to get the requested orientation
		reversed := make(orb.Ring, len(ring))
		for i, p := range ring {
			reversed[len(ring)-1-i] = p
		}
		ring = reversed
		isLand = land
	}
	return coastline.Ring{Points: ring, SignedArea: coastline.SignedArea(ring), IsLandRing: isLand}
}

func TestIsWaterInsideLandRing(t *testing.T) {
	idx := Build([]coastline.Ring{squareRing(true)})
	if idx.IsWater(geo.Point{Lat: 0, Lon: 0}) {
		t.Error("center of land ring classified as water")
	}
	if !idx.IsWater(geo.Point{Lat: 50, Lon: 50}) {
		t.Error("far outside point classified as land")
	}
}

func TestIsWaterOutsideLandRing(t *testing.T) {
	idx := Build([]coastline.Ring{squareRing(true)})
	if !idx.IsWater(geo.Point{Lat: 5, Lon: 5}) {
		t.Error("point outside ring bounding box classified as land")
	}
}

func TestSampleDeterministicAndBounded(t *testing.T) {
	a := Sample(1000)
	b := Sample(1000)
	if len(a) != 1000 || len(b) != 1000 {
		t.Fatalf("wrong sample length")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Sample is not deterministic at index %d", i)
		}
		if a[i].Lat < -90 || a[i].Lat > 90 {
			t.Errorf("lat out of range: %f", a[i].Lat)
		}
		if a[i].Lon < -180 || a[i].Lon > 180 {
			t.Errorf("lon out of range: %f", a[i].Lon)
		}
	}
}

func TestSampleCoversPoles(t *testing.T) {
	pts := Sample(10000)
	minLat, maxLat := math.Inf(1), math.Inf(-1)
	for _, p := range pts {
		if p.Lat < minLat {
			minLat = p.Lat
		}
		if p.Lat > maxLat {
			maxLat = p.Lat
		}
	}
	if minLat > -89 || maxLat < 89 {
		t.Errorf("sampling doesn't reach near the poles: min=%f max=%f", minLat, maxLat)
	}
}
