package coastline

import (
	"math"

	"github.com/paulmach/orb"
)

// SignedArea computes a signed spherical area for a cyclic ring (index 0
// follows index len-1), used once per ring to fix its orientation by the
// right-hand rule (spec §3, §8 "ring orientation consistency"). Only the
// sign matters here, not the magnitude: summing
// (lon[i+1] - lon[i]) * (2 + sin(lat[i]) + sin(lat[i+1])) around the ring
// gives a quantity proportional to the enclosed area whose sign flips with
// winding direction, the same approach used for planar shoelace area
// extended to longitude/latitude. That sum is negative for a
// counterclockwise ring, so it is negated: a counterclockwise ring (land on
// the left of travel, the OSM coastline convention) gets a positive area.
func SignedArea(ring orb.Ring) float64 {
	n := len(ring)
	if n < 3 {
		return 0
	}

	var sum float64
	for i := 0; i < n; i++ {
		a := ring[i]
		b := ring[(i+1)%n]

		lat1 := a.Y() * math.Pi / 180
		lat2 := b.Y() * math.Pi / 180
		dLon := normalizeLonDeltaDeg(b.X()-a.X()) * math.Pi / 180

		sum += dLon * (2 + math.Sin(lat1) + math.Sin(lat2))
	}

	return -sum / 2
}

// normalizeLonDeltaDeg maps a longitude delta in degrees into (-180, 180],
// so rings that straddle the antimeridian don't throw the sign off.
func normalizeLonDeltaDeg(d float64) float64 {
	for d <= -180 {
		d += 360
	}
	for d > 180 {
		d -= 360
	}
	return d
}
