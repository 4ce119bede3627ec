package polygon

import (
	"math"

	"shiproute/pkg/geo"
)

// goldenAngleDeg is 360 * (1 - 1/phi), the angle that gives the most even
// spiral packing of K points on a sphere (spec §4.3).
const goldenAngleDeg = 137.50776405003785

// Sample generates K points uniformly distributed on the sphere by the
// equal-area golden-angle spiral scheme:
//
//	lat = asin(1 - 2*(i+0.5)/K)
//	lon = (i * golden_angle) mod 360 - 180
//
// Point ordering is deterministic in i, which is what gives sampled graph
// nodes their stable node_id assignment.
func Sample(k int) []geo.Point {
	pts := make([]geo.Point, k)
	for i := 0; i < k; i++ {
		lat := math.Asin(1-2*(float64(i)+0.5)/float64(k)) * 180 / math.Pi
		lon := math.Mod(float64(i)*goldenAngleDeg, 360) - 180
		pts[i] = geo.Point{Lat: lat, Lon: lon}
	}
	return pts
}
