package geospatial

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

const earthRadiusMeters = 6371000.0

// Haversine returns the great-circle distance in meters between two
// [lng, lat] points. Only used for distance feedback.
func Haversine(a, b orb.Point) float64 {
	dLat := toRad(b.Lat() - a.Lat())
	dLon := toRad(b.Lon() - a.Lon())

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat()))*math.Cos(toRad(b.Lat()))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Distance is the planar distance in coordinate units (degrees). Closure and
// vertex hit-test tolerances are expressed in these units.
func Distance(a, b orb.Point) float64 {
	return planar.Distance(a, b)
}

// PathLength sums Haversine over consecutive points, e.g. a drawing preview.
func PathLength(ls orb.LineString) float64 {
	var total float64
	for i := 1; i < len(ls); i++ {
		total += Haversine(ls[i-1], ls[i])
	}
	return total
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
