package domain

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Point is a geographic coordinate in [longitude, latitude] order (WGS 84).
type Point = orb.Point

// Ring is an ordered sequence of points describing a polygon boundary.
// Working rings are kept closed: the first point equals the last.
type Ring = orb.Ring

// Finite reports whether both coordinates of p are finite numbers.
func Finite(p Point) bool {
	for _, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// ValidatePoint checks that p is finite and inside the WGS 84 range.
func ValidatePoint(p Point) error {
	lng, lat := p.Lon(), p.Lat()
	if !Finite(p) {
		return fmt.Errorf("%w: coordinate is not finite", ErrInvalidGeometry)
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("%w: longitude %g out of range", ErrInvalidGeometry, lng)
	}
	if lat < -90 || lat > 90 {
		return fmt.Errorf("%w: latitude %g out of range", ErrInvalidGeometry, lat)
	}
	return nil
}

// DistinctPoints counts the distinct points of r (exact coordinate equality).
func DistinctPoints(r Ring) int {
	seen := make(map[Point]struct{}, len(r))
	for _, p := range r {
		seen[p] = struct{}{}
	}
	return len(seen)
}
