// Package geospatial holds the pure geometry helpers shared by the editor and
// the persistence services. Nothing here keeps state.
package geospatial

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// degenerateArea is the |2·area| below which a ring is treated as having no
// area (collinear or repeated vertices).
const degenerateArea = 1e-12

// CloseRing returns r with its first point appended when the first and last
// points differ. Equality is exact. An empty ring is returned as-is, and so
// is an already closed one, which makes CloseRing idempotent.
func CloseRing(r orb.Ring) orb.Ring {
	if len(r) == 0 || IsClosed(r) {
		return r
	}
	out := make(orb.Ring, len(r), len(r)+1)
	copy(out, r)
	return append(out, r[0])
}

// IsClosed reports whether the first and last points of r are equal. Unlike
// orb.Ring.Closed it places no minimum on the number of points.
func IsClosed(r orb.Ring) bool {
	return len(r) > 0 && r[0] == r[len(r)-1]
}

// OpenRing strips the closing duplicate, if any. The result shares r's
// backing array.
func OpenRing(r orb.Ring) orb.Ring {
	if len(r) > 1 && IsClosed(r) {
		return r[:len(r)-1]
	}
	return r
}

// Centroid returns the area-weighted centroid of r (shoelace formula). Rings
// without area fall back to the mean of their distinct vertices; a single
// point is its own centroid and an empty ring yields the zero point.
func Centroid(r orb.Ring) orb.Point {
	pts := OpenRing(r)
	switch len(pts) {
	case 0:
		return orb.Point{}
	case 1:
		return pts[0]
	}

	var twiceArea, cx, cy float64
	for i, j := 0, len(pts)-1; i < len(pts); j, i = i, i+1 {
		x0, y0 := pts[j][0], pts[j][1]
		x1, y1 := pts[i][0], pts[i][1]
		f := x0*y1 - x1*y0
		twiceArea += f
		cx += (x0 + x1) * f
		cy += (y0 + y1) * f
	}

	if math.Abs(twiceArea) < degenerateArea {
		return meanOfDistinct(pts)
	}

	area6 := twiceArea * 3
	return orb.Point{cx / area6, cy / area6}
}

func meanOfDistinct(pts orb.Ring) orb.Point {
	seen := make(map[orb.Point]struct{}, len(pts))
	var sx, sy float64
	for _, p := range pts {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		sx += p[0]
		sy += p[1]
	}
	n := float64(len(seen))
	return orb.Point{sx / n, sy / n}
}

// PointInPolygon reports whether p lies inside r using even-odd ray casting.
// The ring does not need to be closed. Rings with fewer than three points
// contain nothing. Points exactly on an edge count as inside, consistently.
func PointInPolygon(p orb.Point, r orb.Ring) bool {
	if len(r) < 3 {
		return false
	}
	return planar.RingContains(r, p)
}
