package editor

import (
	"github.com/samirrijal/polymap/internal/core/domain"
	"github.com/samirrijal/polymap/internal/pkg/geospatial"
)

// SelectEnclosed returns the objects whose position lies inside ring, in
// input order. Neither argument is modified.
func SelectEnclosed(ring domain.Ring, objects []domain.MapObject) []domain.MapObject {
	var out []domain.MapObject
	for _, o := range objects {
		if geospatial.PointInPolygon(o.Position, ring) {
			out = append(out, o)
		}
	}
	return out
}
