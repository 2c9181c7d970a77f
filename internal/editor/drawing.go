package editor

import (
	"github.com/paulmach/orb"

	"github.com/samirrijal/polymap/internal/core/domain"
	"github.com/samirrijal/polymap/internal/pkg/geospatial"
)

// Drawing turns a sequence of clicks into a closed polygon ring. A click
// near the first vertex closes the ring once at least three vertices are
// pending.
type Drawing struct {
	tolerance float64
	name      string
	pending   []domain.Point
}

// NewDrawing returns a drawing engine. tolerance is the planar closure
// distance in degrees; name is given to every emitted polygon.
func NewDrawing(tolerance float64, name string) *Drawing {
	if name == "" {
		name = domain.DefaultPolygonName
	}
	return &Drawing{tolerance: tolerance, name: name}
}

// Click consumes one click. It returns the finished polygon and true when
// the click closed the ring; otherwise the point is appended to the pending
// vertices.
func (d *Drawing) Click(p domain.Point) (domain.Polygon, bool) {
	if d.closes(p) {
		ring := make(domain.Ring, len(d.pending))
		copy(ring, d.pending)
		d.pending = nil
		return domain.Polygon{
			ID:   domain.NewLocalID(),
			Name: d.name,
			Ring: geospatial.CloseRing(ring),
		}, true
	}
	d.pending = append(d.pending, p)
	return domain.Polygon{}, false
}

// closes reports whether a click at p finishes the pending ring. Fewer than
// three vertices, or fewer than three distinct ones, never close.
func (d *Drawing) closes(p domain.Point) bool {
	if len(d.pending) < 3 {
		return false
	}
	if geospatial.Distance(p, d.pending[0]) >= d.tolerance {
		return false
	}
	return domain.DistinctPoints(d.pending) >= 3
}

// Preview returns the pending vertices followed by the pointer position.
// The result is nil when nothing is pending.
func (d *Drawing) Preview(pointer domain.Point) orb.LineString {
	if len(d.pending) == 0 {
		return nil
	}
	line := make(orb.LineString, 0, len(d.pending)+1)
	line = append(line, d.pending...)
	return append(line, pointer)
}

// Pending returns a copy of the accumulated vertices.
func (d *Drawing) Pending() []domain.Point {
	out := make([]domain.Point, len(d.pending))
	copy(out, d.pending)
	return out
}

// Reset discards the pending vertices.
func (d *Drawing) Reset() { d.pending = nil }
