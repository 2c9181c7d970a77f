package editor

import (
	"github.com/samirrijal/polymap/internal/core/domain"
	"github.com/samirrijal/polymap/internal/pkg/geospatial"
)

// VertexTarget addresses one vertex of one polygon in collection order.
type VertexTarget struct {
	PolygonIndex int
	VertexIndex  int
}

// PolygonSource is the read view the vertex editor hit-tests against.
type PolygonSource interface {
	PolygonCount() int
	PolygonAt(i int) domain.Polygon
}

// VertexEditor implements the press/move/release drag protocol. At most one
// vertex is dragged at a time.
type VertexEditor struct {
	tolerance float64
	target    *VertexTarget
}

// NewVertexEditor returns an editor with the given hit-test tolerance in
// degrees.
func NewVertexEditor(tolerance float64) *VertexEditor {
	return &VertexEditor{tolerance: tolerance}
}

// Press starts a drag on the first vertex within tolerance of p, scanning
// polygons in order and then vertices in order. It reports whether a vertex
// was hit.
func (v *VertexEditor) Press(src PolygonSource, p domain.Point) bool {
	for i := 0; i < src.PolygonCount(); i++ {
		for j, vertex := range src.PolygonAt(i).Ring {
			if geospatial.Distance(vertex, p) < v.tolerance {
				v.target = &VertexTarget{PolygonIndex: i, VertexIndex: j}
				return true
			}
		}
	}
	return false
}

// Move replaces the dragged vertex with p and returns the polygon id with
// its full mutated ring. The ring is not re-closed here. ok is false when no
// drag is active or the target no longer exists.
func (v *VertexEditor) Move(src PolygonSource, p domain.Point) (id domain.EntityID, ring domain.Ring, ok bool) {
	if v.target == nil {
		return domain.EntityID{}, nil, false
	}
	if v.target.PolygonIndex >= src.PolygonCount() {
		v.target = nil
		return domain.EntityID{}, nil, false
	}
	poly := src.PolygonAt(v.target.PolygonIndex)
	if v.target.VertexIndex >= len(poly.Ring) {
		v.target = nil
		return domain.EntityID{}, nil, false
	}

	ring = make(domain.Ring, len(poly.Ring))
	copy(ring, poly.Ring)
	ring[v.target.VertexIndex] = p
	return poly.ID, ring, true
}

// Release ends the drag. It reports whether one was active.
func (v *VertexEditor) Release() bool {
	active := v.target != nil
	v.target = nil
	return active
}

// Dragging reports whether a vertex is being dragged.
func (v *VertexEditor) Dragging() bool { return v.target != nil }

// Target returns the dragged vertex, if any.
func (v *VertexEditor) Target() (VertexTarget, bool) {
	if v.target == nil {
		return VertexTarget{}, false
	}
	return *v.target, true
}
