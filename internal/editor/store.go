package editor

import (
	"github.com/samirrijal/polymap/internal/core/domain"
	"github.com/samirrijal/polymap/internal/pkg/geospatial"
)

type entry[T any] struct {
	value T
	// rev increases on every mutation; a save compares it with the value it
	// captured to detect edits made while the save was in flight.
	rev uint64
}

// collection is an ordered arena of entities keyed by id. Lookups and
// in-place updates are O(1); removals reindex.
type collection[T any] struct {
	idOf  func(*T) domain.EntityID
	setID func(*T, domain.EntityID)
	items []entry[T]
	index map[domain.EntityID]int
}

func newCollection[T any](idOf func(*T) domain.EntityID, setID func(*T, domain.EntityID)) *collection[T] {
	return &collection[T]{idOf: idOf, setID: setID, index: make(map[domain.EntityID]int)}
}

func (c *collection[T]) Len() int { return len(c.items) }

func (c *collection[T]) At(i int) T { return c.items[i].value }

func (c *collection[T]) Has(id domain.EntityID) bool {
	_, ok := c.index[id]
	return ok
}

func (c *collection[T]) Get(id domain.EntityID) (T, bool) {
	i, ok := c.index[id]
	if !ok {
		var zero T
		return zero, false
	}
	return c.items[i].value, true
}

func (c *collection[T]) Rev(id domain.EntityID) uint64 {
	if i, ok := c.index[id]; ok {
		return c.items[i].rev
	}
	return 0
}

// Insert appends v. It returns false if v's id is already present.
func (c *collection[T]) Insert(v T) bool {
	id := c.idOf(&v)
	if _, ok := c.index[id]; ok {
		return false
	}
	c.index[id] = len(c.items)
	c.items = append(c.items, entry[T]{value: v, rev: 1})
	return true
}

// Update applies fn to the entity in place and bumps its revision.
func (c *collection[T]) Update(id domain.EntityID, fn func(*T)) bool {
	i, ok := c.index[id]
	if !ok {
		return false
	}
	fn(&c.items[i].value)
	c.items[i].rev++
	return true
}

func (c *collection[T]) Remove(id domain.EntityID) (T, bool) {
	i, ok := c.index[id]
	if !ok {
		var zero T
		return zero, false
	}
	v := c.items[i].value
	c.items = append(c.items[:i], c.items[i+1:]...)
	c.reindex()
	return v, true
}

// Reid moves the entity at old to id in place. When id is already present
// the entity at old is dropped instead, which keeps ids unique. It reports
// whether an entity was dropped.
func (c *collection[T]) Reid(old, id domain.EntityID) (dropped bool) {
	i, ok := c.index[old]
	if !ok || old == id {
		return false
	}
	if _, taken := c.index[id]; taken {
		c.Remove(old)
		return true
	}
	c.setID(&c.items[i].value, id)
	delete(c.index, old)
	c.index[id] = i
	return false
}

// Reset replaces the contents with values, keeping the first of any
// duplicate ids.
func (c *collection[T]) Reset(values []T) {
	c.items = c.items[:0]
	clear(c.index)
	for _, v := range values {
		c.Insert(v)
	}
}

func (c *collection[T]) All() []T {
	out := make([]T, len(c.items))
	for i, e := range c.items {
		out[i] = e.value
	}
	return out
}

func (c *collection[T]) reindex() {
	clear(c.index)
	for i := range c.items {
		c.index[c.idOf(&c.items[i].value)] = i
	}
}

// Store holds the live polygon and object collections with their dirty
// trackers. It is not safe for concurrent use.
type Store struct {
	polygons *collection[domain.Polygon]
	objects  *collection[domain.MapObject]

	polyDirty *Tracker
	objDirty  *Tracker

	saving bool
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		polygons: newCollection(
			func(p *domain.Polygon) domain.EntityID { return p.ID },
			func(p *domain.Polygon, id domain.EntityID) { p.ID = id },
		),
		objects: newCollection(
			func(o *domain.MapObject) domain.EntityID { return o.ID },
			func(o *domain.MapObject, id domain.EntityID) { o.ID = id },
		),
		polyDirty: NewTracker(),
		objDirty:  NewTracker(),
	}
}

func (s *Store) PolygonCount() int                { return s.polygons.Len() }
func (s *Store) PolygonAt(i int) domain.Polygon   { return s.polygons.At(i) }
func (s *Store) Polygons() []domain.Polygon       { return s.polygons.All() }
func (s *Store) Objects() []domain.MapObject      { return s.objects.All() }
func (s *Store) HasObject(id domain.EntityID) bool { return s.objects.Has(id) }

func (s *Store) Polygon(id domain.EntityID) (domain.Polygon, bool) { return s.polygons.Get(id) }
func (s *Store) Object(id domain.EntityID) (domain.MapObject, bool) { return s.objects.Get(id) }

// PolygonTracker and ObjectTracker expose the dirty sets read-only users
// such as the layer synchronizer need.
func (s *Store) PolygonTracker() *Tracker { return s.polyDirty }
func (s *Store) ObjectTracker() *Tracker  { return s.objDirty }

// AddPolygon inserts p, closing its ring. It returns false on an id clash.
func (s *Store) AddPolygon(p domain.Polygon) bool {
	p.Ring = geospatial.CloseRing(p.Ring)
	return s.polygons.Insert(p)
}

// UpdateRing replaces the ring of polygon id with ring, as emitted by the
// vertex editor. When the first or last vertex of a closed ring moved, the
// other end follows it; the result is closed with CloseRing.
func (s *Store) UpdateRing(id domain.EntityID, ring domain.Ring) bool {
	return s.updatePolygon(id, func(p *domain.Polygon) {
		p.Ring = reclose(p.Ring, ring)
	})
}

// RenamePolygon changes the display name of polygon id.
func (s *Store) RenamePolygon(id domain.EntityID, name string) bool {
	return s.updatePolygon(id, func(p *domain.Polygon) { p.Name = name })
}

func (s *Store) updatePolygon(id domain.EntityID, fn func(*domain.Polygon)) bool {
	if !s.polygons.Update(id, fn) {
		return false
	}
	s.polyDirty.MarkEdited(id)
	return true
}

// RemovePolygon deletes polygon id from the live collection and records it.
func (s *Store) RemovePolygon(id domain.EntityID) bool {
	if _, ok := s.polygons.Remove(id); !ok {
		return false
	}
	s.polyDirty.MarkDeleted(id)
	return true
}

// AddObject inserts o. It returns false on an id clash.
func (s *Store) AddObject(o domain.MapObject) bool {
	return s.objects.Insert(o)
}

// MoveObject changes the position of object id.
func (s *Store) MoveObject(id domain.EntityID, pos domain.Point) bool {
	if !s.objects.Update(id, func(o *domain.MapObject) { o.Position = pos }) {
		return false
	}
	s.objDirty.MarkEdited(id)
	return true
}

// RemoveObject deletes object id from the live collection and records it.
func (s *Store) RemoveObject(id domain.EntityID) bool {
	if _, ok := s.objects.Remove(id); !ok {
		return false
	}
	s.objDirty.MarkDeleted(id)
	return true
}

// Replace swaps in freshly loaded collections and forgets all dirty state.
func (s *Store) Replace(polygons []domain.Polygon, objects []domain.MapObject) {
	closed := make([]domain.Polygon, len(polygons))
	for i, p := range polygons {
		p.Ring = geospatial.CloseRing(p.Ring)
		closed[i] = p
	}
	s.polygons.Reset(closed)
	s.objects.Reset(objects)
	s.polyDirty.Reset()
	s.objDirty.Reset()
}

// Pending counts unsaved changes. Every local entity counts as new.
func (s *Store) Pending() Pending {
	return Pending{
		Polygons: s.polyDirty.counts(countLocal(s.polygons)),
		Objects:  s.objDirty.counts(countLocal(s.objects)),
	}
}

// Saving reports whether a save is in flight.
func (s *Store) Saving() bool { return s.saving }

// Status returns "new", "edited" or "saved" for a polygon id.
func (s *Store) Status(id domain.EntityID) string {
	switch {
	case id.IsLocal():
		return StatusNew
	case s.polyDirty.IsEdited(id):
		return StatusEdited
	default:
		return StatusSaved
	}
}

// Polygon status values rendered on the polygons layer.
const (
	StatusNew    = "new"
	StatusEdited = "edited"
	StatusSaved  = "saved"
)

func countLocal[T any](c *collection[T]) int {
	n := 0
	for i := range c.items {
		if c.idOf(&c.items[i].value).IsLocal() {
			n++
		}
	}
	return n
}

// reclose merges a vertex-editor ring into the previous ring. If the rings
// have the same length and prev was closed, a change at either end is
// mirrored to the other before closing.
func reclose(prev, next domain.Ring) domain.Ring {
	n := len(next)
	if n > 1 && len(prev) == n && geospatial.IsClosed(prev) {
		switch {
		case next[0] != prev[0]:
			next[n-1] = next[0]
		case next[n-1] != prev[n-1]:
			next[0] = next[n-1]
		}
	}
	return geospatial.CloseRing(next)
}
