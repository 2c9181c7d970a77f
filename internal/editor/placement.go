package editor

import (
	"github.com/samirrijal/polymap/internal/core/domain"
)

// Placement creates one map object per click using the selected type.
type Placement struct {
	objectType string
}

// SetType selects the type for subsequent placements. An empty type
// disables placement.
func (p *Placement) SetType(t string) { p.objectType = t }

// Type returns the selected type.
func (p *Placement) Type() string { return p.objectType }

// Place returns a new object at pos. ok is false when no type is selected
// or when exists reports the generated id as taken.
func (p *Placement) Place(pos domain.Point, exists func(domain.EntityID) bool) (domain.MapObject, bool) {
	if p.objectType == "" {
		return domain.MapObject{}, false
	}
	obj := domain.MapObject{
		ID:       domain.NewLocalID(),
		Type:     p.objectType,
		Position: pos,
	}
	if exists != nil && exists(obj.ID) {
		return domain.MapObject{}, false
	}
	return obj, true
}
