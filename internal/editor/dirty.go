package editor

import (
	"sort"

	"github.com/samirrijal/polymap/internal/core/domain"
)

// Tracker records which persisted entities of one collection diverge from
// the store. Created entities are not tracked here: a local id is pending by
// construction.
type Tracker struct {
	edited  map[domain.EntityID]struct{}
	deleted map[domain.EntityID]struct{}
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		edited:  make(map[domain.EntityID]struct{}),
		deleted: make(map[domain.EntityID]struct{}),
	}
}

// MarkEdited records a geometry or attribute change. Local ids are ignored.
func (t *Tracker) MarkEdited(id domain.EntityID) {
	if id.IsRemote() {
		t.edited[id] = struct{}{}
	}
}

// MarkDeleted records a removal. Local ids are dropped since the store never
// saw them.
func (t *Tracker) MarkDeleted(id domain.EntityID) {
	delete(t.edited, id)
	if id.IsRemote() {
		t.deleted[id] = struct{}{}
	}
}

func (t *Tracker) IsEdited(id domain.EntityID) bool {
	_, ok := t.edited[id]
	return ok
}

func (t *Tracker) IsDeleted(id domain.EntityID) bool {
	_, ok := t.deleted[id]
	return ok
}

func (t *Tracker) ClearEdited(id domain.EntityID)  { delete(t.edited, id) }
func (t *Tracker) ClearDeleted(id domain.EntityID) { delete(t.deleted, id) }

// Edited returns the edited ids in a stable order.
func (t *Tracker) Edited() []domain.EntityID { return sortedIDs(t.edited) }

// Deleted returns the deleted ids in a stable order.
func (t *Tracker) Deleted() []domain.EntityID { return sortedIDs(t.deleted) }

// Reset forgets everything.
func (t *Tracker) Reset() {
	clear(t.edited)
	clear(t.deleted)
}

func sortedIDs(set map[domain.EntityID]struct{}) []domain.EntityID {
	ids := make([]domain.EntityID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

// Counts summarises the unsaved changes of one collection.
type Counts struct {
	New     int `json:"new"`
	Edited  int `json:"edited"`
	Deleted int `json:"deleted"`
	Total   int `json:"total"`
}

// Pending summarises unsaved changes across both collections.
type Pending struct {
	Polygons Counts `json:"polygons"`
	Objects  Counts `json:"objects"`
}

// Total is the number of unsaved changes in both collections.
func (p Pending) Total() int { return p.Polygons.Total + p.Objects.Total }

func (t *Tracker) counts(newCount int) Counts {
	c := Counts{New: newCount, Edited: len(t.edited), Deleted: len(t.deleted)}
	c.Total = c.New + c.Edited + c.Deleted
	return c
}
