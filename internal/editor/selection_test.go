package editor_test

import (
	"testing"

	"github.com/samirrijal/polymap/internal/core/domain"
	"github.com/samirrijal/polymap/internal/editor"
)

func TestSelectEnclosed(t *testing.T) {
	objects := []domain.MapObject{
		{ID: domain.RemoteID("in"), Type: "Marker", Position: domain.Point{2, 2}},
		{ID: domain.RemoteID("out"), Type: "Marker", Position: domain.Point{10, 10}},
		{ID: domain.RemoteID("in2"), Type: "Tree", Position: domain.Point{3, 1}},
	}
	got := editor.SelectEnclosed(square(4), objects)
	if len(got) != 2 || got[0].ID != domain.RemoteID("in") || got[1].ID != domain.RemoteID("in2") {
		t.Fatalf("expected [in in2] in input order, got %+v", got)
	}
	if len(objects) != 3 || objects[1].ID != domain.RemoteID("out") {
		t.Error("input must not be modified")
	}
}

func TestSelectEnclosed_DegenerateRing(t *testing.T) {
	objects := []domain.MapObject{{ID: domain.RemoteID("x"), Position: domain.Point{0, 0}}}
	if got := editor.SelectEnclosed(domain.Ring{{0, 0}, {1, 1}}, objects); len(got) != 0 {
		t.Errorf("expected nothing, got %+v", got)
	}
}

func TestPlacement(t *testing.T) {
	var p editor.Placement
	if _, ok := p.Place(domain.Point{1, 1}, nil); ok {
		t.Fatal("no type selected: placement must be a no-op")
	}

	p.SetType("Tree")
	obj, ok := p.Place(domain.Point{1, 2}, nil)
	if !ok || obj.Type != "Tree" || obj.Position != (domain.Point{1, 2}) || !obj.ID.IsLocal() {
		t.Fatalf("unexpected object %+v", obj)
	}

	if _, ok := p.Place(domain.Point{1, 2}, func(domain.EntityID) bool { return true }); ok {
		t.Error("an existing id must suppress the emission")
	}
}
