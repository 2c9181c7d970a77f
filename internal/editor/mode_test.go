package editor_test

import (
	"testing"

	"github.com/samirrijal/polymap/internal/editor"
)

func TestModeState_Exclusive(t *testing.T) {
	var s editor.ModeState
	var seen [][2]editor.Mode
	s.OnTransition(func(from, to editor.Mode) {
		if s.Active(from) && from != to {
			t.Errorf("observer saw %v still active after switching to %v", from, to)
		}
		seen = append(seen, [2]editor.Mode{from, to})
	})

	s.Enable(editor.ModeDrawing)
	s.Enable(editor.ModeEditing)

	if s.Active(editor.ModeDrawing) || !s.Active(editor.ModeEditing) {
		t.Fatalf("expected only editing active, current=%v", s.Current())
	}
	if len(seen) != 2 {
		t.Fatalf("expected 2 transitions, got %v", seen)
	}
	if seen[1] != [2]editor.Mode{editor.ModeDrawing, editor.ModeEditing} {
		t.Errorf("expected drawing->editing in one step, got %v", seen[1])
	}
}

func TestModeState_Toggle(t *testing.T) {
	var s editor.ModeState
	s.Enable(editor.ModeAddingObject)
	s.Enable(editor.ModeAddingObject)
	if s.Current() != editor.ModeIdle {
		t.Errorf("enabling the active mode should toggle it off, got %v", s.Current())
	}
}

func TestModeState_Disable(t *testing.T) {
	var s editor.ModeState
	calls := 0
	s.OnTransition(func(from, to editor.Mode) { calls++ })

	s.Enable(editor.ModeEditing)
	s.Disable(editor.ModeDrawing)
	if s.Current() != editor.ModeEditing {
		t.Fatal("disabling an inactive mode must not change state")
	}
	s.Disable(editor.ModeEditing)
	if s.Current() != editor.ModeIdle {
		t.Fatal("expected idle")
	}
	s.Enable(editor.ModeIdle)
	if calls != 2 {
		t.Errorf("expected 2 transitions, got %d", calls)
	}
}

func TestParseMode(t *testing.T) {
	for m := editor.ModeIdle; m <= editor.ModeSelectingPolygon; m++ {
		got, err := editor.ParseMode(m.String())
		if err != nil || got != m {
			t.Errorf("ParseMode(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := editor.ParseMode("flying"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
