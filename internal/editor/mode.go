package editor

import "fmt"

// Mode is the single active interaction mode of a session.
type Mode uint8

const (
	ModeIdle Mode = iota
	ModeDrawing
	ModeEditing
	ModeAddingObject
	ModeDeletingPolygons
	ModeDeletingObjects
	ModeSelectingPolygon
)

var modeNames = [...]string{
	ModeIdle:             "idle",
	ModeDrawing:          "drawing",
	ModeEditing:          "editing",
	ModeAddingObject:     "adding_object",
	ModeDeletingPolygons: "deleting_polygons",
	ModeDeletingObjects:  "deleting_objects",
	ModeSelectingPolygon: "selecting_polygon",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("mode(%d)", m)
}

// ParseMode is the inverse of Mode.String.
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if name == s {
			return Mode(i), nil
		}
	}
	return ModeIdle, fmt.Errorf("unknown mode %q", s)
}

// TransitionFunc observes a mode change. It runs after the new mode is
// current, so Active never reports two modes at once.
type TransitionFunc func(from, to Mode)

// ModeState is the mode register. The zero value is Idle with no observers.
type ModeState struct {
	current   Mode
	observers []TransitionFunc
}

// Current returns the active mode.
func (s *ModeState) Current() Mode { return s.current }

// Active reports whether m is the active mode.
func (s *ModeState) Active(m Mode) bool { return s.current == m }

// OnTransition registers fn for every subsequent transition.
func (s *ModeState) OnTransition(fn TransitionFunc) {
	s.observers = append(s.observers, fn)
}

// Enable makes m the only active mode. Enabling the mode that is already
// active toggles it off, and Enable(ModeIdle) cancels whatever is active.
func (s *ModeState) Enable(m Mode) {
	if m == s.current {
		m = ModeIdle
	}
	s.set(m)
}

// Disable returns to Idle if m is active.
func (s *ModeState) Disable(m Mode) {
	if m == s.current {
		s.set(ModeIdle)
	}
}

func (s *ModeState) set(to Mode) {
	from := s.current
	if from == to {
		return
	}
	s.current = to
	for _, fn := range s.observers {
		fn(from, to)
	}
}
