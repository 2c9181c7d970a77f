package domain

// EventKind enumerates the pointer events a map surface emits.
type EventKind uint8

const (
	EventClick EventKind = iota + 1
	EventPointerDown
	EventPointerMove
	EventPointerUp
	EventFeatureClick
)

func (k EventKind) String() string {
	switch k {
	case EventClick:
		return "click"
	case EventPointerDown:
		return "pointerdown"
	case EventPointerMove:
		return "pointermove"
	case EventPointerUp:
		return "pointerup"
	case EventFeatureClick:
		return "featureclick"
	default:
		return "unknown"
	}
}

// Event is a single map-surface event. Point is set for pointer events;
// Layer and FeatureID are set for feature clicks.
type Event struct {
	Kind      EventKind
	Point     Point
	Layer     string
	FeatureID string
}

func Click(p Point) Event       { return Event{Kind: EventClick, Point: p} }
func PointerDown(p Point) Event { return Event{Kind: EventPointerDown, Point: p} }
func PointerMove(p Point) Event { return Event{Kind: EventPointerMove, Point: p} }
func PointerUp() Event          { return Event{Kind: EventPointerUp} }

func FeatureClick(layer, featureID string) Event {
	return Event{Kind: EventFeatureClick, Layer: layer, FeatureID: featureID}
}
