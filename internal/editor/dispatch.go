package editor

import "github.com/samirrijal/polymap/internal/core/domain"

// Handler consumes one map-surface event.
type Handler func(domain.Event)

type subscription struct {
	id int
	fn Handler
}

// Dispatcher routes events to the handlers currently subscribed for their
// kind, in subscription order.
type Dispatcher struct {
	nextID   int
	handlers map[domain.EventKind][]subscription
}

// NewDispatcher returns a dispatcher with no subscriptions.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[domain.EventKind][]subscription)}
}

// Subscribe attaches fn to events of kind. Calling the returned function
// detaches it; calling it again is a no-op.
func (d *Dispatcher) Subscribe(kind domain.EventKind, fn Handler) func() {
	d.nextID++
	id := d.nextID
	d.handlers[kind] = append(d.handlers[kind], subscription{id: id, fn: fn})

	return func() {
		subs := d.handlers[kind]
		for i, s := range subs {
			if s.id == id {
				d.handlers[kind] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Dispatch delivers ev to every handler subscribed for its kind. Handlers
// may subscribe or unsubscribe while running; the change applies to the
// next event.
func (d *Dispatcher) Dispatch(ev domain.Event) {
	subs := d.handlers[ev.Kind]
	if len(subs) == 0 {
		return
	}
	snapshot := make([]subscription, len(subs))
	copy(snapshot, subs)
	for _, s := range snapshot {
		s.fn(ev)
	}
}

// Subscribed returns the number of handlers attached for kind.
func (d *Dispatcher) Subscribed(kind domain.EventKind) int {
	return len(d.handlers[kind])
}
