package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Default display values used when the operator supplies none.
const (
	DefaultPolygonName = "Polygon"
	DefaultObjectType  = "Marker"
)

var (
	// ErrNotFound is returned when an entity does not exist in the store.
	ErrNotFound = errors.New("not found")
	// ErrInvalidGeometry is returned for rings or points that cannot be stored.
	ErrInvalidGeometry = errors.New("invalid geometry")
)

const localPrefix = "local-"

type idKind uint8

const (
	remoteKind idKind = iota + 1
	localKind
)

// EntityID identifies a polygon or map object. It is either Local (created
// client-side, not yet acknowledged by the store) or Remote (assigned by the
// store). The zero value identifies nothing.
type EntityID struct {
	kind  idKind
	value string
}

// NewLocalID returns a fresh Local id.
func NewLocalID() EntityID {
	return EntityID{kind: localKind, value: uuid.NewString()}
}

// RemoteID wraps a store-assigned id.
func RemoteID(id string) EntityID {
	return EntityID{kind: remoteKind, value: id}
}

// ParseEntityID reverses String: "local-<uuid>" is Local, anything else Remote.
func ParseEntityID(s string) EntityID {
	if s == "" {
		return EntityID{}
	}
	if v, ok := strings.CutPrefix(s, localPrefix); ok {
		return EntityID{kind: localKind, value: v}
	}
	return RemoteID(s)
}

// IsLocal reports whether the id has not been persisted yet.
func (id EntityID) IsLocal() bool { return id.kind == localKind }

// IsRemote reports whether the id was assigned by the store.
func (id EntityID) IsRemote() bool { return id.kind == remoteKind }

// IsZero reports whether id is the zero value.
func (id EntityID) IsZero() bool { return id.kind == 0 }

// Value returns the bare server id or uuid, without the local prefix.
func (id EntityID) Value() string { return id.value }

// String renders the wire form, which map surfaces echo back on feature hits.
func (id EntityID) String() string {
	switch id.kind {
	case localKind:
		return localPrefix + id.value
	case remoteKind:
		return id.value
	default:
		return ""
	}
}

func (id EntityID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *EntityID) UnmarshalText(b []byte) error {
	*id = ParseEntityID(string(b))
	return nil
}

// Polygon is a named closed ring.
type Polygon struct {
	ID        EntityID  `json:"id"`
	Name      string    `json:"name"`
	Ring      Ring      `json:"ring"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// MapObject is a typed point feature. Type only drives iconography.
type MapObject struct {
	ID        EntityID  `json:"id"`
	Type      string    `json:"type"`
	Position  Point     `json:"position"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Change announces a persisted create or delete to other listeners.
type Change struct {
	Entity string    `json:"entity"` // "polygon" | "object"
	Action string    `json:"action"` // "created" | "deleted"
	ID     string    `json:"id"`
	Time   time.Time `json:"time"`
}

const (
	EntityPolygon = "polygon"
	EntityObject  = "object"

	ActionCreated = "created"
	ActionDeleted = "deleted"
)
