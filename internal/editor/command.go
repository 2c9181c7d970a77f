package editor

import (
	"errors"
	"fmt"

	"github.com/samirrijal/polymap/internal/core/domain"
)

// Command types accepted by Apply. Save and load block on the gateway and
// are left to the caller's event loop.
const (
	CommandClick       = "click"
	CommandPointerDown = "pointerdown"
	CommandPointerMove = "pointermove"
	CommandPointerUp   = "pointerup"
	CommandFeature     = "featureclick"
	CommandMode        = "mode"
	CommandObjectType  = "objecttype"
	CommandDelete      = "delete"
	CommandRename      = "rename"
	CommandMoveObject  = "moveobject"
	CommandSave        = "save"
	CommandLoad        = "load"
)

// ErrUnknownCommand is returned by Apply for types it does not handle.
var ErrUnknownCommand = errors.New("unknown command")

// Command is the decoded form of one client message.
type Command struct {
	Type  string  `json:"type"`
	Lng   float64 `json:"lng,omitempty"`
	Lat   float64 `json:"lat,omitempty"`
	Layer string  `json:"layer,omitempty"`
	ID    string  `json:"id,omitempty"`
	Mode  string  `json:"mode,omitempty"`
	Value string  `json:"value,omitempty"`
}

func (c Command) point() domain.Point { return domain.Point{c.Lng, c.Lat} }

// Apply executes a non-blocking command on the session.
func (s *Session) Apply(cmd Command) error {
	switch cmd.Type {
	case CommandClick:
		s.Handle(domain.Click(cmd.point()))
	case CommandPointerDown:
		s.Handle(domain.PointerDown(cmd.point()))
	case CommandPointerMove:
		s.Handle(domain.PointerMove(cmd.point()))
	case CommandPointerUp:
		s.Handle(domain.PointerUp())
	case CommandFeature:
		s.Handle(domain.FeatureClick(cmd.Layer, cmd.ID))
	case CommandMode:
		m, err := ParseMode(cmd.Mode)
		if err != nil {
			return err
		}
		s.Enable(m)
	case CommandObjectType:
		s.SetObjectType(cmd.Value)
	case CommandDelete:
		return s.deleteByLayer(cmd.Layer, domain.ParseEntityID(cmd.ID))
	case CommandRename:
		if !s.RenamePolygon(domain.ParseEntityID(cmd.ID), cmd.Value) {
			return fmt.Errorf("polygon %s: %w", cmd.ID, domain.ErrNotFound)
		}
	case CommandMoveObject:
		if !domain.Finite(cmd.point()) {
			return fmt.Errorf("object %s: %w", cmd.ID, domain.ErrInvalidGeometry)
		}
		if !s.MoveObject(domain.ParseEntityID(cmd.ID), cmd.point()) {
			return fmt.Errorf("object %s: %w", cmd.ID, domain.ErrNotFound)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
	}
	return nil
}

func (s *Session) deleteByLayer(layer string, id domain.EntityID) error {
	var ok bool
	switch layer {
	case LayerPolygons:
		ok = s.DeletePolygon(id)
	case LayerObjects:
		ok = s.DeleteObject(id)
	default:
		return fmt.Errorf("%w: delete from layer %q", ErrUnknownCommand, layer)
	}
	if !ok {
		return fmt.Errorf("%s %s: %w", layer, id, domain.ErrNotFound)
	}
	return nil
}
