package http

import (
	"context"

	"github.com/samirrijal/polymap/internal/core/ports"
	"github.com/samirrijal/polymap/internal/core/usecases"
	"github.com/samirrijal/polymap/internal/editor"
)

// Check probes one backing service for the readiness endpoint.
type Check func(ctx context.Context) error

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Polygons *usecases.PolygonService
	Objects  *usecases.ObjectService

	// Gateway is what editor sessions save through. Changes, when set,
	// relays persisted edits from other sessions to every open editor.
	Gateway ports.Gateway
	Changes ports.EventSubscriber
	Editor  editor.Options

	// Checks are run by /ready, keyed by the name reported back.
	Checks map[string]Check
}
