package usecases

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/polymap/internal/core/domain"
	"github.com/samirrijal/polymap/internal/core/ports"
	"github.com/samirrijal/polymap/internal/pkg/geospatial"
	"github.com/samirrijal/polymap/internal/pkg/telemetry"
)

// PolygonService handles polygon persistence rules.
type PolygonService struct {
	polygons ports.PolygonRepository
	cache    ports.CacheService
	events   ports.EventPublisher
}

// NewPolygonService creates a new PolygonService. cache and events may be nil.
func NewPolygonService(polygons ports.PolygonRepository, cache ports.CacheService, events ports.EventPublisher) *PolygonService {
	return &PolygonService{polygons: polygons, cache: cache, events: events}
}

// List returns every stored polygon.
func (s *PolygonService) List(ctx context.Context) ([]domain.Polygon, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanPolygonList)
	defer span.End()

	return readThrough(ctx, s.cache, cacheKeyPolygons, s.polygons.List)
}

// Get returns a single polygon.
func (s *PolygonService) Get(ctx context.Context, id string) (*domain.Polygon, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanPolygonGet)
	defer span.End()

	return s.polygons.GetByID(ctx, id)
}

// Create validates and stores a polygon. The ring needs at least three
// distinct valid points and is stored closed.
func (s *PolygonService) Create(ctx context.Context, name string, ring domain.Ring) (*domain.Polygon, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanPolygonCreate)
	defer span.End()

	if err := validateRing(ring); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = domain.DefaultPolygonName
	}

	p := &domain.Polygon{Name: name, Ring: geospatial.CloseRing(ring)}
	if err := s.polygons.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create polygon: %w", err)
	}
	span.SetAttributes(attribute.String("polygon.id", p.ID.String()))

	invalidate(ctx, s.cache, cacheKeyPolygons)
	announce(ctx, s.events, domain.EntityPolygon, domain.ActionCreated, p.ID.String())
	return p, nil
}

// Delete removes a polygon. Unknown ids return domain.ErrNotFound.
func (s *PolygonService) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanPolygonDelete)
	defer span.End()
	span.SetAttributes(attribute.String("polygon.id", id))

	if err := s.polygons.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete polygon %s: %w", id, err)
	}

	invalidate(ctx, s.cache, cacheKeyPolygons)
	announce(ctx, s.events, domain.EntityPolygon, domain.ActionDeleted, id)
	return nil
}

func validateRing(ring domain.Ring) error {
	for i, p := range ring {
		if err := domain.ValidatePoint(p); err != nil {
			return fmt.Errorf("vertex %d: %w", i, err)
		}
	}
	if domain.DistinctPoints(ring) < 3 {
		return fmt.Errorf("%w: ring needs at least 3 distinct points", domain.ErrInvalidGeometry)
	}
	return nil
}
