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

// ObjectService handles map object persistence and containment queries.
type ObjectService struct {
	objects  ports.ObjectRepository
	polygons ports.PolygonRepository
	cache    ports.CacheService
	events   ports.EventPublisher
}

// NewObjectService creates a new ObjectService. cache and events may be nil.
func NewObjectService(
	objects ports.ObjectRepository,
	polygons ports.PolygonRepository,
	cache ports.CacheService,
	events ports.EventPublisher,
) *ObjectService {
	return &ObjectService{objects: objects, polygons: polygons, cache: cache, events: events}
}

// List returns every stored object.
func (s *ObjectService) List(ctx context.Context) ([]domain.MapObject, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanObjectList)
	defer span.End()

	return readThrough(ctx, s.cache, cacheKeyObjects, s.objects.List)
}

// Create validates and stores an object.
func (s *ObjectService) Create(ctx context.Context, objectType string, position domain.Point) (*domain.MapObject, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanObjectCreate)
	defer span.End()

	objectType = strings.TrimSpace(objectType)
	if objectType == "" {
		return nil, fmt.Errorf("%w: object type must not be empty", domain.ErrInvalidGeometry)
	}
	if err := domain.ValidatePoint(position); err != nil {
		return nil, err
	}

	o := &domain.MapObject{Type: objectType, Position: position}
	if err := s.objects.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("create object: %w", err)
	}
	span.SetAttributes(attribute.String("object.id", o.ID.String()))

	invalidate(ctx, s.cache, cacheKeyObjects)
	announce(ctx, s.events, domain.EntityObject, domain.ActionCreated, o.ID.String())
	return o, nil
}

// Delete removes an object. Unknown ids return domain.ErrNotFound.
func (s *ObjectService) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanObjectDelete)
	defer span.End()
	span.SetAttributes(attribute.String("object.id", id))

	if err := s.objects.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete object %s: %w", id, err)
	}

	invalidate(ctx, s.cache, cacheKeyObjects)
	announce(ctx, s.events, domain.EntityObject, domain.ActionDeleted, id)
	return nil
}

// InPolygon returns the stored objects enclosed by polygon id.
func (s *ObjectService) InPolygon(ctx context.Context, polygonID string) ([]domain.MapObject, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanObjectsEnclose)
	defer span.End()

	poly, err := s.polygons.GetByID(ctx, polygonID)
	if err != nil {
		return nil, fmt.Errorf("polygon %s: %w", polygonID, err)
	}
	objects, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	var enclosed []domain.MapObject
	for _, o := range objects {
		if geospatial.PointInPolygon(o.Position, poly.Ring) {
			enclosed = append(enclosed, o)
		}
	}
	span.SetAttributes(attribute.Int("objects.enclosed", len(enclosed)))
	return enclosed, nil
}
