package gateway

import (
	"context"

	"github.com/samirrijal/polymap/internal/core/domain"
)

// PolygonService is the subset of usecases.PolygonService Local needs.
type PolygonService interface {
	List(ctx context.Context) ([]domain.Polygon, error)
	Create(ctx context.Context, name string, ring domain.Ring) (*domain.Polygon, error)
	Delete(ctx context.Context, id string) error
}

// ObjectService is the subset of usecases.ObjectService Local needs.
type ObjectService interface {
	List(ctx context.Context) ([]domain.MapObject, error)
	Create(ctx context.Context, objectType string, position domain.Point) (*domain.MapObject, error)
	Delete(ctx context.Context, id string) error
}

// Local serves editor sessions hosted by the API process itself, skipping
// the HTTP round trip.
type Local struct {
	polygons PolygonService
	objects  ObjectService
}

// NewLocal creates a Local gateway.
func NewLocal(polygons PolygonService, objects ObjectService) *Local {
	return &Local{polygons: polygons, objects: objects}
}

func (l *Local) ListPolygons(ctx context.Context) ([]domain.Polygon, error) {
	return l.polygons.List(ctx)
}

func (l *Local) CreatePolygon(ctx context.Context, name string, ring domain.Ring) (string, error) {
	p, err := l.polygons.Create(ctx, name, ring)
	if err != nil {
		return "", err
	}
	return p.ID.Value(), nil
}

func (l *Local) DeletePolygon(ctx context.Context, id string) error {
	return l.polygons.Delete(ctx, id)
}

func (l *Local) ListObjects(ctx context.Context) ([]domain.MapObject, error) {
	return l.objects.List(ctx)
}

func (l *Local) CreateObject(ctx context.Context, objectType string, position domain.Point) (string, error) {
	o, err := l.objects.Create(ctx, objectType, position)
	if err != nil {
		return "", err
	}
	return o.ID.Value(), nil
}

func (l *Local) DeleteObject(ctx context.Context, id string) error {
	return l.objects.Delete(ctx, id)
}
