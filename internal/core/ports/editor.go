package ports

import (
	"context"

	"github.com/paulmach/orb/geojson"

	"github.com/samirrijal/polymap/internal/core/domain"
)

// Gateway is the persistence contract the editor saves through. Ids at this
// boundary are bare server ids.
type Gateway interface {
	ListPolygons(ctx context.Context) ([]domain.Polygon, error)
	CreatePolygon(ctx context.Context, name string, ring domain.Ring) (string, error)
	DeletePolygon(ctx context.Context, id string) error

	ListObjects(ctx context.Context) ([]domain.MapObject, error)
	CreateObject(ctx context.Context, objectType string, position domain.Point) (string, error)
	DeleteObject(ctx context.Context, id string) error
}

// MapSurface is the rendering capability an editor session draws onto.
// Implementations are supplied by the host; the editor never builds one.
type MapSurface interface {
	SetLayer(name string, fc *geojson.FeatureCollection) error
	SetDragPan(enabled bool)
}
