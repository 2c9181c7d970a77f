package ports

import (
	"context"

	"github.com/samirrijal/polymap/internal/core/domain"
)

// PolygonRepository persists polygons.
type PolygonRepository interface {
	List(ctx context.Context) ([]domain.Polygon, error)
	GetByID(ctx context.Context, id string) (*domain.Polygon, error)
	// Create stores p and sets its remote ID and CreatedAt.
	Create(ctx context.Context, p *domain.Polygon) error
	Delete(ctx context.Context, id string) error
}

// ObjectRepository persists map objects.
type ObjectRepository interface {
	List(ctx context.Context) ([]domain.MapObject, error)
	GetByID(ctx context.Context, id string) (*domain.MapObject, error)
	// Create stores o and sets its remote ID and CreatedAt.
	Create(ctx context.Context, o *domain.MapObject) error
	Delete(ctx context.Context, id string) error
}
