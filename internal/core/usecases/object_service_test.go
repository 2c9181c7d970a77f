package usecases_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/samirrijal/polymap/internal/core/domain"
	"github.com/samirrijal/polymap/internal/core/usecases"
)

func TestObjectService_Create(t *testing.T) {
	pub := &mockPublisher{}
	cache := newMockCache()
	svc := usecases.NewObjectService(&mockObjectRepo{}, &mockPolygonRepo{}, cache, pub)

	o, err := svc.Create(context.Background(), "Tree", domain.Point{34.78, 32.07})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.ID != domain.RemoteID("o-1") || o.Type != "Tree" {
		t.Errorf("unexpected object %+v", o)
	}
	if len(pub.changes) != 1 || pub.changes[0].Entity != domain.EntityObject {
		t.Errorf("expected object change, got %+v", pub.changes)
	}
	if len(cache.deletes) != 1 || cache.deletes[0] != "objects:all" {
		t.Errorf("expected objects list invalidated, got %v", cache.deletes)
	}
}

func TestObjectService_Create_Invalid(t *testing.T) {
	svc := usecases.NewObjectService(&mockObjectRepo{}, &mockPolygonRepo{}, nil, nil)

	if _, err := svc.Create(context.Background(), "", domain.Point{1, 1}); !errors.Is(err, domain.ErrInvalidGeometry) {
		t.Errorf("empty type: expected ErrInvalidGeometry, got %v", err)
	}
	if _, err := svc.Create(context.Background(), "Tree", domain.Point{math.Inf(1), 1}); !errors.Is(err, domain.ErrInvalidGeometry) {
		t.Errorf("infinite position: expected ErrInvalidGeometry, got %v", err)
	}
}

func TestObjectService_InPolygon(t *testing.T) {
	polygons := &mockPolygonRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Polygon, error) {
			if id != "sq" {
				return nil, domain.ErrNotFound
			}
			return &domain.Polygon{ID: domain.RemoteID("sq"), Ring: domain.Ring{{0, 0}, {0, 4}, {4, 4}, {4, 0}, {0, 0}}}, nil
		},
	}
	objects := &mockObjectRepo{
		listFn: func(ctx context.Context) ([]domain.MapObject, error) {
			return []domain.MapObject{
				{ID: domain.RemoteID("a"), Position: domain.Point{2, 2}},
				{ID: domain.RemoteID("b"), Position: domain.Point{10, 10}},
				{ID: domain.RemoteID("c"), Position: domain.Point{1, 3}},
			}, nil
		},
	}
	svc := usecases.NewObjectService(objects, polygons, nil, nil)

	got, err := svc.InPolygon(context.Background(), "sq")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != domain.RemoteID("a") || got[1].ID != domain.RemoteID("c") {
		t.Errorf("expected a then c, got %+v", got)
	}

	if _, err := svc.InPolygon(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestObjectService_Delete(t *testing.T) {
	var deleted string
	objects := &mockObjectRepo{
		deleteFn: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	pub := &mockPublisher{}
	svc := usecases.NewObjectService(objects, &mockPolygonRepo{}, nil, pub)

	if err := svc.Delete(context.Background(), "o-9"); err != nil {
		t.Fatal(err)
	}
	if deleted != "o-9" || len(pub.changes) != 1 || pub.changes[0].Action != domain.ActionDeleted {
		t.Errorf("unexpected delete %q %+v", deleted, pub.changes)
	}
}
