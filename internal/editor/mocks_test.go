package editor_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/paulmach/orb/geojson"

	"github.com/samirrijal/polymap/internal/core/domain"
)

// --- Mock MapSurface ---

type mockSurface struct {
	layers  map[string]*geojson.FeatureCollection
	dragPan []bool
}

func newMockSurface() *mockSurface {
	return &mockSurface{layers: make(map[string]*geojson.FeatureCollection)}
}

func (m *mockSurface) SetLayer(name string, fc *geojson.FeatureCollection) error {
	m.layers[name] = fc
	return nil
}

func (m *mockSurface) SetDragPan(enabled bool) { m.dragPan = append(m.dragPan, enabled) }

func (m *mockSurface) features(layer string) int {
	fc, ok := m.layers[layer]
	if !ok {
		return -1
	}
	return len(fc.Features)
}

// --- Mock Gateway ---

type mockGateway struct {
	mu    sync.Mutex
	calls []string
	seq   int

	listPolygonsFn  func(ctx context.Context) ([]domain.Polygon, error)
	createPolygonFn func(ctx context.Context, name string, ring domain.Ring) (string, error)
	deletePolygonFn func(ctx context.Context, id string) error
	listObjectsFn   func(ctx context.Context) ([]domain.MapObject, error)
	createObjectFn  func(ctx context.Context, objectType string, pos domain.Point) (string, error)
	deleteObjectFn  func(ctx context.Context, id string) error
}

func (m *mockGateway) record(call string) {
	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()
}

func (m *mockGateway) nextID(prefix string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *mockGateway) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *mockGateway) count(prefix string) int {
	n := 0
	for _, c := range m.Calls() {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func (m *mockGateway) ListPolygons(ctx context.Context) ([]domain.Polygon, error) {
	m.record("list_polygons")
	if m.listPolygonsFn != nil {
		return m.listPolygonsFn(ctx)
	}
	return nil, nil
}

func (m *mockGateway) CreatePolygon(ctx context.Context, name string, ring domain.Ring) (string, error) {
	m.record("create_polygon")
	if m.createPolygonFn != nil {
		return m.createPolygonFn(ctx, name, ring)
	}
	return m.nextID("p"), nil
}

func (m *mockGateway) DeletePolygon(ctx context.Context, id string) error {
	m.record("delete_polygon:" + id)
	if m.deletePolygonFn != nil {
		return m.deletePolygonFn(ctx, id)
	}
	return nil
}

func (m *mockGateway) ListObjects(ctx context.Context) ([]domain.MapObject, error) {
	m.record("list_objects")
	if m.listObjectsFn != nil {
		return m.listObjectsFn(ctx)
	}
	return nil, nil
}

func (m *mockGateway) CreateObject(ctx context.Context, objectType string, pos domain.Point) (string, error) {
	m.record("create_object")
	if m.createObjectFn != nil {
		return m.createObjectFn(ctx, objectType, pos)
	}
	return m.nextID("o"), nil
}

func (m *mockGateway) DeleteObject(ctx context.Context, id string) error {
	m.record("delete_object:" + id)
	if m.deleteObjectFn != nil {
		return m.deleteObjectFn(ctx, id)
	}
	return nil
}

// --- helpers ---

func square(size float64) domain.Ring {
	return domain.Ring{{0, 0}, {0, size}, {size, size}, {size, 0}, {0, 0}}
}

func ringsEqual(a, b domain.Ring) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
