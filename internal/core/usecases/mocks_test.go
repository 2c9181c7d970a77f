package usecases_test

import (
	"context"
	"errors"
	"sync"

	"github.com/samirrijal/polymap/internal/core/domain"
)

// --- Mock PolygonRepository ---

type mockPolygonRepo struct {
	listFn    func(ctx context.Context) ([]domain.Polygon, error)
	getByIDFn func(ctx context.Context, id string) (*domain.Polygon, error)
	createFn  func(ctx context.Context, p *domain.Polygon) error
	deleteFn  func(ctx context.Context, id string) error
}

func (m *mockPolygonRepo) List(ctx context.Context) ([]domain.Polygon, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockPolygonRepo) GetByID(ctx context.Context, id string) (*domain.Polygon, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockPolygonRepo) Create(ctx context.Context, p *domain.Polygon) error {
	if m.createFn != nil {
		return m.createFn(ctx, p)
	}
	p.ID = domain.RemoteID("p-1")
	return nil
}

func (m *mockPolygonRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// --- Mock ObjectRepository ---

type mockObjectRepo struct {
	listFn   func(ctx context.Context) ([]domain.MapObject, error)
	createFn func(ctx context.Context, o *domain.MapObject) error
	deleteFn func(ctx context.Context, id string) error
}

func (m *mockObjectRepo) List(ctx context.Context) ([]domain.MapObject, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockObjectRepo) GetByID(ctx context.Context, id string) (*domain.MapObject, error) {
	return nil, domain.ErrNotFound
}

func (m *mockObjectRepo) Create(ctx context.Context, o *domain.MapObject) error {
	if m.createFn != nil {
		return m.createFn(ctx, o)
	}
	o.ID = domain.RemoteID("o-1")
	return nil
}

func (m *mockObjectRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// --- Mock CacheService ---

var errCacheMiss = errors.New("cache miss")

type mockCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	deletes []string
}

func newMockCache() *mockCache { return &mockCache{data: make(map[string][]byte)} }

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, errCacheMiss
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	m.deletes = append(m.deletes, key)
	return nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	changes []domain.Change
	err     error
}

func (m *mockPublisher) PublishChange(ctx context.Context, change domain.Change) error {
	m.changes = append(m.changes, change)
	return m.err
}
