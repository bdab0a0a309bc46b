package usecases_test

import (
	"context"
	"errors"
	"sync"

	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/domain"
)

// --- Mock PointRepository ---

type mockPointRepo struct {
	listFn        func(ctx context.Context, limit, offset int) ([]domain.POI, int, error)
	getByIDFn     func(ctx context.Context, id string) (*domain.POI, error)
	findNearbyFn  func(ctx context.Context, lat, lon, radius float64, limit int) ([]domain.POI, error)
	upsertBatchFn func(ctx context.Context, pois []domain.POI) error
}

func (m *mockPointRepo) Upsert(ctx context.Context, poi *domain.POI) error { return nil }

func (m *mockPointRepo) UpsertBatch(ctx context.Context, pois []domain.POI) error {
	if m.upsertBatchFn != nil {
		return m.upsertBatchFn(ctx, pois)
	}
	return nil
}

func (m *mockPointRepo) GetByID(ctx context.Context, id string) (*domain.POI, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrPointNotFound
}

func (m *mockPointRepo) List(ctx context.Context, limit, offset int) ([]domain.POI, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, limit, offset)
	}
	return nil, 0, nil
}

func (m *mockPointRepo) FindNearby(ctx context.Context, lat, lon, radius float64, limit int) ([]domain.POI, error) {
	if m.findNearbyFn != nil {
		return m.findNearbyFn(ctx, lat, lon, radius, limit)
	}
	return nil, nil
}

// --- Mock PointProvider ---

type mockProvider struct {
	points []domain.POI
	err    error
	calls  int
}

func (m *mockProvider) FetchPoints(ctx context.Context) ([]domain.POI, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.points, nil
}

// --- Mock CacheService ---

var errCacheMiss = errors.New("cache miss")

type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, errCacheMiss
	}
	return v, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.sets++
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// --- Mock RoutePresenter ---

type mockPresenter struct {
	mu     sync.Mutex
	routes []domain.Route
}

func (m *mockPresenter) Present(ctx context.Context, route domain.Route) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes = append(m.routes, route)
	return nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	devices []string
	routes  []*domain.Route
	err     error
}

func (m *mockPublisher) PublishRoute(ctx context.Context, deviceID string, route *domain.Route) error {
	if m.err != nil {
		return m.err
	}
	m.devices = append(m.devices, deviceID)
	m.routes = append(m.routes, route)
	return nil
}

func (m *mockPublisher) PublishBroadcast(ctx context.Context, data []byte) error { return nil }

func titles(pois []domain.POI) []string {
	out := make([]string, len(pois))
	for i, p := range pois {
		out[i] = p.Title
	}
	return out
}
