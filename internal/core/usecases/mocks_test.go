package usecases_test

import (
	"context"
	"errors"
	"sync"

	"github.com/samirrijal/geotriangle/internal/core/domain"
)

// --- Mock PointRepository ---

type mockPointRepo struct {
	getByIDFn func(ctx context.Context, id int) (*domain.Point, error)
	listFn    func(ctx context.Context) ([]domain.Point, error)
	calls     int
}

func (m *mockPointRepo) GetByID(ctx context.Context, id int) (*domain.Point, error) {
	m.calls++
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrPointNotFound
}

func (m *mockPointRepo) List(ctx context.Context) ([]domain.Point, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

// tableRepo serves a fixed set of points.
func tableRepo(points ...domain.Point) *mockPointRepo {
	byID := make(map[int]domain.Point, len(points))
	for _, p := range points {
		byID[p.ID] = p
	}
	return &mockPointRepo{
		getByIDFn: func(ctx context.Context, id int) (*domain.Point, error) {
			p, ok := byID[id]
			if !ok {
				return nil, domain.ErrPointNotFound
			}
			return &p, nil
		},
		listFn: func(ctx context.Context) ([]domain.Point, error) {
			return points, nil
		},
	}
}

// --- Mock CacheService ---

var errMiss = errors.New("miss")

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
		return nil, errMiss
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

// --- Mock EventPublisher ---

type mockPublisher struct {
	events []*domain.PerimeterComputed
	err    error
}

func (m *mockPublisher) PublishPerimeterComputed(ctx context.Context, event *domain.PerimeterComputed) error {
	m.events = append(m.events, event)
	return m.err
}

var samplePoints = []domain.Point{
	{ID: 1, X: 51.1, Y: 35.5},
	{ID: 2, X: 52.3, Y: 34.3},
	{ID: 3, X: 53.2, Y: 32.3},
	{ID: 4, X: 49.9, Y: 35.7},
}
