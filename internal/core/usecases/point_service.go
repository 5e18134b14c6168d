package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/samirrijal/geotriangle/internal/core/domain"
	"github.com/samirrijal/geotriangle/internal/core/ports"
	"github.com/samirrijal/geotriangle/internal/pkg/metrics"
)

// PointService handles point lookups against the preloaded table.
type PointService struct {
	points   ports.PointRepository
	cache    ports.CacheService
	cacheTTL int
}

// NewPointService creates a new PointService. cache may be nil.
func NewPointService(points ports.PointRepository, cache ports.CacheService, cacheTTL int) *PointService {
	return &PointService{points: points, cache: cache, cacheTTL: cacheTTL}
}

// GetByID returns the point with the given ID, or an error wrapping
// domain.ErrPointNotFound.
func (s *PointService) GetByID(ctx context.Context, id int) (*domain.Point, error) {
	cacheKey := "points:id:" + strconv.Itoa(id)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var p domain.Point
			if err := json.Unmarshal(data, &p); err == nil {
				metrics.CacheHits.WithLabelValues("point").Inc()
				return &p, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("point").Inc()
	}

	p, err := s.points.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("point %d: %w", id, err)
	}

	if s.cache != nil {
		if data, err := json.Marshal(p); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, s.cacheTTL)
		}
	}

	return p, nil
}

// List returns every point of the table ordered by ID.
func (s *PointService) List(ctx context.Context) ([]domain.Point, error) {
	return s.points.List(ctx)
}
