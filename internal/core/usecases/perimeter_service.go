package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samirrijal/geotriangle/internal/core/domain"
	"github.com/samirrijal/geotriangle/internal/core/ports"
	"github.com/samirrijal/geotriangle/internal/pkg/geospatial"
	"github.com/samirrijal/geotriangle/internal/pkg/metrics"
)

var tracer = otel.Tracer("github.com/samirrijal/geotriangle/internal/core/usecases")

// PerimeterService computes triangle perimeters from table IDs or from raw
// coordinates.
type PerimeterService struct {
	points    *PointService
	cache     ports.CacheService
	publisher ports.EventPublisher
	cacheTTL  int
	now       func() time.Time
}

// NewPerimeterService creates a new PerimeterService. cache and publisher
// may be nil.
func NewPerimeterService(
	points *PointService,
	cache ports.CacheService,
	publisher ports.EventPublisher,
	cacheTTL int,
) *PerimeterService {
	return &PerimeterService{
		points:    points,
		cache:     cache,
		publisher: publisher,
		cacheTTL:  cacheTTL,
		now:       time.Now,
	}
}

// ByIDs computes the perimeter of the triangle formed by three table points.
// An unknown ID yields an error wrapping domain.ErrPointNotFound.
func (s *PerimeterService) ByIDs(ctx context.Context, id1, id2, id3 int) (*domain.PerimeterResult, error) {
	ctx, span := tracer.Start(ctx, "perimeter.by_ids")
	defer span.End()
	span.SetAttributes(attribute.IntSlice("point.ids", []int{id1, id2, id3}))

	cacheKey := fmt.Sprintf("perimeter:ids:%d:%d:%d", id1, id2, id3)
	res := s.cached(ctx, cacheKey)
	if res == nil {
		tri, err := s.lookup(ctx, id1, id2, id3)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "point lookup failed")
			return nil, err
		}
		res = compute(tri)

		if s.cache != nil {
			if data, err := json.Marshal(res); err == nil {
				_ = s.cache.Set(ctx, cacheKey, data, s.cacheTTL)
			}
		}
	}

	s.publish(ctx, &domain.PerimeterComputed{
		Source:     domain.SourceIDs,
		PointIDs:   []int{id1, id2, id3},
		Vertices:   res.Vertices,
		PerimeterM: res.PerimeterM,
		ComputedAt: s.now().UTC(),
	})
	metrics.PerimetersComputed.WithLabelValues(domain.SourceIDs).Inc()
	span.SetAttributes(attribute.Float64("perimeter.m", res.PerimeterM))

	return res, nil
}

// cached returns the stored result for key, or nil on a miss or without a
// cache.
func (s *PerimeterService) cached(ctx context.Context, key string) *domain.PerimeterResult {
	if s.cache == nil {
		return nil
	}
	if data, err := s.cache.Get(ctx, key); err == nil {
		var res domain.PerimeterResult
		if err := json.Unmarshal(data, &res); err == nil {
			metrics.CacheHits.WithLabelValues("perimeter").Inc()
			return &res
		}
	}
	metrics.CacheMisses.WithLabelValues("perimeter").Inc()
	return nil
}

func (s *PerimeterService) lookup(ctx context.Context, ids ...int) (domain.Triangle, error) {
	var tri domain.Triangle
	for i, id := range ids {
		p, err := s.points.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrPointNotFound) {
				metrics.LookupMisses.WithLabelValues("perimeter").Inc()
			}
			return tri, err
		}
		tri[i] = p.GeoPoint()
	}
	return tri, nil
}

// FromCoordinates validates the three vertices and computes the perimeter.
// Invalid vertices yield a *domain.CoordinateError naming the point.
func (s *PerimeterService) FromCoordinates(ctx context.Context, p1, p2, p3 domain.GeoPoint) (*domain.PerimeterResult, error) {
	ctx, span := tracer.Start(ctx, "perimeter.from_coordinates")
	defer span.End()

	tri := domain.Triangle{p1, p2, p3}
	if err := tri.Validate(); err != nil {
		var ce *domain.CoordinateError
		if errors.As(err, &ce) {
			metrics.ValidationErrors.WithLabelValues(ce.Reason()).Inc()
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid coordinates")
		return nil, err
	}

	res := compute(tri)

	s.publish(ctx, &domain.PerimeterComputed{
		Source:     domain.SourceCoordinates,
		Vertices:   tri,
		PerimeterM: res.PerimeterM,
		ComputedAt: s.now().UTC(),
	})
	metrics.PerimetersComputed.WithLabelValues(domain.SourceCoordinates).Inc()
	span.SetAttributes(attribute.Float64("perimeter.m", res.PerimeterM))

	return res, nil
}

func (s *PerimeterService) publish(ctx context.Context, event *domain.PerimeterComputed) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishPerimeterComputed(ctx, event); err != nil {
		slog.WarnContext(ctx, "publish perimeter event failed", "source", event.Source, "error", err)
	}
}

func compute(tri domain.Triangle) *domain.PerimeterResult {
	sides := tri.Sides()
	perimeter := sides[0] + sides[1] + sides[2]
	return &domain.PerimeterResult{
		Vertices:    tri,
		SidesM:      sides,
		PerimeterM:  perimeter,
		PerimeterKm: geospatial.MetersToKm(perimeter),
	}
}
