package ports

import (
	"context"

	"github.com/samirrijal/geotriangle/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishPerimeterComputed(ctx context.Context, event *domain.PerimeterComputed) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
}
