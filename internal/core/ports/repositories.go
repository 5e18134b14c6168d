package ports

import (
	"context"

	"github.com/samirrijal/geotriangle/internal/core/domain"
)

// PointRepository looks up points of the preloaded table.
// GetByID returns domain.ErrPointNotFound for unknown IDs.
type PointRepository interface {
	GetByID(ctx context.Context, id int) (*domain.Point, error)
	List(ctx context.Context) ([]domain.Point, error)
}
