// Package memory holds the in-process point table.
package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/samirrijal/geotriangle/internal/core/domain"
)

// PointTable is an immutable ID → point mapping. It is built once at startup
// and safe for concurrent reads.
type PointTable struct {
	byID   map[int]domain.Point
	sorted []domain.Point
}

// DefaultPoints returns the built-in sample dataset.
func DefaultPoints() []domain.Point {
	return []domain.Point{
		{ID: 1, X: 51.1, Y: 35.5},
		{ID: 2, X: 52.3, Y: 34.3},
		{ID: 3, X: 53.2, Y: 32.3},
		{ID: 4, X: 49.9, Y: 35.7},
	}
}

// NewPointTable copies points into a new table. IDs must be positive and
// unique (0 is reserved for the not-found sentinel) and coordinates must be
// valid WGS 84 degrees.
func NewPointTable(points []domain.Point) (*PointTable, error) {
	t := &PointTable{
		byID:   make(map[int]domain.Point, len(points)),
		sorted: make([]domain.Point, 0, len(points)),
	}
	for _, p := range points {
		if p.ID <= 0 {
			return nil, fmt.Errorf("point id must be positive, got %d", p.ID)
		}
		if _, dup := t.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate point id %d", p.ID)
		}
		if err := p.GeoPoint().Validate(fmt.Sprintf("point %d", p.ID)); err != nil {
			return nil, err
		}
		t.byID[p.ID] = p
		t.sorted = append(t.sorted, p)
	}
	sort.Slice(t.sorted, func(i, j int) bool { return t.sorted[i].ID < t.sorted[j].ID })
	return t, nil
}

// GetByID implements ports.PointRepository.
func (t *PointTable) GetByID(_ context.Context, id int) (*domain.Point, error) {
	p, ok := t.byID[id]
	if !ok {
		return nil, domain.ErrPointNotFound
	}
	return &p, nil
}

// List implements ports.PointRepository. The returned slice is a copy.
func (t *PointTable) List(_ context.Context) ([]domain.Point, error) {
	out := make([]domain.Point, len(t.sorted))
	copy(out, t.sorted)
	return out, nil
}

// Len returns the number of points.
func (t *PointTable) Len() int {
	return len(t.sorted)
}
