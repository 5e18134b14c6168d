package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/geotriangle/internal/core/domain"
)

// PointRepo implements ports.PointRepository over the points table.
// It is used to seed the in-memory table at startup.
type PointRepo struct {
	db *DB
}

func NewPointRepo(db *DB) *PointRepo {
	return &PointRepo{db: db}
}

func (r *PointRepo) GetByID(ctx context.Context, id int) (*domain.Point, error) {
	p := &domain.Point{}
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, x, y FROM points WHERE id = $1
	`, id).Scan(&p.ID, &p.X, &p.Y)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPointNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PointRepo) List(ctx context.Context) ([]domain.Point, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, x, y FROM points ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []domain.Point
	for rows.Next() {
		var p domain.Point
		if err := rows.Scan(&p.ID, &p.X, &p.Y); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// Upsert inserts or replaces a point.
func (r *PointRepo) Upsert(ctx context.Context, p domain.Point) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO points (id, x, y)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET x = EXCLUDED.x, y = EXCLUDED.y
	`, p.ID, p.X, p.Y)
	return err
}
