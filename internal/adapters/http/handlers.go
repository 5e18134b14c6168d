package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/geotriangle/internal/core/domain"
	"github.com/samirrijal/geotriangle/internal/pkg/metrics"
)

// PerimeterResponse is the ID-based perimeter payload. A zero value means at
// least one ID was not found.
type PerimeterResponse struct {
	PerimeterM float64 `json:"perimeter_m"`
}

// ListPointsHandler returns the point table.
func ListPointsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		points, err := deps.Points.List(c.UserContext())
		if err != nil {
			return errInternal(c, err.Error())
		}

		page, pg := paginate(c, points)
		return c.JSON(PaginatedResponse{Data: page, Pagination: pg})
	}
}

// GetPointHandler returns a point by ID. Unknown IDs yield the all-zero
// sentinel point with status 200.
func GetPointHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.Atoi(c.Params("id"))
		if err != nil {
			return errBadRequest(c, "point id must be an integer")
		}

		ctx := c.UserContext()
		p, err := deps.Points.GetByID(ctx, id)
		if errors.Is(err, domain.ErrPointNotFound) {
			metrics.LookupMisses.WithLabelValues("point").Inc()
			LoggerFromCtx(ctx).Debug("point not found, returning sentinel", "id", id)
			return c.JSON(domain.Point{})
		}
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(p)
	}
}

// TrianglePerimeterHandler computes the perimeter of the triangle formed by
// the points id1, id2 and id3. Unknown IDs yield perimeter_m = 0 with
// status 200.
func TrianglePerimeterHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var ids [3]int
		for i, name := range []string{"id1", "id2", "id3"} {
			raw := c.Query(name)
			if raw == "" {
				return errBadRequest(c, name+" query parameter is required")
			}
			id, err := strconv.Atoi(raw)
			if err != nil {
				return errBadRequest(c, name+" must be an integer")
			}
			ids[i] = id
		}

		ctx := c.UserContext()
		res, err := deps.Perimeters.ByIDs(ctx, ids[0], ids[1], ids[2])
		if errors.Is(err, domain.ErrPointNotFound) {
			LoggerFromCtx(ctx).Debug("triangle references unknown point, returning sentinel",
				"id1", ids[0], "id2", ids[1], "id3", ids[2])
			return c.JSON(PerimeterResponse{})
		}
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(PerimeterResponse{PerimeterM: res.PerimeterM})
	}
}

// CoordinatePerimeterHandler computes the perimeter from lat1..lon3 query
// parameters given in degrees.
func CoordinatePerimeterHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var tri domain.Triangle
		for i := range tri {
			n := strconv.Itoa(i + 1)
			p, err := domain.ParseGeoPoint(domain.VertexName(i), c.Query("lat"+n), c.Query("lon"+n))
			if err != nil {
				var ce *domain.CoordinateError
				if errors.As(err, &ce) {
					metrics.ValidationErrors.WithLabelValues(ce.Reason()).Inc()
				}
				return errCoordinate(c, err)
			}
			tri[i] = p
		}

		res, err := deps.Perimeters.FromCoordinates(c.UserContext(), tri[0], tri[1], tri[2])
		if err != nil {
			return errCoordinate(c, err)
		}
		return c.JSON(res)
	}
}
