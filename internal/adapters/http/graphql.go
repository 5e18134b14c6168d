package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/geotriangle/internal/core/domain"
	"github.com/samirrijal/geotriangle/internal/pkg/metrics"
)

// buildSchema creates the GraphQL schema wired to our services.
//
// point and trianglePerimeter keep the zero-valued sentinel for unknown IDs;
// perimeter reports invalid coordinates as GraphQL errors.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	pointType := graphql.NewObject(graphql.ObjectConfig{
		Name:        "Point",
		Description: "Table entry; x is longitude and y latitude in degrees. id 0 means not found.",
		Fields: graphql.Fields{
			"id": &graphql.Field{Type: graphql.Int},
			"x":  &graphql.Field{Type: graphql.Float},
			"y":  &graphql.Field{Type: graphql.Float},
		},
	})

	perimeterType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PerimeterResult",
		Fields: graphql.Fields{
			"vertices":     &graphql.Field{Type: graphql.NewList(geoPointType)},
			"sides_m":      &graphql.Field{Type: graphql.NewList(graphql.Float)},
			"perimeter_m":  &graphql.Field{Type: graphql.Float},
			"perimeter_km": &graphql.Field{Type: graphql.Float},
		},
	})

	nonNullFloat := func() *graphql.ArgumentConfig {
		return &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)}
	}
	nonNullInt := func() *graphql.ArgumentConfig {
		return &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)}
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"points": &graphql.Field{
				Type:        graphql.NewList(pointType),
				Description: "List the point table",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Points.List(p.Context)
				},
			},
			"point": &graphql.Field{
				Type:        pointType,
				Description: "Get a point by ID; unknown IDs return an all-zero point",
				Args: graphql.FieldConfigArgument{
					"id": nonNullInt(),
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := p.Args["id"].(int)
					pt, err := deps.Points.GetByID(p.Context, id)
					if errors.Is(err, domain.ErrPointNotFound) {
						metrics.LookupMisses.WithLabelValues("point").Inc()
						return domain.Point{}, nil
					}
					if err != nil {
						return nil, err
					}
					return *pt, nil
				},
			},
			"trianglePerimeter": &graphql.Field{
				Type:        graphql.Float,
				Description: "Perimeter in meters of the triangle formed by three point IDs; 0 if any ID is unknown",
				Args: graphql.FieldConfigArgument{
					"id1": nonNullInt(),
					"id2": nonNullInt(),
					"id3": nonNullInt(),
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					res, err := deps.Perimeters.ByIDs(p.Context,
						p.Args["id1"].(int), p.Args["id2"].(int), p.Args["id3"].(int))
					if errors.Is(err, domain.ErrPointNotFound) {
						return 0.0, nil
					}
					if err != nil {
						return nil, err
					}
					return res.PerimeterM, nil
				},
			},
			"perimeter": &graphql.Field{
				Type:        perimeterType,
				Description: "Perimeter of the triangle with the given vertices in degrees",
				Args: graphql.FieldConfigArgument{
					"lat1": nonNullFloat(), "lon1": nonNullFloat(),
					"lat2": nonNullFloat(), "lon2": nonNullFloat(),
					"lat3": nonNullFloat(), "lon3": nonNullFloat(),
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					arg := func(k string) float64 { return p.Args[k].(float64) }
					res, err := deps.Perimeters.FromCoordinates(p.Context,
						domain.GeoPoint{Lat: arg("lat1"), Lon: arg("lon1")},
						domain.GeoPoint{Lat: arg("lat2"), Lon: arg("lon2")},
						domain.GeoPoint{Lat: arg("lat3"), Lon: arg("lon3")},
					)
					if err != nil {
						return nil, err
					}
					return perimeterToMap(res), nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// perimeterToMap converts fixed-size arrays to slices for graphql-go.
func perimeterToMap(res *domain.PerimeterResult) map[string]interface{} {
	vertices := make([]domain.GeoPoint, len(res.Vertices))
	copy(vertices, res.Vertices[:])
	return map[string]interface{}{
		"vertices":     vertices,
		"sides_m":      res.SidesM[:],
		"perimeter_m":  res.PerimeterM,
		"perimeter_km": res.PerimeterKm,
	}
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
