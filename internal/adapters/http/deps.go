package http

import (
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/geotriangle/internal/adapters/postgres"
	"github.com/samirrijal/geotriangle/internal/adapters/valkey"
	"github.com/samirrijal/geotriangle/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
// NATS, DB and Cache are optional and may be nil.
type Dependencies struct {
	Points      *usecases.PointService
	Perimeters  *usecases.PerimeterService
	NATS        *nats.Conn
	DB          *postgres.DB
	Cache       *valkey.Cache
	RateLimit   int    // requests per minute per IP, 0 means the default
	OpenAPIPath string // defaults to api/openapi.yaml
}
