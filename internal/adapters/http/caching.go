package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control headers on successful GET responses.
// The point table is immutable for the life of the process, so point and
// ID-based perimeter responses can be cached longer than coordinate ones.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != fiber.MethodGet || c.Response().StatusCode() != fiber.StatusOK {
			return err
		}
		if existing := c.GetRespHeader(fiber.HeaderCacheControl); existing != "" {
			return err
		}

		path := c.Path()
		var ttl string

		switch {
		case path == "/v1/health" || path == "/v1/ready" || path == "/metrics":
			ttl = "no-cache"

		case strings.HasPrefix(path, "/v1/points"):
			ttl = "public, max-age=3600"

		case path == "/v1/triangles/perimeter":
			ttl = "public, max-age=3600"

		case path == "/v1/perimeter":
			ttl = "public, max-age=86400" // pure function of the query

		case path == "/docs" || path == "/docs/openapi.yaml":
			ttl = "public, max-age=300"
		}

		if ttl != "" {
			c.Set(fiber.HeaderCacheControl, ttl)
		}

		return err
	}
}
