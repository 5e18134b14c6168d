package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/geotriangle/internal/adapters/http"
	"github.com/samirrijal/geotriangle/internal/adapters/memory"
	natsadapter "github.com/samirrijal/geotriangle/internal/adapters/nats"
	"github.com/samirrijal/geotriangle/internal/adapters/postgres"
	"github.com/samirrijal/geotriangle/internal/adapters/valkey"
	"github.com/samirrijal/geotriangle/internal/core/domain"
	"github.com/samirrijal/geotriangle/internal/core/ports"
	"github.com/samirrijal/geotriangle/internal/core/usecases"
	"github.com/samirrijal/geotriangle/internal/pkg/config"
	"github.com/samirrijal/geotriangle/internal/pkg/logging"
	"github.com/samirrijal/geotriangle/internal/pkg/metrics"
	"github.com/samirrijal/geotriangle/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("geotriangle-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	deps := &http.Dependencies{RateLimit: cfg.Server.RateLimit}

	// Point table
	var seed []domain.Point
	switch cfg.Points.Source {
	case config.PointSourcePostgres:
		db, err := postgres.New(ctx, cfg.Database.DSN())
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer db.Close()
		deps.DB = db

		seed, err = postgres.NewPointRepo(db).List(ctx)
		if err != nil {
			log.Fatalf("load points: %v", err)
		}
	default:
		seed = memory.DefaultPoints()
	}

	table, err := memory.NewPointTable(seed)
	if err != nil {
		log.Fatalf("point table: %v", err)
	}
	metrics.PointTableSize.Set(float64(table.Len()))
	slog.Info("point table loaded", "source", cfg.Points.Source, "points", table.Len())

	// Cache
	var cache ports.CacheService
	if cfg.Valkey.Enabled {
		vc, err := valkey.New(cfg.Valkey.Addr, "geotriangle:")
		if err != nil {
			slog.Warn("valkey unavailable", "error", err)
		} else {
			defer vc.Close()
			cache = vc
			deps.Cache = vc
		}
	}

	// NATS
	var publisher ports.EventPublisher
	if cfg.NATS.Enabled {
		pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable", "error", err)
		} else {
			defer pub.Close()
			publisher = pub
			deps.NATS = pub.Conn()
		}
	}

	// Use cases
	deps.Points = usecases.NewPointService(table, cache, cfg.Valkey.TTLSeconds)
	deps.Perimeters = usecases.NewPerimeterService(deps.Points, cache, publisher, cfg.Valkey.TTLSeconds)

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    64 * 1024, // GraphQL queries only
		AppName:      "GeoTriangle API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
