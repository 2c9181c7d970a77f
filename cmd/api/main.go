package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/polymap/internal/adapters/gateway"
	"github.com/samirrijal/polymap/internal/adapters/http"
	natsadapter "github.com/samirrijal/polymap/internal/adapters/nats"
	"github.com/samirrijal/polymap/internal/adapters/postgres"
	"github.com/samirrijal/polymap/internal/adapters/valkey"
	"github.com/samirrijal/polymap/internal/core/ports"
	"github.com/samirrijal/polymap/internal/core/usecases"
	"github.com/samirrijal/polymap/internal/editor"
	"github.com/samirrijal/polymap/internal/pkg/config"
	"github.com/samirrijal/polymap/internal/pkg/logging"
	"github.com/samirrijal/polymap/internal/pkg/metrics"
	"github.com/samirrijal/polymap/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("polymap-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer func() { _ = telemetry.Shutdown(shutdown) }()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	go reportPoolStats(ctx, db)

	checks := map[string]http.Check{
		"database": func(ctx context.Context) error { return db.Pool.Ping(ctx) },
	}

	// Cache
	var cache ports.CacheService
	if cfg.Valkey.Enabled {
		vc, err := valkey.New(cfg.Valkey.Addr, cfg.Valkey.KeyPrefix)
		if err != nil {
			slog.Warn("valkey unavailable, serving uncached", "error", err)
		} else {
			defer vc.Close()
			cache = vc
			checks["cache"] = vc.Ping
		}
	}

	// NATS: publisher for persisted changes, subscriber for the editor relay
	var (
		events  ports.EventPublisher
		changes ports.EventSubscriber
	)
	if cfg.NATS.Enabled {
		pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable, changes will not be announced", "error", err)
		} else {
			defer pub.Close()
			events = pub
			checks["nats"] = func(context.Context) error {
				if !pub.Connected() {
					return errors.New("disconnected")
				}
				return nil
			}
		}

		sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats subscriber unavailable", "error", err)
		} else {
			defer sub.Close()
			changes = sub
		}
	}

	// Repos
	polygonRepo := postgres.NewPolygonRepo(db)
	objectRepo := postgres.NewObjectRepo(db)

	// Use cases
	polygonSvc := usecases.NewPolygonService(polygonRepo, cache, events)
	objectSvc := usecases.NewObjectService(objectRepo, polygonRepo, cache, events)

	// Editor sessions save in-process unless pointed at another API.
	var gw ports.Gateway = gateway.NewLocal(polygonSvc, objectSvc)
	if cfg.Gateway.BaseURL != "" {
		gw = gateway.NewClient(cfg.Gateway.BaseURL, cfg.Gateway.Timeout)
		slog.Info("editor sessions use remote gateway", "base_url", cfg.Gateway.BaseURL)
	}

	deps := &http.Dependencies{
		Polygons: polygonSvc,
		Objects:  objectSvc,
		Gateway:  gw,
		Changes:  changes,
		Editor: editor.Options{
			ClosureTolerance:   cfg.Editor.ClosureTolerance,
			VertexTolerance:    cfg.Editor.VertexTolerance,
			SaveConcurrency:    cfg.Editor.SaveConcurrency,
			DefaultObjectType:  cfg.Editor.DefaultObjectType,
			DefaultPolygonName: cfg.Editor.DefaultPolygonName,
		},
		Checks: checks,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    4 * 1024 * 1024, // large rings are legitimate
		AppName:      "Polymap API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.Server.CORSOrigins, ", "),
		AllowMethods:     "GET,POST,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, If-None-Match",
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

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests and editor saves up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}

func reportPoolStats(ctx context.Context, db *postgres.DB) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		metrics.UpdateDBPoolMetrics(db.Pool.Stat())
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}
