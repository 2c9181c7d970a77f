package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/polymap/internal/pkg/metrics"
)

const requestTimeout = 15 * time.Second

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	// Pointer traffic goes over the socket, so this only bounds REST use.
	app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(CachingMiddleware())

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/health", HealthHandler())
	app.Get("/ready", ReadyHandler(deps))

	api := app.Group("/api")
	api.Get("/polygons", timeout.NewWithContext(ListPolygonsHandler(deps), requestTimeout))
	api.Post("/polygons", timeout.NewWithContext(CreatePolygonHandler(deps), requestTimeout))
	api.Get("/polygons/:id", timeout.NewWithContext(GetPolygonHandler(deps), requestTimeout))
	api.Delete("/polygons/:id", timeout.NewWithContext(DeletePolygonHandler(deps), requestTimeout))
	api.Get("/polygons/:id/objects", timeout.NewWithContext(PolygonObjectsHandler(deps), requestTimeout))
	api.Get("/objects", timeout.NewWithContext(ListObjectsHandler(deps), requestTimeout))
	api.Post("/objects", timeout.NewWithContext(CreateObjectHandler(deps), requestTimeout))
	api.Delete("/objects/:id", timeout.NewWithContext(DeleteObjectHandler(deps), requestTimeout))

	app.Post("/graphql", GraphQLHandler(deps))

	// Editor sessions
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/editor", websocket.New(EditorHandler(deps)))
}
