package http

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control on GET responses and answers
// conditional requests for API reads with 304. Listings change whenever an
// editor saves, so clients must revalidate every time; the weak ETag makes
// that cheap.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			return err
		}
		if c.Method() != fiber.MethodGet {
			return nil
		}

		path := c.Path()
		switch {
		case path == "/metrics", path == "/health", path == "/ready":
			c.Set(fiber.HeaderCacheControl, "no-store")
		case strings.HasPrefix(path, "/api/"):
			c.Set(fiber.HeaderCacheControl, "no-cache")
			conditional(c)
		}
		return nil
	}
}

// conditional tags a 200 response with a weak ETag of its body and turns it
// into a 304 when the client already holds that version.
func conditional(c *fiber.Ctx) {
	if c.Response().StatusCode() != fiber.StatusOK {
		return
	}
	body := c.Response().Body()
	if len(body) == 0 {
		return
	}

	h := sha256.Sum256(body)
	etag := `W/"` + hex.EncodeToString(h[:8]) + `"`
	c.Set(fiber.HeaderETag, etag)

	if c.Get(fiber.HeaderIfNoneMatch) == etag {
		c.Status(fiber.StatusNotModified)
		c.Response().ResetBody()
	}
}
