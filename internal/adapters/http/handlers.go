package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/polymap/internal/adapters/wire"
)

// ListPolygonsHandler returns every stored polygon.
func ListPolygonsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		polygons, err := deps.Polygons.List(c.UserContext())
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(wire.FromPolygons(polygons))
	}
}

// GetPolygonHandler returns one polygon by id.
func GetPolygonHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := deps.Polygons.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(wire.FromPolygon(*p))
	}
}

// CreatePolygonHandler stores a polygon from {name, coordinates}.
func CreatePolygonHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req wire.CreatePolygonRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		ring, err := req.Ring()
		if err != nil {
			return writeError(c, err)
		}

		p, err := deps.Polygons.Create(c.UserContext(), req.Name, ring)
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(wire.FromPolygon(*p))
	}
}

// DeletePolygonHandler removes one polygon.
func DeletePolygonHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Polygons.Delete(c.UserContext(), c.Params("id")); err != nil {
			return writeError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// PolygonObjectsHandler returns the objects inside one polygon.
func PolygonObjectsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		objects, err := deps.Objects.InPolygon(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(wire.FromObjects(objects))
	}
}

// ListObjectsHandler returns every stored map object.
func ListObjectsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		objects, err := deps.Objects.List(c.UserContext())
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(wire.FromObjects(objects))
	}
}

// CreateObjectHandler stores an object from {type, coordinates}.
func CreateObjectHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req wire.CreateObjectRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		pos, err := req.Point()
		if err != nil {
			return writeError(c, err)
		}

		o, err := deps.Objects.Create(c.UserContext(), req.Type, pos)
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(wire.FromObject(*o))
	}
}

// DeleteObjectHandler removes one object.
func DeleteObjectHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Objects.Delete(c.UserContext(), c.Params("id")); err != nil {
			return writeError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
