package api

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// uuidParam parses a route parameter as a UUID.
func uuidParam(c fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}
