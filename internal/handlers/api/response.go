package api

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"cloudgather/internal/db"
	"cloudgather/internal/policy"
	"cloudgather/internal/queries"
	"cloudgather/internal/validation"
)

// jsonSuccess returns a 200 response with data wrapped in the standard envelope.
func jsonSuccess(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

// jsonCreated returns a 201 response with data wrapped in the standard envelope.
func jsonCreated(c fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

// jsonError returns an error response with the given HTTP status code.
func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "error",
		"error":  message,
	})
}

// jsonFieldError returns an error response that names the offending field.
func jsonFieldError(c fiber.Ctx, status int, field, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "error",
		"error":  message,
		"field":  field,
	})
}

// jsonFromError maps a domain error to its HTTP response. Unknown errors are
// logged and reported as 500 with a generic message.
func jsonFromError(c fiber.Ctx, err error) error {
	var fieldErr *validation.FieldError
	switch {
	case errors.As(err, &fieldErr):
		return jsonFieldError(c, fiber.StatusBadRequest, fieldErr.Field, fieldErr.Message)
	case errors.Is(err, db.ErrDuplicateSlug):
		return jsonFieldError(c, fiber.StatusConflict, "slug", "This slug is already taken")
	case errors.Is(err, db.ErrMembershipExists):
		return jsonError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, queries.ErrLastAdmin):
		return jsonError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, db.ErrInvalidEventType):
		return jsonFieldError(c, fiber.StatusBadRequest, "event_type", err.Error())
	case errors.Is(err, db.ErrInvalidRole):
		return jsonFieldError(c, fiber.StatusBadRequest, "role", err.Error())
	case errors.Is(err, db.ErrPortalNotFound),
		errors.Is(err, db.ErrOrgNotFound),
		errors.Is(err, db.ErrMembershipNotFound):
		return jsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, policy.ErrUnauthenticated):
		return jsonError(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, policy.ErrForbidden):
		return jsonError(c, fiber.StatusForbidden, err.Error())
	}

	logrus.WithError(err).WithFields(logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
	}).Error("API request failed")
	return jsonError(c, fiber.StatusInternalServerError, "internal server error")
}
