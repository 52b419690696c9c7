// Package httperr turns handler errors into the {"message": ...} bodies
// the web client expects.
package httperr

import (
	"errors"
	"log/slog"

	"github.com/tomthedeveloper11/trucking/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Status maps an error to its HTTP status. Anything unrecognised is a 500.
func Status(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, models.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, models.ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// Handler is the fiber.Config ErrorHandler. Unexpected errors keep their
// message in the response and are logged.
func Handler(log *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := Status(err)

		msg := err.Error()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			msg = fe.Message
		}

		if status >= fiber.StatusInternalServerError {
			log.ErrorContext(c.UserContext(), "request failed",
				"method", c.Method(), "path", c.Path(), "error", err)
		}

		return c.Status(status).JSON(fiber.Map{"message": msg})
	}
}
