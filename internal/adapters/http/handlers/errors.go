package handlers

import (
	"errors"
	"log"

	"admitdesk/internal/core/domain"
	"admitdesk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// respondError maps a service error to the HTTP envelope by its domain
// kind. Unrecognized errors are logged and surfaced as 500.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return response.Unauthorized(c, err.Error())
	case errors.Is(err, domain.ErrInvalidState):
		return response.UnprocessableEntity(c, err.Error())
	case errors.Is(err, domain.ErrInvalidArgument):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return response.Conflict(c, err.Error())
	default:
		log.Printf("⚠️ Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
		return response.InternalServerError(c, "Something went wrong")
	}
}
