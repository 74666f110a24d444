package server

import (
	"errors"

	"lotboard/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid ID"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// currentUserID returns the authenticated user's id. It is only meaningful
// behind the Required() middleware.
func currentUserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals("userID").(uint); ok {
		return id
	}
	return 0
}

// statusForError maps application error codes onto HTTP status codes.
func statusForError(err error) int {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case "NOT_FOUND":
			return fiber.StatusNotFound
		case "VALIDATION_ERROR":
			return fiber.StatusBadRequest
		case "UNAUTHORIZED":
			return fiber.StatusUnauthorized
		case "CONTENT_REJECTED", "UPSTREAM_ERROR":
			return fiber.StatusUnprocessableEntity
		}
	}
	return fiber.StatusInternalServerError
}

func respondError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, statusForError(err), err)
}
