package server

import (
	"lotboard/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetPopularListings handles GET /api/listings/popular
func (s *Server) GetPopularListings(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	listings, err := s.listingService.Popular(c.Context(), limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"listings": listings})
}

// GetOrCreateListing handles POST /api/listings/by-url. The operation is
// idempotent by URL: repeated and concurrent calls all resolve to one row.
func (s *Server) GetOrCreateListing(c *fiber.Ctx) error {
	var req struct {
		URL string `json:"url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	listing, created, err := s.listingService.GetOrCreateByURL(c.Context(), req.URL)
	if err != nil {
		return respondError(c, err)
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(listing)
}

// GetListing handles GET /api/listings/:id. Every hit counts as one view.
func (s *Server) GetListing(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	listing, err := s.listingService.View(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(listing)
}
