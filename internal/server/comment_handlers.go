package server

import (
	"lotboard/internal/models"
	"lotboard/internal/service"

	"github.com/gofiber/fiber/v2"
)

type commentRequest struct {
	Content string `json:"content"`
}

// GetComments handles GET /api/listings/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	listingID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListComments(c.Context(), listingID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"comments": comments})
}

// CreateComment handles POST /api/listings/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	listingID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.CreateComment(c.Context(), service.CreateCommentInput{
		UserID:    currentUserID(c),
		ListingID: listingID,
		Content:   req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComment handles GET /api/comments/:id
func (s *Server) GetComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comment, err := s.commentService.GetComment(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comment)
}

// UpdateComment handles PATCH /api/comments/:id
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.UpdateComment(c.Context(), service.UpdateCommentInput{
		UserID:    currentUserID(c),
		CommentID: id,
		Content:   req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comment)
}

// DeleteComment handles DELETE /api/comments/:id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comment, err := s.commentService.DeleteComment(c.Context(), service.DeleteCommentInput{
		UserID:    currentUserID(c),
		CommentID: id,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comment)
}

// ToggleCommentLike handles POST /api/comments/:id/like
func (s *Server) ToggleCommentLike(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	liked, likesCount, err := s.commentService.ToggleLike(c.Context(), currentUserID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"liked":       liked,
		"likes_count": likesCount,
	})
}
