package server

import (
	"errors"

	"lotboard/internal/models"
	"lotboard/internal/validation"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles POST /api/auth/register
func (s *Server) Register(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Username == "" || req.Password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username and password are required"))
	}
	if err := validation.ValidateUsername(req.Username); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	// Check for an existing account first for a clean 409; the unique index
	// still catches races.
	if _, err := s.userRepo.GetByUsername(c.Context(), req.Username); err == nil {
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewValidationError("Username already taken"))
	} else {
		var appErr *models.AppError
		if !errors.As(err, &appErr) || appErr.Code != "NOT_FOUND" {
			return respondError(c, err)
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}

	user := &models.User{
		Username: req.Username,
		Password: string(hashedPassword),
	}
	if err := s.userRepo.Create(c.Context(), user); err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "VALIDATION_ERROR" {
			return models.RespondWithError(c, fiber.StatusConflict, err)
		}
		return respondError(c, err)
	}

	tok, err := s.codec.Issue(user.ID, s.tokenTTL())
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": tok,
		"user":  user,
	})
}

// Login handles POST /api/auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userRepo.GetByUsername(c.Context(), req.Username)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "NOT_FOUND" {
			// Same response as a wrong password; do not leak which one it was.
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid credentials"))
		}
		return respondError(c, err)
	}

	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); cmpErr != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	tok, err := s.codec.Issue(user.ID, s.tokenTTL())
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"token": tok,
		"user":  user,
	})
}

// Me handles GET /api/auth/me
func (s *Server) Me(c *fiber.Ctx) error {
	user, err := s.userRepo.GetByID(c.Context(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}
