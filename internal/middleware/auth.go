package middleware

import (
	"context"
	"errors"
	"strings"

	"lotboard/internal/models"
	"lotboard/internal/observability"
	"lotboard/internal/token"

	"github.com/gofiber/fiber/v2"
)

// SubjectStore checks that a token subject still refers to a live account.
// A revoked or deleted user must not be able to act under a still-valid token.
type SubjectStore interface {
	SubjectExists(ctx context.Context, id uint) (bool, error)
}

// Authenticator resolves the caller identity from the Authorization header.
type Authenticator struct {
	codec *token.Codec
	users SubjectStore
}

// NewAuthenticator returns an Authenticator verifying tokens with the given
// codec and resolving subjects against the given store.
func NewAuthenticator(codec *token.Codec, users SubjectStore) *Authenticator {
	return &Authenticator{codec: codec, users: users}
}

// extractCredential pulls the bearer token out of the Authorization header.
// Anything other than exactly "<scheme> <token>" with a bearer scheme
// (case-insensitive) counts as no credential supplied, not as an error.
func extractCredential(c *fiber.Ctx) (string, bool) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", false
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// authenticate verifies the credential and resolves the subject. Token
// failures are reported generically; the codec's internal reasons never
// reach the client.
func (a *Authenticator) authenticate(c *fiber.Ctx, credential string) (uint, error) {
	claims, err := a.codec.Verify(credential)
	if err != nil {
		observability.TokenVerifications.WithLabelValues("rejected").Inc()
		Logger.WarnContext(c.UserContext(), "token verification failed", "error", err)
		return 0, models.NewUnauthorizedError("Invalid or expired token")
	}
	observability.TokenVerifications.WithLabelValues("verified").Inc()

	exists, err := a.users.SubjectExists(c.UserContext(), claims.Subject)
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	if !exists {
		return 0, models.NewUnauthorizedError("User not found")
	}
	return claims.Subject, nil
}

// storeIdentity records the resolved user in Fiber locals and the request
// context so downstream handlers and the logger can see it.
func storeIdentity(c *fiber.Ctx, userID uint) {
	c.Locals("userID", userID)
	c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, userID))
}

// Required enforces authentication: anonymous requests are rejected.
func (a *Authenticator) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		credential, ok := extractCredential(c)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		userID, err := a.authenticate(c, credential)
		if err != nil {
			status := fiber.StatusUnauthorized
			var appErr *models.AppError
			if errors.As(err, &appErr) && appErr.Code == "INTERNAL_ERROR" {
				status = fiber.StatusInternalServerError
			}
			return models.RespondWithError(c, status, err)
		}

		storeIdentity(c, userID)
		return c.Next()
	}
}

// Optional resolves the caller identity when a credential is supplied but
// lets anonymous requests through. A credential that is present and invalid
// is still rejected rather than silently downgraded to anonymous.
func (a *Authenticator) Optional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		credential, ok := extractCredential(c)
		if !ok {
			return c.Next()
		}

		userID, err := a.authenticate(c, credential)
		if err != nil {
			status := fiber.StatusUnauthorized
			var appErr *models.AppError
			if errors.As(err, &appErr) && appErr.Code == "INTERNAL_ERROR" {
				status = fiber.StatusInternalServerError
			}
			return models.RespondWithError(c, status, err)
		}

		storeIdentity(c, userID)
		return c.Next()
	}
}
