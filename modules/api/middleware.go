package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/HichamMeziani/TaskCatalyst/modules/auth"
)

// UserContextKey is the fiber.Ctx locals key holding the authenticated
// user's claims.
const UserContextKey = "user"

// AuthMiddleware validates the Bearer token on protected routes and
// stores the resulting claims in the request context.
func AuthMiddleware(authAdapter auth.AuthPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return unauthorized(c, "Authorization header is required")
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			return unauthorized(c, "Invalid authorization header format. Use: Bearer <token>")
		}
		if token == "" {
			return unauthorized(c, "Token is required")
		}

		claims, err := authAdapter.ValidateToken(c.UserContext(), token)
		if err != nil {
			return unauthorized(c, "Invalid or expired token")
		}

		c.Locals(UserContextKey, claims)
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Error:   "unauthorized",
		Message: message,
	})
}
