package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/propertyhub-api/internal/service"
)

type AuthMiddleware struct {
	s service.AccessService
}

func NewAuthMiddleware(s service.AccessService) *AuthMiddleware {
	return &AuthMiddleware{s: s}
}

// RequireUser accepts a Supabase access token from the Authorization header
// and stores the caller's id in c.Locals("user_id").
func (m *AuthMiddleware) RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := m.authenticate(c); err != nil {
			return unauthorized(c, err)
		}
		return c.Next()
	}
}

// RequireAdmin is RequireUser plus the admin role check. Every failure looks the same.
func (m *AuthMiddleware) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := m.authenticate(c); err != nil {
			return unauthorized(c, err)
		}
		userID, _ := c.Locals("user_id").(string)
		if err := m.s.RequireAdmin(c.Context(), userID); err != nil {
			return unauthorized(c, err)
		}
		return c.Next()
	}
}

func (m *AuthMiddleware) authenticate(c *fiber.Ctx) error {
	identity, err := m.s.Authenticate(bearerToken(c.Get(fiber.HeaderAuthorization)))
	if err != nil {
		return err
	}
	c.Locals("user_id", identity.UserID)
	c.Locals("identity", identity)
	return nil
}

func unauthorized(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
