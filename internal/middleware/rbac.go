package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/kinerja-go-api/internal/models"
	"github.com/noah-isme/kinerja-go-api/internal/utils"
)

// RequireAuth rejects requests without a verified session. Used on API-style
// endpoints where a 401 is preferable to a redirect.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ClaimsFromContext(c) == nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}
		return c.Next()
	}
}

// RequireRole ensures the authenticated user holds one of the allowed roles.
func RequireRole(roles ...models.Role) fiber.Handler {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		claims := ClaimsFromContext(c)
		if claims == nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}
		if _, ok := allowed[claims.Role]; !ok {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}
