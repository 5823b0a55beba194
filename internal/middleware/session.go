package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/kinerja-go-api/internal/models"
	"github.com/noah-isme/kinerja-go-api/internal/session"
	"github.com/noah-isme/kinerja-go-api/internal/token"
)

const claimsLocal = "session_claims"

// Session verifies the session cookie and binds the claims to the request.
// An invalid or expired token never fails the request here; the cookie is
// cleared and the request continues unauthenticated so the access policy
// decides the outcome.
func Session(codec *token.Codec, policy *session.CookiePolicy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		value := c.Cookies(session.CookieName)
		if value == "" {
			return c.Next()
		}

		claims, err := codec.Verify(value)
		if err != nil {
			c.Cookie(policy.Clear())
			return c.Next()
		}

		// Reset tokens authorize exactly one operation and never act as a session.
		if claims.IsPasswordReset() {
			c.Cookie(policy.Clear())
			return c.Next()
		}

		c.Locals(claimsLocal, claims)
		c.Locals("user_id", claims.UserID)
		c.Locals("user_role", claims.Role)

		return c.Next()
	}
}

// ClaimsFromContext returns the verified session claims, or nil when the
// request is unauthenticated.
func ClaimsFromContext(c *fiber.Ctx) *token.Claims {
	if value := c.Locals(claimsLocal); value != nil {
		if claims, ok := value.(token.Claims); ok {
			return &claims
		}
	}
	return nil
}

// RoleFromContext returns the authenticated role, or the empty role.
func RoleFromContext(c *fiber.Ctx) models.Role {
	if claims := ClaimsFromContext(c); claims != nil {
		return claims.Role
	}
	return ""
}
