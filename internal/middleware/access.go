package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/kinerja-go-api/internal/access"
	"github.com/noah-isme/kinerja-go-api/internal/observability"
	"github.com/noah-isme/kinerja-go-api/internal/utils"
)

// AccessControl enforces the access policy engine's decision for every request.
func AccessControl(engine *access.Engine, loginPath, defaultPath string) fiber.Handler {
	observability.RegisterMetrics()

	return func(c *fiber.Ctx) error {
		decision := engine.Decide(c.Path(), ClaimsFromContext(c))
		observability.AccessDecisions().WithLabelValues(decision.String()).Inc()

		switch decision {
		case access.Allow:
			return c.Next()
		case access.RedirectToLogin:
			return c.Redirect(loginPath, fiber.StatusFound)
		case access.RedirectToDefault:
			return c.Redirect(defaultPath, fiber.StatusFound)
		default:
			return utils.SendError(c, fiber.StatusForbidden, "access denied")
		}
	}
}
