package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/kinerja-go-api/internal/dto"
	"github.com/noah-isme/kinerja-go-api/internal/service"
	"github.com/noah-isme/kinerja-go-api/internal/session"
	"github.com/noah-isme/kinerja-go-api/internal/token"
	"github.com/noah-isme/kinerja-go-api/internal/utils"
)

// AuthHandler manages login, logout and password reset endpoints.
type AuthHandler struct {
	service service.AuthService
	cookies *session.CookiePolicy
	logger  zerolog.Logger
}

// NewAuthHandler builds an auth handler instance.
func NewAuthHandler(service service.AuthService, cookies *session.CookiePolicy, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		cookies: cookies,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register attaches the routes to the fiber application.
func (h *AuthHandler) Register(app *fiber.App) {
	app.Post("/login", h.login)
	app.Post("/logout", h.logout)
	app.Post("/password-reset/request", h.requestReset)
	app.Post("/password-reset/confirm", h.confirmReset)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Login(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	c.Cookie(h.cookies.Issue(result.Token, result.Remember))

	return utils.SendSuccess(c, "login successful", result.User)
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	c.Cookie(h.cookies.Clear())
	return utils.SendSuccess(c, "logout successful", nil)
}

func (h *AuthHandler) requestReset(c *fiber.Ctx) error {
	var payload dto.PasswordResetRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.service.RequestPasswordReset(c.Context(), payload); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "password reset requested", nil)
}

func (h *AuthHandler) confirmReset(c *fiber.Ctx) error {
	var payload dto.PasswordResetConfirm
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.service.ResetPassword(c.Context(), payload); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "password updated", nil)
}

func (h *AuthHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return utils.SendError(c, fiber.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, service.ErrUserInactive):
		return utils.SendError(c, fiber.StatusForbidden, "account is inactive")
	case errors.Is(err, service.ErrResetTokenUsed):
		return utils.SendError(c, fiber.StatusConflict, "reset token already used")
	case errors.Is(err, token.ErrInvalidToken):
		return utils.SendError(c, fiber.StatusUnauthorized, "invalid or expired token")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
