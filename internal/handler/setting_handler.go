package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/kinerja-go-api/internal/dto"
	"github.com/noah-isme/kinerja-go-api/internal/service"
	"github.com/noah-isme/kinerja-go-api/internal/utils"
)

// SettingHandler manages global settings, reachable only by full administrators.
type SettingHandler struct {
	service service.SettingService
	logger  zerolog.Logger
}

// NewSettingHandler builds a setting handler instance.
func NewSettingHandler(service service.SettingService, logger zerolog.Logger) *SettingHandler {
	return &SettingHandler{
		service: service,
		logger:  logger.With().Str("component", "setting_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *SettingHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Put("", h.put)
}

func (h *SettingHandler) list(c *fiber.Ctx) error {
	settings, err := h.service.List(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "settings retrieved", settings)
}

func (h *SettingHandler) put(c *fiber.Ctx) error {
	var payload dto.SettingRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	setting, err := h.service.Put(c.Context(), payload, activityActorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "setting updated", setting)
}

func (h *SettingHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrSettingNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "setting not found")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
