package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/kinerja-go-api/internal/dto"
	"github.com/noah-isme/kinerja-go-api/internal/models"
	"github.com/noah-isme/kinerja-go-api/internal/repository"
	"github.com/noah-isme/kinerja-go-api/internal/scoring"
	"github.com/noah-isme/kinerja-go-api/internal/service"
	"github.com/noah-isme/kinerja-go-api/internal/utils"
)

// EvaluationHandler manages evaluation lifecycle endpoints.
type EvaluationHandler struct {
	service service.EvaluationService
	logger  zerolog.Logger
}

// NewEvaluationHandler builds an evaluation handler instance.
func NewEvaluationHandler(service service.EvaluationService, logger zerolog.Logger) *EvaluationHandler {
	return &EvaluationHandler{
		service: service,
		logger:  logger.With().Str("component", "evaluation_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *EvaluationHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.start)
	router.Get("/:id", h.get)
	router.Put("/:id/answers", h.submitAnswers)
	router.Post("/:id/finalize", h.finalize)
}

func (h *EvaluationHandler) list(c *fiber.Ctx) error {
	filter := repository.EvaluationFilter{}

	if employeeID, err := parseQueryUint(c, "employee_id"); err == nil && employeeID != nil {
		filter.EmployeeID = employeeID
	}
	if reviewerID, err := parseQueryUint(c, "reviewer_id"); err == nil && reviewerID != nil {
		filter.ReviewerID = reviewerID
	}
	if status := c.Query("status"); status != "" {
		evaluationStatus := models.EvaluationStatus(status)
		if !evaluationStatus.Valid() {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid status")
		}
		filter.Status = &evaluationStatus
	}
	if period := c.Query("period"); period != "" {
		filter.Period = &period
	}

	evaluations, err := h.service.List(c.Context(), filter)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "evaluations retrieved", evaluations)
}

func (h *EvaluationHandler) start(c *fiber.Ctx) error {
	var payload dto.EvaluationCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	evaluation, err := h.service.Start(c.Context(), payload, activityActorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "evaluation started", evaluation)
}

func (h *EvaluationHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	evaluation, err := h.service.Get(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "evaluation retrieved", evaluation)
}

func (h *EvaluationHandler) submitAnswers(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.AnswerBatchRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	evaluation, err := h.service.SubmitAnswers(c.Context(), id, payload, activityActorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "answers recorded", evaluation)
}

func (h *EvaluationHandler) finalize(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	evaluation, err := h.service.Finalize(c.Context(), id, activityActorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "evaluation finalized", evaluation)
}

func (h *EvaluationHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrEvaluationNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "evaluation not found")
	case errors.Is(err, service.ErrTemplateNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "template not found")
	case errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "user not found")
	case errors.Is(err, service.ErrItemNotInTemplate):
		return utils.SendError(c, fiber.StatusBadRequest, "item does not belong to the evaluation template")
	case errors.Is(err, service.ErrScoreOutOfRange):
		return utils.SendError(c, fiber.StatusBadRequest, "raw score out of range")
	case errors.Is(err, service.ErrEvaluationFinalized):
		return utils.SendError(c, fiber.StatusConflict, "evaluation already finalized")
	case errors.Is(err, service.ErrEvaluationIncomplete):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, "evaluation has unanswered items")
	case errors.Is(err, scoring.ErrMalformedGradeConfig):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, "grade configuration is invalid")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
