package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/kinerja-go-api/internal/dto"
	"github.com/noah-isme/kinerja-go-api/internal/models"
	"github.com/noah-isme/kinerja-go-api/internal/observability"
	"github.com/noah-isme/kinerja-go-api/internal/repository"
	"github.com/noah-isme/kinerja-go-api/internal/scoring"
)

// ErrEvaluationNotFound indicates the evaluation was not located.
var ErrEvaluationNotFound = errors.New("evaluation not found")

// ErrItemNotInTemplate indicates an answer referenced an item outside the template.
var ErrItemNotInTemplate = errors.New("item does not belong to the evaluation template")

// ErrScoreOutOfRange indicates a raw score outside the item's [0, max] range.
var ErrScoreOutOfRange = errors.New("raw score out of range")

// ErrEvaluationFinalized indicates a write against a completed evaluation.
var ErrEvaluationFinalized = errors.New("evaluation already finalized")

// ErrEvaluationIncomplete indicates finalization was requested with missing answers.
var ErrEvaluationIncomplete = errors.New("evaluation has unanswered items")

// EvaluationService manages the evaluation lifecycle and its scoring.
type EvaluationService interface {
	Start(ctx context.Context, payload dto.EvaluationCreateRequest, actor ActivityActor) (dto.EvaluationResponse, error)
	List(ctx context.Context, filter repository.EvaluationFilter) ([]dto.EvaluationResponse, error)
	Get(ctx context.Context, id uint) (dto.EvaluationResponse, error)
	SubmitAnswers(ctx context.Context, id uint, payload dto.AnswerBatchRequest, actor ActivityActor) (dto.EvaluationResponse, error)
	Finalize(ctx context.Context, id uint, actor ActivityActor) (dto.EvaluationResponse, error)
}

type evaluationService struct {
	evaluations repository.EvaluationRepository
	templates   repository.TemplateRepository
	users       repository.UserRepository
	validator   *validator.Validate
	activity    ActivityRecorder
	notifier    Notifier
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewEvaluationService constructs the evaluation service.
func NewEvaluationService(evaluations repository.EvaluationRepository, templates repository.TemplateRepository, users repository.UserRepository, validate *validator.Validate, activity ActivityRecorder, notifier Notifier, logger zerolog.Logger) EvaluationService {
	return &evaluationService{
		evaluations: evaluations,
		templates:   templates,
		users:       users,
		validator:   validate,
		activity:    activity,
		notifier:    notifier,
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      logger.With().Str("component", "evaluation_service").Logger(),
		tracer:      otel.Tracer("github.com/noah-isme/kinerja-go-api/internal/service/evaluation"),
		now:         time.Now,
	}
}

func (s *evaluationService) Start(ctx context.Context, payload dto.EvaluationCreateRequest, actor ActivityActor) (dto.EvaluationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EvaluationResponse{}, err
	}

	template, err := s.templates.GetByID(ctx, payload.TemplateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EvaluationResponse{}, ErrTemplateNotFound
		}
		return dto.EvaluationResponse{}, err
	}

	if _, err := s.users.GetByID(ctx, payload.EmployeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EvaluationResponse{}, ErrUserNotFound
		}
		return dto.EvaluationResponse{}, err
	}

	evaluation := models.Evaluation{
		TemplateID: template.ID,
		EmployeeID: payload.EmployeeID,
		ReviewerID: actor.ID,
		Period:     payload.Period,
		Status:     models.EvaluationStatusDraft,
	}

	if err := s.evaluations.Create(ctx, &evaluation); err != nil {
		return dto.EvaluationResponse{}, err
	}

	stored, err := s.evaluations.GetByID(ctx, evaluation.ID)
	if err != nil {
		return dto.EvaluationResponse{}, err
	}

	s.logger.Info().Uint("evaluation_id", stored.ID).Uint("employee_id", stored.EmployeeID).Msg("evaluation started")

	return s.respond(stored)
}

func (s *evaluationService) List(ctx context.Context, filter repository.EvaluationFilter) ([]dto.EvaluationResponse, error) {
	evaluations, err := s.evaluations.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.EvaluationResponse, 0, len(evaluations))
	for _, evaluation := range evaluations {
		response, err := s.respond(evaluation)
		if err != nil {
			return nil, err
		}
		responses = append(responses, response)
	}

	return responses, nil
}

func (s *evaluationService) Get(ctx context.Context, id uint) (dto.EvaluationResponse, error) {
	evaluation, err := s.evaluations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EvaluationResponse{}, ErrEvaluationNotFound
		}
		return dto.EvaluationResponse{}, err
	}

	return s.respond(evaluation)
}

func (s *evaluationService) SubmitAnswers(ctx context.Context, id uint, payload dto.AnswerBatchRequest, actor ActivityActor) (dto.EvaluationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EvaluationResponse{}, err
	}

	evaluation, err := s.evaluations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EvaluationResponse{}, ErrEvaluationNotFound
		}
		return dto.EvaluationResponse{}, err
	}

	if evaluation.IsFinalized() {
		return dto.EvaluationResponse{}, ErrEvaluationFinalized
	}

	itemsByID := indexItems(evaluation.Template)

	for _, answerPayload := range payload.Answers {
		item, ok := itemsByID[answerPayload.ItemID]
		if !ok {
			return dto.EvaluationResponse{}, ErrItemNotInTemplate
		}

		if answerPayload.RawScore < 0 || answerPayload.RawScore > item.MaxScore {
			return dto.EvaluationResponse{}, ErrScoreOutOfRange
		}

		answer := models.EvaluationAnswer{
			EvaluationID: evaluation.ID,
			ItemID:       answerPayload.ItemID,
			RawScore:     answerPayload.RawScore,
			Comment:      strings.TrimSpace(s.sanitizer.Sanitize(answerPayload.Comment)),
		}

		if err := s.evaluations.UpsertAnswer(ctx, &answer); err != nil {
			return dto.EvaluationResponse{}, err
		}
	}

	if evaluation.Status == models.EvaluationStatusDraft {
		evaluation.Status = models.EvaluationStatusInProgress
		if err := s.evaluations.Update(ctx, &evaluation); err != nil {
			return dto.EvaluationResponse{}, err
		}
	}

	stored, err := s.evaluations.GetByID(ctx, evaluation.ID)
	if err != nil {
		return dto.EvaluationResponse{}, err
	}

	return s.respond(stored)
}

func (s *evaluationService) Finalize(ctx context.Context, id uint, actor ActivityActor) (dto.EvaluationResponse, error) {
	ctx, span := s.tracer.Start(ctx, "evaluation.finalize")
	span.SetAttributes(
		attribute.Int64("evaluation.id", int64(id)),
		attribute.Int64("evaluation.actor_id", int64(actor.ID)),
	)
	defer span.End()

	evaluation, err := s.evaluations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "evaluation_not_found")
			return dto.EvaluationResponse{}, ErrEvaluationNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "evaluation_lookup_failed")
		return dto.EvaluationResponse{}, err
	}

	// Finalizing twice returns the stored result unchanged.
	if evaluation.IsFinalized() {
		span.SetAttributes(attribute.Bool("evaluation.idempotent", true))
		return s.respond(evaluation)
	}

	result, err := scoring.ScoreTemplate(evaluation.Template, evaluation.Answers)
	if err != nil {
		observability.ScoringRuns().WithLabelValues("malformed_config").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "malformed_grade_configuration")
		return dto.EvaluationResponse{}, err
	}

	if !result.Complete {
		observability.ScoringRuns().WithLabelValues("incomplete").Inc()
		span.SetStatus(codes.Error, "incomplete_answers")
		return dto.EvaluationResponse{}, ErrEvaluationIncomplete
	}

	observability.ScoringRuns().WithLabelValues("ok").Inc()

	finalScore := result.FinalScore
	finalizedAt := s.now()
	evaluation.FinalScore = &finalScore
	evaluation.FinalizedAt = &finalizedAt
	evaluation.Status = models.EvaluationStatusCompleted

	if err := s.evaluations.Update(ctx, &evaluation); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "evaluation_update_failed")
		return dto.EvaluationResponse{}, err
	}

	if s.activity != nil {
		_, _ = s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     "evaluation.finalized",
			EntityType: "evaluation",
			EntityID:   &evaluation.ID,
			Metadata: map[string]interface{}{
				"employee_id": evaluation.EmployeeID,
				"period":      evaluation.Period,
				"final_score": finalScore,
			},
		})
	}

	if s.notifier != nil {
		notification := Notification{
			Recipient: evaluation.Employee.Email,
			Subject:   fmt.Sprintf("Evaluation %s completed", evaluation.Period),
			Body:      fmt.Sprintf("Your performance evaluation for %s has been finalized with a score of %.1f.", evaluation.Period, finalScore),
			SentAt:    finalizedAt,
		}
		if err := s.notifier.Send(ctx, notification); err != nil {
			s.logger.Warn().Err(err).Uint("evaluation_id", evaluation.ID).Msg("failed to deliver finalize notification")
		}
	}

	span.SetAttributes(attribute.Float64("evaluation.final_score", finalScore))

	s.logger.Info().Uint("evaluation_id", evaluation.ID).Float64("final_score", finalScore).Msg("evaluation finalized")

	return dto.NewEvaluationResponse(evaluation, &result), nil
}

// respond recomputes scores for the response. Aggregation is idempotent, so
// recomputing on every read is safe; a malformed configuration degrades to a
// score-less response instead of failing the read.
func (s *evaluationService) respond(evaluation models.Evaluation) (dto.EvaluationResponse, error) {
	result, err := scoring.ScoreTemplate(evaluation.Template, evaluation.Answers)
	if err != nil {
		if errors.Is(err, scoring.ErrMalformedGradeConfig) {
			s.logger.Error().Uint("evaluation_id", evaluation.ID).Msg("grade configuration invalid; omitting computed score")
			return dto.NewEvaluationResponse(evaluation, nil), nil
		}
		return dto.EvaluationResponse{}, err
	}

	return dto.NewEvaluationResponse(evaluation, &result), nil
}

func indexItems(template models.EvaluationTemplate) map[uint]models.EvaluationItem {
	items := make(map[uint]models.EvaluationItem)
	for _, category := range template.Categories {
		for _, item := range category.Items {
			items[item.ID] = item
		}
	}
	return items
}
