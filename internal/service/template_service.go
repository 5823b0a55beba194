package service

import (
	"context"
	"errors"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/kinerja-go-api/internal/dto"
	"github.com/noah-isme/kinerja-go-api/internal/models"
	"github.com/noah-isme/kinerja-go-api/internal/repository"
	"github.com/noah-isme/kinerja-go-api/internal/scoring"
)

// ErrTemplateNotFound indicates the template was not located.
var ErrTemplateNotFound = errors.New("template not found")

// ErrInvalidWeights indicates category weights do not sum to a usable total.
var ErrInvalidWeights = errors.New("category weights must sum to 100")

const weightEpsilon = 1e-6

// TemplateService manages evaluation template definitions. Grade bands are
// validated at write time so malformed configuration can never reach the
// scoring engine through this path.
type TemplateService interface {
	Create(ctx context.Context, payload dto.TemplateCreateRequest, actor ActivityActor) (dto.TemplateResponse, error)
	List(ctx context.Context, activeOnly bool) ([]dto.TemplateResponse, error)
	Get(ctx context.Context, id uint) (dto.TemplateResponse, error)
}

type templateService struct {
	repo      repository.TemplateRepository
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewTemplateService constructs the template service.
func NewTemplateService(repo repository.TemplateRepository, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) TemplateService {
	return &templateService{
		repo:      repo,
		validator: validate,
		activity:  activity,
		logger:    logger.With().Str("component", "template_service").Logger(),
	}
}

func (s *templateService) Create(ctx context.Context, payload dto.TemplateCreateRequest, actor ActivityActor) (dto.TemplateResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TemplateResponse{}, err
	}

	template := models.EvaluationTemplate{
		Name:     payload.Name,
		MaxScore: payload.MaxScore,
		IsActive: true,
	}

	categoryWeightSum := 0.0
	for position, categoryPayload := range payload.Categories {
		categoryWeightSum += categoryPayload.Weight

		category := models.EvaluationCategory{
			Name:     categoryPayload.Name,
			Weight:   categoryPayload.Weight,
			Position: position,
		}

		for itemPosition, itemPayload := range categoryPayload.Items {
			item := models.EvaluationItem{
				Prompt:   itemPayload.Prompt,
				MaxScore: itemPayload.MaxScore,
				Weight:   itemPayload.Weight,
				Position: itemPosition,
			}

			for _, bandPayload := range itemPayload.GradeBands {
				item.GradeBands = append(item.GradeBands, models.GradeBand{
					Letter:      bandPayload.Letter,
					Description: bandPayload.Description,
					MinScore:    bandPayload.MinScore,
					MaxScore:    bandPayload.MaxScore,
				})
			}

			if err := scoring.ValidateBands(item.MaxScore, item.GradeBands); err != nil {
				return dto.TemplateResponse{}, err
			}

			category.Items = append(category.Items, item)
		}

		template.Categories = append(template.Categories, category)
	}

	if math.Abs(categoryWeightSum-100) > weightEpsilon {
		return dto.TemplateResponse{}, ErrInvalidWeights
	}

	if err := s.repo.Create(ctx, &template); err != nil {
		return dto.TemplateResponse{}, err
	}

	if s.activity != nil {
		_, _ = s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     "template.created",
			EntityType: "template",
			EntityID:   &template.ID,
			Metadata: map[string]interface{}{
				"name":       template.Name,
				"categories": len(template.Categories),
			},
		})
	}

	s.logger.Info().Uint("template_id", template.ID).Str("name", template.Name).Msg("template created")

	return dto.NewTemplateResponse(template), nil
}

func (s *templateService) List(ctx context.Context, activeOnly bool) ([]dto.TemplateResponse, error) {
	filter := repository.TemplateFilter{}
	if activeOnly {
		active := true
		filter.IsActive = &active
	}

	templates, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TemplateResponse, 0, len(templates))
	for _, template := range templates {
		responses = append(responses, dto.NewTemplateResponse(template))
	}

	return responses, nil
}

func (s *templateService) Get(ctx context.Context, id uint) (dto.TemplateResponse, error) {
	template, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TemplateResponse{}, ErrTemplateNotFound
		}
		return dto.TemplateResponse{}, err
	}

	return dto.NewTemplateResponse(template), nil
}
