package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/kinerja-go-api/internal/dto"
	"github.com/noah-isme/kinerja-go-api/internal/models"
	"github.com/noah-isme/kinerja-go-api/internal/repository"
)

// ErrSettingNotFound indicates the setting key does not exist.
var ErrSettingNotFound = errors.New("setting not found")

// SettingService manages global application settings, restricted to full
// administrators by the access policy.
type SettingService interface {
	List(ctx context.Context) ([]models.AppSetting, error)
	Get(ctx context.Context, key string) (models.AppSetting, error)
	Put(ctx context.Context, payload dto.SettingRequest, actor ActivityActor) (models.AppSetting, error)
}

type settingService struct {
	repo      repository.SettingRepository
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewSettingService constructs the setting service.
func NewSettingService(repo repository.SettingRepository, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) SettingService {
	return &settingService{
		repo:      repo,
		validator: validate,
		activity:  activity,
		logger:    logger.With().Str("component", "setting_service").Logger(),
	}
}

func (s *settingService) List(ctx context.Context) ([]models.AppSetting, error) {
	return s.repo.List(ctx)
}

func (s *settingService) Get(ctx context.Context, key string) (models.AppSetting, error) {
	setting, err := s.repo.Get(ctx, strings.TrimSpace(key))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.AppSetting{}, ErrSettingNotFound
		}
		return models.AppSetting{}, err
	}

	return setting, nil
}

func (s *settingService) Put(ctx context.Context, payload dto.SettingRequest, actor ActivityActor) (models.AppSetting, error) {
	if err := s.validator.Struct(payload); err != nil {
		return models.AppSetting{}, err
	}

	setting := models.AppSetting{
		Key:       strings.TrimSpace(payload.Key),
		Value:     payload.Value,
		UpdatedBy: actor.ID,
	}

	if err := s.repo.Upsert(ctx, &setting); err != nil {
		return models.AppSetting{}, err
	}

	if s.activity != nil {
		_, _ = s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     "setting.updated",
			EntityType: "setting",
			EntityID:   &setting.ID,
			Metadata:   map[string]interface{}{"key": setting.Key},
		})
	}

	s.logger.Info().Str("key", setting.Key).Uint("actor_id", actor.ID).Msg("setting updated")

	return setting, nil
}
