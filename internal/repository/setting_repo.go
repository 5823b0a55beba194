package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/kinerja-go-api/internal/models"
)

// SettingRepository stores global application settings.
type SettingRepository interface {
	List(ctx context.Context) ([]models.AppSetting, error)
	Get(ctx context.Context, key string) (models.AppSetting, error)
	Upsert(ctx context.Context, setting *models.AppSetting) error
}

type settingRepository struct {
	db *gorm.DB
}

// NewSettingRepository instantiates the repository.
func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

func (r *settingRepository) List(ctx context.Context) ([]models.AppSetting, error) {
	var settings []models.AppSetting
	if err := r.db.WithContext(ctx).Order("key ASC").Find(&settings).Error; err != nil {
		return nil, err
	}

	return settings, nil
}

func (r *settingRepository) Get(ctx context.Context, key string) (models.AppSetting, error) {
	var setting models.AppSetting
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&setting).Error; err != nil {
		return models.AppSetting{}, err
	}

	return setting, nil
}

func (r *settingRepository) Upsert(ctx context.Context, setting *models.AppSetting) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_by", "updated_at"}),
	}).Create(setting).Error
}
