package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/kinerja-go-api/internal/models"
)

// TemplateFilter allows narrowing template queries.
type TemplateFilter struct {
	IsActive *bool
}

// TemplateRepository defines data operations for evaluation templates. Reads
// always return the full category, item and grade-band graph so the scoring
// engine receives complete read-only inputs.
type TemplateRepository interface {
	List(ctx context.Context, filter TemplateFilter) ([]models.EvaluationTemplate, error)
	GetByID(ctx context.Context, id uint) (models.EvaluationTemplate, error)
	Create(ctx context.Context, template *models.EvaluationTemplate) error
	Update(ctx context.Context, template *models.EvaluationTemplate) error
}

type templateRepository struct {
	db *gorm.DB
}

// NewTemplateRepository instantiates the repository.
func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

func (r *templateRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.EvaluationTemplate{}).
		Preload("Categories", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Categories.Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Categories.Items.GradeBands")
}

func (r *templateRepository) List(ctx context.Context, filter TemplateFilter) ([]models.EvaluationTemplate, error) {
	query := r.baseQuery(ctx)

	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	var templates []models.EvaluationTemplate
	if err := query.Order("created_at DESC").Find(&templates).Error; err != nil {
		return nil, err
	}

	return templates, nil
}

func (r *templateRepository) GetByID(ctx context.Context, id uint) (models.EvaluationTemplate, error) {
	var template models.EvaluationTemplate
	if err := r.baseQuery(ctx).First(&template, id).Error; err != nil {
		return models.EvaluationTemplate{}, err
	}

	return template, nil
}

func (r *templateRepository) Create(ctx context.Context, template *models.EvaluationTemplate) error {
	return r.db.WithContext(ctx).Create(template).Error
}

func (r *templateRepository) Update(ctx context.Context, template *models.EvaluationTemplate) error {
	return r.db.WithContext(ctx).Save(template).Error
}
