package dto

import (
	"time"

	"github.com/noah-isme/kinerja-go-api/internal/models"
)

// GradeBandRequest declares one letter band within an item.
type GradeBandRequest struct {
	Letter      string `json:"letter" validate:"required,len=1"`
	Description string `json:"description" validate:"omitempty,max=255"`
	MinScore    int    `json:"min_score" validate:"gte=0"`
	MaxScore    int    `json:"max_score" validate:"gte=0"`
}

// ItemRequest declares one scored item within a category.
type ItemRequest struct {
	Prompt     string             `json:"prompt" validate:"required"`
	MaxScore   int                `json:"max_score" validate:"required,gt=0"`
	Weight     float64            `json:"weight" validate:"required,gt=0"`
	GradeBands []GradeBandRequest `json:"grade_bands" validate:"required,len=5,dive"`
}

// CategoryRequest declares one weighted category within a template.
type CategoryRequest struct {
	Name   string        `json:"name" validate:"required"`
	Weight float64       `json:"weight" validate:"required,gt=0"`
	Items  []ItemRequest `json:"items" validate:"required,min=1,dive"`
}

// TemplateCreateRequest declares a full evaluation template graph.
type TemplateCreateRequest struct {
	Name       string            `json:"name" validate:"required,min=3"`
	MaxScore   int               `json:"max_score" validate:"required,gt=0"`
	Categories []CategoryRequest `json:"categories" validate:"required,min=1,dive"`
}

// TemplateResponse serializes a template with its full structure.
type TemplateResponse struct {
	ID         uint                        `json:"id"`
	Name       string                      `json:"name"`
	MaxScore   int                         `json:"max_score"`
	IsActive   bool                        `json:"is_active"`
	Categories []models.EvaluationCategory `json:"categories"`
	CreatedAt  time.Time                   `json:"created_at"`
	UpdatedAt  time.Time                   `json:"updated_at"`
}

// NewTemplateResponse maps a template model onto its response shape.
func NewTemplateResponse(template models.EvaluationTemplate) TemplateResponse {
	return TemplateResponse{
		ID:         template.ID,
		Name:       template.Name,
		MaxScore:   template.MaxScore,
		IsActive:   template.IsActive,
		Categories: template.Categories,
		CreatedAt:  template.CreatedAt,
		UpdatedAt:  template.UpdatedAt,
	}
}
