package models

import "time"

// EvaluationTemplate declares the structure an evaluation instance is scored against.
type EvaluationTemplate struct {
	ID         uint                 `gorm:"primaryKey" json:"id"`
	Name       string               `gorm:"size:255;not null" json:"name"`
	MaxScore   int                  `gorm:"not null" json:"max_score"`
	IsActive   bool                 `gorm:"not null;default:true" json:"is_active"`
	Categories []EvaluationCategory `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"categories"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

// EvaluationCategory groups items sharing a weight within a template.
type EvaluationCategory struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	TemplateID uint             `gorm:"not null;index" json:"template_id"`
	Name       string           `gorm:"size:255;not null" json:"name"`
	Weight     float64          `gorm:"not null" json:"weight"`
	Position   int              `gorm:"not null;default:0" json:"position"`
	Items      []EvaluationItem `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"items"`
}

// EvaluationItem is a single scored question within a category.
type EvaluationItem struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	CategoryID uint        `gorm:"not null;index" json:"category_id"`
	Prompt     string      `gorm:"type:text;not null" json:"prompt"`
	MaxScore   int         `gorm:"not null" json:"max_score"`
	Weight     float64     `gorm:"not null" json:"weight"`
	Position   int         `gorm:"not null;default:0" json:"position"`
	GradeBands []GradeBand `gorm:"foreignKey:ItemID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"grade_bands"`
}

// GradeBand maps a closed score interval onto a letter grade for one item.
// A valid band set covers [0, item.MaxScore] without gaps or overlap.
type GradeBand struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ItemID      uint   `gorm:"not null;index" json:"item_id"`
	Letter      string `gorm:"size:2;not null" json:"letter"`
	Description string `gorm:"size:255" json:"description"`
	MinScore    int    `gorm:"not null" json:"min_score"`
	MaxScore    int    `gorm:"not null" json:"max_score"`
}

// Contains reports whether the raw score falls inside the band's closed interval.
func (b GradeBand) Contains(raw int) bool {
	return raw >= b.MinScore && raw <= b.MaxScore
}
