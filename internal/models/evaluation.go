package models

import "time"

// EvaluationStatus is the closed set of lifecycle states for an evaluation.
type EvaluationStatus string

const (
	// EvaluationStatusDraft indicates the evaluation was created but no answers exist yet.
	EvaluationStatusDraft EvaluationStatus = "DRAFT"
	// EvaluationStatusInProgress indicates at least one answer has been recorded.
	EvaluationStatusInProgress EvaluationStatus = "IN_PROGRESS"
	// EvaluationStatusCompleted indicates the evaluation has been finalized and scored.
	EvaluationStatusCompleted EvaluationStatus = "COMPLETED"
)

// Valid reports whether the status is one of the declared constants.
func (s EvaluationStatus) Valid() bool {
	switch s {
	case EvaluationStatusDraft, EvaluationStatusInProgress, EvaluationStatusCompleted:
		return true
	}
	return false
}

// Evaluation is one review of an employee against a template for a period.
type Evaluation struct {
	ID          uint               `gorm:"primaryKey" json:"id"`
	TemplateID  uint               `gorm:"not null;index" json:"template_id"`
	EmployeeID  uint               `gorm:"not null;index" json:"employee_id"`
	ReviewerID  uint               `gorm:"not null;index" json:"reviewer_id"`
	Period      string             `gorm:"size:32;not null" json:"period"`
	Status      EvaluationStatus   `gorm:"size:16;not null" json:"status"`
	FinalScore  *float64           `json:"final_score"`
	FinalizedAt *time.Time         `json:"finalized_at"`
	Answers     []EvaluationAnswer `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"answers"`
	Template    EvaluationTemplate `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"template"`
	Employee    User               `gorm:"foreignKey:EmployeeID" json:"employee"`
	Reviewer    User               `gorm:"foreignKey:ReviewerID" json:"reviewer"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// IsFinalized reports whether the evaluation carries a final score.
func (e Evaluation) IsFinalized() bool {
	return e.Status == EvaluationStatusCompleted
}

// EvaluationAnswer records the raw score a reviewer gave for one item.
type EvaluationAnswer struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	EvaluationID uint      `gorm:"not null;index:idx_eval_item,unique" json:"evaluation_id"`
	ItemID       uint      `gorm:"not null;index:idx_eval_item,unique" json:"item_id"`
	RawScore     int       `gorm:"not null" json:"raw_score"`
	Comment      string    `gorm:"type:text" json:"comment"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
