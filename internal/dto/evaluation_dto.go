package dto

import (
	"time"

	"github.com/noah-isme/kinerja-go-api/internal/models"
	"github.com/noah-isme/kinerja-go-api/internal/scoring"
)

// EvaluationCreateRequest starts an evaluation of an employee against a template.
type EvaluationCreateRequest struct {
	TemplateID uint   `json:"template_id" validate:"required,gt=0"`
	EmployeeID uint   `json:"employee_id" validate:"required,gt=0"`
	Period     string `json:"period" validate:"required,max=32"`
}

// AnswerRequest records the raw score a reviewer gave for one item.
type AnswerRequest struct {
	ItemID   uint   `json:"item_id" validate:"required,gt=0"`
	RawScore int    `json:"raw_score" validate:"gte=0"`
	Comment  string `json:"comment" validate:"omitempty,max=4000"`
}

// AnswerBatchRequest submits one or more answers in a single call.
type AnswerBatchRequest struct {
	Answers []AnswerRequest `json:"answers" validate:"required,min=1,dive"`
}

// EvaluationFilterRequest describes query string filters for listing evaluations.
type EvaluationFilterRequest struct {
	EmployeeID *uint   `query:"employee_id"`
	ReviewerID *uint   `query:"reviewer_id"`
	Status     *string `query:"status" validate:"omitempty,oneof=DRAFT IN_PROGRESS COMPLETED"`
	Period     *string `query:"period"`
}

// EvaluationResponse serializes an evaluation with its computed scores. Score
// is recomputed on every read; the stored final score only exists after
// finalization.
type EvaluationResponse struct {
	ID          uint                    `json:"id"`
	TemplateID  uint                    `json:"template_id"`
	EmployeeID  uint                    `json:"employee_id"`
	ReviewerID  uint                    `json:"reviewer_id"`
	Period      string                  `json:"period"`
	Status      models.EvaluationStatus `json:"status"`
	FinalScore  *float64                `json:"final_score"`
	FinalizedAt *time.Time              `json:"finalized_at"`
	Employee    UserResponse            `json:"employee"`
	Reviewer    UserResponse            `json:"reviewer"`
	Score       *scoring.Result         `json:"score,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// NewEvaluationResponse maps an evaluation and its computed score onto the response shape.
func NewEvaluationResponse(evaluation models.Evaluation, score *scoring.Result) EvaluationResponse {
	return EvaluationResponse{
		ID:          evaluation.ID,
		TemplateID:  evaluation.TemplateID,
		EmployeeID:  evaluation.EmployeeID,
		ReviewerID:  evaluation.ReviewerID,
		Period:      evaluation.Period,
		Status:      evaluation.Status,
		FinalScore:  evaluation.FinalScore,
		FinalizedAt: evaluation.FinalizedAt,
		Employee:    NewUserResponse(evaluation.Employee),
		Reviewer:    NewUserResponse(evaluation.Reviewer),
		Score:       score,
		CreatedAt:   evaluation.CreatedAt,
		UpdatedAt:   evaluation.UpdatedAt,
	}
}
