package scoring

import (
	"math"

	"github.com/noah-isme/kinerja-go-api/internal/models"
)

// ScoredItem is the derived grading of a single answer.
type ScoredItem struct {
	ItemID               uint    `json:"item_id"`
	RawScore             int     `json:"raw_score"`
	Grade                string  `json:"grade"`
	WeightedContribution float64 `json:"weighted_contribution"`
}

// CategoryScore is the weighted result for one category on a 0-100 scale,
// comparable across categories regardless of item count.
type CategoryScore struct {
	CategoryID uint         `json:"category_id"`
	Name       string       `json:"name"`
	Weight     float64      `json:"weight"`
	Score      float64      `json:"score"`
	Items      []ScoredItem `json:"items"`
}

// Result is the full scored outcome of one aggregation call. Complete is
// false when any declared item lacks an answer; a partial result is a
// reporting concern for the caller, not an aggregation failure.
type Result struct {
	FinalScore float64         `json:"final_score"`
	Percentage float64         `json:"percentage"`
	Complete   bool            `json:"complete"`
	Categories []CategoryScore `json:"categories"`
}

// ScoreItem resolves the answer's letter grade and weighted contribution.
func ScoreItem(answer models.EvaluationAnswer, item models.EvaluationItem) (ScoredItem, error) {
	if item.MaxScore <= 0 {
		return ScoredItem{}, ErrMalformedGradeConfig
	}

	grade, err := ResolveGrade(answer.RawScore, item.GradeBands)
	if err != nil {
		return ScoredItem{}, err
	}

	return ScoredItem{
		ItemID:               item.ID,
		RawScore:             answer.RawScore,
		Grade:                grade,
		WeightedContribution: float64(answer.RawScore) / float64(item.MaxScore) * item.Weight,
	}, nil
}

// ScoreCategory sums the weighted contributions of the scored items and
// normalizes by the category's declared item weights. Unanswered items count
// as zero contribution but keep their weight in the denominator, so partial
// evaluations never inflate a category.
func ScoreCategory(items []ScoredItem, category models.EvaluationCategory) CategoryScore {
	totalWeight := 0.0
	for _, item := range category.Items {
		totalWeight += item.Weight
	}

	sum := 0.0
	for _, item := range items {
		sum += item.WeightedContribution
	}

	score := 0.0
	if totalWeight > 0 {
		score = sum / totalWeight * 100
	}

	return CategoryScore{
		CategoryID: category.ID,
		Name:       category.Name,
		Weight:     category.Weight,
		Score:      score,
		Items:      items,
	}
}

// ScoreTemplate scores every answered item in the template graph and combines
// category scores into the final weighted score, scaled to the template's max
// score. Rounding happens exactly once, here, to one decimal place using
// round-half-away-from-zero; every intermediate value stays at full precision.
func ScoreTemplate(template models.EvaluationTemplate, answers []models.EvaluationAnswer) (Result, error) {
	answerByItem := make(map[uint]models.EvaluationAnswer, len(answers))
	for _, answer := range answers {
		answerByItem[answer.ItemID] = answer
	}

	complete := true
	categories := make([]CategoryScore, 0, len(template.Categories))
	totalCategoryWeight := 0.0
	weightedSum := 0.0

	for _, category := range template.Categories {
		scored := make([]ScoredItem, 0, len(category.Items))
		for _, item := range category.Items {
			answer, ok := answerByItem[item.ID]
			if !ok {
				complete = false
				continue
			}

			scoredItem, err := ScoreItem(answer, item)
			if err != nil {
				return Result{}, err
			}
			scored = append(scored, scoredItem)
		}

		categoryScore := ScoreCategory(scored, category)
		categories = append(categories, categoryScore)
		totalCategoryWeight += category.Weight
		weightedSum += category.Weight * categoryScore.Score
	}

	overall := 0.0
	if totalCategoryWeight > 0 {
		overall = weightedSum / totalCategoryWeight
	}

	finalScore := roundOneDecimal(overall / 100 * float64(template.MaxScore))

	percentage := 0.0
	if template.MaxScore > 0 {
		percentage = finalScore / float64(template.MaxScore) * 100
	}

	return Result{
		FinalScore: finalScore,
		Percentage: percentage,
		Complete:   complete,
		Categories: categories,
	}, nil
}

// roundOneDecimal rounds half away from zero to one decimal place.
func roundOneDecimal(value float64) float64 {
	return math.Round(value*10) / 10
}
