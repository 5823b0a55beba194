package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/kinerja-go-api/internal/dto"
	"github.com/noah-isme/kinerja-go-api/internal/models"
	"github.com/noah-isme/kinerja-go-api/internal/repository"
)

const recentPeriodLimit = 5

// ReviewDashboardService produces aggregated workload metrics per reviewer.
type ReviewDashboardService interface {
	GetDashboard(ctx context.Context, reviewerID uint) (dto.ReviewDashboardResponse, error)
}

type reviewDashboardService struct {
	evaluations repository.EvaluationRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
}

// NewReviewDashboardService builds the dashboard aggregator.
func NewReviewDashboardService(evaluations repository.EvaluationRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) ReviewDashboardService {
	return &reviewDashboardService{
		evaluations: evaluations,
		cache:       cache,
		cacheTTL:    ttl,
		logger:      logger.With().Str("component", "review_dashboard_service").Logger(),
	}
}

func (s *reviewDashboardService) GetDashboard(ctx context.Context, reviewerID uint) (dto.ReviewDashboardResponse, error) {
	cacheKey := fmt.Sprintf("dashboard:reviewer:%d", reviewerID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.ReviewDashboardResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Uint("reviewer_id", reviewerID).Msg("dashboard cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
		}
	}

	filter := repository.EvaluationFilter{ReviewerID: &reviewerID}
	evaluations, err := s.evaluations.List(ctx, filter)
	if err != nil {
		return dto.ReviewDashboardResponse{}, err
	}

	response := buildDashboard(evaluations)

	if s.cache != nil {
		payload, err := json.Marshal(response)
		if err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
			}
		}
	}

	return response, nil
}

func buildDashboard(evaluations []models.Evaluation) dto.ReviewDashboardResponse {
	response := dto.ReviewDashboardResponse{
		TotalEvaluations: len(evaluations),
		RecentPeriods:    []string{},
	}

	scoreSum := 0.0
	scored := 0
	seenPeriods := map[string]struct{}{}

	for _, evaluation := range evaluations {
		switch evaluation.Status {
		case models.EvaluationStatusDraft:
			response.Draft++
		case models.EvaluationStatusInProgress:
			response.InProgress++
		case models.EvaluationStatusCompleted:
			response.Completed++
		}

		if evaluation.FinalScore != nil {
			scoreSum += *evaluation.FinalScore
			scored++
		}

		if _, seen := seenPeriods[evaluation.Period]; !seen && len(response.RecentPeriods) < recentPeriodLimit {
			seenPeriods[evaluation.Period] = struct{}{}
			response.RecentPeriods = append(response.RecentPeriods, evaluation.Period)
		}
	}

	if scored > 0 {
		average := scoreSum / float64(scored)
		response.AverageScore = &average
	}

	return response
}
