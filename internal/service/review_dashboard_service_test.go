package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kinerja-go-api/internal/dto"
	"github.com/noah-isme/kinerja-go-api/internal/models"
)

func seedEvaluations(repo *fakeEvaluationRepo, reviewerID uint) {
	score1 := 68.0
	score2 := 92.0

	repo.evaluations[1] = models.Evaluation{ID: 1, TemplateID: 1, EmployeeID: 2, ReviewerID: reviewerID, Period: "2025-H1", Status: models.EvaluationStatusCompleted, FinalScore: &score1}
	repo.evaluations[2] = models.Evaluation{ID: 2, TemplateID: 1, EmployeeID: 4, ReviewerID: reviewerID, Period: "2025-H1", Status: models.EvaluationStatusCompleted, FinalScore: &score2}
	repo.evaluations[3] = models.Evaluation{ID: 3, TemplateID: 1, EmployeeID: 5, ReviewerID: reviewerID, Period: "2025-H2", Status: models.EvaluationStatusInProgress}
	repo.evaluations[4] = models.Evaluation{ID: 4, TemplateID: 1, EmployeeID: 6, ReviewerID: reviewerID, Period: "2025-H2", Status: models.EvaluationStatusDraft}
	repo.evaluations[5] = models.Evaluation{ID: 5, TemplateID: 1, EmployeeID: 7, ReviewerID: 99, Period: "2025-H2", Status: models.EvaluationStatusDraft}
	repo.nextID = 5
}

func newDashboardFixture(t *testing.T) (*fakeEvaluationRepo, ReviewDashboardService) {
	t.Helper()
	templates := newFakeTemplateRepo(reviewTemplate())
	users := newFakeUserRepo()
	evaluations := newFakeEvaluationRepo(templates, users)
	svc := NewReviewDashboardService(evaluations, testRedis(t), time.Minute, testLogger())
	return evaluations, svc
}

func TestGetDashboard(t *testing.T) {
	evaluations, svc := newDashboardFixture(t)
	seedEvaluations(evaluations, 3)

	response, err := svc.GetDashboard(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, 4, response.TotalEvaluations)
	require.Equal(t, 1, response.Draft)
	require.Equal(t, 1, response.InProgress)
	require.Equal(t, 2, response.Completed)
	require.NotNil(t, response.AverageScore)
	require.InDelta(t, 80.0, *response.AverageScore, 1e-9)
	require.Equal(t, []string{"2025-H1", "2025-H2"}, response.RecentPeriods)
}

func TestGetDashboardEmpty(t *testing.T) {
	_, svc := newDashboardFixture(t)

	response, err := svc.GetDashboard(context.Background(), 3)
	require.NoError(t, err)
	require.Zero(t, response.TotalEvaluations)
	require.Nil(t, response.AverageScore)
	require.Empty(t, response.RecentPeriods)
}

func TestGetDashboardServesFromCache(t *testing.T) {
	evaluations, svc := newDashboardFixture(t)
	seedEvaluations(evaluations, 3)

	first, err := svc.GetDashboard(context.Background(), 3)
	require.NoError(t, err)

	// New work after the cache fill is invisible until the entry expires.
	evaluations.evaluations[6] = models.Evaluation{ID: 6, TemplateID: 1, EmployeeID: 8, ReviewerID: 3, Period: "2026-H1", Status: models.EvaluationStatusDraft}

	second, err := svc.GetDashboard(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestGetDashboardCacheIsPerReviewer(t *testing.T) {
	evaluations, svc := newDashboardFixture(t)
	seedEvaluations(evaluations, 3)

	byReviewer, err := svc.GetDashboard(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, 4, byReviewer.TotalEvaluations)

	other, err := svc.GetDashboard(context.Background(), 99)
	require.NoError(t, err)
	require.Equal(t, 1, other.TotalEvaluations)
}

func TestBuildDashboardLimitsRecentPeriods(t *testing.T) {
	evaluations := make([]models.Evaluation, 0, 7)
	for i := 0; i < 7; i++ {
		evaluations = append(evaluations, models.Evaluation{
			ID:     uint(i + 1),
			Period: string(rune('A' + i)),
			Status: models.EvaluationStatusDraft,
		})
	}

	response := buildDashboard(evaluations)
	require.Len(t, response.RecentPeriods, 5)
	require.Equal(t, dto.ReviewDashboardResponse{
		TotalEvaluations: 7,
		Draft:            7,
		RecentPeriods:    []string{"A", "B", "C", "D", "E"},
	}, response)
}
