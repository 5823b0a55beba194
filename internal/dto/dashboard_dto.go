package dto

// ReviewDashboardResponse aggregates a reviewer's evaluation workload.
type ReviewDashboardResponse struct {
	TotalEvaluations int      `json:"total_evaluations"`
	Draft            int      `json:"draft"`
	InProgress       int      `json:"in_progress"`
	Completed        int      `json:"completed"`
	AverageScore     *float64 `json:"average_score"`
	RecentPeriods    []string `json:"recent_periods"`
}

// SettingRequest updates one global application setting.
type SettingRequest struct {
	Key   string `json:"key" validate:"required,max=128"`
	Value string `json:"value" validate:"required"`
}
