package ports

import "context"

// UserStats summarises the user population.
type UserStats struct {
	TotalUsers        int     `json:"total_users"`
	ActiveUsers       int     `json:"active_users"`
	NewUsersThisMonth int     `json:"new_users_this_month"`
	UserGrowthRate    float64 `json:"user_growth_rate"`
}

// ProjectStats summarises the project portfolio.
type ProjectStats struct {
	TotalProjects          int            `json:"total_projects"`
	ActiveProjects         int            `json:"active_projects"`
	CompletedProjects      int            `json:"completed_projects"`
	ProjectsByStatus       map[string]int `json:"projects_by_status"`
	AverageProjectDuration float64        `json:"average_project_duration"`
}

// EngagementStats are simulated figures for dashboard display.
type EngagementStats struct {
	DailyActiveUsers       int `json:"daily_active_users"`
	WeeklyActiveUsers      int `json:"weekly_active_users"`
	AverageSessionDuration int `json:"average_session_duration"`
	PageViews              int `json:"page_views"`
}

// RevenueStats are synthetic estimates derived from project types; this is a
// placeholder, not a billing integration.
type RevenueStats struct {
	TotalRevenue        float64 `json:"total_revenue"`
	MonthlyRevenue      float64 `json:"monthly_revenue"`
	AverageProjectValue float64 `json:"average_project_value"`
	RevenueGrowthRate   float64 `json:"revenue_growth_rate"`
}

// TimePoint is one day-bucket in a trailing time series.
type TimePoint struct {
	Date   string  `json:"date"`
	Count  int     `json:"count,omitempty"`
	Amount float64 `json:"amount,omitempty"`
}

// TimeSeriesData holds the trailing 30-day series.
type TimeSeriesData struct {
	UserRegistrations []TimePoint `json:"user_registrations"`
	ProjectCreations  []TimePoint `json:"project_creations"`
	Revenue           []TimePoint `json:"revenue"`
}

// AnalyticsData is the full dashboard snapshot.
type AnalyticsData struct {
	UserStats       UserStats       `json:"user_stats"`
	ProjectStats    ProjectStats    `json:"project_stats"`
	EngagementStats EngagementStats `json:"engagement_stats"`
	RevenueStats    RevenueStats    `json:"revenue_stats"`
	TimeSeriesData  TimeSeriesData  `json:"time_series_data"`
}

// ProjectAnalytics is the per-project drill-down view.
type ProjectAnalytics struct {
	ProjectID      string  `json:"project_id"`
	Status         string  `json:"status"`
	DurationDays   int     `json:"duration_days"`
	UpdateCount    int     `json:"update_count"`
	EstimatedValue float64 `json:"estimated_value"`
}

// AnalyticsService computes read-only summary snapshots on demand. There is
// no caching or incremental maintenance; each call reads the full current
// user and project lists.
type AnalyticsService interface {
	Dashboard(ctx context.Context) (*AnalyticsData, error)
	Project(ctx context.Context, projectID string) (*ProjectAnalytics, error)
}
