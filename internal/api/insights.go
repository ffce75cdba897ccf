package api

import (
	"context"
	"net/http"
)

// Recommendation is the server's verdict for one subscribed platform.
type Recommendation struct {
	PlatformID           int                `json:"platform_id"`
	PlatformName         string             `json:"platform_name"`
	PlatformColor        string             `json:"platform_color"`
	MonthlyCost          float64            `json:"monthly_cost"`
	ValueScore           float64            `json:"value_score"`
	ChurnRisk            float64            `json:"churn_risk"`
	Action               string             `json:"action"`
	Confidence           string             `json:"confidence"`
	FeatureContributions map[string]float64 `json:"feature_contributions"`
	Reason               string             `json:"reason"`
}

// PlatformFeatures are the raw engagement figures behind a recommendation.
type PlatformFeatures struct {
	PlatformID            int     `json:"platform_id"`
	PlatformName          string  `json:"platform_name"`
	PlatformColor         string  `json:"platform_color"`
	MonthlyCost           float64 `json:"monthly_cost"`
	TotalItems            int     `json:"total_items"`
	WatchedCount          int     `json:"watched_count"`
	WatchingCount         int     `json:"watching_count"`
	WantCount             int     `json:"want_count"`
	MovieCount            int     `json:"movie_count"`
	ShowCount             int     `json:"show_count"`
	DaysSinceLastActivity int     `json:"days_since_last_activity"`
	CompletionRate        float64 `json:"completion_rate"`
	EngagementRate        float64 `json:"engagement_rate"`
	RecencyScore          float64 `json:"recency_score"`
	ContentVolumeRaw      int     `json:"content_volume_raw"`
	CostEfficiencyRaw     float64 `json:"cost_efficiency_raw"`
}

// Insights is the response of GET /insights/.
type Insights struct {
	GeneratedAt             Time               `json:"generated_at"`
	TotalMonthlySpend       float64            `json:"total_monthly_spend"`
	SubscribedPlatformCount int                `json:"subscribed_platform_count"`
	DataCoverageNote        *string            `json:"data_coverage_note"`
	Recommendations         []Recommendation   `json:"recommendations"`
	PlatformFeatures        []PlatformFeatures `json:"platform_features"`
}

// SlimItem is the compact watchlist item used by discovery sections.
type SlimItem struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Type         string  `json:"type"`
	Status       string  `json:"status"`
	PlatformName *string `json:"platform_name"`
	PosterURL    *string `json:"poster_url"`
	AddedAt      Time    `json:"added_at"`
}

// WatchlistStats summarizes the watchlist.
type WatchlistStats struct {
	TotalItems              int     `json:"total_items"`
	Watched                 int     `json:"watched"`
	Watching                int     `json:"watching"`
	WantToWatch             int     `json:"want_to_watch"`
	TotalPlatforms          int     `json:"total_platforms"`
	SubscribedPlatforms     int     `json:"subscribed_platforms"`
	EstimatedHoursRemaining float64 `json:"estimated_hours_remaining"`
}

// PlatformBreakdown counts items per platform.
type PlatformBreakdown struct {
	PlatformName string `json:"platform_name"`
	Color        string `json:"color"`
	IsSubscribed bool   `json:"is_subscribed"`
	Total        int    `json:"total"`
	Watched      int    `json:"watched"`
	Watching     int    `json:"watching"`
	WantToWatch  int    `json:"want_to_watch"`
}

// Discovery is the response of GET /discovery/.
type Discovery struct {
	ContinueWatching  []SlimItem          `json:"continue_watching"`
	UpNext            []SlimItem          `json:"up_next"`
	RecentlyCompleted []SlimItem          `json:"recently_completed"`
	Stats             WatchlistStats      `json:"stats"`
	PlatformBreakdown []PlatformBreakdown `json:"platform_breakdown"`
}

// Insights fetches spending recommendations.
func (c *Client) Insights(ctx context.Context) (Insights, error) {
	return deref(Do[Insights](ctx, c, http.MethodGet, "/insights/", nil))
}

// Discovery fetches the discovery dashboard.
func (c *Client) Discovery(ctx context.Context) (Discovery, error) {
	return deref(Do[Discovery](ctx, c, http.MethodGet, "/discovery/", nil))
}
