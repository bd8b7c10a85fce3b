package models

import "time"

// Bucket accumulates the videos published within one period.
type Bucket struct {
	Key      string    `json:"key"` // YYYY-MM-DD week start, YYYY-MM, or weekday 0-6
	Start    time.Time `json:"start"`
	Videos   int       `json:"videos"`
	Views    int64     `json:"views"`
	Likes    int64     `json:"likes"`
	Comments int64     `json:"comments"`
	Shares   int64     `json:"shares"`

	// EngagementSum is the sum of EngagementRate over the folded videos.
	EngagementSum float64 `json:"engagement_sum"`
}

// AvgEngagement returns the mean engagement rate of the bucket's videos.
func (b Bucket) AvgEngagement() float64 {
	if b.Videos == 0 {
		return 0
	}
	return b.EngagementSum / float64(b.Videos)
}

// Point is one entry of a chart series.
type Point struct {
	Period string  `json:"period"`
	Value  float64 `json:"value"`
}

type WeekdayStats struct {
	Days             []Bucket `json:"days"` // index 0 is Sunday
	BestByViews      int      `json:"best_by_views"`
	BestByEngagement int      `json:"best_by_engagement"`
	DatedVideos      int      `json:"dated_videos"`
	UndatedVideos    int      `json:"undated_videos"`
}

type HealthStatus string

const (
	StatusGood     HealthStatus = "good"
	StatusWarning  HealthStatus = "warning"
	StatusCritical HealthStatus = "critical"
)

type HealthMetric struct {
	Label   string       `json:"label"`
	Score   float64      `json:"score"`
	Max     float64      `json:"max"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message"`
}

type HealthReport struct {
	Metrics         []HealthMetric `json:"metrics"`
	Overall         int            `json:"overall"` // 0-100
	RecentVideos    int            `json:"recent_videos"`
	Recommendations []string       `json:"recommendations"`
}

type WatchTimeEntry struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	WatchTimeMinutes int64  `json:"watch_time_minutes"`
	Views            int64  `json:"views"`
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
)

// Suggestion is one slot of a publishing plan.
type Suggestion struct {
	Date           time.Time `json:"date"`
	Kind           string    `json:"kind"`
	Reason         string    `json:"reason"`
	Priority       Priority  `json:"priority"`
	EstimatedViews int64     `json:"estimated_views"`
}

// Totals are the raw sums shown in the KPI panel.
type Totals struct {
	Views    int64 `json:"views"`
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
	AvgViews int64 `json:"avg_views"`
}

// Difference compares one metric of the main channel against another channel.
type Difference struct {
	Label      string  `json:"label"`
	Main       int64   `json:"main"`
	Other      int64   `json:"other"`
	Percentage float64 `json:"percentage"`
	IsHigher   bool    `json:"is_higher"`
}

type ChannelComparison struct {
	Other       ChannelInfo  `json:"other"`
	Differences []Difference `json:"differences"`
}
