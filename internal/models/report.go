package models

import "time"

// ChannelReport is the result of one report run, rendered into the email.
type ChannelReport struct {
	Date        time.Time           `json:"date"`
	Channel     ChannelInfo         `json:"channel"`
	Metrics     ChannelMetrics      `json:"metrics"`
	Totals      Totals              `json:"totals"`
	Health      HealthReport        `json:"health"`
	TrendPeriod string              `json:"trend_period"`
	Trend       []Point             `json:"trend"`
	Engagement  []Bucket            `json:"engagement"`
	Subscribers []Point             `json:"subscribers"`
	Weekdays    WeekdayStats        `json:"weekdays"`
	TopVideos   []VideoMetrics      `json:"top_videos"`
	RecentViews []Point             `json:"recent_views"` // views of the latest dated uploads, oldest first
	Tags        []string            `json:"tags,omitempty"`
	Best        *VideoMetrics       `json:"best,omitempty"`
	Worst       *VideoMetrics       `json:"worst,omitempty"`
	WatchTime   []WatchTimeEntry    `json:"watch_time"`
	Plan        []Suggestion        `json:"plan"`
	Comparisons []ChannelComparison `json:"comparisons,omitempty"`
	Insight     *Insight            `json:"insight,omitempty"`
	CSVFiles    []string            `json:"csv_files,omitempty"`
}

// Insight is the model-written narrative attached to a report.
type Insight struct {
	Summary         string   `json:"summary"`
	Strengths       []string `json:"strengths"`
	Recommendations []string `json:"recommendations"`
}
