package models

import (
	"strconv"
	"strings"
	"time"
)

// Count is a counter that decodes from a JSON number or a numeric string.
// The Data API returns statistics as strings; exported dashboards use numbers.
// Anything unparsable decodes to zero.
type Count int64

func (c *Count) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(strings.Trim(strings.TrimSpace(string(data)), `"`))
	if s == "" || s == "null" {
		*c = 0
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		*c = Count(n)
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 {
		*c = Count(f)
		return nil
	}
	*c = 0
	return nil
}

// RawVideo is a video record as supplied by the platform client or an
// exported file. Counters come in two conventions: count-suffixed
// (viewCount) and bare (views). Both are kept here and resolved once by
// analytics.Enrich.
type RawVideo struct {
	ID    string `json:"id"`
	Title string `json:"title"`

	ViewCount    Count `json:"viewCount"`
	LikeCount    Count `json:"likeCount"`
	CommentCount Count `json:"commentCount"`

	Views    Count `json:"views"`
	Likes    Count `json:"likes"`
	Comments Count `json:"comments"`

	PublishedAt     string   `json:"publishedAt"`
	Tags            []string `json:"tags,omitempty"`
	Shares          Count    `json:"shares"`
	WatchTime       Count    `json:"watchTime"`       // seconds
	AvgViewDuration Count    `json:"avgViewDuration"` // seconds
	Duration        string   `json:"duration"`
	Thumbnail       string   `json:"thumbnail"`
	Description     string   `json:"description"`
}

// VideoMetrics is a normalized video with its derived rates. Rates are
// percentages and are zero whenever Views is zero.
type VideoMetrics struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Views           int64    `json:"views"`
	Likes           int64    `json:"likes"`
	Comments        int64    `json:"comments"`
	Shares          int64    `json:"shares"`
	PublishedAt     string   `json:"published_at"`
	Tags            []string `json:"tags,omitempty"`
	WatchTime       int64    `json:"watch_time"`
	AvgViewDuration int64    `json:"avg_view_duration"`
	Duration        string   `json:"duration"`
	Thumbnail       string   `json:"thumbnail"`
	Description     string   `json:"description"`

	EngagementRate float64 `json:"engagement_rate"`
	LikeRate       float64 `json:"like_rate"`
	CommentRate    float64 `json:"comment_rate"`
}

// Published returns the parsed publish time. ok is false when the
// timestamp is absent or malformed.
func (v VideoMetrics) Published() (t time.Time, ok bool) {
	return ParseTimestamp(v.PublishedAt)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses the ISO-8601 variants seen in platform payloads.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

type ChannelInfo struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	Subscribers Count  `json:"subscribers"`
	ViewCount   Count  `json:"viewCount"`
	VideoCount  Count  `json:"videoCount"`
}

// ChannelMetrics summarizes a video list. Subscribers and Views are the
// channel totals, passed through rather than derived from the list.
type ChannelMetrics struct {
	Subscribers       int64   `json:"subscribers"`
	Views             int64   `json:"views"`
	VideoCount        int     `json:"video_count"`
	AvgEngagementRate float64 `json:"avg_engagement_rate"`
	AvgViewsPerVideo  float64 `json:"avg_views_per_video"`
	AvgLikesPerVideo  float64 `json:"avg_likes_per_video"`
}
