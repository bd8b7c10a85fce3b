// Package analytics turns raw per-video counters into rates, trend series,
// rankings, a channel health score and CSV exports.
//
// Every function here is pure: inputs are never mutated and nothing is
// shared between calls, so they are safe to call concurrently.
package analytics

import (
	"strings"

	"channel-insights/internal/models"
)

// EngagementRate returns (likes + comments) / views * 100, or 0 without views.
func EngagementRate(views, likes, comments int64) float64 {
	if views == 0 {
		return 0
	}
	return float64(likes+comments) / float64(views) * 100
}

func LikeRate(views, likes int64) float64 {
	if views == 0 {
		return 0
	}
	return float64(likes) / float64(views) * 100
}

func CommentRate(views, comments int64) float64 {
	if views == 0 {
		return 0
	}
	return float64(comments) / float64(views) * 100
}

// pick resolves the two counter conventions: the count-suffixed value wins,
// then the bare one, then zero.
func pick(suffixed, bare models.Count) int64 {
	if suffixed > 0 {
		return int64(suffixed)
	}
	if bare > 0 {
		return int64(bare)
	}
	return 0
}

func nonNegative(c models.Count) int64 {
	if c < 0 {
		return 0
	}
	return int64(c)
}

// Enrich normalizes a raw record and computes its rates.
func Enrich(raw models.RawVideo) models.VideoMetrics {
	views := pick(raw.ViewCount, raw.Views)
	likes := pick(raw.LikeCount, raw.Likes)
	comments := pick(raw.CommentCount, raw.Comments)

	var tags []string
	if len(raw.Tags) > 0 {
		tags = make([]string, len(raw.Tags))
		copy(tags, raw.Tags)
	}

	return models.VideoMetrics{
		ID:              raw.ID,
		Title:           raw.Title,
		Views:           views,
		Likes:           likes,
		Comments:        comments,
		Shares:          nonNegative(raw.Shares),
		PublishedAt:     strings.TrimSpace(raw.PublishedAt),
		Tags:            tags,
		WatchTime:       nonNegative(raw.WatchTime),
		AvgViewDuration: nonNegative(raw.AvgViewDuration),
		Duration:        raw.Duration,
		Thumbnail:       raw.Thumbnail,
		Description:     raw.Description,
		EngagementRate:  EngagementRate(views, likes, comments),
		LikeRate:        LikeRate(views, likes),
		CommentRate:     CommentRate(views, comments),
	}
}

func EnrichAll(raws []models.RawVideo) []models.VideoMetrics {
	out := make([]models.VideoMetrics, len(raws))
	for i, raw := range raws {
		out[i] = Enrich(raw)
	}
	return out
}
