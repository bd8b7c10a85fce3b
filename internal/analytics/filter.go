package analytics

import (
	"strings"
	"time"

	"channel-insights/internal/models"

	"github.com/samber/lo"
)

// Predicate reports whether a video is kept by a filter.
type Predicate func(models.VideoMetrics) bool

// ByDateRange keeps videos published within [start, end]. A nil bound is
// open. Videos without a parsable date are dropped once any bound is set.
// With both bounds nil the input slice is returned as is.
func ByDateRange(videos []models.VideoMetrics, start, end *time.Time) []models.VideoMetrics {
	if start == nil && end == nil {
		return videos
	}
	return Filter(videos, PublishedBetween(start, end))
}

func PublishedBetween(start, end *time.Time) Predicate {
	return func(v models.VideoMetrics) bool {
		if start == nil && end == nil {
			return true
		}
		published, ok := v.Published()
		if !ok {
			return false
		}
		if start != nil && published.Before(*start) {
			return false
		}
		if end != nil && published.After(*end) {
			return false
		}
		return true
	}
}

// HasTag matches videos carrying tag exactly. An empty tag matches everything.
func HasTag(tag string) Predicate {
	return func(v models.VideoMetrics) bool {
		return tag == "" || lo.Contains(v.Tags, tag)
	}
}

func MinViews(n int64) Predicate {
	return func(v models.VideoMetrics) bool {
		return v.Views >= n
	}
}

// TitleContains is a case-insensitive substring match on the title.
func TitleContains(query string) Predicate {
	q := strings.ToLower(strings.TrimSpace(query))
	return func(v models.VideoMetrics) bool {
		return q == "" || strings.Contains(strings.ToLower(v.Title), q)
	}
}

// Filter keeps the videos matching every predicate. The result does not
// depend on predicate order.
func Filter(videos []models.VideoMetrics, preds ...Predicate) []models.VideoMetrics {
	return lo.Filter(videos, func(v models.VideoMetrics, _ int) bool {
		for _, p := range preds {
			if p != nil && !p(v) {
				return false
			}
		}
		return true
	})
}

// Tags lists the distinct non-blank tags in first-seen order, at most limit
// of them (limit <= 0 means no cap).
func Tags(videos []models.VideoMetrics, limit int) []string {
	all := lo.FlatMap(videos, func(v models.VideoMetrics, _ int) []string {
		return lo.FilterMap(v.Tags, func(t string, _ int) (string, bool) {
			t = strings.TrimSpace(t)
			return t, t != ""
		})
	})
	tags := lo.Uniq(all)
	if limit > 0 && len(tags) > limit {
		tags = tags[:limit]
	}
	return tags
}
