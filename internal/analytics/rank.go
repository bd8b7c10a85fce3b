package analytics

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"channel-insights/internal/models"
)

// SortField selects the value videos are ranked by.
type SortField string

const (
	SortViews      SortField = "views"
	SortEngagement SortField = "engagement"
	SortLikes      SortField = "likes"
	SortComments   SortField = "comments"
	SortDate       SortField = "date"
)

func ParseSortField(s string) (SortField, error) {
	switch f := SortField(strings.ToLower(strings.TrimSpace(s))); f {
	case SortViews, SortEngagement, SortLikes, SortComments, SortDate:
		return f, nil
	case "":
		return SortViews, nil
	default:
		return "", fmt.Errorf("unknown sort field %q", s)
	}
}

// sortKey is the comparable value of a video for field. Missing or
// malformed dates rank as the Unix epoch.
func sortKey(v models.VideoMetrics, field SortField) float64 {
	switch field {
	case SortEngagement:
		return v.EngagementRate
	case SortLikes:
		return float64(v.Likes)
	case SortComments:
		return float64(v.Comments)
	case SortDate:
		if t, ok := v.Published(); ok {
			return float64(t.UnixMilli())
		}
		return 0
	default:
		return float64(v.Views)
	}
}

// Sort returns a stably ordered copy of videos. Videos with equal keys keep
// their input order in both directions.
func Sort(videos []models.VideoMetrics, field SortField, descending bool) []models.VideoMetrics {
	sorted := slices.Clone(videos)
	slices.SortStableFunc(sorted, func(a, b models.VideoMetrics) int {
		ka, kb := sortKey(a, field), sortKey(b, field)
		if descending {
			return cmp.Compare(kb, ka)
		}
		return cmp.Compare(ka, kb)
	})
	return sorted
}

// Top returns the first n videos ranked by field, highest first.
func Top(videos []models.VideoMetrics, field SortField, n int) []models.VideoMetrics {
	sorted := Sort(videos, field, true)
	if n >= 0 && n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}
