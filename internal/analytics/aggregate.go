package analytics

import (
	"math"

	"channel-insights/internal/models"
)

// Aggregate rolls a video list into channel-level averages. subscribers and
// totalViews are the channel's own totals and pass through untouched.
func Aggregate(videos []models.VideoMetrics, subscribers, totalViews int64) models.ChannelMetrics {
	metrics := models.ChannelMetrics{
		Subscribers: subscribers,
		Views:       totalViews,
		VideoCount:  len(videos),
	}
	if len(videos) == 0 {
		return metrics
	}

	var engagement float64
	var views, likes int64
	for _, v := range videos {
		engagement += v.EngagementRate
		views += v.Views
		likes += v.Likes
	}

	n := float64(len(videos))
	metrics.AvgEngagementRate = engagement / n
	metrics.AvgViewsPerVideo = float64(views) / n
	metrics.AvgLikesPerVideo = float64(likes) / n
	return metrics
}

// Compare returns the videos with the highest and lowest engagement rate.
// Both are nil for an empty list.
func Compare(videos []models.VideoMetrics) (best, worst *models.VideoMetrics) {
	if len(videos) == 0 {
		return nil, nil
	}
	ranked := Sort(videos, SortEngagement, true)
	b, w := ranked[0], ranked[len(ranked)-1]
	return &b, &w
}

func Totals(videos []models.VideoMetrics) models.Totals {
	var t models.Totals
	for _, v := range videos {
		t.Views += v.Views
		t.Likes += v.Likes
		t.Comments += v.Comments
	}
	t.AvgViews = int64(math.Round(float64(t.Views) / float64(max(len(videos), 1))))
	return t
}

// Difference reports how far main is from other, as an absolute percentage
// of other. A zero reference yields 0% and counts as higher.
func Difference(label string, main, other int64) models.Difference {
	d := models.Difference{Label: label, Main: main, Other: other, IsHigher: true}
	if other == 0 {
		return d
	}
	diff := float64(main-other) / float64(other) * 100
	d.Percentage = math.Abs(diff)
	d.IsHigher = diff > 0
	return d
}

// CompareChannels lines up subscribers, views and video counts of two channels.
func CompareChannels(main, other models.ChannelInfo) models.ChannelComparison {
	return models.ChannelComparison{
		Other: other,
		Differences: []models.Difference{
			Difference("Subscribers", int64(main.Subscribers), int64(other.Subscribers)),
			Difference("Total views", int64(main.ViewCount), int64(other.ViewCount)),
			Difference("Published videos", int64(main.VideoCount), int64(other.VideoCount)),
		},
	}
}
