package analytics

import (
	"fmt"
	"math"
	"time"

	"channel-insights/internal/models"
)

// Sub-metric scale and status thresholds of the channel health score.
const (
	HealthMaxScore = 10.0

	EngagementGoodAbove    = 5.0
	EngagementWarningAbove = 2.0

	RecentWindowDays          = 30
	ConsistencyGoodAbove      = 2 // recent videos
	ConsistencyWarningAbove   = 0
	consistencyRecentMultiple = 100.0

	VarietyGoodAbove    = 2.0 // engagement standard deviation
	VarietyWarningAbove = 0.5
	varietyMultiple     = 2.0

	GrowthGoodAbove    = 5.0
	GrowthWarningAbove = 2.0
	growthMultiple     = 10.0

	// Recommendation triggers.
	lowEngagementBelow = 3.0
	lowCadenceBelow    = 2
)

func status(value, goodAbove, warningAbove float64) models.HealthStatus {
	switch {
	case value > goodAbove:
		return models.StatusGood
	case value > warningAbove:
		return models.StatusWarning
	default:
		return models.StatusCritical
	}
}

func capScore(v float64) float64 {
	return math.Min(v, HealthMaxScore)
}

// RecentCount counts videos published at most RecentWindowDays whole days
// before now. Undated videos never count.
func RecentCount(videos []models.VideoMetrics, now time.Time) int {
	n := 0
	for _, v := range videos {
		published, ok := v.Published()
		if !ok {
			continue
		}
		days := math.Floor(now.Sub(published).Hours() / 24)
		if days <= RecentWindowDays {
			n++
		}
	}
	return n
}

// EngagementStdDev is the population standard deviation of engagement rates.
func EngagementStdDev(videos []models.VideoMetrics) float64 {
	if len(videos) == 0 {
		return 0
	}
	n := float64(len(videos))
	var mean float64
	for _, v := range videos {
		mean += v.EngagementRate
	}
	mean /= n

	var sq float64
	for _, v := range videos {
		d := v.EngagementRate - mean
		sq += d * d
	}
	return math.Sqrt(sq / n)
}

// Health scores a channel on engagement, publishing consistency, content
// variety and growth potential. metrics should come from Aggregate over the
// same videos.
func Health(metrics models.ChannelMetrics, videos []models.VideoMetrics, now time.Time) models.HealthReport {
	recent := RecentCount(videos, now)
	stddev := EngagementStdDev(videos)
	growth := capScore(float64(metrics.Subscribers) / math.Max(metrics.AvgViewsPerVideo, 1) * growthMultiple)

	engagementMetric := models.HealthMetric{
		Label:  "Engagement rate",
		Score:  capScore(metrics.AvgEngagementRate),
		Max:    HealthMaxScore,
		Status: status(metrics.AvgEngagementRate, EngagementGoodAbove, EngagementWarningAbove),
	}
	switch engagementMetric.Status {
	case models.StatusGood:
		engagementMetric.Message = "Excellent engagement rate"
	case models.StatusWarning:
		engagementMetric.Message = "Moderate engagement, there is room to improve"
	default:
		engagementMetric.Message = "Low engagement, review titles and descriptions"
	}

	consistencyMetric := models.HealthMetric{
		Label:  "Publishing frequency",
		Score:  capScore(float64(recent) / float64(max(len(videos), 1)) * consistencyRecentMultiple),
		Max:    HealthMaxScore,
		Status: status(float64(recent), ConsistencyGoodAbove, ConsistencyWarningAbove),
	}
	switch consistencyMetric.Status {
	case models.StatusGood:
		consistencyMetric.Message = fmt.Sprintf("%d videos published recently", recent)
	case models.StatusWarning:
		consistencyMetric.Message = "Low volume of recent uploads"
	default:
		consistencyMetric.Message = "No videos in the last month"
	}

	varietyMetric := models.HealthMetric{
		Label:  "Content variety",
		Score:  capScore(stddev * varietyMultiple),
		Max:    HealthMaxScore,
		Status: status(stddev, VarietyGoodAbove, VarietyWarningAbove),
	}
	switch varietyMetric.Status {
	case models.StatusGood:
		varietyMetric.Message = "Good content mix with varied engagement"
	case models.StatusWarning:
		varietyMetric.Message = "Content performs fairly uniformly"
	default:
		varietyMetric.Message = "Engagement is nearly identical across videos"
	}

	growthMetric := models.HealthMetric{
		Label:  "Growth potential",
		Score:  growth,
		Max:    HealthMaxScore,
		Status: status(growth, GrowthGoodAbove, GrowthWarningAbove),
	}
	switch growthMetric.Status {
	case models.StatusGood:
		growthMetric.Message = "Good view-to-subscriber conversion"
	case models.StatusWarning:
		growthMetric.Message = "Conversion has room to improve"
	default:
		growthMetric.Message = "Focus on subscribe calls-to-action"
	}

	report := models.HealthReport{
		Metrics:      []models.HealthMetric{engagementMetric, consistencyMetric, varietyMetric, growthMetric},
		RecentVideos: recent,
	}
	report.Overall = overallScore(report.Metrics)
	report.Recommendations = recommendations(metrics, recent)
	return report
}

// overallScore averages the sub-metrics as percentages of their maximum.
func overallScore(metrics []models.HealthMetric) int {
	if len(metrics) == 0 {
		return 0
	}
	var sum float64
	for _, m := range metrics {
		if m.Max > 0 {
			sum += m.Score / m.Max * 100
		}
	}
	score := int(math.Round(sum / float64(len(metrics))))
	return min(max(score, 0), 100)
}

func recommendations(metrics models.ChannelMetrics, recent int) []string {
	var recs []string
	if metrics.AvgEngagementRate < lowEngagementBelow {
		recs = append(recs, "Improve titles: include keywords and emotion")
	}
	if recent < lowCadenceBelow {
		recs = append(recs, "Publish more often (at least 2 videos a month)")
	}
	if metrics.AvgEngagementRate > 0 {
		recs = append(recs, "Study your top videos and replicate their format")
	}
	recs = append(recs, "Encourage comments with calls-to-action in the description")
	return recs
}
