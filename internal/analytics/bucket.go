package analytics

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"channel-insights/internal/models"
)

// Period selects how videos are grouped over time.
type Period string

const (
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
	Weekday Period = "weekday"
)

// WindowSize is the number of buckets in a weekly or monthly series.
const WindowSize = 12

// subscriberConversion is the assumed share of views that turn into subscribers.
const subscriberConversion = 0.001

func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case Weekly, Monthly, Weekday:
		return p, nil
	case "":
		return Weekly, nil
	default:
		return "", fmt.Errorf("unknown period %q", s)
	}
}

// Len is the number of buckets the period produces.
func (p Period) Len() int {
	if p == Weekday {
		return 7
	}
	return WindowSize
}

// Metric extracts the value a series accumulates for one video.
type Metric func(models.VideoMetrics) float64

func ViewsMetric(v models.VideoMetrics) float64 { return float64(v.Views) }

// EstimatedSubscribersMetric approximates subscribers gained from a video.
func EstimatedSubscribersMetric(v models.VideoMetrics) float64 {
	return math.Round(float64(v.Views) * subscriberConversion)
}

// weekStart returns midnight of the Sunday starting t's week, in t's location.
func weekStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()-int(t.Weekday()), 0, 0, 0, 0, t.Location())
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// bucketKey maps a time, already in the window's location, to its bucket key.
func bucketKey(p Period, t time.Time) string {
	switch p {
	case Monthly:
		return monthStart(t).Format("2006-01")
	case Weekday:
		return strconv.Itoa(int(t.Weekday()))
	default:
		return weekStart(t).Format("2006-01-02")
	}
}

// newWindow lays out the zero-valued buckets of p ending at now, oldest
// first, with an index from key to position.
func newWindow(p Period, now time.Time) ([]models.Bucket, map[string]int) {
	buckets := make([]models.Bucket, 0, p.Len())

	switch p {
	case Weekday:
		for d := 0; d < 7; d++ {
			buckets = append(buckets, models.Bucket{Key: strconv.Itoa(d)})
		}
	case Monthly:
		current := monthStart(now)
		for i := WindowSize - 1; i >= 0; i-- {
			start := time.Date(current.Year(), current.Month()-time.Month(i), 1, 0, 0, 0, 0, now.Location())
			buckets = append(buckets, models.Bucket{Key: start.Format("2006-01"), Start: start})
		}
	default:
		current := weekStart(now)
		for i := WindowSize - 1; i >= 0; i-- {
			start := current.AddDate(0, 0, -7*i)
			buckets = append(buckets, models.Bucket{Key: start.Format("2006-01-02"), Start: start})
		}
	}

	index := make(map[string]int, len(buckets))
	for i, b := range buckets {
		index[b.Key] = i
	}
	return buckets, index
}

// locate finds the bucket position for a video. ok is false when the video
// has no usable date or falls outside the window; such videos are dropped.
func locate(p Period, index map[string]int, loc *time.Location, v models.VideoMetrics) (int, bool) {
	published, ok := v.Published()
	if !ok {
		return 0, false
	}
	i, ok := index[bucketKey(p, published.In(loc))]
	return i, ok
}

// Buckets groups videos into the contiguous, zero-filled window of p ending
// at now. Weekly and monthly windows hold WindowSize periods; videos
// published outside them are not counted. The weekday breakdown has no
// window and counts every dated video. Undated videos are always skipped.
func Buckets(videos []models.VideoMetrics, p Period, now time.Time) []models.Bucket {
	buckets, index := newWindow(p, now)
	for _, v := range videos {
		i, ok := locate(p, index, now.Location(), v)
		if !ok {
			continue
		}
		b := &buckets[i]
		b.Videos++
		b.Views += v.Views
		b.Likes += v.Likes
		b.Comments += v.Comments
		b.Shares += v.Shares
		b.EngagementSum += v.EngagementRate
	}
	return buckets
}

// Series folds metric into the window of p ending at now, following the
// same placement rules as Buckets.
func Series(videos []models.VideoMetrics, p Period, now time.Time, metric Metric) []models.Point {
	buckets, index := newWindow(p, now)
	values := make([]float64, len(buckets))
	for _, v := range videos {
		if i, ok := locate(p, index, now.Location(), v); ok {
			values[i] += metric(v)
		}
	}

	points := make([]models.Point, len(buckets))
	for i, b := range buckets {
		points[i] = models.Point{Period: b.Key, Value: values[i]}
	}
	return points
}

// TrendData is the views-per-period series behind the trend chart.
func TrendData(videos []models.VideoMetrics, p Period, now time.Time) []models.Point {
	return Series(videos, p, now, ViewsMetric)
}

// Cumulative returns the running total of a series.
func Cumulative(points []models.Point) []models.Point {
	out := make([]models.Point, len(points))
	var sum float64
	for i, p := range points {
		sum += p.Value
		out[i] = models.Point{Period: p.Period, Value: sum}
	}
	return out
}

// SubscriberGrowth estimates cumulative subscribers gained per month from
// the views of videos published in each month of the window.
func SubscriberGrowth(videos []models.VideoMetrics, now time.Time) []models.Point {
	return Cumulative(Series(videos, Monthly, now, EstimatedSubscribersMetric))
}

// WeekdayBreakdown groups all dated videos by publish weekday (Sunday = 0)
// in now's location and picks the strongest days. Ties go to the earlier day.
func WeekdayBreakdown(videos []models.VideoMetrics, now time.Time) models.WeekdayStats {
	days := Buckets(videos, Weekday, now)

	stats := models.WeekdayStats{Days: days}
	for i, d := range days {
		stats.DatedVideos += d.Videos
		if d.Views > days[stats.BestByViews].Views {
			stats.BestByViews = i
		}
		if d.AvgEngagement() > days[stats.BestByEngagement].AvgEngagement() {
			stats.BestByEngagement = i
		}
	}
	stats.UndatedVideos = len(videos) - stats.DatedVideos
	return stats
}
