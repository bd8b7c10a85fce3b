package analytics

import (
	"cmp"
	"math"
	"math/rand"
	"slices"
	"strconv"
	"time"

	"channel-insights/internal/models"
)

const (
	// defaultViewDurationSeconds stands in for videos without an average view duration.
	defaultViewDurationSeconds = 30
	watchTimeLimit             = 10

	sparklineLength = 12

	PlanDays          = 14
	specialEveryNDays = 4
	specialMinViews   = 2000
	specialViewsRange = 5000
)

// WatchTime ranks videos by watch time in minutes. Recorded watch time is
// used when present; otherwise it is estimated from views and the average
// view duration.
func WatchTime(videos []models.VideoMetrics) []models.WatchTimeEntry {
	entries := make([]models.WatchTimeEntry, 0, len(videos))
	for _, v := range videos {
		var minutes int64
		if v.WatchTime > 0 {
			minutes = int64(math.Round(float64(v.WatchTime) / 60))
		} else {
			avg := v.AvgViewDuration
			if avg <= 0 {
				avg = defaultViewDurationSeconds
			}
			minutes = int64(math.Round(float64(v.Views*avg) / 60))
		}
		entries = append(entries, models.WatchTimeEntry{
			ID:               v.ID,
			Title:            v.Title,
			WatchTimeMinutes: minutes,
			Views:            v.Views,
		})
	}

	slices.SortStableFunc(entries, func(a, b models.WatchTimeEntry) int {
		return cmp.Compare(b.WatchTimeMinutes, a.WatchTimeMinutes)
	})
	if len(entries) > watchTimeLimit {
		entries = entries[:watchTimeLimit]
	}
	return entries
}

// Sparkline keeps the last twelve values, indexed from zero.
func Sparkline(values []float64) []models.Point {
	if len(values) > sparklineLength {
		values = values[len(values)-sparklineLength:]
	}
	points := make([]models.Point, len(values))
	for i, v := range values {
		points[i] = models.Point{Period: strconv.Itoa(i), Value: v}
	}
	return points
}

// PlaceholderSeries fills a demo series of n values in [0, ceiling] for
// charts without real data. The generator is supplied by the caller so the
// output is reproducible for a given seed.
func PlaceholderSeries(rng *rand.Rand, n int, ceiling float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Round(rng.Float64() * ceiling)
	}
	return out
}

// PublishingPlan suggests uploads for the PlanDays days starting at now:
// every occurrence of the best weekday by views, plus a special slot every
// fourth day whose estimate is drawn from rng.
func PublishingPlan(videos []models.VideoMetrics, now time.Time, rng *rand.Rand) []models.Suggestion {
	weekdays := WeekdayBreakdown(videos, now)
	best := weekdays.Days[weekdays.BestByViews]
	bestAvg := int64(math.Round(float64(best.Views) / float64(max(best.Videos, 1))))

	var plan []models.Suggestion
	for i := 0; i < PlanDays; i++ {
		day := now.AddDate(0, 0, i)
		if int(day.Weekday()) == weekdays.BestByViews {
			plan = append(plan, models.Suggestion{
				Date:           day,
				Kind:           "Regular content",
				Reason:         "Best day of the week to publish",
				Priority:       models.PriorityHigh,
				EstimatedViews: bestAvg,
			})
		}
		if i%specialEveryNDays == specialEveryNDays-1 {
			plan = append(plan, models.Suggestion{
				Date:           day,
				Kind:           "Special content",
				Reason:         "Vary content to keep the audience fresh",
				Priority:       models.PriorityMedium,
				EstimatedViews: int64(math.Round(rng.Float64()*specialViewsRange + specialMinViews)),
			})
		}
	}
	return plan
}
