package analytics

import (
	"testing"

	"channel-insights/internal/models"
)

func scenarioVideos() []models.VideoMetrics {
	return EnrichAll([]models.RawVideo{
		{ID: "a", ViewCount: 100, LikeCount: 10, CommentCount: 5},
		{ID: "b", ViewCount: 200, LikeCount: 20, CommentCount: 10},
		{ID: "c"},
	})
}

func TestAggregateEmpty(t *testing.T) {
	got := Aggregate(nil, 1200, 56000)
	want := models.ChannelMetrics{Subscribers: 1200, Views: 56000}
	if got != want {
		t.Errorf("Aggregate(nil) = %+v, want %+v", got, want)
	}
}

func TestAggregateScenario(t *testing.T) {
	got := Aggregate(scenarioVideos(), 500, 9000)

	if got.Subscribers != 500 || got.Views != 9000 {
		t.Errorf("channel totals not passed through: %+v", got)
	}
	if got.VideoCount != 3 {
		t.Errorf("VideoCount = %d, want 3", got.VideoCount)
	}
	if !approxEqual(got.AvgEngagementRate, 10) {
		t.Errorf("AvgEngagementRate = %v, want 10", got.AvgEngagementRate)
	}
	if !approxEqual(got.AvgViewsPerVideo, 100) {
		t.Errorf("AvgViewsPerVideo = %v, want 100", got.AvgViewsPerVideo)
	}
	if !approxEqual(got.AvgLikesPerVideo, 10) {
		t.Errorf("AvgLikesPerVideo = %v, want 10", got.AvgLikesPerVideo)
	}
}

func TestCompare(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		best, worst := Compare(nil)
		if best != nil || worst != nil {
			t.Errorf("Compare(nil) = %v, %v, want nil, nil", best, worst)
		}
	})

	t.Run("Ties keep input order", func(t *testing.T) {
		best, worst := Compare(scenarioVideos())
		if best.ID != "a" {
			t.Errorf("best = %s, want a", best.ID)
		}
		if worst.ID != "c" {
			t.Errorf("worst = %s, want c", worst.ID)
		}
	})
}

func TestTotals(t *testing.T) {
	got := Totals(scenarioVideos())
	want := models.Totals{Views: 300, Likes: 30, Comments: 15, AvgViews: 100}
	if got != want {
		t.Errorf("Totals = %+v, want %+v", got, want)
	}

	if empty := Totals(nil); empty != (models.Totals{}) {
		t.Errorf("Totals(nil) = %+v, want zero", empty)
	}
}

func TestDifference(t *testing.T) {
	tests := []struct {
		name       string
		main       int64
		other      int64
		percentage float64
		isHigher   bool
	}{
		{"Zero reference", 100, 0, 0, true},
		{"Main higher", 150, 100, 50, true},
		{"Main lower", 50, 200, 75, false},
		{"Equal", 80, 80, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Difference("Subscribers", tt.main, tt.other)
			if !approxEqual(d.Percentage, tt.percentage) {
				t.Errorf("Percentage = %v, want %v", d.Percentage, tt.percentage)
			}
			if d.IsHigher != tt.isHigher {
				t.Errorf("IsHigher = %v, want %v", d.IsHigher, tt.isHigher)
			}
		})
	}
}

func TestCompareChannels(t *testing.T) {
	main := models.ChannelInfo{Subscribers: 2000, ViewCount: 50000, VideoCount: 40}
	other := models.ChannelInfo{Title: "Rival", Subscribers: 1000, ViewCount: 100000, VideoCount: 40}

	cmp := CompareChannels(main, other)
	if cmp.Other.Title != "Rival" {
		t.Errorf("Other.Title = %q, want Rival", cmp.Other.Title)
	}
	if len(cmp.Differences) != 3 {
		t.Fatalf("got %d differences, want 3", len(cmp.Differences))
	}
	if d := cmp.Differences[0]; !d.IsHigher || !approxEqual(d.Percentage, 100) {
		t.Errorf("subscribers difference = %+v, want +100%%", d)
	}
	if d := cmp.Differences[1]; d.IsHigher || !approxEqual(d.Percentage, 50) {
		t.Errorf("views difference = %+v, want -50%%", d)
	}
}
