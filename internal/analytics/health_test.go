package analytics

import (
	"testing"
	"time"

	"channel-insights/internal/models"
)

func healthFixture() []models.VideoMetrics {
	videos := EnrichAll([]models.RawVideo{
		{ID: "a", ViewCount: 100, LikeCount: 10, CommentCount: 5},
		{ID: "b", ViewCount: 200, LikeCount: 20, CommentCount: 10},
		{ID: "c"},
	})
	videos[0].PublishedAt = testNow.AddDate(0, 0, -3).Format(time.RFC3339)
	videos[1].PublishedAt = testNow.AddDate(0, 0, -20).Format(time.RFC3339)
	videos[2].PublishedAt = testNow.AddDate(0, 0, -60).Format(time.RFC3339)
	return videos
}

func TestHealthScenario(t *testing.T) {
	videos := healthFixture()
	report := Health(Aggregate(videos, 30, 300), videos, testNow)

	if len(report.Metrics) != 4 {
		t.Fatalf("got %d metrics, want 4", len(report.Metrics))
	}

	want := []struct {
		label  string
		score  float64
		status models.HealthStatus
	}{
		{"Engagement rate", 10, models.StatusGood},
		{"Publishing frequency", 10, models.StatusWarning},
		{"Content variety", 10, models.StatusGood},
		{"Growth potential", 3, models.StatusWarning},
	}
	for i, w := range want {
		m := report.Metrics[i]
		if m.Label != w.label {
			t.Errorf("Metrics[%d].Label = %q, want %q", i, m.Label, w.label)
		}
		if !approxEqual(m.Score, w.score) {
			t.Errorf("%s score = %v, want %v", w.label, m.Score, w.score)
		}
		if m.Status != w.status {
			t.Errorf("%s status = %s, want %s", w.label, m.Status, w.status)
		}
		if m.Max != HealthMaxScore {
			t.Errorf("%s max = %v, want %v", w.label, m.Max, HealthMaxScore)
		}
		if m.Message == "" {
			t.Errorf("%s has no message", w.label)
		}
	}

	if report.RecentVideos != 2 {
		t.Errorf("RecentVideos = %d, want 2", report.RecentVideos)
	}
	if report.Overall != 83 {
		t.Errorf("Overall = %d, want 83", report.Overall)
	}
	if len(report.Recommendations) != 2 {
		t.Errorf("got %d recommendations, want 2: %v", len(report.Recommendations), report.Recommendations)
	}
}

func TestHealthEmpty(t *testing.T) {
	tests := []struct {
		name        string
		subscribers int64
		overall     int
	}{
		{"No subscribers", 0, 0},
		{"Subscribers without videos", 1000, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Health(Aggregate(nil, tt.subscribers, 0), nil, testNow)
			if report.Overall != tt.overall {
				t.Errorf("Overall = %d, want %d", report.Overall, tt.overall)
			}
			if report.RecentVideos != 0 {
				t.Errorf("RecentVideos = %d, want 0", report.RecentVideos)
			}
			for _, m := range report.Metrics {
				if m.Score < 0 || m.Score > m.Max {
					t.Errorf("%s score %v outside [0, %v]", m.Label, m.Score, m.Max)
				}
			}
			if len(report.Recommendations) != 3 {
				t.Errorf("got %d recommendations, want 3", len(report.Recommendations))
			}
		})
	}
}

func TestRecentCount(t *testing.T) {
	tests := []struct {
		name      string
		published string
		want      int
	}{
		{"Exactly thirty days", testNow.AddDate(0, 0, -30).Format(time.RFC3339), 1},
		{"Thirty days and change", testNow.Add(-(30*24 + 23) * time.Hour).Format(time.RFC3339), 1},
		{"Thirty-one days", testNow.AddDate(0, 0, -31).Format(time.RFC3339), 0},
		{"Scheduled in the future", testNow.AddDate(0, 0, 5).Format(time.RFC3339), 1},
		{"Undated", "", 0},
		{"Unparsable", "last week", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			videos := []models.VideoMetrics{{PublishedAt: tt.published}}
			if got := RecentCount(videos, testNow); got != tt.want {
				t.Errorf("RecentCount = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestHealthStatusThresholds(t *testing.T) {
	tests := []struct {
		engagement float64
		want       models.HealthStatus
	}{
		{5.01, models.StatusGood},
		{5, models.StatusWarning},
		{2.01, models.StatusWarning},
		{2, models.StatusCritical},
		{0, models.StatusCritical},
	}

	for _, tt := range tests {
		metrics := models.ChannelMetrics{AvgEngagementRate: tt.engagement}
		report := Health(metrics, nil, testNow)
		if got := report.Metrics[0].Status; got != tt.want {
			t.Errorf("engagement %v: status = %s, want %s", tt.engagement, got, tt.want)
		}
	}
}

func TestHealthScoresAreCapped(t *testing.T) {
	videos := []models.VideoMetrics{
		{PublishedAt: testNow.Format(time.RFC3339), EngagementRate: 80, Views: 10},
		{PublishedAt: testNow.Format(time.RFC3339), EngagementRate: 0, Views: 10},
	}
	report := Health(Aggregate(videos, 1_000_000, 20), videos, testNow)

	for _, m := range report.Metrics {
		if m.Score != HealthMaxScore {
			t.Errorf("%s score = %v, want capped at %v", m.Label, m.Score, HealthMaxScore)
		}
	}
	if report.Overall != 100 {
		t.Errorf("Overall = %d, want 100", report.Overall)
	}
}

func TestRecommendations(t *testing.T) {
	low := recommendations(models.ChannelMetrics{AvgEngagementRate: 1}, 0)
	if len(low) != 4 {
		t.Fatalf("got %d recommendations, want 4: %v", len(low), low)
	}
	if last := low[len(low)-1]; last != "Encourage comments with calls-to-action in the description" {
		t.Errorf("last recommendation = %q", last)
	}

	healthy := recommendations(models.ChannelMetrics{AvgEngagementRate: 8}, 5)
	if len(healthy) != 2 {
		t.Errorf("got %d recommendations, want 2: %v", len(healthy), healthy)
	}
}

func TestEngagementStdDev(t *testing.T) {
	if got := EngagementStdDev(nil); got != 0 {
		t.Errorf("EngagementStdDev(nil) = %v, want 0", got)
	}
	videos := []models.VideoMetrics{{EngagementRate: 2}, {EngagementRate: 4}, {EngagementRate: 4}, {EngagementRate: 4},
		{EngagementRate: 5}, {EngagementRate: 5}, {EngagementRate: 7}, {EngagementRate: 9}}
	if got := EngagementStdDev(videos); !approxEqual(got, 2) {
		t.Errorf("EngagementStdDev = %v, want 2", got)
	}
}
