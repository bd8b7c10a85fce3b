package analytics

import (
	"strings"
	"testing"
	"time"

	"channel-insights/internal/models"
)

const videoHeaderLine = "Title,Views,Likes,Comments,Engagement Rate (%),Like Rate (%),Comment Rate (%),Published At"

func TestFieldString(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		want  string
	}{
		{"Plain", Field{Value: "42"}, "42"},
		{"Quoted", Field{Value: "Intro", Quoted: true}, `"Intro"`},
		{"Embedded quotes", Field{Value: `He said "hi"`, Quoted: true}, `"He said ""hi"""`},
		{"Comma", Field{Value: "a, b", Quoted: true}, `"a, b"`},
		{"Empty quoted", Field{Quoted: true}, `""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.field.String(); got != tt.want {
				t.Errorf("String() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestVideoRows(t *testing.T) {
	videos := EnrichAll([]models.RawVideo{
		{Title: "Intro", ViewCount: 100, LikeCount: 10, CommentCount: 5, PublishedAt: "2026-10-01T00:00:00Z"},
		{Title: `He said "hi"`, ViewCount: 3, LikeCount: 1},
	})

	lines := strings.Split(VideoRows(videos).String(), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), strings.Join(lines, "\n"))
	}

	want := []string{
		videoHeaderLine,
		`"Intro",100,10,5,15.000,10.000,5.000,2026-10-01T00:00:00Z`,
		`"He said ""hi""",3,1,0,33.333,33.333,0.000,`,
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d = %s\nwant      %s", i, lines[i], w)
		}
	}
}

func TestVideoRowsEmpty(t *testing.T) {
	table := VideoRows(nil)
	if got := table.String(); got != videoHeaderLine {
		t.Errorf("String() = %q, want header only", got)
	}
	if records := table.Records(); len(records) != 1 || len(records[0]) != 8 {
		t.Errorf("Records() = %v, want a single 8-column header", records)
	}
}

func TestChannelRows(t *testing.T) {
	exported := time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)
	m := models.ChannelMetrics{
		Subscribers:       1200,
		Views:             56000,
		VideoCount:        3,
		AvgEngagementRate: 4.56789,
		AvgViewsPerVideo:  150.5,
		AvgLikesPerVideo:  150.4,
	}

	got := ChannelRows(m, `Dev "Talks"`, exported).String()
	want := strings.Join([]string{
		`"Metric","Value"`,
		`"Channel","Dev ""Talks"""`,
		`"Subscribers","1200"`,
		`"Total Views","56000"`,
		`"Video Count","3"`,
		`"Average Engagement Rate (%)","4.568"`,
		`"Average Views per Video","151"`,
		`"Average Likes per Video","150"`,
		`"Exported At","2026-10-19T09:30:00Z"`,
	}, "\n")

	if got != want {
		t.Errorf("ChannelRows =\n%s\nwant\n%s", got, want)
	}
}
