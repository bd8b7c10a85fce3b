package analytics

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"channel-insights/internal/models"
)

// Field is one CSV cell. Quoted cells are wrapped in double quotes with
// inner quotes doubled; other cells are written verbatim.
type Field struct {
	Value  string
	Quoted bool
}

func text(s string) Field { return Field{Value: s, Quoted: true} }

func number(n int64) Field { return Field{Value: strconv.FormatInt(n, 10)} }

func rate(f float64) Field { return Field{Value: strconv.FormatFloat(f, 'f', 3, 64)} }

func (f Field) String() string {
	if !f.Quoted {
		return f.Value
	}
	return `"` + strings.ReplaceAll(f.Value, `"`, `""`) + `"`
}

// Table is a CSV document: a header row followed by data rows.
type Table struct {
	Header []Field
	Rows   [][]Field
}

// Records returns the header and data rows as escaped cell strings.
func (t Table) Records() [][]string {
	out := make([][]string, 0, len(t.Rows)+1)
	for _, row := range append([][]Field{t.Header}, t.Rows...) {
		cells := make([]string, len(row))
		for i, f := range row {
			cells[i] = f.String()
		}
		out = append(out, cells)
	}
	return out
}

// String renders the table with comma separators and newline row breaks.
func (t Table) String() string {
	records := t.Records()
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = strings.Join(r, ",")
	}
	return strings.Join(lines, "\n")
}

var videoHeader = []string{
	"Title",
	"Views",
	"Likes",
	"Comments",
	"Engagement Rate (%)",
	"Like Rate (%)",
	"Comment Rate (%)",
	"Published At",
}

// VideoRows exports one row per video. Titles are quoted; rates keep three
// decimals; the publish timestamp is written as received.
func VideoRows(videos []models.VideoMetrics) Table {
	t := Table{Header: make([]Field, len(videoHeader))}
	for i, h := range videoHeader {
		t.Header[i] = Field{Value: h}
	}
	for _, v := range videos {
		t.Rows = append(t.Rows, []Field{
			text(v.Title),
			number(v.Views),
			number(v.Likes),
			number(v.Comments),
			rate(v.EngagementRate),
			rate(v.LikeRate),
			rate(v.CommentRate),
			{Value: v.PublishedAt},
		})
	}
	return t
}

// ChannelRows exports channel metrics as quoted metric/value pairs.
func ChannelRows(m models.ChannelMetrics, channelName string, exportedAt time.Time) Table {
	pair := func(label, value string) []Field { return []Field{text(label), text(value)} }

	return Table{
		Header: []Field{text("Metric"), text("Value")},
		Rows: [][]Field{
			pair("Channel", channelName),
			pair("Subscribers", strconv.FormatInt(m.Subscribers, 10)),
			pair("Total Views", strconv.FormatInt(m.Views, 10)),
			pair("Video Count", strconv.Itoa(m.VideoCount)),
			pair("Average Engagement Rate (%)", strconv.FormatFloat(m.AvgEngagementRate, 'f', 3, 64)),
			pair("Average Views per Video", fmt.Sprintf("%.0f", math.Round(m.AvgViewsPerVideo))),
			pair("Average Likes per Video", fmt.Sprintf("%.0f", math.Round(m.AvgLikesPerVideo))),
			pair("Exported At", exportedAt.Format(time.RFC3339)),
		},
	}
}
