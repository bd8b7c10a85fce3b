package ai

import (
	"context"
	"fmt"
	"strings"

	"channel-insights/internal/models"
	"channel-insights/shared/config"
	"channel-insights/shared/logging"

	"github.com/goccy/go-json"
	"google.golang.org/genai"
)

const (
	promptTopVideos = 5
	maxListItems    = 5
)

var weekdayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// Analyzer writes a short narrative about a channel report with Gemini.
type Analyzer struct {
	client *genai.Client
	model  string
}

func NewAnalyzer(ctx context.Context, cfg *config.AIConfig) (*Analyzer, error) {
	return newAnalyzer(ctx, cfg, genai.HTTPOptions{})
}

func newAnalyzer(ctx context.Context, cfg *config.AIConfig, httpOptions genai.HTTPOptions) (*Analyzer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.GeminiAPIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: httpOptions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Analyzer{client: client, model: cfg.Model}, nil
}

func (a *Analyzer) SummarizeChannel(ctx context.Context, report *models.ChannelReport) (*models.Insight, error) {
	if report == nil {
		return nil, fmt.Errorf("report cannot be nil")
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{genai.NewPartFromText(buildPrompt(report))}, genai.RoleUser),
	}
	result, err := a.client.Models.GenerateContent(ctx, a.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0.4),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to summarize channel %s: %w", report.Channel.ID, err)
	}

	text := result.Text()
	if text == "" {
		return nil, fmt.Errorf("empty insight response for channel %s", report.Channel.ID)
	}

	insight, err := parseInsight(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse insight for channel %s: %w", report.Channel.ID, err)
	}
	return insight, nil
}

func buildPrompt(r *models.ChannelReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are a YouTube growth analyst. Review the channel statistics below and write a short, concrete assessment.

CHANNEL:
Title: %s
Subscribers: %d
Total views: %d
Videos analysed: %d
Average engagement rate: %.2f%%
Average views per video: %.0f
Health score: %d/100
`,
		r.Channel.Title,
		r.Metrics.Subscribers,
		r.Metrics.Views,
		r.Metrics.VideoCount,
		r.Metrics.AvgEngagementRate,
		r.Metrics.AvgViewsPerVideo,
		r.Health.Overall,
	)

	b.WriteString("\nHEALTH:\n")
	for _, m := range r.Health.Metrics {
		fmt.Fprintf(&b, "- %s: %.1f/%.0f (%s) %s\n", m.Label, m.Score, m.Max, m.Status, m.Message)
	}

	if len(r.Weekdays.Days) == len(weekdayNames) && r.Weekdays.DatedVideos > 0 {
		fmt.Fprintf(&b, "\nBest publishing day by views: %s\nBest publishing day by engagement: %s\n",
			weekdayNames[r.Weekdays.BestByViews], weekdayNames[r.Weekdays.BestByEngagement])
	}

	if len(r.TopVideos) > 0 {
		b.WriteString("\nTOP VIDEOS:\n")
		for i, v := range r.TopVideos {
			if i == promptTopVideos {
				break
			}
			fmt.Fprintf(&b, "- %q: %d views, %.2f%% engagement\n", truncateString(v.Title, 100), v.Views, v.EngagementRate)
		}
	}

	if len(r.Trend) > 0 {
		b.WriteString("\nVIEWS BY " + strings.ToUpper(r.TrendPeriod) + ":\n")
		for _, p := range r.Trend {
			fmt.Fprintf(&b, "%s=%.0f ", p.Period, p.Value)
		}
		b.WriteString("\n")
	}

	if len(r.Engagement) > 0 {
		b.WriteString("\nWEEKLY ENGAGEMENT (likes/comments/shares):\n")
		for _, e := range r.Engagement {
			fmt.Fprintf(&b, "%s=%d/%d/%d ", e.Key, e.Likes, e.Comments, e.Shares)
		}
		b.WriteString("\n")
	}

	if n := len(r.Subscribers); n > 0 {
		fmt.Fprintf(&b, "\nEstimated subscribers gained over the last %d months: %.0f\n", n, r.Subscribers[n-1].Value)
	}

	if len(r.Tags) > 0 {
		fmt.Fprintf(&b, "\nMost used tags: %s\n", strings.Join(r.Tags, ", "))
	}

	b.WriteString(`
Respond with JSON only, in this format:
{
  "summary": "2-3 sentences on how the channel is doing",
  "strengths": ["up to 5 short strengths"],
  "recommendations": ["up to 5 specific, actionable recommendations"]
}`)
	return b.String()
}

func parseInsight(response string) (*models.Insight, error) {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end < start {
		return nil, fmt.Errorf("no JSON found in response: %s", truncateString(response, 200))
	}
	raw := response[start : end+1]

	var insight models.Insight
	if err := json.Unmarshal([]byte(raw), &insight); err != nil {
		if sanitizedErr := json.Unmarshal([]byte(sanitizeJSON(raw)), &insight); sanitizedErr != nil {
			return nil, fmt.Errorf("failed to unmarshal JSON: %w (sanitized version also failed: %v)", err, sanitizedErr)
		}
		logging.Warn().Msg("Had to sanitize malformed insight JSON")
	}

	insight.Summary = strings.TrimSpace(insight.Summary)
	if insight.Summary == "" {
		return nil, fmt.Errorf("insight summary is required but was empty")
	}
	insight.Strengths = cleanList(insight.Strengths)
	insight.Recommendations = cleanList(insight.Recommendations)
	return &insight, nil
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
		if len(out) == maxListItems {
			break
		}
	}
	return out
}

// sanitizeJSON escapes stray quotes inside single-line string values, the
// most common defect in model-written JSON.
func sanitizeJSON(raw string) string {
	lines := strings.Split(raw, "\n")
	out := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		colon := strings.Index(line, ":")
		if colon != -1 {
			key := line[:colon+1]
			value := strings.TrimSpace(line[colon+1:])
			if strings.HasPrefix(value, `"`) {
				if last := strings.LastIndex(value, `"`); last > 0 {
					content := strings.ReplaceAll(value[1:last], `"`, `\"`)
					line = key + ` "` + content + `"` + value[last+1:]
				}
			}
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// truncateString keeps at most maxLength runes.
func truncateString(s string, maxLength int) string {
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}
	return string(runes[:maxLength]) + "..."
}
