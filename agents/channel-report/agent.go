package channelreport

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"channel-insights/agents/channel-report/youtube"
	"channel-insights/internal/analytics"
	"channel-insights/internal/models"
	"channel-insights/shared/ai"
	"channel-insights/shared/config"
	"channel-insights/shared/email"
	"channel-insights/shared/logging"
	"channel-insights/shared/scheduler"

	"github.com/rs/zerolog"
)

const reportTagLimit = 10

// VideoSource fetches a channel and its uploads.
type VideoSource interface {
	GetChannelInfo(ctx context.Context, channelID string) (*models.ChannelInfo, error)
	GetChannelVideos(ctx context.Context, channelID string, maxVideos int) ([]models.RawVideo, error)
}

type InsightWriter interface {
	SummarizeChannel(ctx context.Context, report *models.ChannelReport) (*models.Insight, error)
}

type ReportSender interface {
	SendReport(report *models.ChannelReport) error
}

// ReportMetrics represents the metrics collected during a report run
type ReportMetrics struct {
	VideosFetched    int  `json:"videos_fetched"`
	VideosAnalyzed   int  `json:"videos_analyzed"`
	HealthScore      int  `json:"health_score"`
	CSVFiles         int  `json:"csv_files"`
	InsightGenerated bool `json:"insight_generated"`
	EmailSent        bool `json:"email_sent"`
}

// GetSummary implements the scheduler.Metrics interface
func (m ReportMetrics) GetSummary() string {
	summary := fmt.Sprintf("analyzed %d of %d videos, health score %d/100, wrote %d CSV files",
		m.VideosAnalyzed, m.VideosFetched, m.HealthScore, m.CSVFiles)
	if m.InsightGenerated {
		summary += ", insight generated"
	}
	if m.EmailSent {
		summary += ", email sent"
	}
	return summary
}

// ReportAgent implements the scheduler.Agent interface
type ReportAgent struct {
	config   *config.Config
	source   VideoSource
	analyzer InsightWriter
	sender   ReportSender

	period analytics.Period
	sortBy analytics.SortField
	now    func() time.Time
	rng    *rand.Rand
	log    zerolog.Logger

	lastReport *models.ChannelReport
}

func NewReportAgent(cfg *config.Config) *ReportAgent {
	return &ReportAgent{
		config: cfg,
		now:    time.Now,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		log:    logging.With("channel-report"),
	}
}

func (a *ReportAgent) Name() string {
	return "Channel Report"
}

func (a *ReportAgent) Initialize() error {
	a.log.Info().Msg("Initializing agent")
	ctx := context.Background()

	period, err := analytics.ParsePeriod(a.config.Report.TrendPeriod)
	if err != nil {
		return fmt.Errorf("invalid trend period: %w", err)
	}
	a.period = period

	sortBy, err := analytics.ParseSortField(a.config.Report.SortBy)
	if err != nil {
		return fmt.Errorf("invalid sort field: %w", err)
	}
	a.sortBy = sortBy

	if a.source == nil && a.config.Report.InputFile == "" {
		client, err := youtube.NewClient(ctx, &a.config.YouTube)
		if err != nil {
			return fmt.Errorf("failed to create YouTube client: %w", err)
		}
		a.source = client
		a.log.Info().Msg("YouTube client initialized")
	}

	if a.analyzer == nil && a.config.AI.Enabled {
		analyzer, err := ai.NewAnalyzer(ctx, &a.config.AI)
		if err != nil {
			return fmt.Errorf("failed to create AI analyzer: %w", err)
		}
		a.analyzer = analyzer
		a.log.Info().Str("model", a.config.AI.Model).Msg("AI analyzer initialized")
	}

	if a.sender == nil && a.config.Email.Enabled {
		a.sender = email.NewSender(&a.config.Email)
		a.log.Info().Msg("Email sender initialized")
	}

	return nil
}

// LastReport returns the report built by the most recent successful run.
func (a *ReportAgent) LastReport() *models.ChannelReport {
	return a.lastReport
}

func (a *ReportAgent) RunOnce(ctx context.Context, events *scheduler.AgentEvents) error {
	startTime := a.now()
	metrics := ReportMetrics{}

	loc, err := a.config.Report.Location()
	if err != nil {
		return a.critical(events, err, startTime)
	}
	now := startTime.In(loc)

	snap, err := a.load(ctx)
	if err != nil {
		return a.critical(events, err, startTime)
	}
	metrics.VideosFetched = len(snap.Videos)

	videos, err := a.filter(analytics.EnrichAll(snap.Videos))
	if err != nil {
		return a.critical(events, err, startTime)
	}
	metrics.VideosAnalyzed = len(videos)
	a.log.Info().Int("fetched", metrics.VideosFetched).Int("analyzed", len(videos)).Msg("Videos ready")

	report := a.build(snap.Channel, videos, now)
	metrics.HealthScore = report.Health.Overall

	for _, id := range a.config.Report.CompareChannelIDs {
		cmp, err := a.compare(ctx, snap.Channel, id)
		if err != nil {
			a.partial(events, err, startTime)
			continue
		}
		report.Comparisons = append(report.Comparisons, cmp)
	}

	files, err := a.writeCSV(report.Channel, videos, now)
	if err != nil {
		a.partial(events, fmt.Errorf("failed to write CSV export: %w", err), startTime)
	}
	report.CSVFiles = files
	metrics.CSVFiles = len(files)

	if a.analyzer != nil {
		insight, err := a.analyzer.SummarizeChannel(ctx, report)
		if err != nil {
			a.partial(events, fmt.Errorf("failed to generate insight: %w", err), startTime)
		} else {
			report.Insight = insight
			metrics.InsightGenerated = true
		}
	}

	if a.sender != nil {
		if err := a.sender.SendReport(report); err != nil {
			a.partial(events, fmt.Errorf("failed to send email report: %w", err), startTime)
		} else {
			metrics.EmailSent = true
		}
	}

	a.lastReport = report
	if events != nil && events.OnSuccess != nil {
		events.OnSuccess(metrics, time.Since(startTime))
	}
	a.log.Info().Str("summary", metrics.GetSummary()).Msg("Report complete")
	return nil
}

func (a *ReportAgent) load(ctx context.Context) (*models.Snapshot, error) {
	if path := a.config.Report.InputFile; path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open input file: %w", err)
		}
		defer f.Close()

		snap, err := models.DecodeSnapshot(f)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
		if snap.Channel.ID == "" {
			snap.Channel.ID = a.config.YouTube.ChannelID
		}
		return snap, nil
	}

	if a.source == nil {
		return nil, fmt.Errorf("no video source configured")
	}

	channelID := a.config.YouTube.ChannelID
	info, err := a.source.GetChannelInfo(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to get channel info: %w", err)
	}
	videos, err := a.source.GetChannelVideos(ctx, channelID, a.config.YouTube.MaxVideos)
	if err != nil {
		return nil, fmt.Errorf("failed to get channel videos: %w", err)
	}
	return &models.Snapshot{Channel: *info, Videos: videos}, nil
}

func (a *ReportAgent) filter(videos []models.VideoMetrics) ([]models.VideoMetrics, error) {
	r := a.config.Report
	start, end, err := r.DateRange()
	if err != nil {
		return nil, err
	}
	return analytics.Filter(videos,
		analytics.PublishedBetween(start, end),
		analytics.MinViews(r.MinViews),
		analytics.HasTag(r.Tag),
		analytics.TitleContains(r.Search),
	), nil
}

func (a *ReportAgent) build(channel models.ChannelInfo, videos []models.VideoMetrics, now time.Time) *models.ChannelReport {
	metrics := analytics.Aggregate(videos, int64(channel.Subscribers), int64(channel.ViewCount))
	best, worst := analytics.Compare(videos)

	return &models.ChannelReport{
		Date:        now,
		Channel:     channel,
		Metrics:     metrics,
		Totals:      analytics.Totals(videos),
		Health:      analytics.Health(metrics, videos, now),
		TrendPeriod: string(a.period),
		Trend:       analytics.TrendData(videos, a.period, now),
		Engagement:  analytics.Buckets(videos, analytics.Weekly, now),
		Subscribers: analytics.SubscriberGrowth(videos, now),
		Weekdays:    analytics.WeekdayBreakdown(videos, now),
		TopVideos:   analytics.Top(videos, a.sortBy, a.config.Report.TopLimit),
		RecentViews: recentViews(videos),
		Tags:        analytics.Tags(videos, reportTagLimit),
		Best:        best,
		Worst:       worst,
		WatchTime:   analytics.WatchTime(videos),
		Plan:        analytics.PublishingPlan(videos, now, a.rng),
	}
}

// recentViews is the sparkline of views per upload for the latest dated videos.
func recentViews(videos []models.VideoMetrics) []models.Point {
	var values []float64
	for _, v := range analytics.Sort(videos, analytics.SortDate, false) {
		if _, ok := v.Published(); ok {
			values = append(values, float64(v.Views))
		}
	}
	return analytics.Sparkline(values)
}

func (a *ReportAgent) compare(ctx context.Context, main models.ChannelInfo, otherID string) (models.ChannelComparison, error) {
	if a.source == nil {
		return models.ChannelComparison{}, fmt.Errorf("cannot compare with %s without a YouTube client", otherID)
	}
	other, err := a.source.GetChannelInfo(ctx, otherID)
	if err != nil {
		return models.ChannelComparison{}, fmt.Errorf("failed to get comparison channel %s: %w", otherID, err)
	}
	return analytics.CompareChannels(main, *other), nil
}

// writeCSV exports the video table and the channel summary. It returns the
// paths written so far even when a later write fails.
func (a *ReportAgent) writeCSV(channel models.ChannelInfo, videos []models.VideoMetrics, now time.Time) ([]string, error) {
	dir := a.config.Report.OutputDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	name := slug(channel.Title)
	if name == "" {
		name = slug(channel.ID)
	}
	if name == "" {
		name = "channel"
	}
	date := now.Format("2006-01-02")

	channelName := channel.Title
	if channelName == "" {
		channelName = channel.ID
	}
	metrics := analytics.Aggregate(videos, int64(channel.Subscribers), int64(channel.ViewCount))

	tables := []struct {
		file  string
		table analytics.Table
	}{
		{fmt.Sprintf("%s-videos-%s.csv", name, date), analytics.VideoRows(analytics.Sort(videos, a.sortBy, true))},
		{fmt.Sprintf("%s-channel-%s.csv", name, date), analytics.ChannelRows(metrics, channelName, now)},
	}

	var written []string
	for _, t := range tables {
		path := filepath.Join(dir, t.file)
		if err := os.WriteFile(path, []byte(t.table.String()+"\n"), 0o644); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func (a *ReportAgent) critical(events *scheduler.AgentEvents, err error, start time.Time) error {
	if events != nil && events.OnCriticalFailure != nil {
		events.OnCriticalFailure(err, time.Since(start))
	}
	return err
}

func (a *ReportAgent) partial(events *scheduler.AgentEvents, err error, start time.Time) {
	a.log.Warn().Err(err).Msg("Partial failure")
	if events != nil && events.OnPartialFailure != nil {
		events.OnPartialFailure(err, time.Since(start))
	}
}
