package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	channelreport "channel-insights/agents/channel-report"
	"channel-insights/shared/config"
	"channel-insights/shared/logging"
	"channel-insights/shared/scheduler"
)

func main() {
	once := flag.Bool("once", false, "run a single report and exit")
	input := flag.String("input", "", "read raw videos from a JSON export instead of the YouTube API")
	flag.Parse()

	var overrides []func(*config.Config)
	if *input != "" {
		overrides = append(overrides, func(c *config.Config) { c.Report.InputFile = *input })
	}

	cfg, err := config.Load(overrides...)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	// Create context that responds to signals
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	agent := channelreport.NewReportAgent(cfg)
	s := scheduler.New(cfg, agent)

	if *once {
		logging.Info().Msg("Running once")
		if err := agent.Initialize(); err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize agent")
		}

		if err := s.RunOnce(ctx); err != nil {
			logging.Fatal().Err(err).Msg("Failed to run")
		}

		if report := agent.LastReport(); report != nil {
			logging.Info().
				Str("channel", report.Channel.Title).
				Int("health", report.Health.Overall).
				Strs("csv_files", report.CSVFiles).
				Msg(s.Monitor().GetStatusSummary())
		}
		return
	}

	logging.Info().Msg("Starting scheduler")

	if err := s.Start(ctx); err != nil && ctx.Err() == nil {
		logging.Fatal().Err(err).Msg("Scheduler failed")
	}
}
