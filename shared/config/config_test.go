package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"YOUTUBE_API_KEY", "GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET", "YOUTUBE_CHANNEL_ID",
		"GEMINI_API_KEY", "EMAIL_USERNAME", "EMAIL_PASSWORD", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadFileDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
youtube:
  api_key: key
  channel_id: UC123
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}

	if cfg.YouTube.MaxVideos != 50 {
		t.Errorf("MaxVideos = %d, want 50", cfg.YouTube.MaxVideos)
	}
	if cfg.YouTube.TokenFile != "youtube_token.json" {
		t.Errorf("TokenFile = %q", cfg.YouTube.TokenFile)
	}
	if cfg.AI.Model != "gemini-2.5-flash" {
		t.Errorf("Model = %q", cfg.AI.Model)
	}
	if cfg.Report.TrendPeriod != "weekly" || cfg.Report.SortBy != "views" || cfg.Report.TopLimit != 10 {
		t.Errorf("report defaults = %+v", cfg.Report)
	}
	if cfg.Report.Timezone != "UTC" || cfg.Report.OutputDir != "reports" {
		t.Errorf("report defaults = %+v", cfg.Report)
	}
	if cfg.Schedule != "0 0 9 * * 1" {
		t.Errorf("Schedule = %q", cfg.Schedule)
	}
	if cfg.Monitoring.HealthPort != 8080 {
		t.Errorf("HealthPort = %d, want 8080", cfg.Monitoring.HealthPort)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("logging defaults = %+v", cfg.Logging)
	}
}

func TestLoadFileEnvFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_CLIENT_ID", "client")
	t.Setenv("GOOGLE_CLIENT_SECRET", "secret")
	t.Setenv("YOUTUBE_CHANNEL_ID", "UCenv")
	t.Setenv("GEMINI_API_KEY", "gem")

	path := writeConfig(t, `
ai:
  enabled: true
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if cfg.YouTube.ClientID != "client" || cfg.YouTube.ChannelID != "UCenv" {
		t.Errorf("youtube = %+v", cfg.YouTube)
	}
	if cfg.AI.GeminiAPIKey != "gem" {
		t.Errorf("GeminiAPIKey = %q", cfg.AI.GeminiAPIKey)
	}
}

func TestLoadFileOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "report:\n  top_limit: 5\n")

	cfg, err := LoadFile(path, func(c *Config) { c.Report.InputFile = "videos.json" })
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if cfg.Report.InputFile != "videos.json" {
		t.Errorf("InputFile = %q", cfg.Report.InputFile)
	}
}

func TestLoadFileValidation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "Missing channel",
			body:    "youtube:\n  api_key: key\n",
			wantErr: "channel ID",
		},
		{
			name:    "Missing credentials",
			body:    "youtube:\n  channel_id: UC1\n  client_id: only-id\n",
			wantErr: "credentials",
		},
		{
			name:    "Unknown trend period",
			body:    "report:\n  input_file: v.json\n  trend_period: daily\n",
			wantErr: "TrendPeriod",
		},
		{
			name:    "Email enabled without server",
			body:    "report:\n  input_file: v.json\nemail:\n  enabled: true\n  username: u\n  password: p\n  from_email: a@example.com\n  to_email: b@example.com\n",
			wantErr: "SMTPServer",
		},
		{
			name:    "Invalid recipient",
			body:    "report:\n  input_file: v.json\nemail:\n  enabled: true\n  smtp_server: smtp.example.com\n  username: u\n  password: p\n  from_email: a@example.com\n  to_email: nobody\n",
			wantErr: "ToEmail",
		},
		{
			name:    "AI enabled without key",
			body:    "report:\n  input_file: v.json\nai:\n  enabled: true\n",
			wantErr: "GeminiAPIKey",
		},
		{
			name:    "Bad date",
			body:    "report:\n  input_file: v.json\n  start_date: 01/02/2026\n",
			wantErr: "StartDate",
		},
		{
			name:    "Inverted range",
			body:    "report:\n  input_file: v.json\n  start_date: 2026-10-01\n  end_date: 2026-09-01\n",
			wantErr: "after end_date",
		},
		{
			name:    "Unknown timezone",
			body:    "report:\n  input_file: v.json\n  timezone: Mars/Olympus\n",
			wantErr: "timezone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := LoadFile(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestDateRange(t *testing.T) {
	r := ReportConfig{Timezone: "UTC", StartDate: "2026-09-01", EndDate: "2026-09-30"}
	start, end, err := r.DateRange()
	if err != nil {
		t.Fatalf("DateRange error: %v", err)
	}
	if !start.Equal(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %v", start)
	}
	lastInstant := time.Date(2026, 9, 30, 23, 59, 59, 999999999, time.UTC)
	if !end.Equal(lastInstant) {
		t.Errorf("end = %v, want %v", end, lastInstant)
	}

	empty := ReportConfig{Timezone: "UTC"}
	if s, e, err := empty.DateRange(); err != nil || s != nil || e != nil {
		t.Errorf("empty DateRange = %v, %v, %v", s, e, err)
	}
}
