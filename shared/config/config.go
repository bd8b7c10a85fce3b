package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

type Config struct {
	YouTube    YouTubeConfig    `yaml:"youtube"`
	AI         AIConfig         `yaml:"ai"`
	Email      EmailConfig      `yaml:"email"`
	Report     ReportConfig     `yaml:"report"`
	Schedule   string           `yaml:"schedule" validate:"required"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// YouTubeConfig authenticates with an API key when one is set and falls
// back to the OAuth client otherwise.
type YouTubeConfig struct {
	APIKey       string `yaml:"api_key" env:"YOUTUBE_API_KEY"`
	ClientID     string `yaml:"client_id" env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `yaml:"client_secret" env:"GOOGLE_CLIENT_SECRET"`
	TokenFile    string `yaml:"token_file"`
	ChannelID    string `yaml:"channel_id" env:"YOUTUBE_CHANNEL_ID"`
	MaxVideos    int    `yaml:"max_videos" validate:"min=1,max=500"`
}

type AIConfig struct {
	Enabled      bool   `yaml:"enabled"`
	GeminiAPIKey string `yaml:"gemini_api_key" env:"GEMINI_API_KEY" validate:"required_if=Enabled true"`
	Model        string `yaml:"model"`
}

type EmailConfig struct {
	Enabled    bool   `yaml:"enabled"`
	SMTPServer string `yaml:"smtp_server" validate:"required_if=Enabled true"`
	SMTPPort   int    `yaml:"smtp_port" validate:"min=1,max=65535"`
	Username   string `yaml:"username" env:"EMAIL_USERNAME" validate:"required_if=Enabled true"`
	Password   string `yaml:"password" env:"EMAIL_PASSWORD" validate:"required_if=Enabled true"`
	FromEmail  string `yaml:"from_email" validate:"required_if=Enabled true,omitempty,email"`
	ToEmail    string `yaml:"to_email" validate:"required_if=Enabled true,omitempty,email"`
}

// ReportConfig selects the videos a report covers and how it is laid out.
// InputFile replaces the API fetch with a JSON export of raw videos.
type ReportConfig struct {
	InputFile         string   `yaml:"input_file"`
	TrendPeriod       string   `yaml:"trend_period" validate:"oneof=weekly monthly weekday"`
	SortBy            string   `yaml:"sort_by" validate:"oneof=views engagement likes comments date"`
	TopLimit          int      `yaml:"top_limit" validate:"min=1,max=50"`
	Timezone          string   `yaml:"timezone"`
	OutputDir         string   `yaml:"output_dir" validate:"required"`
	MinViews          int64    `yaml:"min_views" validate:"min=0"`
	Tag               string   `yaml:"tag"`
	Search            string   `yaml:"search"`
	StartDate         string   `yaml:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate           string   `yaml:"end_date" validate:"omitempty,datetime=2006-01-02"`
	CompareChannelIDs []string `yaml:"compare_channel_ids" validate:"max=5,dive,required"`
}

type MonitoringConfig struct {
	HealthPort int `yaml:"health_port" validate:"min=0,max=65535"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" validate:"oneof=trace debug info warn warning error disabled"`
	Format string `yaml:"format" env:"LOG_FORMAT" validate:"oneof=json console"`
}

var validate = validator.New()

// Load reads the file named by CONFIG_FILE (default config.yaml).
// Overrides run after defaults and before validation.
func Load(overrides ...func(*Config)) (*Config, error) {
	_ = godotenv.Load()

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}
	return LoadFile(configFile, overrides...)
}

func LoadFile(configFile string, overrides ...func(*Config)) (*Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	for _, override := range overrides {
		override(&cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func envFallback(field *string, key string) {
	if *field == "" {
		*field = os.Getenv(key)
	}
}

func (c *Config) applyEnv() {
	envFallback(&c.YouTube.APIKey, "YOUTUBE_API_KEY")
	envFallback(&c.YouTube.ClientID, "GOOGLE_CLIENT_ID")
	envFallback(&c.YouTube.ClientSecret, "GOOGLE_CLIENT_SECRET")
	envFallback(&c.YouTube.ChannelID, "YOUTUBE_CHANNEL_ID")
	envFallback(&c.AI.GeminiAPIKey, "GEMINI_API_KEY")
	envFallback(&c.Email.Username, "EMAIL_USERNAME")
	envFallback(&c.Email.Password, "EMAIL_PASSWORD")
	envFallback(&c.Logging.Level, "LOG_LEVEL")
	envFallback(&c.Logging.Format, "LOG_FORMAT")
}

func (c *Config) applyDefaults() {
	if c.YouTube.TokenFile == "" {
		c.YouTube.TokenFile = "youtube_token.json"
	}
	if c.YouTube.MaxVideos == 0 {
		c.YouTube.MaxVideos = 50
	}
	if c.AI.Model == "" {
		c.AI.Model = "gemini-2.5-flash"
	}
	if c.Email.SMTPPort == 0 {
		c.Email.SMTPPort = 587
	}
	if c.Report.TrendPeriod == "" {
		c.Report.TrendPeriod = "weekly"
	}
	if c.Report.SortBy == "" {
		c.Report.SortBy = "views"
	}
	if c.Report.TopLimit == 0 {
		c.Report.TopLimit = 10
	}
	if c.Report.Timezone == "" {
		c.Report.Timezone = "UTC"
	}
	if c.Report.OutputDir == "" {
		c.Report.OutputDir = "reports"
	}
	if c.Schedule == "" {
		c.Schedule = "0 0 9 * * 1" // Mondays at 9 AM
	}
	if c.Monitoring.HealthPort == 0 {
		c.Monitoring.HealthPort = 8080
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
}

func (c *Config) validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("%s fails %q", fe.Namespace(), fe.Tag())
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}

	if c.Report.InputFile == "" {
		if c.YouTube.ChannelID == "" {
			return fmt.Errorf("YouTube channel ID is required (set YOUTUBE_CHANNEL_ID or youtube.channel_id)")
		}
		if c.YouTube.APIKey == "" && (c.YouTube.ClientID == "" || c.YouTube.ClientSecret == "") {
			return fmt.Errorf("YouTube credentials are required (set YOUTUBE_API_KEY, or GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET)")
		}
	}

	if _, err := c.Report.Location(); err != nil {
		return err
	}
	start, end, err := c.Report.DateRange()
	if err != nil {
		return err
	}
	if start != nil && end != nil && start.After(*end) {
		return fmt.Errorf("report start_date %s is after end_date %s", c.Report.StartDate, c.Report.EndDate)
	}
	return nil
}

// Location resolves the report timezone used for bucket boundaries.
func (r ReportConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid report timezone %q: %w", r.Timezone, err)
	}
	return loc, nil
}

// DateRange parses the configured publish-date bounds. The end date covers
// its whole day. Unset bounds are nil.
func (r ReportConfig) DateRange() (start, end *time.Time, err error) {
	loc, err := r.Location()
	if err != nil {
		return nil, nil, err
	}
	if r.StartDate != "" {
		t, err := time.ParseInLocation(dateLayout, r.StartDate, loc)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid report start_date: %w", err)
		}
		start = &t
	}
	if r.EndDate != "" {
		t, err := time.ParseInLocation(dateLayout, r.EndDate, loc)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid report end_date: %w", err)
		}
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		end = &t
	}
	return start, end, nil
}
