package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv   = "NEWS_SCREENER_CONFIG"
	databaseDSNEnv  = "DATABASE_DSN"
	redisAddrEnv    = "REDIS_ADDR"
	apiKeyEnv       = "ANTHROPIC_API_KEY"
	tier1ModelEnv   = "TIER1_MODEL"
	tier2ModelEnv   = "TIER2_MODEL"
	summaryModelEnv = "SUMMARY_MODEL"
	emailUserEnv    = "EMAIL_USER"
	emailPassEnv    = "EMAIL_PASSWORD"
	emailToEnv      = "EMAIL_RECEIVER"
	smtpHostEnv     = "SMTP_HOST"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Anthropic AnthropicConfig `yaml:"anthropic"`
	Email     EmailConfig     `yaml:"email"`
	Screening ScreeningConfig `yaml:"screening"`
	Daemon    DaemonConfig    `yaml:"daemon"`
	History   HistoryConfig   `yaml:"history"`
	Feeds     []FeedConfig    `yaml:"feeds"`
}

// LoggingConfig selects handler level and format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// DatabaseConfig describes Postgres connection details. An empty DSN
// switches the pipeline to file-backed history without persistence.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// RedisConfig enables the cross-run seen cache when Addr is set.
type RedisConfig struct {
	Addr    string        `yaml:"addr"`
	SeenTTL time.Duration `yaml:"seenTtl"`
}

// RetryConfig tunes the backoff schedule for transient API failures.
type RetryConfig struct {
	MaxAttempts    int           `yaml:"maxAttempts"`
	InitialBackoff time.Duration `yaml:"initialBackoff"`
	MaxBackoff     time.Duration `yaml:"maxBackoff"`
}

// AnthropicConfig defines how to contact the Messages API.
type AnthropicConfig struct {
	BaseURL       string        `yaml:"baseUrl"`
	APIKey        string        `yaml:"apiKey"`
	Version       string        `yaml:"version"`
	Tier1Model    string        `yaml:"tier1Model"`
	Tier2Model    string        `yaml:"tier2Model"`
	SummaryModel  string        `yaml:"summaryModel"`
	Timeout       time.Duration `yaml:"timeout"`
	MaxConcurrent int           `yaml:"maxConcurrent"`
	Retry         RetryConfig   `yaml:"retry"`
}

// EmailConfig wires SMTP delivery of rendered reports.
type EmailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Receiver string `yaml:"receiver"`
}

// ScreeningConfig tunes tier-1 batching and selection.
type ScreeningConfig struct {
	BatchSize        int `yaml:"batchSize"`
	BatchConcurrency int `yaml:"batchConcurrency"`
	TopPercent       int `yaml:"topPercent"`
	MinSelect        int `yaml:"minSelect"`
	PerFeedLimit     int `yaml:"perFeedLimit"`
	MaxContentChars  int `yaml:"maxContentChars"`
}

// DaemonConfig controls recurring execution and the metrics listener.
type DaemonConfig struct {
	Interval    time.Duration `yaml:"interval"`
	MetricsAddr string        `yaml:"metricsAddr"`
}

// HistoryConfig locates the JSON fallback store for report summaries.
type HistoryConfig struct {
	Path string `yaml:"path"`
}

// FeedConfig describes a single upstream feed with its source strategy.
type FeedConfig struct {
	Name   string `yaml:"name"`
	URL    string `yaml:"url"`
	Source string `yaml:"source"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
// An empty path falls back to the NEWS_SCREENER_CONFIG env variable.
func Load(path string) Config {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	if len(cfg.Feeds) == 0 {
		cfg.Feeds = defaultConfig().Feeds
	}
	for i := range cfg.Feeds {
		if cfg.Feeds[i].Source == "" {
			cfg.Feeds[i].Source = "rss"
		}
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(redisAddrEnv); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv(apiKeyEnv); v != "" {
		c.Anthropic.APIKey = v
	}
	if v := os.Getenv(tier1ModelEnv); v != "" {
		c.Anthropic.Tier1Model = v
	}
	if v := os.Getenv(tier2ModelEnv); v != "" {
		c.Anthropic.Tier2Model = v
	}
	if v := os.Getenv(summaryModelEnv); v != "" {
		c.Anthropic.SummaryModel = v
	}
	if v := os.Getenv(emailUserEnv); v != "" {
		c.Email.User = v
	}
	if v := os.Getenv(emailPassEnv); v != "" {
		c.Email.Password = v
	}
	if v := os.Getenv(emailToEnv); v != "" {
		c.Email.Receiver = v
	}
	if v := os.Getenv(smtpHostEnv); v != "" {
		c.Email.Host = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Redis.Addr != "" {
		base.Redis.Addr = override.Redis.Addr
	}
	if override.Redis.SeenTTL > 0 {
		base.Redis.SeenTTL = override.Redis.SeenTTL
	}

	if override.Anthropic.BaseURL != "" {
		base.Anthropic.BaseURL = override.Anthropic.BaseURL
	}
	if override.Anthropic.APIKey != "" {
		base.Anthropic.APIKey = override.Anthropic.APIKey
	}
	if override.Anthropic.Version != "" {
		base.Anthropic.Version = override.Anthropic.Version
	}
	if override.Anthropic.Tier1Model != "" {
		base.Anthropic.Tier1Model = override.Anthropic.Tier1Model
	}
	if override.Anthropic.Tier2Model != "" {
		base.Anthropic.Tier2Model = override.Anthropic.Tier2Model
	}
	if override.Anthropic.SummaryModel != "" {
		base.Anthropic.SummaryModel = override.Anthropic.SummaryModel
	}
	if override.Anthropic.Timeout > 0 {
		base.Anthropic.Timeout = override.Anthropic.Timeout
	}
	if override.Anthropic.MaxConcurrent > 0 {
		base.Anthropic.MaxConcurrent = override.Anthropic.MaxConcurrent
	}
	if override.Anthropic.Retry.MaxAttempts > 0 {
		base.Anthropic.Retry.MaxAttempts = override.Anthropic.Retry.MaxAttempts
	}
	if override.Anthropic.Retry.InitialBackoff > 0 {
		base.Anthropic.Retry.InitialBackoff = override.Anthropic.Retry.InitialBackoff
	}
	if override.Anthropic.Retry.MaxBackoff > 0 {
		base.Anthropic.Retry.MaxBackoff = override.Anthropic.Retry.MaxBackoff
	}

	if override.Email.Host != "" {
		base.Email.Host = override.Email.Host
	}
	if override.Email.Port > 0 {
		base.Email.Port = override.Email.Port
	}
	if override.Email.User != "" {
		base.Email.User = override.Email.User
	}
	if override.Email.Password != "" {
		base.Email.Password = override.Email.Password
	}
	if override.Email.Receiver != "" {
		base.Email.Receiver = override.Email.Receiver
	}

	if override.Screening.BatchSize > 0 {
		base.Screening.BatchSize = override.Screening.BatchSize
	}
	if override.Screening.BatchConcurrency > 0 {
		base.Screening.BatchConcurrency = override.Screening.BatchConcurrency
	}
	if override.Screening.TopPercent > 0 {
		base.Screening.TopPercent = override.Screening.TopPercent
	}
	if override.Screening.MinSelect > 0 {
		base.Screening.MinSelect = override.Screening.MinSelect
	}
	if override.Screening.PerFeedLimit > 0 {
		base.Screening.PerFeedLimit = override.Screening.PerFeedLimit
	}
	if override.Screening.MaxContentChars > 0 {
		base.Screening.MaxContentChars = override.Screening.MaxContentChars
	}

	if override.Daemon.Interval > 0 {
		base.Daemon.Interval = override.Daemon.Interval
	}
	if override.Daemon.MetricsAddr != "" {
		base.Daemon.MetricsAddr = override.Daemon.MetricsAddr
	}

	if override.History.Path != "" {
		base.History.Path = override.History.Path
	}

	if len(override.Feeds) > 0 {
		base.Feeds = override.Feeds
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Redis:   RedisConfig{SeenTTL: 72 * time.Hour},
		Anthropic: AnthropicConfig{
			BaseURL:       "https://api.anthropic.com",
			Version:       "2023-06-01",
			Tier1Model:    "claude-haiku-4-5-20241022",
			Tier2Model:    "claude-sonnet-4-20250514",
			SummaryModel:  "claude-haiku-4-5-20241022",
			Timeout:       90 * time.Second,
			MaxConcurrent: 2,
			Retry: RetryConfig{
				MaxAttempts:    3,
				InitialBackoff: 2 * time.Second,
				MaxBackoff:     8 * time.Second,
			},
		},
		Email: EmailConfig{Host: "smtp.naver.com", Port: 587},
		Screening: ScreeningConfig{
			BatchSize:        20,
			BatchConcurrency: 2,
			TopPercent:       5,
			MinSelect:        3,
			PerFeedLimit:     15,
			MaxContentChars:  3000,
		},
		Daemon:  DaemonConfig{Interval: 24 * time.Hour},
		History: HistoryConfig{Path: "data/report_history.json"},
		Feeds: []FeedConfig{
			{Name: "Yahoo Finance", URL: "https://finance.yahoo.com/news/rssindex", Source: "rss"},
			{Name: "Investing.com", URL: "https://www.investing.com/rss/news.rss", Source: "rss"},
			{Name: "Google News (Biz)", URL: "https://news.google.com/rss/headlines/section/topic/BUSINESS?hl=en-US&gl=US&ceid=US:en", Source: "rss"},
			{Name: "Google News (Tech)", URL: "https://news.google.com/rss/headlines/section/topic/TECHNOLOGY?hl=en-US&gl=US&ceid=US:en", Source: "rss"},
			{Name: "Hacker News", URL: "https://news.ycombinator.com/rss", Source: "rss"},
			{Name: "TechCrunch", URL: "https://techcrunch.com/feed/", Source: "rss"},
			{Name: "Project Syndicate", URL: "https://www.project-syndicate.org/rss", Source: "rss"},
			{Name: "OilPrice", URL: "https://oilprice.com/rss/main", Source: "rss"},
			{Name: "CoinDesk", URL: "https://www.coindesk.com/arc/outboundfeeds/rss/", Source: "rss"},
		},
	}
}
