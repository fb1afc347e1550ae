// Package config loads service configuration from defaults, an optional
// .env file, an optional YAML file and ROAS_* environment variables.
package config

import (
	"log/slog"
	"strings"
	"time"
)

type Config struct {
	// Addr is the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	HTTPTimeout time.Duration `koanf:"http_timeout"`

	// DataDir, when set, is loaded at startup (influencers.csv, posts.csv,
	// tracking_data.csv, payouts.csv).
	DataDir string `koanf:"data_dir"`

	// TopK is the default size of the top-by-revenue view.
	TopK int `koanf:"top_k"`

	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// Remote tables, fetched by POST /datasets/fetch.
	InfluencersURL string `koanf:"influencers_url"`
	PostsURL       string `koanf:"posts_url"`
	TrackingURL    string `koanf:"tracking_url"`
	PayoutsURL     string `koanf:"payouts_url"`

	FetchRetries int           `koanf:"fetch_retries"`
	FetchBackoff time.Duration `koanf:"fetch_backoff"`

	// MetricsNamespace prefixes every exported Prometheus metric.
	MetricsNamespace string `koanf:"metrics_namespace"`

	// Signed export push target.
	SinkURL    string `koanf:"sink_url"`
	SinkSecret string `koanf:"sink_secret"`
}

// New returns the defaults.
func New() *Config {
	return &Config{
		Addr:           ":8080",
		LogLevel:       "info",
		HTTPTimeout:    15 * time.Second,
		TopK:           5,
		MaxUploadBytes: 32 << 20,
		FetchRetries:   2,
		FetchBackoff:   100 * time.Millisecond,

		MetricsNamespace: "roas",
	}
}

func (c *Config) Level() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
