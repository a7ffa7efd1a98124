package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

type Config struct {
	ListenAddr string `envconfig:"LISTEN_ADDR" default:":3000"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`

	DBPath     string `envconfig:"DB_PATH" default:"./events.db"`
	RedisAddr  string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	KeepEvents int    `envconfig:"KEEP_EVENTS" default:"30"`

	GitHubToken   string        `envconfig:"GITHUB_TOKEN"`
	FeedRepo      string        `envconfig:"FEED_REPO"` // owner/name, empty for the public timeline
	FetchInterval time.Duration `envconfig:"FETCH_INTERVAL" default:"3m"`
	FetchLimit    int           `envconfig:"FETCH_LIMIT" default:"30"`
	GitHubAPIURL  string        `envconfig:"GITHUB_API_URL"` // GitHub Enterprise only

	FeedCacheTTL    time.Duration `envconfig:"FEED_CACHE_TTL" default:"60s"`
	RowCacheTTL     time.Duration `envconfig:"ROW_CACHE_TTL" default:"30s"`
	DefaultLanguage string        `envconfig:"DEFAULT_LANGUAGE" default:"en"`
	LocalesDir      string        `envconfig:"LOCALES_DIR"`
}

func FromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, errors.Wrap(err, "read config from env")
	}
	if cfg.FetchLimit <= 0 {
		return cfg, errors.Errorf("FETCH_LIMIT must be positive, got %d", cfg.FetchLimit)
	}
	if cfg.KeepEvents < cfg.FetchLimit {
		cfg.KeepEvents = cfg.FetchLimit
	}
	return cfg, nil
}
