package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds runtime settings for the hyperblog CLI.
//
// Durations are time.Duration; in JSON they may be written as "10s" or as
// integer nanoseconds, in the environment as "10s".
type Config struct {
	Env               string        `env:"HYPERBLOG_ENV"`
	BaseURL           string        `env:"HYPERBLOG_BASE_URL"`
	RequestTimeout    time.Duration `env:"HYPERBLOG_REQUEST_TIMEOUT"`
	AuthorCacheTTL    time.Duration `env:"HYPERBLOG_AUTHOR_CACHE_TTL"`
	LookupConcurrency int           `env:"HYPERBLOG_LOOKUP_CONCURRENCY"`
	PageSize          int           `env:"HYPERBLOG_PAGE_SIZE"`
	ExcerptLength     int           `env:"HYPERBLOG_EXCERPT_LENGTH"`
	RenderStyle       string        `env:"HYPERBLOG_RENDER_STYLE"`
	WordWrap          int           `env:"HYPERBLOG_WORD_WRAP"`
	DBPath            string        `env:"HYPERBLOG_DB_PATH"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Env = "local"
	c.BaseURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 10 * time.Second
	c.AuthorCacheTTL = 10 * time.Minute
	c.LookupConcurrency = 4
	c.PageSize = 20
	c.ExcerptLength = 280
	c.RenderStyle = "auto"
	c.WordWrap = 80
	c.DBPath = "~/.hyperblog/hyperblog.db"
}

// LoadConfig builds a Config from defaults, then the JSON file at path (if
// path is not empty), then HYPERBLOG_* environment variables. Command-line
// flags are applied by the caller on top of the result.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path != "" {
		if err := parseJSON(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	return cfg, nil
}

// Validate reports the first unusable value.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: base_url %q must be an http(s) URL", ErrInvalidConfig, c.BaseURL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request_timeout must be positive", ErrInvalidConfig)
	}
	if c.AuthorCacheTTL <= 0 {
		return fmt.Errorf("%w: author_cache_ttl must be positive", ErrInvalidConfig)
	}
	if c.LookupConcurrency < 1 {
		return fmt.Errorf("%w: lookup_concurrency must be at least 1", ErrInvalidConfig)
	}
	if c.PageSize < 1 {
		return fmt.Errorf("%w: page_size must be at least 1", ErrInvalidConfig)
	}
	if c.ExcerptLength < 0 {
		return fmt.Errorf("%w: excerpt_length must not be negative", ErrInvalidConfig)
	}
	if c.WordWrap < 0 {
		return fmt.Errorf("%w: word_wrap must not be negative", ErrInvalidConfig)
	}
	if c.DBPath == "" {
		return fmt.Errorf("%w: db_path is empty", ErrInvalidConfig)
	}
	return nil
}
