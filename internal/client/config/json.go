package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/hyperblog/internal/timex"
)

// JSONConfig is a DTO used exclusively for JSON unmarshalling. Absent keys
// leave the corresponding Config field untouched.
type JSONConfig struct {
	Env               string         `json:"env"`
	BaseURL           string         `json:"base_url"`
	RequestTimeout    timex.Duration `json:"request_timeout"`
	AuthorCacheTTL    timex.Duration `json:"author_cache_ttl"`
	LookupConcurrency int            `json:"lookup_concurrency"`
	PageSize          int            `json:"page_size"`
	ExcerptLength     *int           `json:"excerpt_length"`
	RenderStyle       string         `json:"render_style"`
	WordWrap          *int           `json:"word_wrap"`
	DBPath            string         `json:"db_path"`
}

// parseJSON overlays cfg with the values found in the file at path.
func parseJSON(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JSONConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	jc.apply(cfg)
	return nil
}

func (jc JSONConfig) apply(cfg *Config) {
	if jc.Env != "" {
		cfg.Env = jc.Env
	}
	if jc.BaseURL != "" {
		cfg.BaseURL = jc.BaseURL
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.AuthorCacheTTL.Duration != 0 {
		cfg.AuthorCacheTTL = jc.AuthorCacheTTL.Duration
	}
	if jc.LookupConcurrency != 0 {
		cfg.LookupConcurrency = jc.LookupConcurrency
	}
	if jc.PageSize != 0 {
		cfg.PageSize = jc.PageSize
	}
	// 0 is meaningful for these two (no excerpt, glamour default wrap).
	if jc.ExcerptLength != nil {
		cfg.ExcerptLength = *jc.ExcerptLength
	}
	if jc.WordWrap != nil {
		cfg.WordWrap = *jc.WordWrap
	}
	if jc.RenderStyle != "" {
		cfg.RenderStyle = jc.RenderStyle
	}
	if jc.DBPath != "" {
		cfg.DBPath = jc.DBPath
	}
}
