// Package config loads runtime configuration for the hyperblog CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file, selected with -c/--config.
//  3. HYPERBLOG_* environment variables, read with cleanenv.
//  4. Command-line flags, applied by the cli package.
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "10s" or
// integer nanoseconds:
//
//	{
//	  "env": "local",
//	  "base_url": "http://127.0.0.1:8080",
//	  "request_timeout": "10s",
//	  "author_cache_ttl": "10m",
//	  "lookup_concurrency": 4,
//	  "page_size": 20,
//	  "excerpt_length": 280,
//	  "render_style": "auto",
//	  "word_wrap": 80,
//	  "db_path": "~/.hyperblog/hyperblog.db"
//	}
package config
