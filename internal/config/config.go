// Package config defines the top-level configuration for the sentinelbet
// betting desk and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/lotteryops/sentinelbet/internal/domain"
)

// duration wraps time.Duration so it can be written as "15s" in TOML.
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by SENTINEL_* environment variables.
type Config struct {
	GenAI       GenAIConfig       `toml:"genai"`
	Acquisition AcquisitionConfig `toml:"acquisition"`
	Session     SessionConfig     `toml:"session"`
	Server      ServerConfig      `toml:"server"`
	LogLevel    string            `toml:"log_level"`
}

// GenAIConfig holds the search-augmented generation endpoint used for both
// match-catalog providers and the audit oracle.
type GenAIConfig struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	CatalogModel   string `toml:"catalog_model"`
	AuditModel     string `toml:"audit_model"`
	ThinkingBudget int    `toml:"thinking_budget"`
}

// AcquisitionConfig tunes the catalog acquisition orchestrator.
type AcquisitionConfig struct {
	// PrimaryTimeout is the wall-clock budget the primary provider is raced
	// against before the fallback (if any) is tried.
	PrimaryTimeout duration `toml:"primary_timeout"`

	// FallbackTimeout bounds the single fallback attempt.
	FallbackTimeout duration `toml:"fallback_timeout"`

	// MatchCount is how many active fixtures a provider is asked for.
	MatchCount int `toml:"match_count"`

	// RefreshPerMinute caps manual refresh triggers; extra triggers are
	// rejected with a rate-limit error rather than queued.
	RefreshPerMinute int `toml:"refresh_per_minute"`
	RefreshBurst     int `toml:"refresh_burst"`
}

// SessionConfig sets the initial sport and data source of a desk session.
type SessionConfig struct {
	DefaultSport  string `toml:"default_sport"`
	DefaultSource string `toml:"default_source"`
}

// ServerConfig holds the HTTP API server configuration.
type ServerConfig struct {
	Enabled     bool     `toml:"enabled"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
	APIKey      string   `toml:"api_key"` // empty disables authentication
}

// Defaults returns the built-in configuration. Values mirror the production
// lineup: 15s primary budget (tunable), six fixtures per fetch.
func Defaults() Config {
	return Config{
		GenAI: GenAIConfig{
			BaseURL:        "https://generativelanguage.googleapis.com",
			CatalogModel:   "gemini-3-flash-preview",
			AuditModel:     "gemini-3-pro-preview",
			ThinkingBudget: 15000,
		},
		Acquisition: AcquisitionConfig{
			PrimaryTimeout:   duration{15 * time.Second},
			FallbackTimeout:  duration{35 * time.Second},
			MatchCount:       6,
			RefreshPerMinute: 6,
			RefreshBurst:     2,
		},
		Session: SessionConfig{
			DefaultSport:  string(domain.SportFootball),
			DefaultSource: string(domain.SourceOfficial),
		},
		Server: ServerConfig{
			Enabled:     true,
			Port:        8000,
			CORSOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		LogLevel: "info",
	}
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns a
// combined error describing every problem found. The error wraps
// domain.ErrConfiguration.
//
// A missing genai API key is deliberately NOT a validation failure: the
// acquisition path degrades to the bundled static catalog while the rest of
// the desk keeps working. Provider construction reports the missing
// credential when a live fetch is actually attempted.
func (c *Config) Validate() error {
	var errs []string

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	if c.GenAI.BaseURL == "" {
		errs = append(errs, "genai: base_url must not be empty")
	}
	if c.GenAI.CatalogModel == "" {
		errs = append(errs, "genai: catalog_model must not be empty")
	}
	if c.GenAI.AuditModel == "" {
		errs = append(errs, "genai: audit_model must not be empty")
	}
	if c.GenAI.ThinkingBudget < 0 {
		errs = append(errs, "genai: thinking_budget must be >= 0")
	}

	if t := c.Acquisition.PrimaryTimeout.Duration; t < time.Second || t > 120*time.Second {
		errs = append(errs, fmt.Sprintf("acquisition: primary_timeout must be 1s-120s, got %s", t))
	}
	if t := c.Acquisition.FallbackTimeout.Duration; t < time.Second || t > 120*time.Second {
		errs = append(errs, fmt.Sprintf("acquisition: fallback_timeout must be 1s-120s, got %s", t))
	}
	if c.Acquisition.MatchCount < 1 {
		errs = append(errs, "acquisition: match_count must be >= 1")
	}
	if c.Acquisition.RefreshPerMinute < 1 {
		errs = append(errs, "acquisition: refresh_per_minute must be >= 1")
	}
	if c.Acquisition.RefreshBurst < 1 {
		errs = append(errs, "acquisition: refresh_burst must be >= 1")
	}

	if !domain.Sport(c.Session.DefaultSport).Valid() {
		errs = append(errs, fmt.Sprintf("session: unknown default_sport %q (valid: FOOTBALL, BASKETBALL)", c.Session.DefaultSport))
	}
	if !domain.SourceKind(c.Session.DefaultSource).Valid() {
		errs = append(errs, fmt.Sprintf("session: unknown default_source %q (valid: OFFICIAL, INTERNATIONAL)", c.Session.DefaultSource))
	}

	if c.Server.Enabled {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, fmt.Sprintf("server: port must be 1-65535, got %d", c.Server.Port))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w:\n  - %s", domain.ErrConfiguration, strings.Join(errs, "\n  - "))
	}
	return nil
}
