package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies SENTINEL_* environment variable overrides, and
// returns the final Config. A missing file is not an error; the defaults plus
// environment overrides are used instead. The returned Config has NOT been
// validated; the caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known SENTINEL_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators inject secrets at deploy time without touching
// the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── GenAI ──
	setStr(&cfg.GenAI.APIKey, "GEMINI_API_KEY") // compatibility alias
	setStr(&cfg.GenAI.APIKey, "SENTINEL_GENAI_API_KEY")
	setStr(&cfg.GenAI.BaseURL, "SENTINEL_GENAI_BASE_URL")
	setStr(&cfg.GenAI.CatalogModel, "SENTINEL_GENAI_CATALOG_MODEL")
	setStr(&cfg.GenAI.AuditModel, "SENTINEL_GENAI_AUDIT_MODEL")
	setInt(&cfg.GenAI.ThinkingBudget, "SENTINEL_GENAI_THINKING_BUDGET")

	// ── Acquisition ──
	setDuration(&cfg.Acquisition.PrimaryTimeout, "SENTINEL_ACQUISITION_PRIMARY_TIMEOUT")
	setDuration(&cfg.Acquisition.FallbackTimeout, "SENTINEL_ACQUISITION_FALLBACK_TIMEOUT")
	setInt(&cfg.Acquisition.MatchCount, "SENTINEL_ACQUISITION_MATCH_COUNT")
	setInt(&cfg.Acquisition.RefreshPerMinute, "SENTINEL_ACQUISITION_REFRESH_PER_MINUTE")
	setInt(&cfg.Acquisition.RefreshBurst, "SENTINEL_ACQUISITION_REFRESH_BURST")

	// ── Session ──
	setStr(&cfg.Session.DefaultSport, "SENTINEL_SESSION_DEFAULT_SPORT")
	setStr(&cfg.Session.DefaultSource, "SENTINEL_SESSION_DEFAULT_SOURCE")

	// ── Server ──
	setBool(&cfg.Server.Enabled, "SENTINEL_SERVER_ENABLED")
	setInt(&cfg.Server.Port, "SENTINEL_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "SENTINEL_SERVER_CORS_ORIGINS")
	setStr(&cfg.Server.APIKey, "SENTINEL_SERVER_API_KEY")

	// ── Top-level ──
	setStr(&cfg.LogLevel, "SENTINEL_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
