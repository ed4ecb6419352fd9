package sentinel

import (
	"os"
	"strconv"
	"time"
)

// Config controls the health sentinel.
type Config struct {
	ServerURL     string        // Base URL of the app server receiving heartbeats.
	Interval      time.Duration // Tick interval. Default 60s.
	RootDir       string        // Project root audited for critical files.
	LintCommand   string        // Shell command run as the lint audit.
	CriticalFiles []string      // Files whose absence deducts from the health score.
	ReportPath    string        // Markdown report location, relative to RootDir.
}

// DefaultConfig returns the default sentinel configuration.
func DefaultConfig() *Config {
	return &Config{
		ServerURL:     "http://localhost:8080",
		Interval:      60 * time.Second,
		RootDir:       ".",
		LintCommand:   "go vet ./...",
		CriticalFiles: []string{".env.example", "go.mod", "Dockerfile"},
		ReportPath:    "docs/health_check.md",
	}
}

// ConfigFromEnv loads config from environment variables.
// ELITEANI_SENTINEL_SERVER_URL, ELITEANI_SENTINEL_INTERVAL_SECONDS,
// ELITEANI_SENTINEL_ROOT, ELITEANI_SENTINEL_LINT_COMMAND
func ConfigFromEnv() *Config {
	cfg := DefaultConfig()

	if v := os.Getenv("ELITEANI_SENTINEL_SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("ELITEANI_SENTINEL_INTERVAL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Interval = time.Duration(n) * time.Second
		}
	}
	if v := os.Getenv("ELITEANI_SENTINEL_ROOT"); v != "" {
		cfg.RootDir = v
	}
	if v := os.Getenv("ELITEANI_SENTINEL_LINT_COMMAND"); v != "" {
		cfg.LintCommand = v
	}

	return cfg
}
