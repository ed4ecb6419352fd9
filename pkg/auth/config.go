package auth

import (
	"os"
	"time"
)

// Config controls authentication.
type Config struct {
	AdminEmail    string        // Seeded admin email.
	AdminPIN      string        // Seeded admin PIN.
	AdminName     string        // Seeded admin display name.
	SessionSecret string        // HMAC secret for session tokens. Empty disables token issuing and gating.
	TokenTTL      time.Duration // Session token lifetime. Default 24h.
}

// DefaultConfig returns the default auth configuration.
func DefaultConfig() *Config {
	return &Config{
		AdminEmail: "admin@eliteani.local",
		AdminPIN:   "1951",
		AdminName:  "Admin",
		TokenTTL:   24 * time.Hour,
	}
}

// ConfigFromEnv loads config from environment variables.
// ELITEANI_ADMIN_EMAIL, ELITEANI_ADMIN_PIN, ELITEANI_ADMIN_NAME,
// ELITEANI_SESSION_SECRET
func ConfigFromEnv() *Config {
	cfg := DefaultConfig()

	if v := os.Getenv("ELITEANI_ADMIN_EMAIL"); v != "" {
		cfg.AdminEmail = v
	}
	if v := os.Getenv("ELITEANI_ADMIN_PIN"); v != "" {
		cfg.AdminPIN = v
	}
	if v := os.Getenv("ELITEANI_ADMIN_NAME"); v != "" {
		cfg.AdminName = v
	}
	cfg.SessionSecret = os.Getenv("ELITEANI_SESSION_SECRET")

	return cfg
}
