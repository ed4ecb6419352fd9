package generation

import (
	"os"
)

// Config controls the generation gateway.
type Config struct {
	APIKey          string // Primary provider API key. Empty disables the primary path.
	Model           string // Primary image model. Default imagen-3.0-generate-002.
	FallbackBaseURL string // Keyless fallback endpoint base.
	MeteringURL     string // Usage metering collector. Empty disables metering.
	HistoryLimit    int    // Max generations returned by the history read.
}

// DefaultConfig returns the default gateway configuration.
func DefaultConfig() *Config {
	return &Config{
		Model:           "imagen-3.0-generate-002",
		FallbackBaseURL: "https://image.pollinations.ai/prompt/",
		HistoryLimit:    50,
	}
}

// ConfigFromEnv loads config from environment variables.
// GEMINI_API_KEY, ELITEANI_IMAGE_MODEL, ELITEANI_FALLBACK_IMAGE_URL,
// ELITEANI_METERING_URL
func ConfigFromEnv() *Config {
	cfg := DefaultConfig()

	cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	if v := os.Getenv("ELITEANI_IMAGE_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("ELITEANI_FALLBACK_IMAGE_URL"); v != "" {
		cfg.FallbackBaseURL = v
	}
	cfg.MeteringURL = os.Getenv("ELITEANI_METERING_URL")

	return cfg
}
