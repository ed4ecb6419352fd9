package promo

import (
	"os"
	"strconv"
	"strings"
)

// Config controls the promo engine.
type Config struct {
	Channels          []string // Channel fan-out set. Default coldEmail, blog, socialPost.
	PulseCap          int      // Newest pulses kept after a deploy. Default 20.
	Prefix            string   // Tag prepended to every queued promo.
	SubscriberTrigger string   // Reported trigger label, surfaced read-only.
}

// DefaultConfig returns the default promo configuration.
func DefaultConfig() *Config {
	return &Config{
		Channels:          []string{"coldEmail", "blog", "socialPost"},
		PulseCap:          20,
		Prefix:            "[AI Generated Promo] ",
		SubscriberTrigger: "first3Subscribers",
	}
}

// ConfigFromEnv loads config from environment variables.
// ELITEANI_PROMO_CHANNELS (comma-separated), ELITEANI_PROMO_PULSE_CAP
func ConfigFromEnv() *Config {
	cfg := DefaultConfig()

	if v := os.Getenv("ELITEANI_PROMO_CHANNELS"); v != "" {
		var channels []string
		for _, c := range strings.Split(v, ",") {
			if c = strings.TrimSpace(c); c != "" {
				channels = append(channels, c)
			}
		}
		if len(channels) > 0 {
			cfg.Channels = channels
		}
	}

	if v := os.Getenv("ELITEANI_PROMO_PULSE_CAP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PulseCap = n
		}
	}

	return cfg
}
