package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	DefaultProvider   = "genai"
	DefaultImageModel = "gemini-2.5-flash-image"
	DefaultPort       = "8888"
	DefaultSessionTTL = 2 * time.Hour
)

// Config holds settings read from the environment (after .env is loaded).
type Config struct {
	Provider   string
	ImageModel string
	Port       string
	SessionTTL time.Duration
}

// Load reads the environment and applies defaults where needed.
func Load() (*Config, error) {
	cfg := &Config{
		Provider:   getEnv("VISIONARY_PROVIDER", DefaultProvider),
		ImageModel: getEnv("GEMINI_IMAGE_MODEL", DefaultImageModel),
		Port:       getEnv("PORT", DefaultPort),
		SessionTTL: DefaultSessionTTL,
	}

	if v := getEnv("VISIONARY_SESSION_TTL", ""); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid VISIONARY_SESSION_TTL %q: %w", v, err)
		}
		if ttl <= 0 {
			return nil, fmt.Errorf("VISIONARY_SESSION_TTL must be positive, got %s", ttl)
		}
		cfg.SessionTTL = ttl
	}

	return cfg, nil
}

// APIKey returns the Gemini credential. It is looked up on every call so a
// missing key surfaces on the generate request rather than at startup.
func APIKey() string {
	if k := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); k != "" {
		return k
	}
	return strings.TrimSpace(os.Getenv("API_KEY"))
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
