package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wavetile/tilesynth/internal/logger"
)

// Config holds the full configuration for a tilesynth process.
type Config struct {
	Synthesis SynthesisConfig `yaml:"synthesis"`
	Logging   logger.Config   `yaml:"logging"`
	EventBus  EventBusConfig  `yaml:"event_bus"`
	Catalog   CatalogConfig   `yaml:"catalog"`
}

// SynthesisConfig mirrors the search driver's Options one-for-one.
type SynthesisConfig struct {
	MaxAttempts                  int   `yaml:"max_attempts"`
	MaxIterationsPerAttempt      int   `yaml:"max_iterations_per_attempt"`
	CandidatePoolSize            int   `yaml:"candidate_pool_size"`
	MaxConsecutiveContradictions int   `yaml:"max_consecutive_contradictions"`
	Seed                         int64 `yaml:"seed"`
	YieldEvery                   int   `yaml:"yield_every"`
}

// EventBusConfig configures the WebSocket fan-out of the event stream.
type EventBusConfig struct {
	// AllowedOrigins is a list of origins allowed to connect via WebSocket.
	// Empty list enforces same-origin policy. Use "*" to allow all origins
	// (not recommended for production).
	AllowedOrigins []string `yaml:"allowed_origins"`

	// MaxMessageSize is the maximum WebSocket message size in bytes.
	MaxMessageSize int64 `yaml:"max_message_size"`

	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}

// CatalogConfig selects the persistence dialect for stored tilesets and
// run results.
type CatalogConfig struct {
	Dialect string `yaml:"dialect"` // "sqlite" or "postgres"
	DSN     string `yaml:"dsn"`
}

// Default returns a Config with safe, runnable defaults.
func Default() *Config {
	return &Config{
		Synthesis: SynthesisConfig{
			MaxAttempts:                  15,
			MaxIterationsPerAttempt:      0,
			CandidatePoolSize:            3,
			MaxConsecutiveContradictions: 5,
			Seed:                         0,
			YieldEvery:                   200,
		},
		Logging: logger.Config{
			Level:          "INFO",
			ConsoleEnabled: true,
			ConsoleFormat:  "text",
			FileEnabled:    false,
			FilePath:       "logs/tilesynth.log",
			FileFormat:     "text",
			FileMaxSizeMB:  10,
			FileMaxBackups: 5,
			FileMaxAgeDays: 30,
		},
		EventBus: EventBusConfig{
			AllowedOrigins: []string{},
			MaxMessageSize: 4096,
			Host:           "localhost",
			Port:           8980,
			Path:           "/events",
		},
		Catalog: CatalogConfig{
			Dialect: "sqlite",
			DSN:     "data/tilesynth.db",
		},
	}
}

// Load reads Config from a YAML file. If the file doesn't exist, it
// returns Default() rather than an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return Default(), err
	}

	return cfg, nil
}

// IsOriginAllowed checks if the given origin is allowed based on the config.
// Returns true if:
//   - AllowedOrigins contains "*" (allow all)
//   - AllowedOrigins contains the exact origin
//   - AllowedOrigins is empty and origin matches the request host (same-origin)
func (c *EventBusConfig) IsOriginAllowed(origin, requestHost string) bool {
	if len(c.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}

	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" {
			return true
		}
		if allowed == origin {
			return true
		}
	}

	return false
}

// isSameOrigin checks if the origin matches the request host (same-origin policy).
func isSameOrigin(origin, requestHost string) bool {
	if origin == "" {
		return true // No origin header means same-origin (e.g., non-browser client)
	}

	originHost := origin
	if idx := strings.Index(origin, "://"); idx != -1 {
		originHost = origin[idx+3:]
	}
	originHost = strings.TrimSuffix(originHost, "/")

	return originHost == requestHost
}
