package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Config holds the configuration for the assistant service.
// Environment variables are parsed from the SWUNG_ prefix,
// e.g. SWUNG_HTTP_PORT, SWUNG_DB_DRIVER.
type Config struct {
	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"3000"`

	// Storage. Driver is "sqlite" or "postgres".
	DBDriver    string `envconfig:"DB_DRIVER" default:"sqlite"`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"db/swung.db"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`

	// Timezone is the fixed organizational zone all naive timestamps are
	// interpreted in. Every stored datetime and every "now" comparison uses
	// this zone.
	Timezone string `envconfig:"TIMEZONE" default:"Asia/Kolkata"`

	// Alarm scheduler cadence.
	SchedulerIntervalSeconds int `envconfig:"SCHEDULER_INTERVAL_SECONDS" default:"30"`

	// Language model (OpenAI-compatible chat completions with tool calling).
	LLMBaseURL        string `envconfig:"LLM_BASE_URL" default:"https://api.githubcopilot.com"`
	LLMModel          string `envconfig:"LLM_MODEL" default:"gpt-4o"`
	LLMTimeoutSeconds int    `envconfig:"LLM_TIMEOUT_SECONDS" default:"45"`
	// CopilotTokenFile stores the upstream credential obtained by the login
	// flow (outside core scope). Empty disables the resolver.
	CopilotTokenFile string `envconfig:"COPILOT_TOKEN_FILE" default:".tokens.json"`

	// Prompt context bounds.
	ContextEventLimit int `envconfig:"CONTEXT_EVENT_LIMIT" default:"20"`

	// Push channel. An empty server key degrades push to a logged no-op.
	FCMServerKey string `envconfig:"FCM_SERVER_KEY" default:""`
	FCMEndpoint  string `envconfig:"FCM_ENDPOINT" default:"https://fcm.googleapis.com/fcm/send"`
}

// ResolveDefaults validates driver selection and derived settings.
func (c *Config) ResolveDefaults() error {
	switch c.DBDriver {
	case "sqlite":
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH required for sqlite driver")
		}
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN required for postgres driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	if c.SchedulerIntervalSeconds <= 0 {
		return fmt.Errorf("SCHEDULER_INTERVAL_SECONDS must be positive")
	}
	if c.ContextEventLimit <= 0 {
		c.ContextEventLimit = 20
	}
	return nil
}

// New creates a Config from the environment. A local .env file is loaded
// first when present; its absence is not an error.
func New() (*Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded .env file")
	}

	var cfg Config
	if err := envconfig.Process("SWUNG", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("db_driver", cfg.DBDriver).
		Str("timezone", cfg.Timezone).
		Int("http_port", cfg.HTTPPort).
		Int("scheduler_interval_s", cfg.SchedulerIntervalSeconds).
		Str("llm_model", cfg.LLMModel).
		Bool("push_configured", cfg.FCMServerKey != "").
		Msg("Configuration loaded")

	return &cfg, nil
}

// GetHTTPAddr returns the HTTP server address.
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
