package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for qc-engine.
// Configuration can come from YAML file (config.yaml) or environment
// variables. Environment variables always override YAML values for fields
// that support both. Secrets (passwords, API keys) must only come from
// environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// MigrationsPath is the directory containing SQL migrations.
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`

	// Vision model configuration
	Vision VisionConfig `yaml:"vision"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"qc"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"qc_engine"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
}

// VisionConfig holds the external vision model endpoint configuration.
type VisionConfig struct {
	// Provider selects the client implementation: "openai" (any
	// OpenAI-compatible endpoint) or "anthropic".
	Provider string `yaml:"provider" env:"VISION_PROVIDER" env-default:"openai"`

	// Endpoint is the base URL for OpenAI-compatible providers.
	Endpoint string `yaml:"endpoint" env:"VISION_ENDPOINT" env-default:"https://api.openai.com/v1"`

	// Model is the multimodal model identifier.
	Model string `yaml:"model" env:"VISION_MODEL" env-default:"gpt-4o-mini"`

	// APIKey authenticates against the provider. Secret - not in YAML.
	APIKey string `yaml:"-" env:"VISION_API_KEY"`

	// TimeoutSeconds bounds a single model invocation. The model call is
	// the only unbounded-latency operation in the pipeline, so it always
	// runs under a deadline.
	TimeoutSeconds int `yaml:"timeout_seconds" env:"VISION_TIMEOUT_SECONDS" env-default:"60"`

	// MaxTokens caps the model reply length.
	MaxTokens int `yaml:"max_tokens" env:"VISION_MAX_TOKENS" env-default:"2048"`
}

// Load reads configuration from config.yaml with environment variable
// overrides. When config.yaml does not exist, configuration comes from the
// environment alone. The version parameter is injected at build time.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Vision.Provider {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("invalid vision provider %q (want openai or anthropic)", c.Vision.Provider)
	}
	if c.Vision.Model == "" {
		return fmt.Errorf("vision model is required")
	}
	return nil
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
