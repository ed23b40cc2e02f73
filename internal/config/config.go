package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

type Config struct {
	App struct {
		Name      string `envconfig:"APP_NAME" default:"Tally"`
		Port      int    `envconfig:"PORT" default:"8080"`
		LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
		LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
	}

	DB struct {
		Driver     string `envconfig:"DB_DRIVER" default:"sqlite"`
		Host       string `envconfig:"DB_HOST" default:"localhost"`
		Port       int    `envconfig:"DB_PORT" default:"5432"`
		User       string `envconfig:"DB_USER" default:"postgres"`
		Password   string `envconfig:"DB_PASSWORD" default:""`
		Name       string `envconfig:"DB_NAME" default:"tally"`
		SQLitePath string `envconfig:"DB_SQLITE_PATH" default:"transactions.db"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	LLM struct {
		Provider string        `envconfig:"LLM_PROVIDER" default:"ollama"`
		BaseURL  string        `envconfig:"LLM_BASE_URL" default:""`
		Model    string        `envconfig:"LLM_MODEL" default:"llama3.2"`
		APIKey   string        `envconfig:"LLM_API_KEY" default:""`
		Timeout  time.Duration `envconfig:"LLM_TIMEOUT" default:"30s"`
	}

	AMQP struct {
		URL      string `envconfig:"AMQP_URL" default:""`
		Exchange string `envconfig:"AMQP_EXCHANGE" default:"tally.transactions"`
	}

	Auth struct {
		JWTSecret string `envconfig:"AUTH_JWT_SECRET" default:""`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}

	RateLimit struct {
		PerMinute int `envconfig:"RATE_LIMIT_PER_MINUTE" default:"30"`
		Burst     int `envconfig:"RATE_LIMIT_BURST" default:"10"`
	}
}

// ConnectionString returns the DSN for the configured driver.
func (c *Config) ConnectionString() string {
	if c.DB.Driver == DriverSQLite {
		return c.DB.SQLitePath
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DB.User, c.DB.Password),
		Host:     fmt.Sprintf("%s:%d", c.DB.Host, c.DB.Port),
		Path:     c.DB.Name,
		RawQuery: "sslmode=disable",
	}

	return u.String()
}

// LogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c *Config) Validate() error {
	switch c.DB.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unknown database driver %q", c.DB.Driver)
	}

	switch c.LLM.Provider {
	case ProviderOllama, ProviderOpenAI:
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}

	if c.LLM.Model == "" {
		return fmt.Errorf("llm model is required")
	}

	if c.LLM.Timeout < 0 {
		return fmt.Errorf("llm timeout must not be negative")
	}

	if c.RateLimit.PerMinute < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("rate limit values must not be negative")
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	cfg.DB.Driver = strings.ToLower(strings.TrimSpace(cfg.DB.Driver))
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
