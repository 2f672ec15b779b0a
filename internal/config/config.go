// Package config defines configuration parsing and helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"dev"`
	Port   int    `env:"PORT" envDefault:"8080"`

	RedisAddr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	// SessionTTL is the rolling session expiry; every load and save refreshes it.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"10m"`

	GeminiAPIKey      string `env:"GEMINI_API_KEY"`
	OpenRouterAPIKey  string `env:"OPENROUTER_API_KEY"`
	OpenRouterBaseURL string `env:"OPENROUTER_BASE_URL" envDefault:"https://openrouter.ai/api/v1"`
	OpenRouterReferer string `env:"OPENROUTER_REFERER"`
	OpenRouterTitle   string `env:"OPENROUTER_TITLE" envDefault:"AI Interview Agent"`

	// DefaultSummaryModel is used for resume summarization before a session
	// has chosen its interview model.
	DefaultSummaryModel string `env:"DEFAULT_SUMMARY_MODEL" envDefault:"gemini-2.5-flash"`

	// TikaURL specifies the base URL for the Apache Tika server used for
	// resume text extraction.
	TikaURL string `env:"TIKA_URL" envDefault:"http://tika:9998"`

	MaxUploadMB      int64  `env:"MAX_UPLOAD_MB" envDefault:"16"`
	CORSAllowOrigins string `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
	RateLimitPerMin  int    `env:"RATE_LIMIT_PER_MIN" envDefault:"30"`

	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	HTTPReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	HTTPWriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"120s"`
	HTTPIdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`

	// ModelCallTimeout is the deployment-level timeout on a single outbound
	// model call; a timeout is treated like any other call failure.
	ModelCallTimeout time.Duration `env:"MODEL_CALL_TIMEOUT" envDefault:"60s"`

	// Backoff knobs for the resume summarization call. The evaluation path
	// uses a fixed sequential two-attempt budget instead.
	SummaryBackoffMaxElapsedTime  time.Duration `env:"SUMMARY_BACKOFF_MAX_ELAPSED_TIME" envDefault:"90s"`
	SummaryBackoffInitialInterval time.Duration `env:"SUMMARY_BACKOFF_INITIAL_INTERVAL" envDefault:"2s"`
	SummaryBackoffMaxInterval     time.Duration `env:"SUMMARY_BACKOFF_MAX_INTERVAL" envDefault:"15s"`
	SummaryBackoffMultiplier      float64       `env:"SUMMARY_BACKOFF_MULTIPLIER" envDefault:"1.5"`
}

// Load parses environment variables into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("op=config.Load: %w", err)
	}
	return cfg, nil
}

// IsDev reports whether the app is running in development mode.
func (c Config) IsDev() bool { return strings.ToLower(c.AppEnv) == "dev" }

// IsProd reports whether the app is running in production mode.
func (c Config) IsProd() bool { return strings.ToLower(c.AppEnv) == "prod" }

// SessionTimeoutMinutes returns the session TTL in whole minutes for the
// frontend configuration payload.
func (c Config) SessionTimeoutMinutes() int {
	return int(c.SessionTTL / time.Minute)
}
