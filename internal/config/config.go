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
	Port   int    `env:"PORT" envDefault:"5000"`

	// Completion service (Groq, OpenAI-compatible chat completions).
	// The key is required outside dev; dev falls back to the stub client.
	GroqAPIKey  string `env:"GROQ_API_KEY"`
	GroqBaseURL string `env:"GROQ_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	GroqModel   string `env:"GROQ_MODEL" envDefault:"llama-3.3-70b-versatile"`
	// CompletionTimeout bounds a single chat-completion round trip.
	CompletionTimeout time.Duration `env:"COMPLETION_TIMEOUT" envDefault:"60s"`
	// ResumeTokenBudget caps resume text fed into the profile prompt.
	ResumeTokenBudget int `env:"RESUME_TOKEN_BUDGET" envDefault:"6000"`

	// AI-content detection (optional; skipped entirely when the key is absent).
	ZeroGPTAPIKey  string        `env:"ZEROGPT_API_KEY"`
	ZeroGPTURL     string        `env:"ZEROGPT_URL" envDefault:"https://api.zerogpt.com/api/detect/detectText"`
	ZeroGPTTimeout time.Duration `env:"ZEROGPT_TIMEOUT" envDefault:"10s"`

	// Session store. Memory by default; Redis when REDIS_URL is set.
	RedisURL   string        `env:"REDIS_URL"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	// QuestionMixFile optionally overrides the generated question mix (YAML).
	QuestionMixFile string `env:"QUESTION_MIX_FILE"`

	MaxUploadMB      int64  `env:"MAX_UPLOAD_MB" envDefault:"10"`
	CORSAllowOrigins string `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
	// RateLimitPerMin enables IP rate limiting on mutating routes when > 0.
	// Off by default: the original service had none.
	RateLimitPerMin int `env:"RATE_LIMIT_PER_MIN" envDefault:"0"`

	HTTPReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	HTTPWriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"120s"`
	HTTPIdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	RequestTimeout        time.Duration `env:"REQUEST_TIMEOUT" envDefault:"90s"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`

	OTLPEndpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	OTELServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"hr-simulation-ai"`
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

// IsTest reports whether the app is running in test mode.
func (c Config) IsTest() bool { return strings.ToLower(c.AppEnv) == "test" }

// DetectionEnabled reports whether the AI-content classifier should be called.
func (c Config) DetectionEnabled() bool { return c.ZeroGPTAPIKey != "" }
