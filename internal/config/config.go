// Package config holds the single configuration object built at startup and
// handed to every component constructor.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env  string `env:"APP_ENV" env-default:"development"`
	Port string `env:"PORT" env-default:"8000"`

	Database  Database
	JWT       JWT
	Google    Google
	LLM       LLM
	Chat      Chat
	Stripe    Stripe
	Uploads   Uploads
	HTTP      HTTP
	RedisURL  string `env:"REDIS_URL"`
	SentryDSN string `env:"SENTRY_DSN"`
}

type Database struct {
	URL          string `env:"DATABASE_URL" env-default:"eezlegal.db"`
	MaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" env-default:"20"`
	MaxIdleConns int    `env:"DB_MAX_IDLE_CONNS" env-default:"10"`
}

type JWT struct {
	Secret string        `env:"JWT_SECRET" env-required:"true"`
	Expiry time.Duration `env:"JWT_EXPIRY" env-default:"168h"`
	Issuer string        `env:"JWT_ISSUER" env-default:"eezlegal"`
}

type Google struct {
	ClientID      string        `env:"GOOGLE_CLIENT_ID"`
	ClientSecret  string        `env:"GOOGLE_CLIENT_SECRET"`
	PublicBaseURL string        `env:"PUBLIC_BASE_URL" env-default:"http://localhost:8000"`
	FrontendURL   string        `env:"FRONTEND_URL" env-default:"https://www.eezlegal.com"`
	Timeout       time.Duration `env:"OAUTH_TIMEOUT" env-default:"10s"`
}

// RedirectURL is the callback registered with Google.
func (g Google) RedirectURL() string {
	return strings.TrimRight(g.PublicBaseURL, "/") + "/auth/google/callback"
}

type LLM struct {
	Provider      string        `env:"LLM_PROVIDER" env-default:"openai"`
	OpenAIAPIKey  string        `env:"OPENAI_API_KEY"`
	OpenAIModels  []string      `env:"OPENAI_MODELS" env-separator:"," env-default:"gpt-4o-mini,gpt-4o,gpt-3.5-turbo"`
	OpenAIBaseURL string        `env:"OPENAI_BASE_URL"`
	GeminiAPIKey  string        `env:"GEMINI_API_KEY"`
	GeminiModel   string        `env:"GEMINI_MODEL" env-default:"gemini-1.5-flash"`
	Timeout       time.Duration `env:"LLM_TIMEOUT" env-default:"30s"`
}

type Chat struct {
	HistoryLimit     int     `env:"CHAT_HISTORY_LIMIT" env-default:"8"`
	FreeMessageLimit int     `env:"FREE_MESSAGE_LIMIT" env-default:"10"`
	RateLimit        float64 `env:"CHAT_RATE_LIMIT" env-default:"5"`
	RateBurst        int     `env:"CHAT_RATE_BURST" env-default:"10"`
}

type Stripe struct {
	SecretKey     string `env:"STRIPE_SECRET_KEY"`
	WebhookSecret string `env:"STRIPE_WEBHOOK_SECRET"`
}

type Uploads struct {
	Dir      string `env:"UPLOAD_DIR" env-default:"uploads"`
	MaxBytes int64  `env:"UPLOAD_MAX_BYTES" env-default:"16777216"`
}

type HTTP struct {
	CORSOrigins []string `env:"CORS_ORIGINS" env-separator:"," env-default:"*"`
}

// IsProduction reports whether the service runs with production defaults.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return fmt.Errorf("JWT_SECRET must not be blank")
	}
	if c.JWT.Expiry <= 0 {
		return fmt.Errorf("JWT_EXPIRY must be positive, got %s", c.JWT.Expiry)
	}
	switch strings.ToLower(c.LLM.Provider) {
	case "openai", "gemini", "demo":
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q, use openai, gemini or demo", c.LLM.Provider)
	}
	if c.Chat.HistoryLimit < 0 {
		return fmt.Errorf("CHAT_HISTORY_LIMIT must not be negative")
	}
	return nil
}
