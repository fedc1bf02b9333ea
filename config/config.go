package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	DBUrl         string
	DBAutoMigrate bool
	Environment   string
	Port          string

	JWT    JWTConfig
	Bcrypt BcryptConfig

	CORSAllowedOrigins []string
	RequestTimeout     time.Duration

	RateLimit     RateLimitConfig
	AuthRateLimit RateLimitConfig
	RedisURL      string

	RabbitMQURL string
	Email       EmailConfig

	ReportRecentDays int
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret        string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	ResetTTL      time.Duration
}

type BcryptConfig struct {
	Cost int
}

// RateLimitConfig is one limiter's budget: Max requests per Window.
type RateLimitConfig struct {
	Max    int
	Window time.Duration
}

// EmailConfig selects and configures the outgoing mail provider.
type EmailConfig struct {
	Provider           string
	FromAddress        string
	FromName           string
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
}

// IsProduction reports whether GO_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load loads configuration from environment variables
// It attempts to load from .env file if not in production
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// In production .env might not exist and we rely on system environment variables
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
		}
	}
	return FromEnv(env)
}

// FromEnv builds a Config from the current environment without reading .env.
// Every malformed or missing required value is reported, not just the first.
func FromEnv(env string) (*Config, error) {
	p := &parser{}
	cfg := &Config{
		Environment:   env,
		DBUrl:         p.required("DATABASE_URL"),
		DBAutoMigrate: p.boolean("DB_AUTO_MIGRATE", true),
		Port:          p.str("PORT", "8080"),
		JWT: JWTConfig{
			Secret:     p.required("JWT_SECRET"),
			AccessTTL:  p.duration("JWT_ACCESS_TTL", 24*time.Hour),
			RefreshTTL: p.duration("JWT_REFRESH_TTL", 7*24*time.Hour),
			ResetTTL:   p.duration("JWT_RESET_TTL", 30*time.Minute),
		},
		Bcrypt:             BcryptConfig{Cost: p.integer("BCRYPT_COST", 10, 4, 31)},
		CORSAllowedOrigins: p.list("CORS_ALLOWED_ORIGINS", []string{"*"}),
		RequestTimeout:     p.duration("REQUEST_TIMEOUT", 10*time.Second),
		RateLimit: RateLimitConfig{
			Max:    p.integer("RATE_LIMIT_MAX", 100, 0, 1_000_000),
			Window: p.duration("RATE_LIMIT_WINDOW", 15*time.Minute),
		},
		AuthRateLimit: RateLimitConfig{
			Max:    p.integer("AUTH_RATE_LIMIT_MAX", 10, 0, 1_000_000),
			Window: p.duration("AUTH_RATE_LIMIT_WINDOW", 15*time.Minute),
		},
		RedisURL:    p.str("REDIS_URL", ""),
		RabbitMQURL: p.str("RABBITMQ_URL", ""),
		Email: EmailConfig{
			Provider:           strings.ToLower(p.str("EMAIL_PROVIDER", "noop")),
			FromAddress:        p.str("EMAIL_FROM_ADDRESS", "no-reply@campusevents.local"),
			FromName:           p.str("EMAIL_FROM_NAME", "Campus Events"),
			AWSRegion:          p.str("AWS_REGION", "us-east-1"),
			AWSAccessKeyID:     p.str("AWS_ACCESS_KEY_ID", ""),
			AWSSecretAccessKey: p.str("AWS_SECRET_ACCESS_KEY", ""),
		},
		ReportRecentDays: p.integer("REPORT_RECENT_DAYS", 30, 1, 365),
	}
	cfg.JWT.RefreshSecret = p.str("JWT_REFRESH_SECRET", cfg.JWT.Secret)

	switch cfg.Email.Provider {
	case "noop", "ses":
	default:
		p.fail("EMAIL_PROVIDER", "must be noop or ses")
	}
	if err := errors.Join(p.errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

type parser struct {
	errs []error
}

func (p *parser) fail(key, msg string) {
	p.errs = append(p.errs, fmt.Errorf("%s %s", key, msg))
}

func (p *parser) str(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func (p *parser) required(key string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		p.fail(key, "is required")
	}
	return v
}

func (p *parser) integer(key string, def, lo, hi int) int {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < lo || v > hi {
		p.fail(key, fmt.Sprintf("must be an integer between %d and %d", lo, hi))
		return def
	}
	return v
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def
	}
	v, err := time.ParseDuration(s)
	if err != nil || v < 0 {
		p.fail(key, "must be a duration such as 15m or 24h")
		return def
	}
	return v
}

func (p *parser) boolean(key string, def bool) bool {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		p.fail(key, "must be true or false")
		return def
	}
	return v
}

func (p *parser) list(key string, def []string) []string {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
