package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	CommerceAPIURL     string        `env:"COMMERCE_API_URL,required" validate:"required,url"`
	CommerceAPITimeout time.Duration `env:"COMMERCE_API_TIMEOUT" envDefault:"10s"`

	BaseURL string `env:"BASE_URL" validate:"omitempty,url"`

	StripeSecretKey string `env:"STRIPE_SECRET_KEY"`

	ResendAPIKey     string `env:"RESEND_API_KEY"`
	ContactRecipient string `env:"CONTACT_RECIPIENT" validate:"omitempty,email"`
	ContactSender    string `env:"CONTACT_SENDER" envDefault:"storefront@maplewick.com" validate:"omitempty,email"`

	CacheProvider         string `env:"CACHE_PROVIDER" envDefault:"memory" validate:"omitempty,oneof=memory redis"`
	SessionStoreProvider  string `env:"SESSION_STORE_PROVIDER" envDefault:"memory" validate:"omitempty,oneof=memory redis"`
	RedisConnectionString string `env:"REDIS_CONNECTION_STRING" envDefault:"redis://localhost:6379/0" validate:"required_if=CacheProvider redis,required_if=SessionStoreProvider redis"`

	SessionSigningSecret string `env:"SESSION_SIGNING_SECRET,required" validate:"required,min=32"`

	ContentFile string `env:"CONTENT_FILE" envDefault:"content/pages.yaml"`

	LogLevel  slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	LogFormat string     `env:"LOG_FORMAT" envDefault:"text" validate:"omitempty,oneof=text json"`
	Port      string     `env:"PORT" envDefault:"8080"`
}

var configValidator = validator.New()

func Load() (*Config, error) {
	var cfg Config

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if err := configValidator.Struct(c); err != nil {
		return err
	}

	if strings.TrimSpace(c.StripeSecretKey) != "" && strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("BASE_URL is required when checkout is enabled")
	}

	hasResendKey := strings.TrimSpace(c.ResendAPIKey) != ""
	hasRecipient := strings.TrimSpace(c.ContactRecipient) != ""
	if hasResendKey != hasRecipient {
		return fmt.Errorf("RESEND_API_KEY and CONTACT_RECIPIENT must be set together")
	}

	if c.CommerceAPITimeout <= 0 {
		return fmt.Errorf("COMMERCE_API_TIMEOUT must be positive")
	}

	baseURL := strings.TrimSpace(c.BaseURL)
	if baseURL != "" {
		parsed, err := url.Parse(baseURL)
		if err != nil || parsed.Hostname() == "" {
			return fmt.Errorf("BASE_URL must be a valid absolute URL")
		}
		if !isLocalHost(parsed.Hostname()) && !strings.EqualFold(parsed.Scheme, "https") {
			return fmt.Errorf("BASE_URL must use https outside local development")
		}
	}

	return nil
}

func isLocalHost(host string) bool {
	switch strings.ToLower(strings.TrimSpace(host)) {
	case "localhost", "127.0.0.1", "::1":
		return true
	default:
		return false
	}
}
