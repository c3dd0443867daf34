package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	RedisURL           string
	CORSAllowedOrigins []string
	PublicBaseURL      string

	JWTSecret   string
	JWTIssuer   string
	JWTAudience string

	CurrencyCode string

	DBMaxOpenConns int
	DBMaxIdleConns int

	IdempotencyTTL time.Duration
	RateLimitRate  string

	CatalogCacheTTL     time.Duration
	CatalogDefaultLimit int
	CatalogMaxLimit     int

	BookingHoldTTL  time.Duration
	OfferDefaultTTL time.Duration

	PaymentProvider        string
	PaymentIntentTTL       time.Duration
	PaymentCallbackBaseURL string
	PaymentSandbox         bool
	GlamPayServerKey       string
	GlamPayBaseURL         string
	WebhookReplayTTL       time.Duration

	NotifyEmailEnabled bool
	NotifyEmailFrom    string
	NotifyEmailTopics  map[string]bool
	ResendAPIKey       string

	AuditEnabled      bool
	AuditSamplingRate float64

	AnalyticsCacheTTL     time.Duration
	AnalyticsDefaultDays  int
	AnalyticsRefreshEvery time.Duration

	WorkerConcurrency int
	QueueName         string
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		DatabaseURL:        k.String("DATABASE_URL"),
		RedisURL:           k.String("REDIS_URL"),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		PublicBaseURL:      strings.TrimSpace(k.String("PUBLIC_BASE_URL")),

		JWTSecret:   k.String("JWT_SECRET"),
		JWTIssuer:   valueOrDefault(k.String("JWT_ISSUER"), "glam-identity"),
		JWTAudience: strings.TrimSpace(k.String("JWT_AUDIENCE")),

		CurrencyCode: valueOrDefault(k.String("CURRENCY_CODE"), "IDR"),

		DBMaxOpenConns: parseInt(k.String("DB_MAX_OPEN_CONNS"), 0),
		DBMaxIdleConns: parseInt(k.String("DB_MAX_IDLE_CONNS"), 0),

		IdempotencyTTL: parseDuration(k.String("IDEMPOTENCY_TTL"), "24h"),
		RateLimitRate:  valueOrDefault(k.String("RATE_LIMIT_RATE"), "60-M"),

		CatalogCacheTTL:     parseDuration(k.String("CATALOG_CACHE_TTL"), "5m"),
		CatalogDefaultLimit: parseInt(k.String("CATALOG_DEFAULT_LIMIT"), 20),
		CatalogMaxLimit:     parseInt(k.String("CATALOG_MAX_LIMIT"), 100),

		BookingHoldTTL:  parseDuration(k.String("BOOKING_HOLD_TTL"), "30m"),
		OfferDefaultTTL: parseDuration(k.String("OFFER_DEFAULT_TTL"), "72h"),

		PaymentProvider:        valueOrDefault(k.String("PAYMENT_PROVIDER"), "glampay"),
		PaymentIntentTTL:       parseDuration(k.String("PAYMENT_INTENT_TTL"), "30m"),
		PaymentCallbackBaseURL: strings.TrimSpace(k.String("PAYMENT_CALLBACK_BASE_URL")),
		PaymentSandbox:         parseBool(k.String("PAYMENT_SANDBOX")),
		GlamPayServerKey:       k.String("GLAMPAY_SERVER_KEY"),
		GlamPayBaseURL:         strings.TrimSpace(k.String("GLAMPAY_BASE_URL")),
		WebhookReplayTTL:       parseDuration(k.String("WEBHOOK_REPLAY_TTL"), "24h"),

		NotifyEmailEnabled: parseBool(k.String("NOTIFY_EMAIL_ENABLED")),
		NotifyEmailFrom:    valueOrDefault(k.String("NOTIFY_EMAIL_FROM"), "no-reply@glam.example"),
		NotifyEmailTopics:  parseToggles(k.String("NOTIFY_EMAIL_TOPICS")),
		ResendAPIKey:       k.String("RESEND_API_KEY"),

		AuditEnabled:      parseBoolDefault(k.String("AUDIT_ENABLED"), true),
		AuditSamplingRate: parseFloat(k.String("AUDIT_SAMPLING_RATE"), 1.0),

		AnalyticsCacheTTL:     parseDuration(k.String("ANALYTICS_CACHE_TTL"), "10m"),
		AnalyticsDefaultDays:  parseInt(k.String("ANALYTICS_DEFAULT_DAYS"), 30),
		AnalyticsRefreshEvery: parseDuration(k.String("ANALYTICS_REFRESH_EVERY"), "15m"),

		WorkerConcurrency: parseInt(k.String("WORKER_CONCURRENCY"), 10),
		QueueName:         valueOrDefault(k.String("QUEUE_NAME"), "glam"),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// parseToggles reads "topic1,topic2" into an allow map. An empty value
// means no per-topic restriction.
func parseToggles(value string) map[string]bool {
	parts := splitAndTrim(value)
	if len(parts) == 0 {
		return nil
	}
	toggles := make(map[string]bool, len(parts))
	for _, part := range parts {
		toggles[strings.ToLower(part)] = true
	}
	return toggles
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseInt(value string, fallback int) int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseFloat(value string, fallback float64) float64 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func parseBoolDefault(value string, fallback bool) bool {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return fallback
	}
	switch trimmed {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

// MustLoad behaves like Load but panics on error. Useful for tests and command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
