package config

import (
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	DriverFirestore = "firestore"
	DriverMemory    = "memory"

	AuthProviderJWT      = "jwt"
	AuthProviderFirebase = "firebase"
)

// Config holds all configuration for the application.
type Config struct {
	Port                             string        `mapstructure:"PORT"`
	GinMode                          string        `mapstructure:"GIN_MODE"`
	DatabaseDriver                   string        `mapstructure:"DATABASE_DRIVER"`
	FirebaseProjectID                string        `mapstructure:"FIREBASE_PROJECT_ID"`
	GoogleApplicationCredentials     string        `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseServiceAccountJSONBase64 string        `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"`
	AuthProvider                     string        `mapstructure:"AUTH_PROVIDER"`
	AccessTokenSecret                string        `mapstructure:"ACCESS_TOKEN_SECRET"`
	AccessTokenTTL                   time.Duration `mapstructure:"ACCESS_TOKEN_TTL"`
	StripeSecretKey                  string        `mapstructure:"STRIPE_SECRET_KEY"`
	PaymentCurrency                  string        `mapstructure:"PAYMENT_CURRENCY"`
	ClientURL                        string        `mapstructure:"CLIENT_URL"`
	TrustedProxies                   string        `mapstructure:"TRUSTED_PROXIES"`
	RedisAddr                        string        `mapstructure:"REDIS_ADDR"`
	RedisPassword                    string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB                          int           `mapstructure:"REDIS_DB"`
	RoleCacheTTL                     time.Duration `mapstructure:"ROLE_CACHE_TTL"`
	RabbitMQURL                      string        `mapstructure:"RABBITMQ_URL"`
	EventsQueue                      string        `mapstructure:"EVENTS_QUEUE"`
	SMTPHost                         string        `mapstructure:"SMTP_HOST"`
	SMTPPort                         string        `mapstructure:"SMTP_PORT"`
	SMTPUser                         string        `mapstructure:"SMTP_USER"`
	SMTPPass                         string        `mapstructure:"SMTP_PASS"`
	MailFrom                         string        `mapstructure:"MAIL_FROM"`
	TokenRateLimitPerMinute          int           `mapstructure:"TOKEN_RATE_LIMIT_PER_MINUTE"`
	ApplicationSlotQuota             int           `mapstructure:"APPLICATION_SLOT_QUOTA"`
}

var envKeys = []string{
	"PORT",
	"GIN_MODE",
	"DATABASE_DRIVER",
	"FIREBASE_PROJECT_ID",
	"GOOGLE_APPLICATION_CREDENTIALS",
	"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64",
	"AUTH_PROVIDER",
	"ACCESS_TOKEN_SECRET",
	"ACCESS_TOKEN_TTL",
	"STRIPE_SECRET_KEY",
	"PAYMENT_CURRENCY",
	"CLIENT_URL",
	"TRUSTED_PROXIES",
	"REDIS_ADDR",
	"REDIS_PASSWORD",
	"REDIS_DB",
	"ROLE_CACHE_TTL",
	"RABBITMQ_URL",
	"EVENTS_QUEUE",
	"SMTP_HOST",
	"SMTP_PORT",
	"SMTP_USER",
	"SMTP_PASS",
	"MAIL_FROM",
	"TOKEN_RATE_LIMIT_PER_MINUTE",
	"APPLICATION_SLOT_QUOTA",
}

// LoadConfig loads configuration from environment variables using Viper.
// Outside release mode a .env file in the working directory is loaded first, if present.
func LoadConfig() (*Config, error) {
	if os.Getenv("GIN_MODE") != "release" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("Warning: could not load .env file: %v", err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("DATABASE_DRIVER", DriverFirestore)
	v.SetDefault("AUTH_PROVIDER", AuthProviderJWT)
	v.SetDefault("ACCESS_TOKEN_TTL", time.Hour)
	v.SetDefault("PAYMENT_CURRENCY", "usd")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("ROLE_CACHE_TTL", 30*time.Second)
	v.SetDefault("EVENTS_QUEUE", "truefit.events")
	v.SetDefault("SMTP_PORT", "2525")
	v.SetDefault("TOKEN_RATE_LIMIT_PER_MINUTE", 30)
	v.SetDefault("APPLICATION_SLOT_QUOTA", 10)

	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.New("failed to unmarshal config: " + err.Error())
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required fields and enumerated values.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverFirestore:
		if c.FirebaseProjectID == "" {
			return errors.New("FIREBASE_PROJECT_ID is required when DATABASE_DRIVER is firestore")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown DATABASE_DRIVER %q", c.DatabaseDriver)
	}

	switch c.AuthProvider {
	case AuthProviderJWT:
		if c.AccessTokenSecret == "" {
			return errors.New("ACCESS_TOKEN_SECRET is required when AUTH_PROVIDER is jwt")
		}
	case AuthProviderFirebase:
		if c.DatabaseDriver != DriverFirestore {
			return errors.New("AUTH_PROVIDER firebase requires DATABASE_DRIVER firestore")
		}
	default:
		return fmt.Errorf("unknown AUTH_PROVIDER %q", c.AuthProvider)
	}

	if c.AccessTokenTTL <= 0 {
		return errors.New("ACCESS_TOKEN_TTL must be positive")
	}
	if c.RoleCacheTTL <= 0 {
		return errors.New("ROLE_CACHE_TTL must be positive")
	}
	for _, p := range c.TrustedProxyList() {
		if net.ParseIP(p) == nil {
			if _, _, err := net.ParseCIDR(p); err != nil {
				return fmt.Errorf("TRUSTED_PROXIES entry %q is not an IP or CIDR", p)
			}
		}
	}
	if c.ApplicationSlotQuota < 0 {
		return errors.New("APPLICATION_SLOT_QUOTA cannot be negative")
	}
	if c.TokenRateLimitPerMinute <= 0 {
		return errors.New("TOKEN_RATE_LIMIT_PER_MINUTE must be positive")
	}
	return nil
}

// TrustedProxyList splits TRUSTED_PROXIES on commas. Empty means no proxy is trusted
// and the client IP is always the connection's remote address.
func (c *Config) TrustedProxyList() []string {
	var out []string
	for _, p := range strings.Split(c.TrustedProxies, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IsRelease reports whether gin runs in release mode.
func (c *Config) IsRelease() bool {
	return strings.EqualFold(c.GinMode, "release")
}

// NewLogger returns a production JSON logger in release mode and a development logger otherwise.
func NewLogger(ginMode string) (*zap.Logger, error) {
	if strings.EqualFold(ginMode, "release") {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
