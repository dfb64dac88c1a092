package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"
)

var knownWeakSecrets = []string{
	"change-me", "dev-secret-change-me", "secret", "admin", "password", "jwt-secret",
}

type Config struct {
	Port        int    `env:"PORT" envDefault:"8080"`
	AppEnv      string `env:"APP_ENV" envDefault:"development"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	RedisURL    string `env:"REDIS_URL,required"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	StaticDir   string `env:"STATIC_DIR" envDefault:"static/site"`

	JWTSecret     string `env:"JWT_SECRET,required"`
	TokenTTLHours int    `env:"TOKEN_TTL_HOURS" envDefault:"168"`
	BcryptCost    int    `env:"BCRYPT_COST" envDefault:"12"`

	BootstrapAdminName         string `env:"BOOTSTRAP_ADMIN_NAME" envDefault:"Super Admin"`
	BootstrapAdminEmail        string `env:"BOOTSTRAP_ADMIN_EMAIL"`
	BootstrapAdminPasswordHash string `env:"BOOTSTRAP_ADMIN_PASSWORD_HASH"`

	LoginRateLimitPerMin   int `env:"LOGIN_RATE_LIMIT_PER_MIN" envDefault:"5"`
	ContactRateLimitPerMin int `env:"CONTACT_RATE_LIMIT_PER_MIN" envDefault:"5"`

	S3 S3Config `envPrefix:"S3_"`
}

type S3Config struct {
	Bucket        string `env:"BUCKET"`
	Region        string `env:"REGION" envDefault:"us-east-1"`
	Endpoint      string `env:"ENDPOINT"`
	AccessKey     string `env:"ACCESS_KEY"`
	SecretKey     string `env:"SECRET_KEY"`
	UsePathStyle  bool   `env:"USE_PATH_STYLE" envDefault:"false"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// BootstrapEnabled reports whether a first super admin should be seeded.
func (c *Config) BootstrapEnabled() bool {
	return c.BootstrapAdminEmail != "" && c.BootstrapAdminPasswordHash != ""
}

func (c *Config) Validate() error {
	if c.BootstrapAdminPasswordHash != "" && !isBcryptHash(c.BootstrapAdminPasswordHash) {
		return fmt.Errorf("BOOTSTRAP_ADMIN_PASSWORD_HASH must be a bcrypt hash (generate with: go run scripts/hash-password.go <password>)")
	}

	if c.BcryptCost < MinBcryptCost || c.BcryptCost > MaxBcryptCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", MinBcryptCost, MaxBcryptCost)
	}

	if c.TokenTTLHours <= 0 {
		return fmt.Errorf("TOKEN_TTL_HOURS must be positive")
	}

	if c.LoginRateLimitPerMin <= 0 {
		return fmt.Errorf("LOGIN_RATE_LIMIT_PER_MIN must be positive")
	}

	if c.ContactRateLimitPerMin <= 0 {
		return fmt.Errorf("CONTACT_RATE_LIMIT_PER_MIN must be positive")
	}

	if c.IsProduction() {
		if err := validateSecret("JWT_SECRET", c.JWTSecret); err != nil {
			return err
		}
		if strings.HasPrefix(c.RedisURL, "redis://") {
			log.Warn().Msg("REDIS_URL uses redis:// (not TLS) in production: consider using rediss://")
		}
		if c.S3.Bucket == "" {
			log.Warn().Msg("S3_BUCKET is empty in production: image uploads are disabled")
		}
	}

	return nil
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") ||
		strings.HasPrefix(s, "$2b$") ||
		strings.HasPrefix(s, "$2y$")
}

func validateSecret(name, value string) error {
	if len(value) < 32 {
		return fmt.Errorf("%s must be at least 32 characters in production (generate with: openssl rand -base64 32)", name)
	}
	for _, weak := range knownWeakSecrets {
		if value == weak {
			return fmt.Errorf("%s is a known weak default; set a strong secret in production", name)
		}
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
