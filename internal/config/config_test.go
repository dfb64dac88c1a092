package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigMethods(t *testing.T) {
	t.Run("Addr returns formatted port", func(t *testing.T) {
		cfg := &Config{Port: 3000}
		assert.Equal(t, ":3000", cfg.Addr())
	})

	t.Run("TokenTTL converts hours to duration", func(t *testing.T) {
		cfg := &Config{TokenTTLHours: 168}
		assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL())
	})

	t.Run("BootstrapEnabled needs email and hash", func(t *testing.T) {
		assert.False(t, (&Config{BootstrapAdminEmail: "a@x.com"}).BootstrapEnabled())
		assert.True(t, (&Config{BootstrapAdminEmail: "a@x.com", BootstrapAdminPasswordHash: "$2a$12$x"}).BootstrapEnabled())
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			AppEnv:        "development",
			RedisURL:      "redis://localhost:6379",
			JWTSecret:     "dev",
			TokenTTLHours: 168,
			BcryptCost:    12,

			LoginRateLimitPerMin:   5,
			ContactRateLimitPerMin: 5,
		}
	}

	t.Run("accepts development defaults", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("rejects non-bcrypt bootstrap hash", func(t *testing.T) {
		cfg := valid()
		cfg.BootstrapAdminPasswordHash = "plaintext"
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects out of range bcrypt cost", func(t *testing.T) {
		cfg := valid()
		cfg.BcryptCost = 4
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects non-positive rate limits", func(t *testing.T) {
		cfg := valid()
		cfg.LoginRateLimitPerMin = 0
		assert.ErrorContains(t, cfg.Validate(), "LOGIN_RATE_LIMIT_PER_MIN")

		cfg = valid()
		cfg.ContactRateLimitPerMin = -1
		assert.ErrorContains(t, cfg.Validate(), "CONTACT_RATE_LIMIT_PER_MIN")
	})

	t.Run("rejects short jwt secret in production", func(t *testing.T) {
		cfg := valid()
		cfg.AppEnv = "production"
		assert.Error(t, cfg.Validate())

		cfg.JWTSecret = strings.Repeat("k", 32)
		assert.NoError(t, cfg.Validate())
	})
}

func TestLoad(t *testing.T) {
	keys := []string{
		"PORT", "DATABASE_URL", "REDIS_URL", "JWT_SECRET", "TOKEN_TTL_HOURS",
		"LOG_LEVEL", "S3_BUCKET", "S3_USE_PATH_STYLE",
	}
	originalEnv := map[string]string{}
	for _, k := range keys {
		originalEnv[k] = os.Getenv(k)
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	setRequired := func() {
		os.Setenv("DATABASE_URL", "postgres://localhost/test")
		os.Setenv("REDIS_URL", "redis://localhost:6379")
		os.Setenv("JWT_SECRET", "test-secret")
	}

	t.Run("loads config with defaults", func(t *testing.T) {
		setRequired()
		os.Unsetenv("PORT")
		os.Unsetenv("TOKEN_TTL_HOURS")
		os.Unsetenv("LOG_LEVEL")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 8080, cfg.Port)
		assert.Equal(t, "postgres://localhost/test", cfg.DatabaseURL)
		assert.Equal(t, 168, cfg.TokenTTLHours)
		assert.Equal(t, 12, cfg.BcryptCost)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "us-east-1", cfg.S3.Region)
	})

	t.Run("loads custom values", func(t *testing.T) {
		setRequired()
		os.Setenv("PORT", "5000")
		os.Setenv("LOG_LEVEL", "debug")
		os.Setenv("S3_BUCKET", "agency-uploads")
		os.Setenv("S3_USE_PATH_STYLE", "true")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 5000, cfg.Port)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "agency-uploads", cfg.S3.Bucket)
		assert.True(t, cfg.S3.UsePathStyle)
	})

	t.Run("fails without required JWT_SECRET", func(t *testing.T) {
		setRequired()
		os.Unsetenv("JWT_SECRET")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("fails without required DATABASE_URL", func(t *testing.T) {
		setRequired()
		os.Unsetenv("DATABASE_URL")

		_, err := Load()
		assert.Error(t, err)
	})
}
