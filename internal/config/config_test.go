package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func validTestConfig() *Config {
	return &Config{
		Port:          "8480",
		TokenSecret:   "secure-secret-at-least-32-chars-long",
		TokenTTLHours: 168,
		DBPassword:    "secure-password",
		DBSSLMode:     "require",
		RedisURL:      "redis://localhost:6379",
		ScrapeTimeout: 10,
		Env:           "test",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"valid", func(_ *Config) {}, false},
		{"missing port", func(c *Config) { c.Port = "" }, true},
		{"missing token secret", func(c *Config) { c.TokenSecret = "" }, true},
		{"non-positive ttl", func(c *Config) { c.TokenTTLHours = 0 }, true},
		{"non-positive scrape timeout", func(c *Config) { c.ScrapeTimeout = -1 }, true},
		{"short secret outside production", func(c *Config) { c.TokenSecret = "short" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validTestConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateProductionHardening(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"default secret rejected", func(c *Config) { c.TokenSecret = "dev-secret-change-in-production" }, true},
		{"short secret rejected", func(c *Config) { c.TokenSecret = "short-secret" }, true},
		{"weak db password rejected", func(c *Config) { c.DBPassword = "password" }, true},
		{"ssl disable rejected", func(c *Config) { c.DBSSLMode = "disable" }, true},
		{"hardened config accepted", func(_ *Config) {}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validTestConfig()
			c.Env = "production"
			tt.mutate(c)
			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig_SSLModeNormalization(t *testing.T) {
	defer os.Unsetenv("APP_ENV")
	defer os.Unsetenv("DB_SSLMODE")
	defer viper.Reset()

	os.Setenv("APP_ENV", "development")
	os.Setenv("DB_SSLMODE", "  DISABLE  ")

	c, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, "disable", c.DBSSLMode)
}
