// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port           string `mapstructure:"PORT"`
	TokenSecret    string `mapstructure:"TOKEN_SECRET"`
	TokenTTLHours  int    `mapstructure:"TOKEN_TTL_HOURS"`
	DBHost         string `mapstructure:"DB_HOST"`
	DBPort         string `mapstructure:"DB_PORT"`
	DBUser         string `mapstructure:"DB_USER"`
	DBPassword     string `mapstructure:"DB_PASSWORD"`
	DBName         string `mapstructure:"DB_NAME"`
	DBSSLMode      string `mapstructure:"DB_SSLMODE"`
	RedisURL       string `mapstructure:"REDIS_URL"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
	ScrapeTimeout  int    `mapstructure:"SCRAPE_TIMEOUT_SECONDS"`
	Env            string `mapstructure:"APP_ENV"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The base config file is optional; environment variables and defaults
	// are enough to boot in development.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	if env != "development" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading profile config 'config.%s.yml': %w", env, err)
			}
		} else {
			log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
		}
	}

	viper.SetDefault("PORT", "8480")
	viper.SetDefault("TOKEN_SECRET", "dev-secret-change-in-production")
	viper.SetDefault("TOKEN_TTL_HOURS", 24*7)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "lotboard")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	viper.SetDefault("SCRAPE_TIMEOUT_SECONDS", 10)
	viper.SetDefault("APP_ENV", "development")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.DBSSLMode = strings.ToLower(strings.TrimSpace(config.DBSSLMode))

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.TokenSecret == "" {
		return errors.New("TOKEN_SECRET is required")
	}
	if c.TokenTTLHours <= 0 {
		return errors.New("TOKEN_TTL_HOURS must be positive")
	}
	if c.ScrapeTimeout <= 0 {
		return errors.New("SCRAPE_TIMEOUT_SECONDS must be positive")
	}

	isProduction := c.Env == "production" || c.Env == "prod"

	if isProduction {
		if c.TokenSecret == "dev-secret-change-in-production" {
			return errors.New("TOKEN_SECRET must be changed from the default value in production")
		}
		if len(c.TokenSecret) < 32 {
			return errors.New("TOKEN_SECRET must be at least 32 characters in production")
		}
		if c.DBPassword == "password" || c.DBPassword == "" {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			return errors.New("DB_SSLMODE must not be disabled in production")
		}
	} else {
		if len(c.TokenSecret) < 32 {
			log.Println("WARNING: TOKEN_SECRET is shorter than 32 characters. Consider using a stronger secret for production.")
		}
	}

	return nil
}
