// Package config loads the skill's runtime configuration.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/language"
)

// Config holds settings read from the environment.
type Config struct {
	Environment     string
	LogLevel        string
	DefaultLanguage string
	// SkillID, when set, must match the application ID of every request.
	SkillID      string
	FunctionName string
}

// Load reads the configuration from the environment and validates it.
// A .env file is loaded first when present.
func Load() (*Config, error) {
	// .env is optional: Lambda provides variables directly.
	_ = godotenv.Load()

	cfg := &Config{
		Environment:     os.Getenv("ENVIRONMENT"),
		LogLevel:        os.Getenv("LOG_LEVEL"),
		DefaultLanguage: os.Getenv("DEFAULT_LANGUAGE"),
		SkillID:         strings.TrimSpace(os.Getenv("SKILL_ID")),
		FunctionName:    os.Getenv("AWS_LAMBDA_FUNCTION_NAME"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate fills defaults and checks values.
func (c *Config) validate() error {
	if strings.TrimSpace(c.Environment) == "" {
		c.Environment = "dev"
	}

	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = "info"
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}

	if strings.TrimSpace(c.DefaultLanguage) == "" {
		c.DefaultLanguage = "en"
	}
	if _, err := language.Parse(c.DefaultLanguage); err != nil {
		return fmt.Errorf("config: invalid DEFAULT_LANGUAGE %q: %w", c.DefaultLanguage, err)
	}

	return nil
}

// IsDevelopment reports whether the skill runs in the dev environment.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "dev"
}
