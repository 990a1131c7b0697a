// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP server
	Port            int           `validate:"min=1,max=65535"`
	ShutdownTimeout time.Duration `validate:"gt=0"`

	// Database
	DBPath string `validate:"required"`

	// Logging: debug, info, warn or error
	LogLevel string `validate:"oneof=debug info warn error"`

	// AMQP; events are only logged when AMQPURL is empty
	AMQPURL        string `validate:"omitempty,url,startswith=amqp"`
	AMQPExchange   string `validate:"required_with=AMQPURL"`
	AMQPRoutingKey string `validate:"required_with=AMQPURL"`
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, relying on system environment variables")
	}

	return &Config{
		Port:            getEnvInt("PORT", 8080),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		DBPath:          getEnv("DB_PATH", "./data/ledger.db"),
		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", "info")),
		AMQPURL:         getEnv("AMQP_URL", ""),
		AMQPExchange:    getEnv("AMQP_EXCHANGE", "splitledger"),
		AMQPRoutingKey:  getEnv("AMQP_ROUTING_KEY", "expense.created"),
	}
}

// Validate reports every invalid setting in one error.
func (c *Config) Validate() error {
	err := validator.New(validator.WithRequiredStructEnabled()).Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	msgs := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		msgs[i] = fmt.Sprintf("%s: failed '%s' (value %v)", fe.Field(), fe.ActualTag(), fe.Value())
	}
	return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(msgs, "\n- "))
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
		slog.Warn("Ignoring invalid integer setting", "key", key, "value", value)
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		slog.Warn("Ignoring invalid duration setting", "key", key, "value", value)
	}
	return fallback
}
