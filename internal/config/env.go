package config

import (
	"os"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/comalice/tablefsm/internal/log"
)

// Environment variables read by Loader.
const (
	EnvLogLevel        = "TABLEFSM_LOG_LEVEL"
	EnvMailboxCapacity = "TABLEFSM_MAILBOX_CAPACITY"
	EnvMetricsAddr     = "TABLEFSM_METRICS_ADDR"
	EnvTable           = "TABLEFSM_TABLE"
)

// ParseString reads a string from environment variable or returns default value.
func ParseString(key, defaultValue string) string {
	return parseStringWithLogger(log.WithComponent("config"), key, defaultValue)
}

func parseStringWithLogger(logger zerolog.Logger, key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		logger.Debug().
			Str("key", key).
			Str("value", value).
			Str("source", "environment").
			Msg("using environment variable")
		return value
	}
	return defaultValue
}

// ParseInt reads an integer from environment variable. Unparseable values
// are logged and the default is kept.
func ParseInt(key string, defaultValue int) int {
	return parseIntWithLogger(log.WithComponent("config"), key, defaultValue)
}

func parseIntWithLogger(logger zerolog.Logger, key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		logger.Warn().
			Str("key", key).
			Str("value", value).
			Int("default", defaultValue).
			Err(err).
			Msg("invalid integer in environment variable, using default")
		return defaultValue
	}
	logger.Debug().
		Str("key", key).
		Int("value", n).
		Str("source", "environment").
		Msg("using environment variable")
	return n
}
