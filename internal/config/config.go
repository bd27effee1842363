// Package config loads the engine configuration used by the commands:
// mailbox sizing, the table file, logging and metrics.
//
// Precedence is ENV > file > defaults. The file is parsed strictly.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/comalice/tablefsm/internal/primitives"
)

// Defaults.
const (
	DefaultLogLevel    = "info"
	DefaultHistorySize = 32
	DefaultService     = "tablefsm"
)

// EngineConfig is the complete engine configuration.
type EngineConfig struct {
	// Table is the path of the YAML or JSON table definition.
	Table string `yaml:"table"`
	// InitialState overrides the table's initial state when non-zero.
	InitialState    uint32          `yaml:"initial_state,omitempty"`
	RejectOnDiscard bool            `yaml:"reject_on_discard,omitempty"`
	HistorySize     int             `yaml:"history_size,omitempty"`
	Mailbox         MailboxConfig   `yaml:"mailbox"`
	Log             LogConfig       `yaml:"log"`
	Metrics         MetricsConfig   `yaml:"metrics"`
	Heartbeat       HeartbeatConfig `yaml:"heartbeat"`
}

// MailboxConfig sizes the event mailbox.
type MailboxConfig struct {
	Capacity int `yaml:"capacity"`
}

// LogConfig configures the zerolog base logger.
type LogConfig struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service,omitempty"`
}

// MetricsConfig configures the Prometheus endpoint. An empty Addr
// disables it.
type MetricsConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// HeartbeatConfig drives a periodic event into the machine. A zero
// Interval disables it.
type HeartbeatConfig struct {
	Trigger  uint32        `yaml:"trigger,omitempty"`
	Interval time.Duration `yaml:"interval,omitempty"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() EngineConfig {
	return EngineConfig{
		HistorySize: DefaultHistorySize,
		Mailbox:     MailboxConfig{Capacity: primitives.DefaultMailboxCapacity},
		Log:         LogConfig{Level: DefaultLogLevel, Service: DefaultService},
	}
}

// Validate reports every invalid setting.
func (c EngineConfig) Validate() error {
	var errs []error
	if c.Mailbox.Capacity <= 0 {
		errs = append(errs, fmt.Errorf("mailbox.capacity must be positive, got %d", c.Mailbox.Capacity))
	}
	if c.HistorySize < 0 {
		errs = append(errs, fmt.Errorf("history_size must not be negative, got %d", c.HistorySize))
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Heartbeat.Interval < 0 {
		errs = append(errs, fmt.Errorf("heartbeat.interval must not be negative, got %s", c.Heartbeat.Interval))
	}
	if c.Heartbeat.Interval > 0 && c.Heartbeat.Trigger == uint32(primitives.NoEvent) {
		errs = append(errs, errors.New("heartbeat.trigger is required when heartbeat.interval is set"))
	}
	return errors.Join(errs...)
}
