package config

import (
	"fmt"
	"time"

	"github.com/Xieruu-29/Realtime-ChatApp/internal/core"
)

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	LogFormat         string        `mapstructure:"log_format" yaml:"log_format"`
	// HistoryCapacity bounds the in-memory history log. Must be positive.
	HistoryCapacity int `mapstructure:"history_capacity" yaml:"history_capacity"`
	// ClientBuffer sizes each client's outbound event channel.
	ClientBuffer int `mapstructure:"client_buffer" yaml:"client_buffer"`
	// DuplicateNamePolicy is "takeover" or "reject".
	DuplicateNamePolicy string `mapstructure:"duplicate_name_policy" yaml:"duplicate_name_policy"`
	// WSRateLimit caps inbound frames per second per connection; 0 disables.
	WSRateLimit int `mapstructure:"ws_rate_limit" yaml:"ws_rate_limit"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:                ":8080",
		ReadHeaderTimeout:   5 * time.Second,
		ShutdownTimeout:     5 * time.Second,
		LogLevel:            "info",
		LogFormat:           "console",
		HistoryCapacity:     core.DefaultHistoryCapacity,
		ClientBuffer:        32,
		DuplicateNamePolicy: core.NameTakeover.String(),
		WSRateLimit:         0,
	}
}

// Validate rejects values the server cannot run with.
func (c *Config) Validate() error {
	if c.HistoryCapacity < 1 {
		return fmt.Errorf("history_capacity must be positive, got %d", c.HistoryCapacity)
	}
	if c.ClientBuffer < 1 {
		return fmt.Errorf("client_buffer must be positive, got %d", c.ClientBuffer)
	}
	if _, err := core.ParseNamePolicy(c.DuplicateNamePolicy); err != nil {
		return err
	}
	if c.WSRateLimit < 0 {
		return fmt.Errorf("ws_rate_limit must not be negative, got %d", c.WSRateLimit)
	}
	return nil
}

// NamePolicy resolves the configured duplicate name policy. Call Validate
// first; unknown strings fall back to takeover here.
func (c *Config) NamePolicy() core.NamePolicy {
	policy, _ := core.ParseNamePolicy(c.DuplicateNamePolicy)
	return policy
}

// UpdateFrom overwrites non-zero values from other config into receiver.
// Used to apply command line overrides on top of file and env values.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.LogFormat != "" {
		c.LogFormat = other.LogFormat
	}
	if other.HistoryCapacity != 0 {
		c.HistoryCapacity = other.HistoryCapacity
	}
	if other.ClientBuffer != 0 {
		c.ClientBuffer = other.ClientBuffer
	}
	if other.DuplicateNamePolicy != "" {
		c.DuplicateNamePolicy = other.DuplicateNamePolicy
	}
	if other.WSRateLimit != 0 {
		c.WSRateLimit = other.WSRateLimit
	}
}
