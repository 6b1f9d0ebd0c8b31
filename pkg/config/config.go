// Package config loads and validates the sessionkit configuration.
package config

import (
	"net/url"
	"time"

	"github.com/brickedup/sessionkit/pkg/kvs"
)

// Config represents the application configuration
type Config struct {
	API     APIConfig     `yaml:"api" json:"api"`
	Store   kvs.Config    `yaml:"store" json:"store"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// APIConfig contains backend API settings
type APIConfig struct {
	// BaseURL is the root of the Bricked Up API (required)
	BaseURL string `yaml:"base_url" json:"base_url"`

	// Timeout is the per-request timeout, as a Go duration string
	// (default: "15s")
	Timeout string `yaml:"timeout" json:"timeout"`
}

// GetTimeoutDuration returns the request timeout as a time.Duration
func (a APIConfig) GetTimeoutDuration() (time.Duration, error) {
	return time.ParseDuration(a.Timeout)
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level string             `yaml:"level" json:"level"`
	Color bool               `yaml:"color" json:"color"`
	File  *FileLoggingConfig `yaml:"file" json:"file"`
}

// FileLoggingConfig contains file logging and rotation settings
type FileLoggingConfig struct {
	Path       string `yaml:"path" json:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb" json:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" json:"max_backups"`
	MaxAge     int    `yaml:"max_age" json:"max_age"`
	Compress   bool   `yaml:"compress" json:"compress"`
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return ErrBaseURLRequired
	}

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidBaseURL
	}

	if _, err := c.API.GetTimeoutDuration(); err != nil {
		return ErrInvalidTimeout
	}

	switch c.Store.Type {
	case "", "memory", "leveldb":
	case "redis":
		if c.Store.Redis.Addr == "" {
			return ErrRedisAddrRequired
		}
	default:
		return ErrUnsupportedStoreType
	}

	return nil
}
