package config

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/walloffame/wof/internal/api"
	"github.com/walloffame/wof/internal/common"
)

const DefaultBaseURL = api.DefaultBaseURL

var errMissingHost = errors.New("missing host")

// Config represents the application configuration structure
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Session  SessionConfig  `mapstructure:"session"`
	Register RegisterConfig `mapstructure:"register"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout string `mapstructure:"timeout"` // "30s" or "PT30S"
}

// SessionConfig controls where the session credential is persisted.
type SessionConfig struct {
	Path      string `mapstructure:"path"`      // directory holding one file per backend host
	Ephemeral bool   `mapstructure:"ephemeral"` // keep the session in memory only
}

type RegisterConfig struct {
	RequireName bool `mapstructure:"require_name"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GetBaseURL returns the backend address without a trailing slash.
func (c *Config) GetBaseURL() string {
	if len(c.API.BaseURL) == 0 {
		return DefaultBaseURL
	}
	return strings.TrimRight(c.API.BaseURL, "/")
}

// SetBaseURL overrides the backend address, e.g. from a flag.
func (c *Config) SetBaseURL(baseURL string) error {
	parsed, err := url.ParseRequestURI(baseURL)
	if err != nil {
		return err
	}
	if len(parsed.Host) == 0 {
		return &url.Error{Op: "parse", URL: baseURL, Err: errMissingHost}
	}
	c.API.BaseURL = strings.TrimRight(baseURL, "/")
	return nil
}

// GetBackendHostname returns the host (and port, if any) of the backend.
// Sessions are stored per hostname, so logging into one backend does not
// leak a token to another.
func (c *Config) GetBackendHostname() string {
	parsed, err := url.Parse(c.GetBaseURL())
	if err != nil || len(parsed.Host) == 0 {
		logrus.WithFields(logrus.Fields{
			"baseUrl": c.GetBaseURL(),
		}).Warnln("Could not parse backend host")
		return c.GetBaseURL()
	}
	return parsed.Host
}

// GetTimeout returns the per-request timeout. Zero disables it.
func (c *Config) GetTimeout() (time.Duration, error) {
	return common.ParseTimeout(c.API.Timeout)
}

func (c *Config) GetSessionPath() string {
	if len(c.Session.Path) == 0 {
		return "~/.config/wof"
	}
	return c.Session.Path
}
