// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package config loads pckctl settings from a YAML file.
//
// Example:
//
//	connection:
//	  host: "pchk.local"     # LCN-PCHK, port 4114 unless given
//	  username: "lcn"
//	module:
//	  segment: 0
//	  id: 5
//	logging:
//	  level: "info"
//	  format: "text"
//
// Passwords are never read from the file; see cmd.GetPassword.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure
type Config struct {
	Connection ConnectionConfig `yaml:"connection"`
	Module     ModuleConfig     `yaml:"module"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ConnectionConfig selects and configures the link to the bus.
// At most one of Host, Port and URL may be set.
type ConnectionConfig struct {
	Host        string `yaml:"host"`
	Port        string `yaml:"port"`
	Baud        int    `yaml:"baud"`
	URL         string `yaml:"url"`
	Username    string `yaml:"username"`
	NoSSLVerify bool   `yaml:"no_ssl_verify"`
	Timeout     int    `yaml:"timeout"` // seconds
}

// Link kinds accepted by SetLink
const (
	LinkHost = "host"
	LinkPort = "port"
	LinkURL  = "url"
)

// SetLink selects one link and clears the other two, so a later source
// replaces the link chosen by an earlier one
func (c *ConnectionConfig) SetLink(kind, value string) {
	c.Host, c.Port, c.URL = "", "", ""
	switch kind {
	case LinkHost:
		c.Host = value
	case LinkPort:
		c.Port = value
	case LinkURL:
		c.URL = value
	}
}

// ModuleConfig addresses the target module or group
type ModuleConfig struct {
	Segment    int  `yaml:"segment"`
	ID         int  `yaml:"id"`
	Group      bool `yaml:"group"`
	RequestAck bool `yaml:"request_ack"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Connection: ConnectionConfig{
			Baud:    9600,
			Timeout: 10,
		},
		Module: ModuleConfig{
			ID: 5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// Load reads configuration from a YAML file on top of the defaults, applies
// environment overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PCKCTL_HOST"); v != "" {
		cfg.Connection.SetLink(LinkHost, v)
	}
	if v := os.Getenv("PCKCTL_PORT"); v != "" {
		cfg.Connection.SetLink(LinkPort, v)
	}
	if v := os.Getenv("PCKCTL_URL"); v != "" {
		cfg.Connection.SetLink(LinkURL, v)
	}
	if v := os.Getenv("PCKCTL_USERNAME"); v != "" {
		cfg.Connection.Username = v
	}
	if v := os.Getenv("PCKCTL_MODULE"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			cfg.Module.ID = id
		}
	}
}

// Validate checks the configuration and reports every problem at once
func (c *Config) Validate() error {
	var errs []string

	links := 0
	for _, v := range []string{c.Connection.Host, c.Connection.Port, c.Connection.URL} {
		if v != "" {
			links++
		}
	}
	if links > 1 {
		errs = append(errs, "connection: only one of host, port and url may be set")
	}

	if c.Connection.URL != "" &&
		!strings.HasPrefix(c.Connection.URL, "ws://") && !strings.HasPrefix(c.Connection.URL, "wss://") {
		errs = append(errs, "connection.url must start with ws:// or wss://")
	}

	if c.Connection.Baud <= 0 {
		errs = append(errs, "connection.baud must be positive")
	}

	if c.Connection.Timeout <= 0 {
		errs = append(errs, "connection.timeout must be positive")
	}

	if c.Module.Segment < 0 || c.Module.Segment > 127 {
		errs = append(errs, "module.segment must be between 0 and 127")
	}

	if c.Module.ID < 0 || c.Module.ID > 255 {
		errs = append(errs, "module.id must be between 0 and 255")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}
