package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config controls a demo run
type Config struct {
	Password       string `yaml:"password"`
	IdentityI      string `yaml:"identity_i"` // hex
	IdentityJ      string `yaml:"identity_j"` // hex
	MismatchTrials int    `yaml:"mismatch_trials"`
	Confirm        bool   `yaml:"confirm"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // text or json
	} `yaml:"log"`
}

// DefaultConfig matches the reference scenario: "SharedPassword", P_i = 00, P_j = 01
func DefaultConfig() *Config {
	cfg := &Config{
		Password:  "SharedPassword",
		IdentityI: "00",
		IdentityJ: "01",
	}
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	return cfg
}

// LoadConfig reads a YAML file over the defaults
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML over the defaults
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Validate checks the config and decodes the identities
func (c *Config) Validate() (identityI, identityJ []byte, err error) {
	if c.MismatchTrials < 0 {
		return nil, nil, errors.New("mismatch_trials must not be negative")
	}
	identityI, err = hex.DecodeString(c.IdentityI)
	if err != nil {
		return nil, nil, fmt.Errorf("identity_i: %w", err)
	}
	identityJ, err = hex.DecodeString(c.IdentityJ)
	if err != nil {
		return nil, nil, fmt.Errorf("identity_j: %w", err)
	}
	if _, err := c.level(); err != nil {
		return nil, nil, err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return nil, nil, fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return identityI, identityJ, nil
}

func (c *Config) level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(c.Log.Level))); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return l, nil
}

// NewLogger builds the slog logger described by the config
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := c.level()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
