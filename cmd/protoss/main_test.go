package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	protoss "github.com/BurakKTopal/ProtossPAKEBench"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
password: hunter2
identity_i: "616c696365"
identity_j: "626f62"
mismatch_trials: 25
confirm: true
log:
  level: debug
  format: json
`))
	require.NoError(t, err)
	require.Equal(t, "hunter2", cfg.Password)
	require.Equal(t, 25, cfg.MismatchTrials)
	require.True(t, cfg.Confirm)

	pi, pj, err := cfg.Validate()
	require.NoError(t, err)
	require.Equal(t, []byte("alice"), pi)
	require.Equal(t, []byte("bob"), pj)
}

func TestDefaultConfig(t *testing.T) {
	cfg, err := ParseConfig(nil)
	require.NoError(t, err)
	require.Equal(t, "SharedPassword", cfg.Password)

	pi, pj, err := cfg.Validate()
	require.NoError(t, err)
	require.Equal(t, []byte{0x00}, pi)
	require.Equal(t, []byte{0x01}, pj)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad identity", func(c *Config) { c.IdentityI = "zz" }},
		{"negative trials", func(c *Config) { c.MismatchTrials = -1 }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			_, _, err := cfg.Validate()
			require.Error(t, err)
		})
	}
}

func TestRunExchangeLogsSteps(t *testing.T) {
	p, err := protoss.New(nil)
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Log.Format = "json"
	var buf bytes.Buffer
	log := cfg.NewLogger(&buf)

	err = runExchange(log, p, []byte("SharedPassword"), []byte{0x00}, []byte{0x01}, true)
	require.NoError(t, err)

	out := buf.String()

	var msgs []string
	dec := json.NewDecoder(strings.NewReader(out))
	for {
		var rec map[string]any
		if err := dec.Decode(&rec); err == io.EOF {
			break
		} else {
			require.NoError(t, err)
		}
		msgs = append(msgs, rec["msg"].(string))
	}
	require.Equal(t, []string{
		"Step One Execution - Init",
		"Step Two Execution - RspDer",
		"Step Three Execution - Der",
		"session keys compared",
		"key confirmation succeeded",
	}, msgs)

	// Secrets are never logged
	require.NotContains(t, out, "SharedPassword")
}

func TestRunMismatch(t *testing.T) {
	p, err := protoss.New(nil)
	require.NoError(t, err)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	collisions, err := runMismatch(log, p, []byte("SharedPassword"), []byte{0x00}, []byte{0x01}, 200)
	require.NoError(t, err)
	require.Zero(t, collisions)
}

func TestNewLoggerLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Log.Level = "warn"
	var buf strings.Builder
	log := cfg.NewLogger(&buf)

	log.Info("hidden")
	log.Warn("shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")
}
