// Copyright (c) 2026 Songvote contributors.
// Source-available; see LICENSE.

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// 128 hex chars; the value does not need to be a real digest for config tests.
var testDigest = strings.Repeat("ab", 64)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfigFile(t, "admin:\n  token_digest: "+testDigest+"\n")

	cfg, err := Load(Options{ConfigPath: path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 5000 {
		t.Errorf("default port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.Database.Engine != EngineSQLite {
		t.Errorf("default engine = %q, want sqlite", cfg.Database.Engine)
	}
	if cfg.Database.Path != "database.db" {
		t.Errorf("default sqlite path = %q, want database.db", cfg.Database.Path)
	}
	if cfg.General.Timezone != "UTC" {
		t.Errorf("default timezone = %q, want UTC", cfg.General.Timezone)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 8123
database:
  engine: sqlite
  path: /tmp/votes.db
admin:
  token_digest: `+testDigest+`
general:
  timezone: Europe/Vilnius
`)

	cfg, err := Load(Options{ConfigPath: path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8123 {
		t.Errorf("port = %d, want 8123", cfg.Server.Port)
	}
	if cfg.Database.Path != "/tmp/votes.db" {
		t.Errorf("path = %q, want /tmp/votes.db", cfg.Database.Path)
	}
	if cfg.General.Timezone != "Europe/Vilnius" {
		t.Errorf("timezone = %q, want Europe/Vilnius", cfg.General.Timezone)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, "server:\n  port: 8123\nadmin:\n  token_digest: "+testDigest+"\n")

	t.Setenv("PORT", "9001")
	t.Setenv("TIMEZONE", "Europe/Vilnius")

	cfg, err := Load(Options{ConfigPath: path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9001 {
		t.Errorf("port = %d, want env override 9001", cfg.Server.Port)
	}
	if cfg.General.Timezone != "Europe/Vilnius" {
		t.Errorf("timezone = %q, want Europe/Vilnius", cfg.General.Timezone)
	}
}

func TestFlagOverridesEverything(t *testing.T) {
	path := writeConfigFile(t, "server:\n  port: 8123\nadmin:\n  token_digest: "+testDigest+"\n")

	cfg, err := Load(Options{ConfigPath: path, Port: 3000})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("port = %d, want flag override 3000", cfg.Server.Port)
	}
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing admin digest", "server:\n  port: 1\n"},
		{"short admin digest", "admin:\n  token_digest: abcdef\n"},
		{"unknown engine", "database:\n  engine: oracle\nadmin:\n  token_digest: " + testDigest + "\n"},
		{"postgres without url", "database:\n  engine: postgres\nadmin:\n  token_digest: " + testDigest + "\n"},
		{"bad timezone", "general:\n  timezone: Mars/Olympus\nadmin:\n  token_digest: " + testDigest + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.yaml)
			if _, err := Load(Options{ConfigPath: path}); err == nil {
				t.Error("Load() should have failed validation")
			}
		})
	}
}

func TestParseFlags(t *testing.T) {
	opts, err := ParseFlags([]string{"-c", "my.yaml", "-p", "4444", "-t", "postgres"})
	if err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	if opts.ConfigPath != "my.yaml" || opts.Port != 4444 || opts.Engine != "postgres" {
		t.Errorf("ParseFlags() = %+v", opts)
	}

	opts, err = ParseFlags(nil)
	if err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	if opts.ConfigPath != "config.yaml" {
		t.Errorf("default config path = %q, want config.yaml", opts.ConfigPath)
	}
}

func TestManagerReloadSwapsAtomically(t *testing.T) {
	path := writeConfigFile(t, "general:\n  timezone: UTC\nadmin:\n  token_digest: "+testDigest+"\n")

	m, err := NewManager(Options{ConfigPath: path})
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	if m.Active().General.Timezone != "UTC" {
		t.Fatalf("initial timezone = %q", m.Active().General.Timezone)
	}

	// Rewrite the file and reload.
	if err := os.WriteFile(path, []byte("general:\n  timezone: Europe/Vilnius\nadmin:\n  token_digest: "+testDigest+"\n"), 0o600); err != nil {
		t.Fatalf("Failed to rewrite config: %v", err)
	}
	if _, err := m.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if m.Active().General.Timezone != "Europe/Vilnius" {
		t.Errorf("timezone after reload = %q, want Europe/Vilnius", m.Active().General.Timezone)
	}

	// A broken file must not clobber the active config.
	if err := os.WriteFile(path, []byte("admin:\n  token_digest: short\n"), 0o600); err != nil {
		t.Fatalf("Failed to rewrite config: %v", err)
	}
	if _, err := m.Reload(); err == nil {
		t.Fatal("Reload() should fail on an invalid file")
	}
	if m.Active().General.Timezone != "Europe/Vilnius" {
		t.Error("failed reload must keep the previous config active")
	}
}
