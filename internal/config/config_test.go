// Copyright (c) 2025 FitBot Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Coach.Model != "gemini-2.5-flash" {
		t.Errorf("default model = %q", cfg.Coach.Model)
	}
	if cfg.Storage.Backend != "file" {
		t.Errorf("default backend = %q", cfg.Storage.Backend)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFromPath_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("missing config should fall back to defaults: %v", err)
	}
	if cfg.Coach.Model != Default().Coach.Model {
		t.Errorf("model = %q, want default", cfg.Coach.Model)
	}
}

func TestLoadFromPath_File(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("FITBOT_API_KEY", "")
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[coach]
api_key = "test-key"
model = "gemini-2.0-flash"

[storage]
backend = "sqlite"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.Coach.APIKey != "test-key" {
		t.Errorf("api_key = %q", cfg.Coach.APIKey)
	}
	if cfg.Coach.Model != "gemini-2.0-flash" {
		t.Errorf("model = %q", cfg.Coach.Model)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("backend = %q", cfg.Storage.Backend)
	}
	// Omitted fields keep defaults.
	if cfg.Coach.Temperature != 0.7 {
		t.Errorf("temperature = %v, want default 0.7", cfg.Coach.Temperature)
	}
	if cfg.UI.Theme != "dark" {
		t.Errorf("theme = %q, want default", cfg.UI.Theme)
	}
}

func TestLoadFromPath_FixesPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[coach]\napi_key = \"k\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFromPath(path); err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("permissions = %o, want 0600", info.Mode().Perm())
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("FITBOT_STORAGE", "sqlite")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Coach.APIKey != "env-key" {
		t.Errorf("api_key = %q", cfg.Coach.APIKey)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("backend = %q", cfg.Storage.Backend)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = "redis"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown backend accepted")
	}

	cfg = Default()
	cfg.Coach.Temperature = 3.5
	if err := cfg.Validate(); err == nil {
		t.Error("out-of-range temperature accepted")
	}

	cfg = Default()
	cfg.UI.Theme = "solarized"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown theme accepted")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.Coach.Model = "gemini-2.0-flash"
	cfg.UI.CompactMode = true
	if err := SaveToPath(cfg, path); err != nil {
		t.Fatalf("SaveToPath failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("saved permissions = %o, want 0600", info.Mode().Perm())
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if loaded.Coach.Model != "gemini-2.0-flash" {
		t.Errorf("model = %q after round trip", loaded.Coach.Model)
	}
	if !loaded.UI.CompactMode {
		t.Error("compact_mode lost in round trip")
	}
}
