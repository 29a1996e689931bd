// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// TestConfig_Default tests that Default() returns a valid config with defaults.
func TestConfig_Default(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	if cfg.Ollama.URL != "http://127.0.0.1:11434" {
		t.Errorf("unexpected default URL %q", cfg.Ollama.URL)
	}
	if cfg.UI.Backend != BackendTea {
		t.Errorf("expected default backend %q, got %q", BackendTea, cfg.UI.Backend)
	}
	if cfg.IdleTimeout() != time.Minute {
		t.Errorf("expected 1m idle timeout, got %v", cfg.IdleTimeout())
	}
	if cfg.TickInterval() != 33*time.Millisecond {
		t.Errorf("expected 33ms tick, got %v", cfg.TickInterval())
	}
	if cfg.OpenTimeout() != 15*time.Second || cfg.ConnectTimeout() != 10*time.Second {
		t.Errorf("unexpected timeouts: open %v connect %v", cfg.OpenTimeout(), cfg.ConnectTimeout())
	}
}

// TestConfig_Validate tests configuration validation.
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"valid default config", func(c *Config) {}, ""},
		{"tcell backend", func(c *Config) { c.UI.Backend = "tcell" }, ""},
		{"relative URL", func(c *Config) { c.Ollama.URL = "localhost:11434" }, "ollama.url"},
		{"ftp URL", func(c *Config) { c.Ollama.URL = "ftp://host" }, "ollama.url"},
		{"remote URL", func(c *Config) { c.Ollama.URL = "http://gpu-box:11434" }, ""},
		{"remote URL local only", func(c *Config) {
			c.Ollama.URL = "http://gpu-box:11434"
			c.Ollama.LocalOnly = true
		}, "ollama.url"},
		{"loopback URL local only", func(c *Config) {
			c.Ollama.URL = "http://[::1]:11434"
			c.Ollama.LocalOnly = true
		}, ""},
		{"empty model", func(c *Config) { c.Ollama.Model = "  " }, "ollama.model"},
		{"negative idle timeout", func(c *Config) { c.Ollama.IdleTimeoutSecs = -1 }, "ollama.idle_timeout_secs"},
		{"zero connect timeout", func(c *Config) { c.Ollama.ConnectTimeoutSecs = 0 }, "ollama.connect_timeout_secs"},
		{"hot temperature", func(c *Config) { c.Ollama.Temperature = 3 }, "ollama.temperature"},
		{"negative num_ctx", func(c *Config) { c.Ollama.NumCtx = -5 }, "ollama.num_ctx"},
		{"zero max failures", func(c *Config) { c.Breaker.MaxFailures = 0 }, "breaker.max_failures"},
		{"zero open timeout", func(c *Config) { c.Breaker.OpenTimeoutSecs = 0 }, "breaker.open_timeout_secs"},
		{"unknown backend", func(c *Config) { c.UI.Backend = "curses" }, "ui.backend"},
		{"zero tick", func(c *Config) { c.UI.TickIntervalMs = 0 }, "ui.tick_interval_ms"},
		{"negative history", func(c *Config) { c.UI.HistoryLimit = -1 }, "ui.history_limit"},
		{"bad palette color", func(c *Config) { c.UI.Palette.User = "blue-ish" }, "ui"},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.field == "" {
				if err != nil {
					t.Fatalf("expected valid config, got %v", err)
				}
				return
			}

			var verrs ValidateErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidateErrors, got %v", err)
			}
			if len(verrs) != 1 || verrs[0].Field != tt.field {
				t.Errorf("expected one error on %s, got %v", tt.field, verrs)
			}
		})
	}
}

func TestValidateErrors_CollectsAll(t *testing.T) {
	cfg := Default()
	cfg.Ollama.Model = ""
	cfg.UI.Backend = "x"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected errors")
	}
	msg := err.Error()
	if !strings.Contains(msg, "ollama.model: must not be empty") || !strings.Contains(msg, "ui.backend") {
		t.Errorf("unexpected message %q", msg)
	}
	if got := (ValidateErrors{}).Error(); got != "no validation errors" {
		t.Errorf("empty ValidateErrors message %q", got)
	}
}

func TestLoadFromPath_MergesOverDefaults(t *testing.T) {
	path := writeFile(t, `
[ollama]
model = "qwen2.5:7b"
system_prompt = "Be brief."
temperature = 0.4

[ui]
backend = "tcell"
history_limit = 200

[ui.palette]
user = "#00FF00"
`)

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}

	if cfg.Ollama.Model != "qwen2.5:7b" || cfg.Ollama.SystemPrompt != "Be brief." || cfg.Ollama.Temperature != 0.4 {
		t.Errorf("ollama section not loaded: %+v", cfg.Ollama)
	}
	if cfg.Ollama.URL != Default().Ollama.URL {
		t.Errorf("absent key should keep default, got %q", cfg.Ollama.URL)
	}
	if cfg.UI.Backend != BackendTcell || cfg.UI.HistoryLimit != 200 {
		t.Errorf("ui section not loaded: %+v", cfg.UI)
	}
	if cfg.UI.Palette.User != "#00FF00" {
		t.Errorf("palette override not loaded: %+v", cfg.UI.Palette)
	}
	if !cfg.Breaker.Enabled || cfg.Breaker.MaxFailures != 3 {
		t.Errorf("breaker defaults lost: %+v", cfg.Breaker)
	}
}

func TestLoadFromPath_FillsEmptyValues(t *testing.T) {
	path := writeFile(t, `
[ollama]
url = ""
model = ""

[ui]
tick_interval_ms = 0
`)
	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Ollama.URL == "" || cfg.Ollama.Model == "" || cfg.UI.TickIntervalMs == 0 {
		t.Errorf("empty values should be filled: %+v", cfg)
	}
}

func TestLoadFromPath_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", "[ollama\nmodel = 1", "failed to decode"},
		{"unknown key", "[ollama]\nmodle = \"x\"", "unknown keys"},
		{"invalid value", "[ui]\nbackend = \"curses\"", "ui.backend"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromPath(writeFile(t, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}

	if _, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("missing file should be an error")
	}
}

func TestLoad_UsesHomeConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	// No file: defaults.
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load without file: %v", err)
	}
	if cfg.Ollama.Model != Default().Ollama.Model {
		t.Errorf("expected default model, got %q", cfg.Ollama.Model)
	}

	path := filepath.Join(home, ".aurora", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[ollama]\nmodel = \"mistral\"\n"), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Ollama.Model != "mistral" {
		t.Errorf("expected model from file, got %q", cfg.Ollama.Model)
	}

	// A broken file falls back to defaults and reports the problem.
	if err := os.WriteFile(path, []byte("not toml ["), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load()
	if err == nil {
		t.Error("expected load error for broken file")
	}
	if cfg == nil || cfg.Ollama.Model != Default().Ollama.Model {
		t.Errorf("expected defaults alongside the error, got %+v", cfg)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("AURORA_MODEL", "phi3")
	t.Setenv("AURORA_OLLAMA_URL", "http://gpu-box:11434")
	t.Setenv("AURORA_BACKEND", "TCELL")
	t.Setenv("AURORA_LOG_FILE", "/tmp/aurora-test.log")
	t.Setenv("AURORA_DEBUG", "true")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Ollama.Model != "phi3" || cfg.Ollama.URL != "http://gpu-box:11434" {
		t.Errorf("ollama overrides not applied: %+v", cfg.Ollama)
	}
	if cfg.UI.Backend != BackendTcell {
		t.Errorf("backend override not applied: %q", cfg.UI.Backend)
	}
	if cfg.Log.File != "/tmp/aurora-test.log" || cfg.Log.Level != "debug" {
		t.Errorf("log overrides not applied: %+v", cfg.Log)
	}
	if path, _ := cfg.LogPath(); path != "/tmp/aurora-test.log" {
		t.Errorf("LogPath should prefer log.file, got %q", path)
	}
}

func TestSaveTOML_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.Ollama.Model = "gemma2"
	cfg.UI.Greeting = "hi there"
	cfg.UI.Palette.Dim = "244"
	if err := SaveTOML(cfg, path); err != nil {
		t.Fatalf("SaveTOML: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 && os.PathSeparator == '/' {
		t.Errorf("expected 0600 permissions, got %o", perm)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestGetSet(t *testing.T) {
	cfg := Default()

	if v, err := cfg.Get("ollama.model"); err != nil || v != "llama3.2" {
		t.Errorf("Get ollama.model = %v, %v", v, err)
	}
	if err := cfg.Set("ollama.idle_timeout_secs", "90"); err != nil {
		t.Fatalf("Set int: %v", err)
	}
	if cfg.Ollama.IdleTimeoutSecs != 90 {
		t.Errorf("expected 90, got %d", cfg.Ollama.IdleTimeoutSecs)
	}
	if err := cfg.Set("breaker.enabled", "false"); err != nil || cfg.Breaker.Enabled {
		t.Errorf("Set bool: %v, enabled=%v", err, cfg.Breaker.Enabled)
	}
	if err := cfg.Set("ollama.temperature", "0.7"); err != nil || cfg.Ollama.Temperature != 0.7 {
		t.Errorf("Set float: %v, %v", err, cfg.Ollama.Temperature)
	}
	if err := cfg.Set("ui.palette.header_bg", "#112233"); err != nil || cfg.UI.Palette.HeaderBg != "#112233" {
		t.Errorf("Set nested: %v, %q", err, cfg.UI.Palette.HeaderBg)
	}
	if err := cfg.Set("ui.history_limit", 50); err != nil || cfg.UI.HistoryLimit != 50 {
		t.Errorf("Set typed: %v, %d", err, cfg.UI.HistoryLimit)
	}

	for _, key := range []string{"", "ollama.nope", "ollama.model.x", "ui"} {
		if err := cfg.Set(key, "1"); err == nil {
			t.Errorf("Set(%q) should fail", key)
		}
	}
	if err := cfg.Set("ui.tick_interval_ms", "fast"); err == nil {
		t.Error("non-numeric int should fail")
	}
}

func TestSet_Bool(t *testing.T) {
	tests := []struct {
		value   string
		want    bool
		wantErr bool
	}{
		{"true", true, false},
		{"TRUE", true, false},
		{"1", true, false},
		{"yes", true, false},
		{"on", true, false},
		{"false", false, false},
		{"0", false, false},
		{"no", false, false},
		{"off", false, false},
		{"ture", false, true},
		{"enabled", false, true},
		{"", false, true},
	}

	for _, tc := range tests {
		t.Run(tc.value, func(t *testing.T) {
			cfg := Default()
			cfg.Log.Enabled = !tc.want
			err := cfg.Set("log.enabled", tc.value)
			if tc.wantErr {
				if err == nil {
					t.Errorf("Set(log.enabled, %q) should fail", tc.value)
				}
				if cfg.Log.Enabled != !tc.want {
					t.Errorf("failed Set(log.enabled, %q) changed the value", tc.value)
				}
				return
			}
			if err != nil {
				t.Fatalf("Set(log.enabled, %q): %v", tc.value, err)
			}
			if cfg.Log.Enabled != tc.want {
				t.Errorf("Set(log.enabled, %q) = %v, want %v", tc.value, cfg.Log.Enabled, tc.want)
			}
		})
	}
}

func TestGetAllKeys(t *testing.T) {
	keys := GetAllKeys()
	cfg := Default()

	want := []string{"ollama.url", "breaker.max_failures", "ui.backend", "ui.palette.user", "log.level"}
	for _, w := range want {
		found := false
		for _, k := range keys {
			if k == w {
				found = true
			}
		}
		if !found {
			t.Errorf("GetAllKeys missing %q", w)
		}
	}
	for _, k := range keys {
		if _, err := cfg.Get(k); err != nil {
			t.Errorf("Get(%q) for listed key: %v", k, err)
		}
	}
}

func TestConfig_StringIsTOML(t *testing.T) {
	out := Default().String()
	for _, want := range []string{"[ollama]", `model = "llama3.2"`, "[ui.palette]"} {
		if !strings.Contains(out, want) {
			t.Errorf("String() missing %q:\n%s", want, out)
		}
	}

	c := Default()
	clone := c.Clone()
	clone.Ollama.Model = "other"
	if c.Ollama.Model == "other" {
		t.Error("Clone shares state with the original")
	}
}
