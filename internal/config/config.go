// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/aurora-tui/internal/endpoint"
	"github.com/jeranaias/aurora-tui/internal/ui/styles"
	"github.com/jeranaias/aurora-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete aurora configuration.
type Config struct {
	// Ollama connection and request settings
	Ollama OllamaConfig `toml:"ollama"`

	// Circuit breaker around the Ollama backend
	Breaker BreakerConfig `toml:"breaker"`

	// Terminal UI settings
	UI UIConfig `toml:"ui"`

	// Log file settings
	Log LogConfig `toml:"log"`
}

// OllamaConfig contains local Ollama configuration.
type OllamaConfig struct {
	// URL is the base URL of the Ollama server
	URL string `toml:"url"`
	// LocalOnly rejects a URL whose host is not this machine
	LocalOnly bool `toml:"local_only"`
	// Model is the model every turn is sent to
	Model string `toml:"model"`
	// SystemPrompt is prepended to every request; it is never shown or stored
	SystemPrompt string `toml:"system_prompt"`
	// IdleTimeoutSecs aborts a turn that receives nothing for this long (0 = never)
	IdleTimeoutSecs int `toml:"idle_timeout_secs"`
	// ConnectTimeoutSecs bounds dialing the Ollama server
	ConnectTimeoutSecs int `toml:"connect_timeout_secs"`
	// Temperature is the sampling temperature (0 = model default)
	Temperature float64 `toml:"temperature"`
	// NumCtx is the context window size (0 = model default)
	NumCtx int `toml:"num_ctx"`
}

// BreakerConfig contains circuit breaker configuration.
type BreakerConfig struct {
	// Enabled wraps the backend in a circuit breaker
	Enabled bool `toml:"enabled"`
	// MaxFailures is the number of consecutive connection failures that open the circuit
	MaxFailures int `toml:"max_failures"`
	// OpenTimeoutSecs is how long the circuit stays open before a trial request
	OpenTimeoutSecs int `toml:"open_timeout_secs"`
}

// UIConfig contains terminal UI configuration.
type UIConfig struct {
	// Backend selects the renderer: "tea" (bubbletea) or "tcell"
	Backend string `toml:"backend"`
	// TickIntervalMs is the render loop period in milliseconds
	TickIntervalMs int `toml:"tick_interval_ms"`
	// HistoryLimit caps transcript entries kept on screen (0 = unbounded)
	HistoryLimit int `toml:"history_limit"`
	// Greeting is shown as the first assistant entry (empty = none)
	Greeting string `toml:"greeting"`
	// Palette overrides individual colors of the built-in palette
	Palette styles.Palette `toml:"palette"`
}

// LogConfig contains log file configuration.
type LogConfig struct {
	// Enabled turns file logging on
	Enabled bool `toml:"enabled"`
	// File is the log file path (empty = ~/.aurora/aurora.log)
	File string `toml:"file"`
	// Level is one of debug, info, warn, error
	Level string `toml:"level"`
}

// Renderer backends.
const (
	BackendTea   = "tea"
	BackendTcell = "tcell"
)

// DefaultGreeting is the greeting shown on start-up.
const DefaultGreeting = "Aurora is ready. Ask me anything."

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Ollama: OllamaConfig{
			URL:                "http://127.0.0.1:11434",
			Model:              "llama3.2",
			IdleTimeoutSecs:    60,
			ConnectTimeoutSecs: 10,
		},

		Breaker: BreakerConfig{
			Enabled:         true,
			MaxFailures:     3,
			OpenTimeoutSecs: 15,
		},

		UI: UIConfig{
			Backend:        BackendTea,
			TickIntervalMs: 33,
			HistoryLimit:   0, // unbounded
			Greeting:       DefaultGreeting,
		},

		Log: LogConfig{
			Enabled: true,
			Level:   "info",
		},
	}
}

// IdleTimeout returns the idle timeout as a duration.
func (c *Config) IdleTimeout() time.Duration {
	return time.Duration(c.Ollama.IdleTimeoutSecs) * time.Second
}

// ConnectTimeout returns the connect timeout as a duration.
func (c *Config) ConnectTimeout() time.Duration {
	return time.Duration(c.Ollama.ConnectTimeoutSecs) * time.Second
}

// OpenTimeout returns how long the breaker stays open.
func (c *Config) OpenTimeout() time.Duration {
	return time.Duration(c.Breaker.OpenTimeoutSecs) * time.Second
}

// TickInterval returns the render loop period.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.UI.TickIntervalMs) * time.Millisecond
}

// LogPath returns the log file path, resolving the default location.
func (c *Config) LogPath() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "aurora.log"), nil
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the aurora configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".aurora"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from ~/.aurora/config.toml and falls back to
// defaults when the file does not exist. Environment overrides are applied
// last.
//
// A file that exists but cannot be decoded yields the defaults together with
// the decode error, so the caller can warn and continue.
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error

	path, err := ConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := LoadTOML(cfg, path); err != nil {
				loadErr = fmt.Errorf("failed to load TOML config: %w", err)
				cfg = Default()
			}
		}
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, loadErr
}

// LoadTOML decodes a TOML file over cfg. Keys absent from the file keep
// the values already in cfg.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return fillDefaults(cfg)
}

// LoadFromPath loads configuration from a specific file with full
// validation. Unlike Load, a missing or broken file is an error.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := LoadTOML(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// fillDefaults fills in values a file set to empty that must not be empty
// and normalizes the case of enumerated values.
func fillDefaults(cfg *Config) error {
	defaults := Default()

	if cfg.Ollama.URL == "" {
		cfg.Ollama.URL = defaults.Ollama.URL
	}
	if cfg.Ollama.Model == "" {
		cfg.Ollama.Model = defaults.Ollama.Model
	}
	if cfg.Ollama.ConnectTimeoutSecs == 0 {
		cfg.Ollama.ConnectTimeoutSecs = defaults.Ollama.ConnectTimeoutSecs
	}

	if cfg.Breaker.MaxFailures == 0 {
		cfg.Breaker.MaxFailures = defaults.Breaker.MaxFailures
	}
	if cfg.Breaker.OpenTimeoutSecs == 0 {
		cfg.Breaker.OpenTimeoutSecs = defaults.Breaker.OpenTimeoutSecs
	}

	cfg.UI.Backend = strings.ToLower(cfg.UI.Backend)
	if cfg.UI.Backend == "" {
		cfg.UI.Backend = defaults.UI.Backend
	}
	if cfg.UI.TickIntervalMs == 0 {
		cfg.UI.TickIntervalMs = defaults.UI.TickIntervalMs
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}

	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file with 0600 permissions.
// The file is replaced atomically.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# aurora configuration file\n")
	buf.WriteString("# Generated by aurora - edit with care\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600, 0700); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors as
// ValidateErrors.
func (c *Config) Validate() error {
	var errs ValidateErrors
	fail := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	// ==========================================================================
	// Ollama
	// ==========================================================================

	if err := endpoint.Validate(c.Ollama.URL, c.Ollama.LocalOnly); err != nil {
		fail("ollama.url", "invalid URL '%s': %v", c.Ollama.URL, err)
	}
	if strings.TrimSpace(c.Ollama.Model) == "" {
		fail("ollama.model", "must not be empty")
	}
	if c.Ollama.IdleTimeoutSecs < 0 || c.Ollama.IdleTimeoutSecs > 3600 {
		fail("ollama.idle_timeout_secs", "must be between 0 and 3600, got %d", c.Ollama.IdleTimeoutSecs)
	}
	if c.Ollama.ConnectTimeoutSecs < 1 || c.Ollama.ConnectTimeoutSecs > 300 {
		fail("ollama.connect_timeout_secs", "must be between 1 and 300, got %d", c.Ollama.ConnectTimeoutSecs)
	}
	if c.Ollama.Temperature < 0 || c.Ollama.Temperature > 2 {
		fail("ollama.temperature", "must be between 0 and 2, got %g", c.Ollama.Temperature)
	}
	if c.Ollama.NumCtx < 0 {
		fail("ollama.num_ctx", "must not be negative, got %d", c.Ollama.NumCtx)
	}

	// ==========================================================================
	// Breaker
	// ==========================================================================

	if c.Breaker.MaxFailures < 1 || c.Breaker.MaxFailures > 100 {
		fail("breaker.max_failures", "must be between 1 and 100, got %d", c.Breaker.MaxFailures)
	}
	if c.Breaker.OpenTimeoutSecs < 1 || c.Breaker.OpenTimeoutSecs > 3600 {
		fail("breaker.open_timeout_secs", "must be between 1 and 3600, got %d", c.Breaker.OpenTimeoutSecs)
	}

	// ==========================================================================
	// UI
	// ==========================================================================

	switch strings.ToLower(c.UI.Backend) {
	case BackendTea, BackendTcell:
	default:
		fail("ui.backend", "invalid backend '%s', must be one of: tea, tcell", c.UI.Backend)
	}
	if c.UI.TickIntervalMs < 1 || c.UI.TickIntervalMs > 1000 {
		fail("ui.tick_interval_ms", "must be between 1 and 1000, got %d", c.UI.TickIntervalMs)
	}
	if c.UI.HistoryLimit < 0 {
		fail("ui.history_limit", "must not be negative, got %d", c.UI.HistoryLimit)
	}
	if err := c.UI.Palette.Validate(); err != nil {
		fail("ui", "%v", err)
	}

	// ==========================================================================
	// Log
	// ==========================================================================

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		fail("log.level", "invalid level '%s', must be one of: debug, info, warn, error", c.Log.Level)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - AURORA_MODEL: overrides ollama.model
//   - AURORA_OLLAMA_URL: overrides ollama.url
//   - AURORA_BACKEND: overrides ui.backend
//   - AURORA_LOG_FILE: overrides log.file
//   - AURORA_DEBUG: set to "1" or "true" for debug logging
func (c *Config) ApplyEnvOverrides() {
	if model := os.Getenv("AURORA_MODEL"); model != "" {
		c.Ollama.Model = model
	}

	if u := os.Getenv("AURORA_OLLAMA_URL"); u != "" {
		c.Ollama.URL = u
	}

	if backend := os.Getenv("AURORA_BACKEND"); backend != "" {
		c.UI.Backend = strings.ToLower(backend)
	}

	if file := os.Getenv("AURORA_LOG_FILE"); file != "" {
		c.Log.File = file
	}

	if debug := os.Getenv("AURORA_DEBUG"); debug == "1" || strings.ToLower(debug) == "true" {
		c.Log.Level = "debug"
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value by its TOML key path
// (e.g., "ollama.model" or "ui.palette.user").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value by its TOML key path. String values are
// converted to the field's type.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if field.Kind() == reflect.Struct {
		return fmt.Errorf("cannot set section: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}

	parts := strings.Split(key, ".")
	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		if v.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a section", strings.Join(parts[:i], "."))
		}
		field, ok := fieldByTag(v, part)
		if !ok {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return v, nil
}

// fieldByTag finds the struct field whose toml tag name is name.
func fieldByTag(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if tagName(t.Field(i)) == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func tagName(f reflect.StructField) string {
	tag, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
	return tag
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			boolVal, err := parseBool(strVal)
			if err != nil {
				return err
			}
			field.SetBool(boolVal)
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// parseBool accepts what strconv.ParseBool does plus yes/no and on/off.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "on":
		return true, nil
	case "no", "off":
		return false, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, fmt.Errorf("invalid boolean value %q: use true or false", s)
	}
	return b, nil
}

// GetAllKeys returns all configuration keys in dot notation, in file order.
func GetAllKeys() []string {
	var keys []string
	var walk func(t reflect.Type, prefix string)
	walk = func(t reflect.Type, prefix string) {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			name := tagName(f)
			if name == "" || name == "-" {
				continue
			}
			if f.Type.Kind() == reflect.Struct {
				walk(f.Type, prefix+name+".")
				continue
			}
			keys = append(keys, prefix+name)
		}
	}
	walk(reflect.TypeOf(Config{}), "")
	return keys
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns the configuration as TOML.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return buf.String()
}
