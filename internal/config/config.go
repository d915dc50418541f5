// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/jeranaias/healthmate-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete healthmate configuration.
type Config struct {
	Server    ServerConfig    `toml:"server" json:"server"`
	UI        UIConfig        `toml:"ui" json:"ui"`
	Dictation DictationConfig `toml:"dictation" json:"dictation"`
	Log       LogConfig       `toml:"log" json:"log"`
}

// ServerConfig locates the HealthMate backend.
type ServerConfig struct {
	// BaseURL is the root the /ask, /export_chat and /clear_chat paths hang off.
	BaseURL string `toml:"base_url" json:"base_url" env:"HEALTHMATE_SERVER_URL"`
	// TimeoutSecs bounds every request. A hung request never holds the send
	// gate longer than this.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs" env:"HEALTHMATE_TIMEOUT"`
}

// UIConfig contains terminal UI configuration.
type UIConfig struct {
	// RenderMarkdown renders bot replies through glamour instead of stripping markup.
	RenderMarkdown bool `toml:"render_markdown" json:"render_markdown"`
	// DownloadDir receives exported transcripts (empty = ~/Downloads).
	DownloadDir string `toml:"download_dir" json:"download_dir" env:"HEALTHMATE_DOWNLOAD_DIR"`
	// QuickActions are used when the backend does not publish its own list.
	QuickActions []QuickAction `toml:"quick_actions" json:"quick_actions"`
}

// QuickAction is a canned prompt bound to alt+N.
type QuickAction struct {
	Text string `toml:"text" json:"text"`
	Icon string `toml:"icon" json:"icon"`
}

// DictationConfig configures the optional voice dictation service.
type DictationConfig struct {
	Enabled bool `toml:"enabled" json:"enabled"`
	// Recorder is the capture program: "arecord", "rec" or "ffmpeg".
	// Empty picks the first one found on PATH.
	Recorder      string `toml:"recorder" json:"recorder"`
	TranscribeURL string `toml:"transcribe_url" json:"transcribe_url" env:"HEALTHMATE_TRANSCRIBE_URL"`
	APIKey        string `toml:"api_key" json:"api_key" env:"HEALTHMATE_TRANSCRIBE_KEY"`
	Model         string `toml:"model" json:"model"`
	Language      string `toml:"language" json:"language"`
}

// LogConfig controls the zerolog output.
type LogConfig struct {
	Level string `toml:"level" json:"level" env:"HEALTHMATE_LOG_LEVEL"`
	// File is the log destination (empty = ~/.healthmate/healthmate.log).
	File string `toml:"file" json:"file"`
}

// Timeout returns the request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Server.TimeoutSecs) * time.Second
}

// =============================================================================
// DEFAULTS
// =============================================================================

// DefaultQuickActions mirrors the list the backend publishes on /quick_actions.
func DefaultQuickActions() []QuickAction {
	return []QuickAction{
		{Text: "Check symptoms", Icon: "🔍"},
		{Text: "Medication info", Icon: "💊"},
		{Text: "Health tips", Icon: "💡"},
		{Text: "Exercise advice", Icon: "🏃"},
		{Text: "Nutrition guide", Icon: "🥗"},
		{Text: "Mental health", Icon: "🧠"},
	}
}

// Default returns a Config with built-in defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL:     "http://127.0.0.1:5000",
			TimeoutSecs: 60,
		},
		UI: UIConfig{
			RenderMarkdown: true,
			QuickActions:   DefaultQuickActions(),
		},
		Dictation: DictationConfig{
			Enabled:  true,
			Model:    "whisper-1",
			Language: "en-US",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// SetDefaults fills zero values that Validate would otherwise reject.
func (c *Config) SetDefaults() {
	d := Default()
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = d.Server.BaseURL
	}
	if c.Server.TimeoutSecs == 0 {
		c.Server.TimeoutSecs = d.Server.TimeoutSecs
	}
	if len(c.UI.QuickActions) == 0 {
		c.UI.QuickActions = d.UI.QuickActions
	}
	if c.Dictation.Model == "" {
		c.Dictation.Model = d.Dictation.Model
	}
	if c.Dictation.Language == "" {
		c.Dictation.Language = d.Dictation.Language
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	c.Server.BaseURL = strings.TrimRight(c.Server.BaseURL, "/")
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the healthmate configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".healthmate"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// DownloadDir resolves the directory exports are written to.
func (c *Config) DownloadDir() (string, error) {
	if c.UI.DownloadDir != "" {
		return expandHome(c.UI.DownloadDir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, "Downloads"), nil
}

// LogFile resolves the log destination.
func (c *Config) LogFile() (string, error) {
	if c.Log.File != "" {
		return expandHome(c.Log.File)
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "healthmate.log"), nil
}

func expandHome(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not determine home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}

// ensureSecurePermissions tightens a config file holding an API key to 0600.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	for _, pathFn := range []func() (string, error){ConfigPathTOML, ConfigPathJSON} {
		path, err := pathFn()
		if err != nil {
			continue
		}
		if _, statErr := os.Stat(path); statErr == nil {
			return LoadFromPath(path)
		}
	}

	cfg := Default()
	return finish(cfg)
}

// LoadFromPath loads configuration from a specific file path with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		fmt.Fprintf(os.Stderr, "Warning: unknown config keys in %s: %s\n", path, strings.Join(keys, ", "))
	}
	return nil
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// ApplyEnvOverrides applies HEALTHMATE_* environment variables. Unset
// variables leave the loaded values alone.
func (c *Config) ApplyEnvOverrides() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("failed to parse environment overrides: %w", err)
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes cfg as TOML with 0600 permissions, since it may hold the
// transcription API key.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# healthmate configuration file")
	fmt.Fprintln(&buf, "# Generated by healthmate - edit with care")
	fmt.Fprintln(&buf, "")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFileWithDir(path, buf.Bytes(), 0600, 0700); err != nil {
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
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true, "disabled": true,
}

var validRecorders = map[string]bool{"": true, "arecord": true, "rec": true, "ffmpeg": true}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if u, err := url.Parse(c.Server.BaseURL); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, ValidationError{
			Field:   "server.base_url",
			Message: fmt.Sprintf("invalid URL '%s', must be http(s)://host[:port]", c.Server.BaseURL),
		})
	}

	if c.Server.TimeoutSecs < 1 || c.Server.TimeoutSecs > 600 {
		errs = append(errs, ValidationError{
			Field:   "server.timeout_secs",
			Message: fmt.Sprintf("must be between 1 and 600, got %d", c.Server.TimeoutSecs),
		})
	}

	if len(c.UI.QuickActions) > 9 {
		errs = append(errs, ValidationError{
			Field:   "ui.quick_actions",
			Message: fmt.Sprintf("at most 9 quick actions can be bound, got %d", len(c.UI.QuickActions)),
		})
	}
	for i, qa := range c.UI.QuickActions {
		if strings.TrimSpace(qa.Text) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("ui.quick_actions[%d].text", i),
				Message: "must not be empty",
			})
		}
	}

	if !validRecorders[c.Dictation.Recorder] {
		errs = append(errs, ValidationError{
			Field:   "dictation.recorder",
			Message: fmt.Sprintf("unknown recorder '%s', must be one of: arecord, rec, ffmpeg", c.Dictation.Recorder),
		})
	}
	if c.Dictation.TranscribeURL != "" {
		if u, err := url.Parse(c.Dictation.TranscribeURL); err != nil || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "dictation.transcribe_url",
				Message: fmt.Sprintf("invalid URL '%s'", c.Dictation.TranscribeURL),
			})
		}
	}

	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: trace, debug, info, warn, error, disabled", c.Log.Level),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
