// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/kkshivani18/infralens-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete infralens client configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Backend API configuration
	API APIConfig `toml:"api" json:"api"`

	// Credential configuration
	Auth AuthConfig `toml:"auth" json:"auth"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`

	// Local storage configuration
	Storage StorageConfig `toml:"storage" json:"storage"`
}

// APIConfig contains backend connection configuration.
type APIConfig struct {
	// BaseURL is the backend API base URL, including the /api prefix.
	BaseURL string `toml:"base_url" json:"base_url"`
	// TimeoutSecs is the per-request timeout. Chat answers involve
	// retrieval plus generation, so this is generous.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// RequestsPerMinute paces outgoing requests client-side.
	RequestsPerMinute int `toml:"requests_per_minute" json:"requests_per_minute"`
}

// AuthConfig contains credential source configuration.
type AuthConfig struct {
	// TokenFile is the token file path. Empty means <config dir>/token.
	TokenFile string `toml:"token_file" json:"token_file"`
	// TokenEnv is the environment variable consulted before the file.
	TokenEnv string `toml:"token_env" json:"token_env"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme" json:"theme"`
	// Markdown renders assistant replies as markdown in the CLI chat.
	Markdown bool `toml:"markdown" json:"markdown"`
	// CompactMode uses a more compact UI layout.
	CompactMode bool `toml:"compact_mode" json:"compact_mode"`
}

// StorageConfig contains local transcript archive configuration.
type StorageConfig struct {
	// TranscriptsEnabled archives completed exchanges locally.
	TranscriptsEnabled bool `toml:"transcripts_enabled" json:"transcripts_enabled"`
	// DBPath is the transcript database path. Empty means
	// <config dir>/transcripts.db.
	DBPath string `toml:"db_path" json:"db_path"`
	// HistoryFile is the CLI readline history path. Empty means
	// <config dir>/chat_history.
	HistoryFile string `toml:"history_file" json:"history_file"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		API: APIConfig{
			BaseURL:           "http://127.0.0.1:8000/api",
			TimeoutSecs:       120,
			RequestsPerMinute: 120,
		},

		Auth: AuthConfig{
			TokenFile: "",
			TokenEnv:  "INFRALENS_TOKEN",
		},

		UI: UIConfig{
			Theme:       "dark",
			Markdown:    true,
			CompactMode: false,
		},

		Storage: StorageConfig{
			TranscriptsEnabled: true,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the infralens configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".infralens"), nil
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

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// ensureSecurePermissions tightens config file permissions to 0600.
// SECURITY: config may reference credential locations.
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

// TokenPath resolves the token file path, applying the default under
// the config directory when unset.
func (c *Config) TokenPath() (string, error) {
	if c.Auth.TokenFile != "" {
		return c.Auth.TokenFile, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "token"), nil
}

// TranscriptDBPath resolves the transcript database path.
func (c *Config) TranscriptDBPath() (string, error) {
	if c.Storage.DBPath != "" {
		return c.Storage.DBPath, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "transcripts.db"), nil
}

// HistoryFilePath resolves the CLI readline history path.
func (c *Config) HistoryFilePath() (string, error) {
	if c.Storage.HistoryFile != "" {
		return c.Storage.HistoryFile, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "chat_history"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s): TOML first, then
// JSON, falling back to defaults. Environment overrides apply last.
func Load() (*Config, error) {
	cfg := Default()

	tomlPath, err := ConfigPathTOML()
	if err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				return nil, fmt.Errorf("failed to load TOML config: %w", err)
			}
			return finalize(cfg)
		}
	}

	jsonPath, err := ConfigPathJSON()
	if err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				return nil, fmt.Errorf("failed to load JSON config: %w", err)
			}
			return finalize(cfg)
		}
	}

	return finalize(cfg)
}

// LoadFromPath loads configuration from a specific file path.
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
	return finalize(cfg)
}

func finalize(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON loads configuration from a JSON file.
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

// =============================================================================
// ENV OVERRIDES / DEFAULTS / VALIDATION
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides:
//   - INFRALENS_API_URL: overrides api.base_url
//   - INFRALENS_TIMEOUT_SECS: overrides api.timeout_secs
//   - INFRALENS_TOKEN_FILE: overrides auth.token_file
//   - INFRALENS_THEME: overrides ui.theme
//
// INFRALENS_TOKEN is not handled here; the credential chain reads it
// directly so the token never lands in the config struct.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("INFRALENS_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("INFRALENS_TIMEOUT_SECS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			c.API.TimeoutSecs = secs
		}
	}
	if v := os.Getenv("INFRALENS_TOKEN_FILE"); v != "" {
		c.Auth.TokenFile = v
	}
	if v := os.Getenv("INFRALENS_THEME"); v != "" {
		c.UI.Theme = v
	}
}

// SetDefaults fills in zero values with defaults.
func (c *Config) SetDefaults() {
	defaults := Default()
	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaults.API.BaseURL
	}
	if c.API.TimeoutSecs <= 0 {
		c.API.TimeoutSecs = defaults.API.TimeoutSecs
	}
	if c.API.RequestsPerMinute <= 0 {
		c.API.RequestsPerMinute = defaults.API.RequestsPerMinute
	}
	if c.Auth.TokenEnv == "" {
		c.Auth.TokenEnv = defaults.Auth.TokenEnv
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("api.base_url has no host")
	}

	switch c.UI.Theme {
	case "dark", "light", "auto":
	default:
		return fmt.Errorf("ui.theme must be dark, light or auto, got %q", c.UI.Theme)
	}

	if c.API.TimeoutSecs <= 0 {
		return fmt.Errorf("api.timeout_secs must be positive")
	}
	return nil
}

// =============================================================================
// SAVE
// =============================================================================

// SaveTOML writes the configuration to the TOML config file atomically
// with owner-only permissions.
func (c *Config) SaveTOML() error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return c.SaveTOMLTo(path)
}

// SaveTOMLTo writes the configuration to a specific path.
func (c *Config) SaveTOMLTo(path string) error {
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return util.AtomicWriteFile(path, []byte(sb.String()), 0600)
}

// =============================================================================
// GLOBAL INSTANCE
// =============================================================================

var (
	globalConfig *Config
	globalMu     sync.Mutex
)

// Global returns the process-wide configuration, loading it on first
// use. Load failures fall back to defaults with a warning; a broken
// config file should not make the client unusable.
func Global() *Config {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfig = cfg
	}
	return globalConfig
}

// SetGlobal replaces the global configuration. Used in tests.
func SetGlobal(cfg *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = cfg
}
