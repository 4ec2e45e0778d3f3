// Package config provides configuration types and defaults for sounddash.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultMaxFileSize is the per-file upload ceiling (10 MiB).
const DefaultMaxFileSize = 10 * 1024 * 1024

// DefaultMaxSounds is the default cap on sounds per user.
const DefaultMaxSounds = 20

// APIConfig holds connection details for the join-sound API.
type APIConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	GuildID   string        `mapstructure:"guild_id"`
	UserID    string        `mapstructure:"user_id"`
	Token     string        `mapstructure:"token"`
	TokenFile string        `mapstructure:"token_file"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// UploadConfig holds client-side upload limits. These are enforced before a
// request is made; the server applies its own limits as well.
type UploadConfig struct {
	MaxFileSize int64 `mapstructure:"max_file_size"`
	MaxSounds   int   `mapstructure:"max_sounds"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	ShowStatusBar bool          `mapstructure:"show_status_bar"`
	MouseEnabled  bool          `mapstructure:"mouse_enabled"`
	ToastDuration time.Duration `mapstructure:"toast_duration"`
}

// ThemeConfig holds theme customization options.
type ThemeConfig struct {
	// Mode forces light or dark mode. If empty, uses terminal detection.
	// Valid values: "light", "dark", ""
	Mode string `mapstructure:"mode"`
}

// LogConfig holds logging options.
type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

// Config holds all configuration options for sounddash.
type Config struct {
	API    APIConfig    `mapstructure:"api"`
	Upload UploadConfig `mapstructure:"upload"`
	UI     UIConfig     `mapstructure:"ui"`
	Theme  ThemeConfig  `mapstructure:"theme"`
	Log    LogConfig    `mapstructure:"log"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		API: APIConfig{
			Timeout: 30 * time.Second,
		},
		Upload: UploadConfig{
			MaxFileSize: DefaultMaxFileSize,
			MaxSounds:   DefaultMaxSounds,
		},
		UI: UIConfig{
			ShowStatusBar: true,
			MouseEnabled:  true,
			ToastDuration: 5 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks the configuration for errors that would prevent the
// dashboard from talking to the API.
func (c Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url %q is not a valid URL", c.API.BaseURL)
	}
	if c.API.GuildID == "" {
		return fmt.Errorf("api.guild_id is required")
	}
	if c.API.UserID == "" {
		return fmt.Errorf("api.user_id is required")
	}
	if c.Upload.MaxFileSize <= 0 {
		return fmt.Errorf("upload.max_file_size must be positive")
	}
	if c.Upload.MaxSounds <= 0 {
		return fmt.Errorf("upload.max_sounds must be positive")
	}
	switch c.Theme.Mode {
	case "", "light", "dark":
	default:
		return fmt.Errorf("theme.mode %q is not valid (use \"light\", \"dark\" or leave empty)", c.Theme.Mode)
	}
	return nil
}

// BearerToken resolves the API credential: an inline token wins, otherwise
// token_file is read. Returns empty string when neither is configured;
// unauthenticated sessions can still list and preview sounds.
func (c Config) BearerToken() (string, error) {
	if c.API.Token != "" {
		return c.API.Token, nil
	}
	if c.API.TokenFile == "" {
		return "", nil
	}
	data, err := os.ReadFile(c.API.TokenFile) //nolint:gosec // G304: path comes from user config
	if err != nil {
		return "", fmt.Errorf("reading token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Sounddash Configuration

# Join-sound API connection
api:
  # Base URL of the join-sound API (required)
  base_url: https://sounds.example.com/api
  # Discord guild the sounds belong to (required)
  guild_id: ""
  # Your Discord user id (required)
  user_id: ""
  # Bearer token for mutating calls. Either inline or via token_file.
  # token: ""
  # token_file: ~/.config/sounddash/token
  # HTTP timeout for individual requests
  timeout: 30s

# Client-side upload limits
upload:
  max_file_size: 10485760  # 10 MiB per file
  max_sounds: 20           # cap on sounds per user

# UI settings
ui:
  show_status_bar: true  # Show status bar at bottom
  mouse_enabled: true    # Click a sound row to preview it
  toast_duration: 5s     # How long notifications stay visible

# Theme configuration
theme:
  # Force light or dark mode; empty uses terminal detection
  # mode: dark

# Logging (the TUI owns the terminal, so logs go to a file)
log:
  # path: ~/.local/state/sounddash/sounddash.log
  level: info
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist. Refuses to overwrite an
// existing file.
func WriteDefaultConfig(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists at %s", configPath)
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// DefaultConfigPath returns the conventional config file location.
func DefaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "sounddash.yaml")
	}
	return filepath.Join(base, "sounddash", "config.yaml")
}
