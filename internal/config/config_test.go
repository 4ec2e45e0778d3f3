package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	cfg := Defaults()
	cfg.API.BaseURL = "https://sounds.example.com/api"
	cfg.API.GuildID = "guild-1"
	cfg.API.UserID = "user-1"
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, int64(10*1024*1024), cfg.Upload.MaxFileSize)
	assert.Equal(t, 20, cfg.Upload.MaxSounds)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.True(t, cfg.UI.ShowStatusBar)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing base url", func(c *Config) { c.API.BaseURL = "" }, "api.base_url is required"},
		{"malformed base url", func(c *Config) { c.API.BaseURL = "not a url" }, "not a valid URL"},
		{"missing guild", func(c *Config) { c.API.GuildID = "" }, "api.guild_id is required"},
		{"missing user", func(c *Config) { c.API.UserID = "" }, "api.user_id is required"},
		{"zero file size", func(c *Config) { c.Upload.MaxFileSize = 0 }, "max_file_size must be positive"},
		{"zero max sounds", func(c *Config) { c.Upload.MaxSounds = 0 }, "max_sounds must be positive"},
		{"bad theme mode", func(c *Config) { c.Theme.Mode = "solarized" }, "theme.mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	t.Run("inline token wins", func(t *testing.T) {
		cfg := validConfig()
		cfg.API.Token = "inline"
		cfg.API.TokenFile = "/nonexistent"
		token, err := cfg.BearerToken()
		require.NoError(t, err)
		assert.Equal(t, "inline", token)
	})

	t.Run("token file trimmed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "token")
		require.NoError(t, os.WriteFile(path, []byte("  secret\n"), 0600))

		cfg := validConfig()
		cfg.API.TokenFile = path
		token, err := cfg.BearerToken()
		require.NoError(t, err)
		assert.Equal(t, "secret", token)
	})

	t.Run("no credential configured", func(t *testing.T) {
		cfg := validConfig()
		token, err := cfg.BearerToken()
		require.NoError(t, err)
		assert.Empty(t, token)
	})

	t.Run("missing token file errors", func(t *testing.T) {
		cfg := validConfig()
		cfg.API.TokenFile = filepath.Join(t.TempDir(), "missing")
		_, err := cfg.BearerToken()
		require.Error(t, err)
	})
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults().Upload, cfg.Upload)
}

func TestLoad_ReadsFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
api:
  base_url: https://sounds.example.com/api
  guild_id: g1
  user_id: u1
upload:
  max_sounds: 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://sounds.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, 5, cfg.Upload.MaxSounds)
	// Unset keys keep their defaults.
	assert.Equal(t, int64(DefaultMaxFileSize), cfg.Upload.MaxFileSize)
	assert.NoError(t, cfg.Validate())
}

func TestWriteDefaultConfig_TemplateIsLoadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://sounds.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, int64(DefaultMaxFileSize), cfg.Upload.MaxFileSize)
}

func TestWatch_DeliversReloadedConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("upload:\n  max_sounds: 3\n"), 0600))

	changed := make(chan Config, 1)
	w, err := Watch(path, func(cfg Config) {
		select {
		case changed <- cfg:
		default:
		}
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	// Invalid reloads are skipped, so write a config that validates.
	update := `
api:
  base_url: https://sounds.example.com/api
  guild_id: g1
  user_id: u1
upload:
  max_sounds: 7
`
	require.NoError(t, os.WriteFile(path, []byte(update), 0600))

	select {
	case cfg := <-changed:
		assert.Equal(t, 7, cfg.Upload.MaxSounds)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
}
