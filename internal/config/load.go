package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from the given file path (or the default location
// when empty), layered over Defaults() with SOUNDDASH_* environment overrides.
// A missing config file is not an error; the defaults plus environment apply.
func Load(configPath string) (Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(DefaultConfigPath())
	}

	v.SetEnvPrefix("SOUNDDASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := Defaults()
	setDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// setDefaults registers the default values so env-only setups still resolve
// every key through viper.
func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("api.timeout", cfg.API.Timeout)
	v.SetDefault("upload.max_file_size", cfg.Upload.MaxFileSize)
	v.SetDefault("upload.max_sounds", cfg.Upload.MaxSounds)
	v.SetDefault("ui.show_status_bar", cfg.UI.ShowStatusBar)
	v.SetDefault("ui.mouse_enabled", cfg.UI.MouseEnabled)
	v.SetDefault("ui.toast_duration", cfg.UI.ToastDuration)
	v.SetDefault("log.level", cfg.Log.Level)
}
