// Package cmd wires the CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mocbot/sounddash/internal/api"
	"github.com/mocbot/sounddash/internal/config"
	"github.com/mocbot/sounddash/internal/log"
	"github.com/mocbot/sounddash/internal/player"
	"github.com/mocbot/sounddash/internal/sounds"
	"github.com/mocbot/sounddash/internal/telemetry"
	"github.com/mocbot/sounddash/internal/ui/dashboard"
	"github.com/mocbot/sounddash/internal/ui/styles"
	"github.com/mocbot/sounddash/internal/ui/toasts"
)

var (
	cfg        config.Config
	configPath string
	logLevel   string
	traceFile  string
)

var rootCmd = &cobra.Command{
	Use:   "sounddash",
	Short: "Dashboard for Discord join sounds",
	Long: `sounddash manages the join sounds played when you enter a voice channel:
upload new sounds, pick the active one, preview them locally and switch
between single and random playback modes.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runDashboard,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default "+config.DefaultConfigPath()+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&traceFile, "trace", "", "write API traces to this file")
}

// setup loads configuration and initialises logging for every command.
func setup(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}

	var err error
	cfg, err = config.Load(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := log.Init(cfg.Log.Path, cfg.Log.Level); err != nil {
		return fmt.Errorf("initialising logging: %w", err)
	}
	return nil
}

// newClient builds the API client from the loaded configuration.
func newClient() (*api.Client, error) {
	token, err := cfg.BearerToken()
	if err != nil {
		return nil, fmt.Errorf("resolving API token: %w", err)
	}
	session := api.Session{
		GuildID: cfg.API.GuildID,
		UserID:  cfg.API.UserID,
		Token:   token,
	}
	return api.NewClient(cfg.API.BaseURL, session, cfg.API.Timeout), nil
}

func runDashboard(cmd *cobra.Command, args []string) error {
	defer log.Close()

	if traceFile != "" {
		shutdown, err := telemetry.Setup(traceFile)
		if err != nil {
			return fmt.Errorf("setting up tracing: %w", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				log.ErrorErr(log.CatAPI, "trace shutdown failed", err)
			}
		}()
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	styles.ApplyThemeMode(cfg.Theme.Mode)

	queue := toasts.NewQueue()
	ctl := player.New(client, player.NewBeepEngine(), queue)
	manager := sounds.NewManager(client, queue, ctl)
	model := dashboard.New(manager, ctl, queue, &cfg)

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.MouseEnabled {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(model, opts...)

	watchPath := configPath
	if watchPath == "" {
		watchPath = config.DefaultConfigPath()
	}
	watcher, err := config.Watch(watchPath, func(next config.Config) {
		cfg = next
		p.Send(dashboard.ConfigReloaded(&next))
	})
	if err != nil {
		log.ErrorErr(log.CatConfig, "config watch unavailable", err)
	} else {
		defer watcher.Close()
	}

	log.Info(log.CatUI, "starting dashboard",
		"base_url", cfg.API.BaseURL,
		"guild_id", cfg.API.GuildID,
		"user_id", cfg.API.UserID,
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running dashboard: %w", err)
	}
	return nil
}
