package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mocbot/sounddash/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long:  `Create a commented config file with default values. Existing files are never overwritten.`,
	// The default PersistentPreRunE would fail before a config file exists.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE:              runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}

	if err := config.WriteDefaultConfig(path); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Wrote %s\n", path)
	fmt.Println("Fill in api.base_url, api.guild_id, api.user_id and a token before running sounddash.")
	return nil
}
