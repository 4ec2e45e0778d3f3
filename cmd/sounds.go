package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mocbot/sounddash/internal/log"
)

var soundsCmd = &cobra.Command{
	Use:   "sounds",
	Short: "List join sounds without starting the dashboard",
	RunE:  runSounds,
}

func init() {
	rootCmd.AddCommand(soundsCmd)
}

func runSounds(cmd *cobra.Command, args []string) error {
	defer log.Close()

	client, err := newClient()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	list, err := client.ListSounds(ctx)
	if err != nil {
		return fmt.Errorf("listing sounds: %w", err)
	}
	settings, err := client.GetSettings(ctx)
	if err != nil {
		return fmt.Errorf("fetching settings: %w", err)
	}

	sort.Slice(list, func(i, j int) bool {
		a, b := strings.ToLower(list[i].OriginalName), strings.ToLower(list[j].OriginalName)
		if a != b {
			return a < b
		}
		return list[i].OriginalName < list[j].OriginalName
	})

	fmt.Printf("Mode: %s\n\n", settings.Mode)
	if len(list) == 0 {
		fmt.Println("No join sounds uploaded yet.")
		return nil
	}

	maxLen := 0
	for _, s := range list {
		if len(s.OriginalName) > maxLen {
			maxLen = len(s.OriginalName)
		}
	}

	for _, s := range list {
		marker := " "
		if settings.ActiveSoundID != nil && *settings.ActiveSoundID == s.ID {
			marker = "*"
		}
		fmt.Printf("%s %-*s  %s\n", marker, maxLen, s.OriginalName, s.ID)
	}
	return nil
}
