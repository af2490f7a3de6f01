package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// usedCmd groups used-item tracker subcommands.
var usedCmd = &cobra.Command{
	Use:   "used",
	Short: "Used-item tracker utilities",
}

var usedStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print how many URLs are marked as used",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		store, err := buildUsedStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.Count(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "used urls: %d\n", n)
		return nil
	},
}

var usedClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget every used URL",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		store, err := buildUsedStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "cleared")
		return nil
	},
}

func init() {
	usedCmd.AddCommand(usedStatsCmd)
	usedCmd.AddCommand(usedClearCmd)
	rootCmd.AddCommand(usedCmd)
}
