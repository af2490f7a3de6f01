package cmd

import (
	"fmt"
	"time"

	"insightpress/internal/cache"

	"github.com/spf13/cobra"
)

// cacheCmd groups item-cache subcommands.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Item cache utilities",
}

var cacheDate string

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the cached items for a date (default today)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		mgr, err := cache.NewManager(cfg.Storage.CacheDir)
		if err != nil {
			return err
		}
		date := cacheDate
		if date == "" {
			date = time.Now().UTC().Format("2006-01-02")
		}
		if err := mgr.Clear(date); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", mgr.Path(date))
		return nil
	},
}

var cachePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the cache file path for a date (default today)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		mgr, err := cache.NewManager(cfg.Storage.CacheDir)
		if err != nil {
			return err
		}
		date := cacheDate
		if date == "" {
			date = time.Now().UTC().Format("2006-01-02")
		}
		fmt.Fprintln(cmd.OutOrStdout(), mgr.Path(date))
		return nil
	},
}

func init() {
	cacheCmd.PersistentFlags().StringVar(&cacheDate, "date", "", "date in YYYY-MM-DD form")
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cachePathCmd)
	rootCmd.AddCommand(cacheCmd)
}
