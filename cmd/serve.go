package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"insightpress/worker"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the drafting pipeline on an interval",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		interval, err := time.ParseDuration(cfg.Serve.Interval)
		if err != nil {
			return fmt.Errorf("invalid serve interval %q: %w", cfg.Serve.Interval, err)
		}

		// Serve mode always fetches fresh items on each tick.
		p, closer, err := buildPipeline(cfg, true, "")
		if err != nil {
			return err
		}
		defer closer()

		runner := &worker.PipelineRunner{Pipeline: p, Interval: interval}
		mgr := worker.NewManager(runner)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Signal handling for systemd
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			s := <-sigc
			log.Printf("received signal: %s, shutting down", s)
			cancel()
		}()

		return mgr.Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
