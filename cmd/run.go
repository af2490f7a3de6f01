package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"insightpress/internal/cache"
	"insightpress/internal/config"
	"insightpress/internal/draft"
	"insightpress/internal/hackernews"
	"insightpress/internal/hashtag"
	"insightpress/internal/llm"
	"insightpress/internal/pipeline"
	"insightpress/internal/rank"
	"insightpress/internal/redisclient"
	"insightpress/internal/rss"
	"insightpress/internal/usedstore"

	"github.com/spf13/cobra"
)

var (
	runDrafts      int
	runMaxItems    int
	runRefresh     bool
	runTopics      []string
	runOutput      string
	runLLMProvider string
	runLLMModel    string
	runNoLLM       bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one drafting pass and write the report",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		applyRunOverrides(&cfg)

		p, closer, err := buildPipeline(cfg, runRefresh, runOutput)
		if err != nil {
			return err
		}
		defer closer()

		path, err := p.Run(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	runCmd.Flags().IntVar(&runDrafts, "drafts", 0, "number of drafts to generate")
	runCmd.Flags().IntVar(&runMaxItems, "max-items", 0, "max candidates to keep after ranking")
	runCmd.Flags().BoolVar(&runRefresh, "refresh", false, "ignore cached items and fetch fresh")
	runCmd.Flags().StringSliceVar(&runTopics, "topics", nil, "override topic list")
	runCmd.Flags().StringVar(&runOutput, "output", "", "write the report to this path")
	runCmd.Flags().StringVar(&runLLMProvider, "llm-provider", "", "LLM provider (openai|anthropic|gemini|none)")
	runCmd.Flags().StringVar(&runLLMModel, "llm-model", "", "LLM model override")
	runCmd.Flags().BoolVar(&runNoLLM, "no-llm", false, "force template-based drafting")
	rootCmd.AddCommand(runCmd)
}

func applyRunOverrides(cfg *config.Config) {
	if runDrafts > 0 {
		cfg.Drafting.Count = runDrafts
	}
	if runMaxItems > 0 {
		cfg.Drafting.MaxItems = runMaxItems
	}
	if len(runTopics) > 0 {
		cfg.Ranking.Topics = runTopics
	}
	if runLLMProvider != "" {
		cfg.LLM.Provider = runLLMProvider
	}
	if runLLMModel != "" {
		cfg.LLM.Model = runLLMModel
	}
	if runNoLLM {
		cfg.LLM.Provider = "none"
	}
}

// buildPipeline assembles the full pipeline from configuration. The returned
// closer releases the used-item store.
func buildPipeline(cfg config.Config, refresh bool, outputPath string) (*pipeline.Pipeline, func(), error) {
	var fetchers []pipeline.Fetcher
	fetchers = append(fetchers, hackernews.NewClient(
		cfg.Sources.HackerNews.BaseAPI,
		cfg.Sources.HackerNews.List,
		cfg.Sources.HackerNews.MaxStories,
	))

	feeds, err := rss.LoadFeeds(cfg.Sources.RSS.FeedsFile)
	if err != nil {
		slog.Warn("rss feeds file not loaded, skipping RSS source", "path", cfg.Sources.RSS.FeedsFile, "err", err)
	} else if len(feeds) > 0 {
		fetchers = append(fetchers, rss.NewCollector(feeds, cfg.Ranking.DefaultWeight))
	}

	mgr, err := cache.NewManager(cfg.Storage.CacheDir)
	if err != nil {
		return nil, nil, err
	}

	used, err := buildUsedStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	engine := rank.NewEngine(rank.Config{
		RecencyHours:        cfg.Ranking.RecencyHours,
		TrustedSourceWeight: cfg.Ranking.TrustedWeight,
		DefaultSourceWeight: cfg.Ranking.DefaultWeight,
		Topics:              cfg.Ranking.Topics,
		OffBrandKeywords:    cfg.Ranking.OffBrandKeywords,
		HardTechKeywords:    cfg.Ranking.HardTechKeywords,
	})

	llmClient, err := llm.New(llm.Options{
		Provider:    cfg.LLM.Provider,
		APIKey:      cfg.APIKeyFor(cfg.LLM.Provider),
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     time.Duration(cfg.LLM.TimeoutSecs) * time.Second,
		MaxRetries:  cfg.LLM.MaxRetries,
	})
	if err != nil {
		used.Close()
		return nil, nil, err
	}

	composer := draft.NewComposer(draft.Options{
		CharLimit: cfg.Drafting.CharLimit,
		Topics:    engine.Topics(),
		Hashtags:  hashtag.NewMapper(cfg.Drafting.HashtagsFile),
		LLM:       llmClient,
		Provider:  cfg.LLM.Provider,
	})

	p := pipeline.New(pipeline.Options{
		Fetchers: fetchers,
		Cache:    mgr,
		Used:     used,
		Engine:   engine,
		Composer: composer,

		TitleThreshold: cfg.Ranking.TitleThreshold,
		DraftCount:     cfg.Drafting.Count,
		MaxItems:       cfg.Drafting.MaxItems,
		OutputDir:      cfg.Storage.OutputDir,
		OutputPath:     outputPath,
		Refresh:        refresh,
	})

	return p, func() { used.Close() }, nil
}

// buildUsedStore picks the Redis tracker when an address is configured and
// the file tracker otherwise.
func buildUsedStore(cfg config.Config) (usedstore.Store, error) {
	retention := time.Duration(cfg.Storage.UsedRetentionDays) * 24 * time.Hour
	if cfg.Redis.Addr != "" {
		rdb := redisclient.New(cfg.Redis)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			slog.Warn("redis unreachable, using file-based used tracking", "addr", cfg.Redis.Addr, "err", err)
			rdb.Close()
			return usedstore.NewFileStore(cfg.Storage.CacheDir, retention)
		}
		return usedstore.NewRedisStore(rdb, retention), nil
	}
	return usedstore.NewFileStore(cfg.Storage.CacheDir, retention)
}
