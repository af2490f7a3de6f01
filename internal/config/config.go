package config

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

// RedisConfig holds redis connection settings. When Addr is empty the
// used-item tracker falls back to its file backend.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// HackerNewsConfig controls the Hacker News collector.
type HackerNewsConfig struct {
	BaseAPI    string `mapstructure:"base_api"`
	List       string `mapstructure:"list"` // topstories|beststories|newstories
	MaxStories int    `mapstructure:"max_stories"`
}

// RSSConfig controls the RSS collector.
type RSSConfig struct {
	FeedsFile string `mapstructure:"feeds_file"`
}

// DataSources groups available collectors.
type DataSources struct {
	HackerNews HackerNewsConfig `mapstructure:"hackernews"`
	RSS        RSSConfig        `mapstructure:"rss"`
}

// RankingConfig carries every tunable of the ranking and confidence stages.
// Keyword lists are data, not code: they can be overridden wholesale from
// config.yaml.
type RankingConfig struct {
	Topics           []string `mapstructure:"topics"`
	RecencyHours     float64  `mapstructure:"recency_hours"`
	TrustedWeight    float64  `mapstructure:"trusted_weight"`
	DefaultWeight    float64  `mapstructure:"default_weight"`
	TitleThreshold   float64  `mapstructure:"title_similarity_threshold"`
	OffBrandKeywords []string `mapstructure:"off_brand_keywords"`
	HardTechKeywords []string `mapstructure:"hard_tech_keywords"`
}

// DraftingConfig controls draft composition.
type DraftingConfig struct {
	Count        int    `mapstructure:"count"`
	MaxItems     int    `mapstructure:"max_items"`
	CharLimit    int    `mapstructure:"char_limit"`
	HashtagsMax  int    `mapstructure:"hashtags_max"`
	HashtagsFile string `mapstructure:"hashtags_file"`
}

// LLMConfig selects and tunes the optional drafting provider. API keys are
// bound from the environment, never written to config.yaml.
type LLMConfig struct {
	Provider        string  `mapstructure:"provider"` // openai|anthropic|gemini|none
	Model           string  `mapstructure:"model"`
	Temperature     float32 `mapstructure:"temperature"`
	TimeoutSecs     int     `mapstructure:"timeout_secs"`
	MaxRetries      int     `mapstructure:"max_retries"`
	OpenAIAPIKey    string  `mapstructure:"openai_api_key"`
	AnthropicAPIKey string  `mapstructure:"anthropic_api_key"`
	GeminiAPIKey    string  `mapstructure:"gemini_api_key"`
}

// StorageConfig holds file locations for the item cache, used-item tracking
// and report output.
type StorageConfig struct {
	CacheDir          string `mapstructure:"cache_dir"`
	OutputDir         string `mapstructure:"output_dir"`
	UsedRetentionDays int    `mapstructure:"used_retention_days"`
}

// ServeConfig controls the long-running worker mode.
type ServeConfig struct {
	Interval string `mapstructure:"interval"` // duration string, e.g. "6h"
}

// Config is the top-level configuration structure.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Sources  DataSources    `mapstructure:"sources"`
	Ranking  RankingConfig  `mapstructure:"ranking"`
	Drafting DraftingConfig `mapstructure:"drafting"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Serve    ServeConfig    `mapstructure:"serve"`
}

// FillDefaults applies default values if not provided.
func (c *Config) FillDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Sources.HackerNews.BaseAPI == "" {
		c.Sources.HackerNews.BaseAPI = "https://hacker-news.firebaseio.com/v0"
	}
	if c.Sources.HackerNews.List == "" {
		c.Sources.HackerNews.List = "beststories"
	}
	if c.Sources.HackerNews.MaxStories == 0 {
		c.Sources.HackerNews.MaxStories = 50
	}
	if c.Sources.RSS.FeedsFile == "" {
		c.Sources.RSS.FeedsFile = "config/feeds.yaml"
	}
	if len(c.Ranking.Topics) == 0 {
		c.Ranking.Topics = []string{
			"ai", "llm", "kubernetes", "devops", "security",
			"mlops", "rust", "python", "aws", "observability",
		}
	}
	if c.Ranking.RecencyHours == 0 {
		c.Ranking.RecencyHours = 72
	}
	if c.Ranking.TrustedWeight == 0 {
		c.Ranking.TrustedWeight = 1.0
	}
	if c.Ranking.DefaultWeight == 0 {
		c.Ranking.DefaultWeight = 0.8
	}
	if c.Ranking.TitleThreshold == 0 {
		c.Ranking.TitleThreshold = 0.85
	}
	if len(c.Ranking.OffBrandKeywords) == 0 {
		c.Ranking.OffBrandKeywords = []string{
			// human interest
			"died", "death", "funeral", "obituary",
			// politics
			"election", "vote", "congress", "senate",
			// healthcare, unless tech-related
			"health", "medical", "doctor", "patient",
			// entertainment
			"entertainment", "movie", "film", "tv show",
			// sports
			"sports", "game", "player", "coach",
			// miscellaneous noisy terms
			"lobster lady", "miles", "email",
		}
	}
	if len(c.Ranking.HardTechKeywords) == 0 {
		c.Ranking.HardTechKeywords = []string{
			"security", "kubernetes", "ai", "ml", "devops", "cloud",
		}
	}
	if c.Drafting.Count == 0 {
		c.Drafting.Count = 4
	}
	if c.Drafting.MaxItems == 0 {
		c.Drafting.MaxItems = 30
	}
	if c.Drafting.CharLimit == 0 {
		c.Drafting.CharLimit = 260
	}
	if c.Drafting.HashtagsMax == 0 {
		c.Drafting.HashtagsMax = 3
	}
	if c.Drafting.HashtagsFile == "" {
		c.Drafting.HashtagsFile = "config/hashtags.yaml"
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "none"
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.2
	}
	if c.LLM.TimeoutSecs == 0 {
		c.LLM.TimeoutSecs = 20
	}
	if c.LLM.MaxRetries == 0 {
		c.LLM.MaxRetries = 2
	}
	if c.Storage.CacheDir == "" {
		c.Storage.CacheDir = "cache"
	}
	if c.Storage.OutputDir == "" {
		c.Storage.OutputDir = "output"
	}
	if c.Storage.UsedRetentionDays == 0 {
		c.Storage.UsedRetentionDays = 7
	}
	if c.Serve.Interval == "" {
		c.Serve.Interval = "6h"
	}
}

// APIKeyFor returns the configured key for a provider name.
func (c *Config) APIKeyFor(provider string) string {
	switch provider {
	case "openai":
		return c.LLM.OpenAIAPIKey
	case "anthropic":
		return c.LLM.AnthropicAPIKey
	case "gemini":
		return c.LLM.GeminiAPIKey
	default:
		return ""
	}
}
