// Package rss collects items from configured RSS/Atom feeds.
package rss

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"gopkg.in/yaml.v3"

	"insightpress/internal/model"
)

// summary text is bounded so downstream matching and prompts stay cheap
const maxSummaryRunes = 500

// Feed is one entry in feeds.yaml.
type Feed struct {
	Name   string  `yaml:"name"`
	URL    string  `yaml:"url"`
	Weight float64 `yaml:"weight"`
}

type feedsFile struct {
	Feeds []Feed `yaml:"feeds"`
}

// LoadFeeds reads the feed list from a YAML file.
func LoadFeeds(path string) ([]Feed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("rss: open feeds config: %w", err)
	}
	defer f.Close()

	var cfg feedsFile
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("rss: parse feeds config: %w", err)
	}
	return cfg.Feeds, nil
}

// Collector fetches all configured feeds.
type Collector struct {
	feeds         []Feed
	defaultWeight float64
	parser        *gofeed.Parser
	now           func() time.Time
}

// NewCollector builds a collector. defaultWeight is used for feeds that do
// not declare their own weight.
func NewCollector(feeds []Feed, defaultWeight float64) *Collector {
	return &Collector{
		feeds:         feeds,
		defaultWeight: defaultWeight,
		parser:        gofeed.NewParser(),
		now:           time.Now,
	}
}

// Name identifies this collector in logs and reports.
func (c *Collector) Name() string { return "RSS" }

// Collect fetches every feed, converting entries to NewsItems. A failing
// feed is logged and skipped; it never fails the whole collection.
func (c *Collector) Collect(ctx context.Context) ([]model.NewsItem, error) {
	if len(c.feeds) == 0 {
		slog.Warn("rss: no feeds configured")
		return nil, nil
	}
	slog.Info("rss: fetching feeds", "count", len(c.feeds))

	var all []model.NewsItem
	okCount := 0
	for _, fc := range c.feeds {
		if strings.TrimSpace(fc.URL) == "" {
			slog.Warn("rss: feed config missing URL", "name", fc.Name)
			continue
		}
		feed, err := c.parser.ParseURLWithContext(fc.URL, ctx)
		if err != nil {
			slog.Warn("rss: feed fetch failed", "name", fc.Name, "err", err)
			continue
		}
		name := fc.Name
		if name == "" {
			name = fc.URL
		}
		weight := fc.Weight
		if weight == 0 {
			weight = c.defaultWeight
		}
		count := 0
		for _, entry := range feed.Items {
			if item, ok := c.convertEntry(entry, name, weight); ok {
				all = append(all, item)
				count++
			}
		}
		okCount++
		slog.Debug("rss: fetched feed", "name", name, "items", count)
	}
	slog.Info("rss: collected", "items", len(all), "feeds_ok", okCount, "feeds_total", len(c.feeds))
	return all, nil
}

// convertEntry maps one feed entry to a NewsItem. Entries without a link are
// dropped; a missing publication date defaults to collection time.
func (c *Collector) convertEntry(entry *gofeed.Item, feedName string, weight float64) (model.NewsItem, bool) {
	if entry == nil || strings.TrimSpace(entry.Link) == "" {
		return model.NewsItem{}, false
	}
	title := entry.Title
	if strings.TrimSpace(title) == "" {
		title = "Untitled"
	}

	publishedAt := c.now().UTC()
	if entry.PublishedParsed != nil {
		publishedAt = entry.PublishedParsed.UTC()
	} else if entry.UpdatedParsed != nil {
		publishedAt = entry.UpdatedParsed.UTC()
	}

	summary := entry.Description
	if summary == "" {
		summary = entry.Content
	}
	summary = truncateRunes(stripHTML(summary), maxSummaryRunes)

	return model.NewsItem{
		ID:          feedItemID(entry.Link),
		Title:       title,
		URL:         entry.Link,
		Source:      feedName,
		PublishedAt: publishedAt,
		Summary:     summary,
		RawScore:    weight,
	}, true
}

// stripHTML flattens feed-provided HTML into plain text.
func stripHTML(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func feedItemID(link string) string {
	h := fnv.New64a()
	h.Write([]byte(link))
	return fmt.Sprintf("rss_%x", h.Sum64())
}
