// Package hackernews collects stories from the public Hacker News API.
// Docs: https://github.com/HackerNews/API
package hackernews

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"insightpress/internal/model"
)

// SourceName is the value stamped into NewsItem.Source for every story
// collected here. The ranking engine's trusted tier keys off it.
const SourceName = "HackerNews"

// Client is a minimal Hacker News API client.
type Client struct {
	baseAPI string
	list    string // topstories, beststories, newstories
	limit   int
	client  *http.Client
}

// NewClient creates a Hacker News collector. baseAPI defaults to the v0
// endpoint when empty; list defaults to beststories.
func NewClient(baseAPI, list string, limit int) *Client {
	if strings.TrimSpace(baseAPI) == "" {
		baseAPI = "https://hacker-news.firebaseio.com/v0"
	}
	if strings.TrimSpace(list) == "" {
		list = "beststories"
	}
	if limit <= 0 {
		limit = 50
	}
	return &Client{
		baseAPI: strings.TrimRight(baseAPI, "/"),
		list:    list,
		limit:   limit,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// hnItem mirrors the subset of HN item fields we care about.
type hnItem struct {
	ID    int    `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Time  int64  `json:"time"`
	Score int    `json:"score"`
}

// Name identifies this collector in logs and reports.
func (c *Client) Name() string { return SourceName }

// Collect fetches the configured story list and resolves each ID into a
// NewsItem. Stories without an external URL (Ask HN, text posts) are
// dropped; individual fetch failures are skipped, not fatal.
func (c *Client) Collect(ctx context.Context) ([]model.NewsItem, error) {
	ids, err := c.fetchIDs(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) > c.limit {
		ids = ids[:c.limit]
	}
	slog.Info("hackernews: fetching items", "list", c.list, "count", len(ids))
	return c.itemsByIDs(ctx, ids)
}

func (c *Client) fetchIDs(ctx context.Context) ([]int, error) {
	path := fmt.Sprintf("%s/%s.json", c.baseAPI, url.PathEscape(c.list))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("hackernews: %s status %d", c.list, resp.StatusCode)
	}
	var ids []int
	if err := json.NewDecoder(resp.Body).Decode(&ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (c *Client) fetchItem(ctx context.Context, id int) (hnItem, error) {
	var it hnItem
	endpoint := fmt.Sprintf("%s/item/%d.json", c.baseAPI, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return it, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return it, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return it, fmt.Errorf("hackernews: item %d status %d", id, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&it); err != nil {
		return it, err
	}
	return it, nil
}

// itemsByIDs resolves multiple IDs concurrently while preserving list order.
func (c *Client) itemsByIDs(ctx context.Context, ids []int) ([]model.NewsItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const maxWorkers = 8
	type result struct {
		idx  int
		item model.NewsItem
		ok   bool
	}
	out := make([]result, len(ids))
	sem := make(chan struct{}, maxWorkers)
	done := make(chan result, len(ids))
	for i, id := range ids {
		i, id := i, id
		sem <- struct{}{}
		go func() {
			defer func() { <-sem }()
			// Per-item timeout to avoid one slow story hanging the run.
			ictx, cancel := context.WithTimeout(ctx, 8*time.Second)
			defer cancel()
			raw, err := c.fetchItem(ictx, id)
			if err != nil {
				slog.Debug("hackernews: item fetch failed", "id", id, "err", err)
				done <- result{idx: i}
				return
			}
			item, ok := convertItem(raw)
			done <- result{idx: i, item: item, ok: ok}
		}()
	}
	for range ids {
		r := <-done
		out[r.idx] = r
	}
	items := make([]model.NewsItem, 0, len(ids))
	for _, r := range out {
		if r.ok {
			items = append(items, r.item)
		}
	}
	slog.Info("hackernews: collected", "count", len(items))
	return items, nil
}

// convertItem maps an hnItem to our NewsItem model. Only stories with an
// external URL survive.
func convertItem(h hnItem) (model.NewsItem, bool) {
	if strings.TrimSpace(h.URL) == "" || strings.TrimSpace(h.Title) == "" {
		return model.NewsItem{}, false
	}
	return model.NewsItem{
		ID:          fmt.Sprintf("hn_%d", h.ID),
		Title:       h.Title,
		URL:         h.URL,
		Source:      SourceName,
		PublishedAt: time.Unix(h.Time, 0).UTC(),
		RawScore:    float64(h.Score),
	}, true
}
