// Package pipeline orchestrates one end-to-end run: collect, dedupe, rank,
// draft, report. Collaborators come in through small interfaces so tests can
// run the whole pipeline without the network.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"insightpress/internal/cache"
	"insightpress/internal/dedup"
	"insightpress/internal/draft"
	"insightpress/internal/model"
	"insightpress/internal/rank"
	"insightpress/internal/report"
	"insightpress/internal/usedstore"
)

// ErrNoItems is returned when every source comes back empty; a report with
// zero inputs is never written.
var ErrNoItems = errors.New("pipeline: no items available")

// Fetcher is a news source the pipeline pulls from.
type Fetcher interface {
	Name() string
	Collect(ctx context.Context) ([]model.NewsItem, error)
}

// Options wires a Pipeline. Cache, Used and LLM-related fields are optional;
// everything else is required.
type Options struct {
	Fetchers []Fetcher
	Cache    *cache.Manager
	Used     usedstore.Store
	Engine   *rank.Engine
	Composer *draft.Composer

	TitleThreshold float64
	DraftCount     int
	MaxItems       int
	OutputDir      string
	OutputPath     string // overrides OutputDir when set
	Refresh        bool   // skip the cache and force a fetch

	Now func() time.Time
}

type Pipeline struct {
	opts Options
	now  func() time.Time
}

func New(opts Options) *Pipeline {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	if opts.TitleThreshold <= 0 {
		opts.TitleThreshold = dedup.DefaultTitleThreshold
	}
	return &Pipeline{opts: opts, now: now}
}

// Run executes one full pass and returns the path of the written report.
func (p *Pipeline) Run(ctx context.Context) (string, error) {
	start := p.now().UTC()
	date := start.Format("2006-01-02")
	slog.Info("pipeline: starting run", "date", date)

	items, err := p.loadOrFetch(ctx, date)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "", ErrNoItems
	}
	totalFetched := len(items)
	slog.Info("pipeline: items collected", "total", totalFetched)

	items = p.filterUsed(ctx, items)

	unique, skipped := dedup.Deduplicate(items, p.opts.TitleThreshold)
	slog.Info("pipeline: after deduplication", "unique", len(unique), "skipped", len(skipped))

	ranked := p.opts.Engine.Rank(unique, start)
	slog.Info("pipeline: ranked", "count", len(ranked))

	// Draft from a wider pool than requested so over-limit and repeated
	// items still leave enough material.
	pool := p.opts.DraftCount * 3
	if pool > len(ranked) {
		pool = len(ranked)
	}
	drafts := p.opts.Composer.Generate(ctx, ranked[:pool], p.opts.DraftCount)

	candidates := p.selectCandidates(ranked, pool)
	slog.Info("pipeline: high-confidence candidates", "count", len(candidates))

	r := model.Report{
		Date:              date,
		Timestamp:         start.Format("2006-01-02 15:04:05 UTC"),
		Drafts:            drafts,
		OtherCandidates:   candidates,
		Skipped:           skipped,
		TotalFetched:      totalFetched,
		DuplicatesRemoved: len(skipped),
	}

	var path string
	if p.opts.OutputPath != "" {
		path, err = report.WriteTo(r, p.opts.OutputPath)
	} else {
		path, err = report.Write(r, p.opts.OutputDir)
	}
	if err != nil {
		return "", err
	}

	p.markDrafted(ctx, drafts)

	slog.Info("pipeline: run complete", "report", path, "drafts", len(drafts))
	return path, nil
}

// loadOrFetch returns today's cached items unless Refresh is set, fetching
// and caching fresh items otherwise.
func (p *Pipeline) loadOrFetch(ctx context.Context, date string) ([]model.NewsItem, error) {
	if !p.opts.Refresh && p.opts.Cache != nil {
		cached, err := p.opts.Cache.Load(date)
		if err != nil {
			slog.Warn("pipeline: cache load failed, fetching fresh", "err", err)
		} else if len(cached) > 0 {
			slog.Info("pipeline: using cached items", "count", len(cached))
			return cached, nil
		}
	}

	items := p.fetchAll(ctx)
	if len(items) > 0 && p.opts.Cache != nil {
		if err := p.opts.Cache.Save(items, date); err != nil {
			slog.Warn("pipeline: cache save failed", "err", err)
		}
	}
	return items, nil
}

// fetchAll collects from every source; one failing source does not abort the
// run.
func (p *Pipeline) fetchAll(ctx context.Context) []model.NewsItem {
	var all []model.NewsItem
	for _, f := range p.opts.Fetchers {
		items, err := f.Collect(ctx)
		if err != nil {
			slog.Error("pipeline: source failed", "source", f.Name(), "err", err)
			continue
		}
		slog.Info("pipeline: collected", "source", f.Name(), "count", len(items))
		all = append(all, items...)
	}
	return all
}

// filterUsed drops items whose canonical URL already produced a draft in a
// previous run. Tracker errors are logged, not fatal.
func (p *Pipeline) filterUsed(ctx context.Context, items []model.NewsItem) []model.NewsItem {
	if p.opts.Used == nil {
		return items
	}
	kept := items[:0]
	dropped := 0
	for _, item := range items {
		used, err := p.opts.Used.IsUsed(ctx, dedup.CanonicalURL(item.URL))
		if err != nil {
			slog.Warn("pipeline: used check failed", "url", item.URL, "err", err)
			kept = append(kept, item)
			continue
		}
		if used {
			dropped++
			continue
		}
		kept = append(kept, item)
	}
	if dropped > 0 {
		slog.Info("pipeline: dropped previously used items", "count", dropped)
	}
	return kept
}

// selectCandidates keeps the high-confidence tail past the drafting pool,
// capped at MaxItems.
func (p *Pipeline) selectCandidates(ranked []model.RankedItem, pool int) []model.RankedItem {
	remaining := ranked[pool:]
	if len(remaining) > p.opts.MaxItems {
		remaining = remaining[:p.opts.MaxItems]
	}
	var candidates []model.RankedItem
	for _, ri := range remaining {
		if p.opts.Engine.HighConfidence(ri.Item) {
			candidates = append(candidates, ri)
		}
	}
	return candidates
}

func (p *Pipeline) markDrafted(ctx context.Context, drafts []model.Draft) {
	if p.opts.Used == nil || len(drafts) == 0 {
		return
	}
	urls := make([]string, 0, len(drafts))
	for _, d := range drafts {
		urls = append(urls, dedup.CanonicalURL(d.Item.URL))
	}
	if err := p.opts.Used.MarkUsed(ctx, urls); err != nil {
		slog.Warn("pipeline: could not mark items used", "err", err)
	}
}
