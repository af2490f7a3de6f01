package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"insightpress/internal/cache"
	"insightpress/internal/dedup"
	"insightpress/internal/draft"
	"insightpress/internal/model"
	"insightpress/internal/rank"
	"insightpress/internal/report"
	"insightpress/internal/usedstore"
)

type fakeFetcher struct {
	name  string
	items []model.NewsItem
	err   error
}

func (f *fakeFetcher) Name() string { return f.name }

func (f *fakeFetcher) Collect(ctx context.Context) ([]model.NewsItem, error) {
	return f.items, f.err
}

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func testEngine() *rank.Engine {
	return rank.NewEngine(rank.Config{
		RecencyHours:        72,
		TrustedSourceWeight: 1.0,
		DefaultSourceWeight: 0.8,
		Topics:              []string{"kubernetes", "security", "devops"},
		OffBrandKeywords:    []string{"sports", "election"},
		HardTechKeywords:    []string{"security", "kubernetes"},
	})
}

func testItems() []model.NewsItem {
	published := testNow.Add(-2 * time.Hour)
	return []model.NewsItem{
		{
			ID:          "hn_1",
			Title:       "Kubernetes 1.30 ships new security defaults",
			URL:         "https://example.org/k8s-130",
			Source:      "HackerNews",
			PublishedAt: published,
			RawScore:    250,
		},
		{
			ID:          "rss_1",
			Title:       "Kubernetes 1.30 release notes",
			URL:         "https://example.org/k8s-130?utm_source=feed",
			Source:      "RSS",
			PublishedAt: published,
			RawScore:    0.8,
		},
		{
			ID:          "hn_2",
			Title:       "DevOps toil reduction strategies that work",
			URL:         "https://example.org/devops-toil",
			Source:      "HackerNews",
			PublishedAt: published.Add(-1 * time.Hour),
			RawScore:    120,
		},
	}
}

func testPipeline(t *testing.T, items []model.NewsItem, opts func(*Options)) *Pipeline {
	t.Helper()
	engine := testEngine()
	o := Options{
		Fetchers: []Fetcher{&fakeFetcher{name: "Fake", items: items}},
		Engine:   engine,
		Composer: draft.NewComposer(draft.Options{CharLimit: 260, Topics: engine.Topics()}),

		TitleThreshold: dedup.DefaultTitleThreshold,
		DraftCount:     2,
		MaxItems:       30,
		OutputDir:      t.TempDir(),
		Refresh:        true,
		Now:            func() time.Time { return testNow },
	}
	if opts != nil {
		opts(&o)
	}
	return New(o)
}

func TestRunEndToEnd(t *testing.T) {
	p := testPipeline(t, testItems(), nil)
	path, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.HasSuffix(path, "drafts_2025-06-15.md") {
		t.Errorf("unexpected report path %q", path)
	}

	s, err := report.ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if s.TotalFetched != 3 {
		t.Errorf("TotalFetched = %d, want 3", s.TotalFetched)
	}
	// The two k8s-130 URLs collapse to one canonical URL.
	if s.DuplicatesRemoved != 1 {
		t.Errorf("DuplicatesRemoved = %d, want 1", s.DuplicatesRemoved)
	}
	if s.DraftCount != 2 {
		t.Errorf("DraftCount = %d, want 2", s.DraftCount)
	}
	if !strings.Contains(s.Body, "https://example.org/k8s-130") {
		t.Error("report body missing top item URL")
	}
}

func TestRunNoItems(t *testing.T) {
	p := testPipeline(t, nil, nil)
	if _, err := p.Run(context.Background()); !errors.Is(err, ErrNoItems) {
		t.Fatalf("expected ErrNoItems, got %v", err)
	}
}

func TestRunSourceFailureIsNotFatal(t *testing.T) {
	p := testPipeline(t, testItems(), func(o *Options) {
		o.Fetchers = append(o.Fetchers, &fakeFetcher{name: "Broken", err: errors.New("boom")})
	})
	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run with one failing source: %v", err)
	}
}

func TestRunMarksAndFiltersUsed(t *testing.T) {
	dir := t.TempDir()
	store, err := usedstore.NewFileStore(dir, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	out := t.TempDir()

	p := testPipeline(t, testItems(), func(o *Options) {
		o.Used = store
		o.OutputDir = out
	})
	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}

	used, err := store.IsUsed(context.Background(), dedup.CanonicalURL("https://example.org/k8s-130"))
	if err != nil {
		t.Fatalf("IsUsed: %v", err)
	}
	if !used {
		t.Error("expected drafted item marked used")
	}

	// A second run over the same items has nothing new to draft.
	p2 := testPipeline(t, testItems(), func(o *Options) {
		o.Used = store
		o.OutputDir = t.TempDir()
	})
	path, err := p2.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	s, err := report.ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if s.DraftCount != 0 {
		t.Errorf("second run DraftCount = %d, want 0", s.DraftCount)
	}
}

func TestRunUsesCache(t *testing.T) {
	cacheDir := t.TempDir()
	mgr, err := cache.NewManager(cacheDir)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if err := mgr.Save(testItems(), "2025-06-15"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Fetcher returns nothing; items must come from the cache.
	p := testPipeline(t, nil, func(o *Options) {
		o.Cache = mgr
		o.Refresh = false
	})
	path, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run from cache: %v", err)
	}
	s, err := report.ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if s.TotalFetched != 3 {
		t.Errorf("TotalFetched = %d, want 3 cached items", s.TotalFetched)
	}
}

func TestRunOutputPathOverride(t *testing.T) {
	custom := t.TempDir() + "/custom_report.md"
	p := testPipeline(t, testItems(), func(o *Options) {
		o.OutputPath = custom
	})
	path, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if path != custom {
		t.Errorf("path = %q, want %q", path, custom)
	}
}
