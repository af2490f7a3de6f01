package cache

import (
	"testing"
	"time"

	"insightpress/internal/model"
)

func TestSaveLoadRoundtrip(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	items := []model.NewsItem{
		{
			ID:          "hn_1",
			Title:       "A story",
			URL:         "https://example.com/a",
			Source:      "HackerNews",
			PublishedAt: time.Date(2025, 6, 14, 8, 0, 0, 0, time.UTC),
			RawScore:    120,
		},
		{
			ID:          "rss_2",
			Title:       "Another",
			URL:         "https://example.com/b",
			Source:      "Example Blog",
			PublishedAt: time.Date(2025, 6, 14, 9, 0, 0, 0, time.UTC),
			Summary:     "with a summary",
		},
	}
	if err := m.Save(items, "2025-06-14"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := m.Load("2025-06-14")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
	if got[0].ID != "hn_1" || got[1].Summary != "with a summary" {
		t.Errorf("roundtrip mismatch: %+v", got)
	}
	if !got[0].PublishedAt.Equal(items[0].PublishedAt) {
		t.Errorf("timestamp mismatch: %v", got[0].PublishedAt)
	}
}

func TestLoadMissingReturnsNil(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	got, err := m.Load("1999-01-01")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing cache, got %v", got)
	}
}

func TestClear(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if err := m.Save([]model.NewsItem{{ID: "x", Title: "t", URL: "u", Source: "s"}}, "2025-06-14"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := m.Clear("2025-06-14"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	got, err := m.Load("2025-06-14")
	if err != nil || got != nil {
		t.Errorf("expected empty cache after clear, got %v err %v", got, err)
	}
	// Clearing again is not an error.
	if err := m.Clear("2025-06-14"); err != nil {
		t.Errorf("second Clear: %v", err)
	}
}
