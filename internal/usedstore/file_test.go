package usedstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileStoreMarkAndCheck(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir(), 7*24*time.Hour)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	used, err := s.IsUsed(ctx, "https://example.com/a")
	if err != nil || used {
		t.Fatalf("fresh store reports used=%v err=%v", used, err)
	}
	if err := s.MarkUsed(ctx, []string{"https://example.com/a", "https://example.com/b"}); err != nil {
		t.Fatalf("MarkUsed: %v", err)
	}
	used, _ = s.IsUsed(ctx, "https://example.com/a")
	if !used {
		t.Error("marked URL not reported as used")
	}
	n, _ := s.Count(ctx)
	if n != 2 {
		t.Errorf("Count = %d, want 2", n)
	}
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s1, err := NewFileStore(dir, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := s1.MarkUsed(ctx, []string{"https://example.com/a"}); err != nil {
		t.Fatalf("MarkUsed: %v", err)
	}
	s2, err := NewFileStore(dir, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	used, _ := s2.IsUsed(ctx, "https://example.com/a")
	if !used {
		t.Error("used mark did not survive reopen")
	}
}

func TestFileStoreRetentionPrunesOldEntries(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "used_items.json")
	old := map[string]time.Time{
		"https://example.com/stale": time.Now().Add(-10 * 24 * time.Hour),
		"https://example.com/fresh": time.Now().Add(-1 * time.Hour),
	}
	data, _ := json.Marshal(old)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	s, err := NewFileStore(dir, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if used, _ := s.IsUsed(ctx, "https://example.com/stale"); used {
		t.Error("stale entry survived retention pruning")
	}
	if used, _ := s.IsUsed(ctx, "https://example.com/fresh"); !used {
		t.Error("fresh entry was pruned")
	}
}

func TestFileStoreCorruptFileStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "used_items.json"), []byte("{nope"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	s, err := NewFileStore(dir, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("corrupt file should not fail load: %v", err)
	}
	n, _ := s.Count(context.Background())
	if n != 0 {
		t.Errorf("expected empty store, got %d entries", n)
	}
}

func TestFileStoreClear(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir(), 7*24*time.Hour)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	_ = s.MarkUsed(ctx, []string{"https://example.com/a"})
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	n, _ := s.Count(ctx)
	if n != 0 {
		t.Errorf("Count after Clear = %d", n)
	}
}
