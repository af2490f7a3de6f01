package usedstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileStore tracks used URLs in a single JSON file. Entries older than the
// retention window are dropped on load.
type FileStore struct {
	path      string
	retention time.Duration

	mu    sync.Mutex
	items map[string]time.Time
}

// NewFileStore loads (or initializes) the tracking file under dir.
func NewFileStore(dir string, retention time.Duration) (*FileStore, error) {
	if retention <= 0 {
		retention = 7 * 24 * time.Hour
	}
	s := &FileStore{
		path:      filepath.Join(dir, "used_items.json"),
		retention: retention,
		items:     make(map[string]time.Time),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("usedstore: read %s: %w", s.path, err)
	}
	var raw map[string]time.Time
	if err := json.Unmarshal(data, &raw); err != nil {
		// A corrupt tracking file should not kill the run; start fresh.
		slog.Warn("usedstore: tracking file unreadable, starting empty", "path", s.path, "err", err)
		return nil
	}
	cutoff := time.Now().Add(-s.retention)
	dropped := 0
	for url, at := range raw {
		if at.After(cutoff) {
			s.items[url] = at
		} else {
			dropped++
		}
	}
	slog.Info("usedstore: loaded used items", "count", len(s.items), "expired", dropped)
	return nil
}

func (s *FileStore) save() error {
	data, err := json.MarshalIndent(s.items, "", "  ")
	if err != nil {
		return fmt.Errorf("usedstore: marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("usedstore: create dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("usedstore: write %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) IsUsed(_ context.Context, url string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[url]
	return ok, nil
}

func (s *FileStore) MarkUsed(_ context.Context, urls []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for _, u := range urls {
		s.items[u] = now
	}
	return s.save()
}

func (s *FileStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items), nil
}

func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]time.Time)
	return s.save()
}

func (s *FileStore) Close() error { return nil }
