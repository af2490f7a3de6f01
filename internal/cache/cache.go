// Package cache persists fetched items to per-day JSON files so repeated
// runs within a day do not refetch. Best effort, last write wins.
package cache

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"insightpress/internal/model"
)

// Manager reads and writes day-keyed item cache files.
type Manager struct {
	dir string
}

// NewManager creates the cache directory if needed.
func NewManager(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: create dir: %w", err)
	}
	return &Manager{dir: dir}, nil
}

type envelope struct {
	CachedAt string           `json:"cached_at"`
	Count    int              `json:"count"`
	Items    []model.NewsItem `json:"items"`
}

// Path returns the cache file for a date ("YYYY-MM-DD", today when empty).
func (m *Manager) Path(date string) string {
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}
	return filepath.Join(m.dir, fmt.Sprintf("items_%s.json", date))
}

// Load returns cached items for the date, or nil when no cache exists.
func (m *Manager) Load(date string) ([]model.NewsItem, error) {
	path := m.Path(date)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		slog.Debug("cache: no cache file", "path", path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache: read %s: %w", path, err)
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("cache: parse %s: %w", path, err)
	}
	slog.Info("cache: loaded items", "count", len(env.Items), "path", path)
	return env.Items, nil
}

// Save writes items for the date, replacing any previous file.
func (m *Manager) Save(items []model.NewsItem, date string) error {
	path := m.Path(date)
	env := envelope{
		CachedAt: time.Now().UTC().Format(time.RFC3339),
		Count:    len(items),
		Items:    items,
	}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("cache: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cache: write %s: %w", path, err)
	}
	slog.Info("cache: saved items", "count", len(items), "path", path)
	return nil
}

// Clear removes the cache file for the date if present.
func (m *Manager) Clear(date string) error {
	path := m.Path(date)
	err := os.Remove(path)
	if os.IsNotExist(err) {
		slog.Info("cache: nothing to clear", "path", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("cache: remove %s: %w", path, err)
	}
	slog.Info("cache: cleared", "path", path)
	return nil
}
