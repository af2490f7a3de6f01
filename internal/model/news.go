package model

import "time"

// NewsItem represents a single story collected from any source.
// CanonicalURL is empty at construction time; the dedup stage derives it
// from URL and it is never set anywhere else.
type NewsItem struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	URL          string    `json:"url"`
	Source       string    `json:"source"`
	PublishedAt  time.Time `json:"published_at"`
	Summary      string    `json:"summary,omitempty"`
	RawScore     float64   `json:"raw_score,omitempty"`
	CanonicalURL string    `json:"canonical_url,omitempty"`
}

// RankedItem decorates a news item with its composite score and the
// human-readable reasons behind it. Reasons are diagnostic only and have
// no effect on ordering.
type RankedItem struct {
	Item    NewsItem
	Score   float64
	Reasons []string
}

// SkipRecord explains why the dedup stage dropped an item.
type SkipRecord struct {
	Title  string `json:"title"`
	Reason string `json:"reason"`
}
