// Package dedup removes duplicate news items by canonical URL and
// near-duplicate titles.
package dedup

import (
	"fmt"
	"log/slog"

	"insightpress/internal/model"
)

// DefaultTitleThreshold is the similarity at or above which two titles are
// treated as the same story.
const DefaultTitleThreshold = 0.85

// Deduplicate walks items in input order, attaches canonical URLs, and
// partitions the sequence into unique items and skip records. First-seen
// wins: input order decides which of two duplicates is the original. An
// exact canonical-URL match is checked before title similarity.
func Deduplicate(items []model.NewsItem, titleThreshold float64) ([]model.NewsItem, []model.SkipRecord) {
	if titleThreshold <= 0 {
		titleThreshold = DefaultTitleThreshold
	}
	slog.Info("dedup: deduplicating items", "count", len(items))

	seenURL := make(map[string]model.NewsItem, len(items))
	unique := make([]model.NewsItem, 0, len(items))
	var skipped []model.SkipRecord

	for _, item := range items {
		item.CanonicalURL = CanonicalURL(item.URL)

		if original, ok := seenURL[item.CanonicalURL]; ok {
			skipped = append(skipped, model.SkipRecord{
				Title:  item.Title,
				Reason: fmt.Sprintf("Duplicate URL (original from %s)", original.Source),
			})
			slog.Debug("dedup: skipping duplicate URL", "title", item.Title)
			continue
		}

		if kept, sim, dup := similarTitle(item.Title, unique, titleThreshold); dup {
			skipped = append(skipped, model.SkipRecord{
				Title:  item.Title,
				Reason: fmt.Sprintf("Similar title to '%s...' (similarity: %.2f)", truncate(kept, 50), sim),
			})
			slog.Debug("dedup: skipping similar title", "title", item.Title)
			continue
		}

		unique = append(unique, item)
		seenURL[item.CanonicalURL] = item
	}

	slog.Info("dedup: done", "unique", len(unique), "skipped", len(skipped))
	return unique, skipped
}

// similarTitle compares a title against every kept item in order and reports
// the first match at or above the threshold. O(n^2) overall, fine at the
// tens-to-hundreds scale a run deals with.
func similarTitle(title string, kept []model.NewsItem, threshold float64) (string, float64, bool) {
	for _, prev := range kept {
		if sim := TitleSimilarity(title, prev.Title); sim >= threshold {
			return prev.Title, sim, true
		}
	}
	return "", 0, false
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
