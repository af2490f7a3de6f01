// Package rank orders deduplicated news items by a weighted composite score
// and decides which leftover items are on-topic enough for the secondary
// candidates list.
package rank

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"insightpress/internal/model"
)

// Factor weights express relative importance; topic relevance dominates.
const (
	weightRecency    = 3.0
	weightSource     = 2.0
	weightEngagement = 2.0
	weightTopics     = 4.0

	// Raw engagement scores (HN points, feed weights) normalize against this.
	engagementDivisor = 100.0
	// Three or more distinct topic hits saturate the relevance score.
	topicSaturation = 3.0
)

// Config carries every tunable the engine needs. All values are injected;
// the engine holds no process-wide state.
type Config struct {
	RecencyHours        float64
	TrustedSourceWeight float64
	DefaultSourceWeight float64
	Topics              []string
	OffBrandKeywords    []string
	HardTechKeywords    []string
}

// Engine scores and orders news items.
type Engine struct {
	cfg      Config
	topics   []string // lowercased, trimmed
	offBrand []string // lowercased, trimmed
	hardTech []string // lowercased, trimmed
}

// NewEngine builds an engine from config. Topic and keyword lists are
// lowercased once here; matching is always against lowercased item text.
func NewEngine(cfg Config) *Engine {
	return &Engine{
		cfg:      cfg,
		topics:   normalizeKeywords(cfg.Topics),
		offBrand: normalizeKeywords(cfg.OffBrandKeywords),
		hardTech: normalizeKeywords(cfg.HardTechKeywords),
	}
}

func normalizeKeywords(kws []string) []string {
	out := make([]string, 0, len(kws))
	for _, kw := range kws {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

// Topics returns the normalized topic list the engine matches against.
func (e *Engine) Topics() []string {
	return e.topics
}

// Rank scores every item and returns them ordered by score descending.
// The sort is stable, so equal scores keep their input order; given the same
// input order the output is fully deterministic. An empty input yields an
// empty result, never an error.
func (e *Engine) Rank(items []model.NewsItem, now time.Time) []model.RankedItem {
	slog.Info("rank: ranking items", "count", len(items), "topics", e.topics)

	ranked := make([]model.RankedItem, 0, len(items))
	for _, item := range items {
		score := 0.0
		var reasons []string

		// Factor 1: recency, linear decay inside the window.
		recency := e.recencyScore(item.PublishedAt, now)
		score += recency * weightRecency
		if recency > 0.7 {
			reasons = append(reasons, fmt.Sprintf("Recent (%s)", formatAge(item.PublishedAt, now)))
		}

		// Factor 2: source weight, a closed two-tier scheme.
		sw := e.sourceWeight(item.Source)
		score += sw * weightSource
		if sw > e.cfg.DefaultSourceWeight {
			reasons = append(reasons, fmt.Sprintf("Trusted source (%s)", item.Source))
		}

		// Factor 3: engagement, absent raw score contributes nothing.
		if item.RawScore > 0 {
			score += math.Min(item.RawScore/engagementDivisor, 1.0) * weightEngagement
			if item.RawScore > 100 {
				reasons = append(reasons, fmt.Sprintf("High engagement (%d points)", int(item.RawScore)))
			}
		}

		// Factor 4: topic relevance, the dominant factor.
		relevance := e.topicRelevance(item)
		score += relevance * weightTopics
		if relevance > 0 {
			if matched := MatchedTopics(item, e.topics); len(matched) > 0 {
				reasons = append(reasons, "Relevant topics: "+strings.Join(matched, ", "))
			}
		}

		ranked = append(ranked, model.RankedItem{Item: item, Score: score, Reasons: reasons})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > 0 {
		slog.Info("rank: done", "count", len(ranked), "top_score", fmt.Sprintf("%.2f", ranked[0].Score))
	}
	return ranked
}

// recencyScore maps an item's age to [0, 1]. Future timestamps score 1.0 so
// clock skew between sources never penalizes an item.
func (e *Engine) recencyScore(publishedAt, now time.Time) float64 {
	if publishedAt.After(now) {
		return 1.0
	}
	ageHours := now.Sub(publishedAt).Hours()
	if ageHours > e.cfg.RecencyHours {
		return 0.0
	}
	return 1.0 - ageHours/e.cfg.RecencyHours
}

// sourceWeight returns the trusted tier for the news-API source and the
// default tier for everything else.
func (e *Engine) sourceWeight(source string) float64 {
	s := strings.ToLower(source)
	if strings.Contains(s, "hackernews") || strings.Contains(s, "hacker news") {
		return e.cfg.TrustedSourceWeight
	}
	return e.cfg.DefaultSourceWeight
}

// topicRelevance counts topic keywords appearing in the item text and
// saturates at three hits.
func (e *Engine) topicRelevance(item model.NewsItem) float64 {
	matches := len(MatchedTopics(item, e.topics))
	if matches == 0 {
		return 0.0
	}
	return math.Min(float64(matches)/topicSaturation, 1.0)
}

// MatchedTopics returns the topics found in "<title> <summary>". Matching is
// case-insensitive substring matching, which deliberately catches hyphenated
// and compound forms; the flip side is that short keywords can match inside
// unrelated words ("ai" in "said").
func MatchedTopics(item model.NewsItem, topics []string) []string {
	text := itemText(item)
	var matched []string
	for _, topic := range topics {
		if strings.Contains(text, topic) {
			matched = append(matched, topic)
		}
	}
	return matched
}

func itemText(item model.NewsItem) string {
	return strings.ToLower(item.Title + " " + item.Summary)
}

func formatAge(publishedAt, now time.Time) string {
	hours := now.Sub(publishedAt).Hours()
	switch {
	case hours < 1:
		return "< 1h ago"
	case hours < 24:
		return fmt.Sprintf("%dh ago", int(hours))
	default:
		return fmt.Sprintf("%dd ago", int(hours/24))
	}
}
