package rank

import (
	"strings"

	"insightpress/internal/model"
)

// HighConfidence reports whether an item not selected for drafting is
// on-topic enough to list as a secondary candidate. An item must match at
// least one configured topic; items carrying an off-brand keyword are
// rejected unless a hard-tech keyword is also present (the override wins).
func (e *Engine) HighConfidence(item model.NewsItem) bool {
	matched := MatchedTopics(item, e.topics)
	if len(matched) == 0 {
		return false
	}

	text := itemText(item)
	if containsAny(text, e.offBrand) {
		if !containsAny(text, e.hardTech) {
			return false
		}
	}

	// HackerNews items need a topic signal of their own. The topic check
	// above already guarantees this, so the rule currently never fires; it is
	// kept as a separately testable hook for source-specific thresholds.
	if item.Source == "HackerNews" && len(matched) < 1 {
		return false
	}

	return true
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
