// Package hashtag maps item text to a whitelist of lowercase hashtags.
package hashtag

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"insightpress/internal/model"
)

// rule pairs a match keyword with the tag it emits. Rules are ordered:
// earlier rules win the cap on tag count.
type rule struct {
	keyword string
	tag     string
}

// Mapper selects hashtags for an item. Tags are whitelist-only, lowercase,
// and domain-focused; nothing ad hoc is ever emitted.
type Mapper struct {
	rules []rule
}

// NewMapper loads mappings from a YAML file, falling back to the built-in
// table when the file is missing or unreadable.
func NewMapper(path string) *Mapper {
	rules, err := loadRules(path)
	if err != nil {
		slog.Warn("hashtag: using default mappings", "path", path, "err", err)
		return &Mapper{rules: defaultRules()}
	}
	slog.Debug("hashtag: loaded mappings", "count", len(rules), "path", path)
	return &Mapper{rules: rules}
}

// loadRules decodes the `mappings` document preserving file order, which a
// plain map would scramble.
func loadRules(path string) ([]rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc struct {
		Mappings yaml.Node `yaml:"mappings"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Mappings.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("hashtag: mappings is not a map in %s", path)
	}
	content := doc.Mappings.Content
	rules := make([]rule, 0, len(content)/2)
	for i := 0; i+1 < len(content); i += 2 {
		rules = append(rules, rule{
			keyword: content[i].Value,
			tag:     content[i+1].Value,
		})
	}
	return rules, nil
}

// Tags returns up to max lowercase hashtags (without the # prefix) matching
// the item's title and summary. Keyword matching is case-insensitive
// substring matching; duplicate tags collapse keeping the first position.
func (m *Mapper) Tags(item model.NewsItem, max int) []string {
	text := strings.ToLower(item.Title + " " + item.Summary)

	var tags []string
	seen := map[string]struct{}{}
	for _, r := range m.rules {
		if !strings.Contains(text, strings.ToLower(r.keyword)) {
			continue
		}
		tag := strings.ToLower(r.tag)
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	if max > 0 && len(tags) > max {
		tags = tags[:max]
	}
	return tags
}

func defaultRules() []rule {
	return []rule{
		{"artificial intelligence", "AI"},
		{"machine learning", "MachineLearning"},
		{"deep learning", "DeepLearning"},
		{"large language model", "LLM"},
		{"llm", "LLM"},
		{"kubernetes", "Kubernetes"},
		{"k8s", "Kubernetes"},
		{"docker", "Docker"},
		{"devops", "DevOps"},
		{"cybersecurity", "CyberSecurity"},
		{"infosec", "InfoSec"},
		{"security", "Security"},
		{"mlops", "MLOps"},
		{"rust", "RustLang"},
		{"python", "Python"},
		{"golang", "Golang"},
		{"aws", "AWS"},
		{"azure", "Azure"},
		{"gcp", "GCP"},
		{"cloud", "CloudComputing"},
		{"observability", "Observability"},
		{"monitoring", "Monitoring"},
		{"terraform", "Terraform"},
		{"open source", "OpenSource"},
		{"opensource", "OpenSource"},
		{"ai", "AI"},
	}
}
