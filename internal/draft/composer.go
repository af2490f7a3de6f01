// Package draft turns ranked items into short posts with strict editorial
// limits. Template composition always works offline; an optional llm.Client
// takes the first shot and templates cover every failure.
package draft

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"insightpress/internal/hashtag"
	"insightpress/internal/llm"
	"insightpress/internal/model"
	"insightpress/internal/rank"
)

// template pairs a set of implication lines with optional action clauses.
type template struct {
	implications []string
	actions      []string
}

var templates = []template{
	{
		implications: []string{
			"This changes how teams will need to handle {domain}.",
			"Worth understanding the operational cost before adopting.",
			"This is the kind of guardrail teams need to stop {risk}.",
			"Could shift security posture for {domain} workflows.",
			"Likely to impact how we think about {domain} trade-offs.",
			"Matters for anyone running {domain} in production.",
			"This addresses a real gap in {domain} tooling.",
		},
	},
	{
		implications: []string{
			"Implications for {domain} teams are non-trivial.",
			"This could reduce operational overhead in {domain}.",
			"Security implications worth reviewing.",
			"Performance trade-offs here matter at scale.",
			"Changes the risk calculus for {domain} deployments.",
		},
		actions: []string{
			"Test in non-prod first.",
			"Review the trade-offs before adopting.",
			"Worth a look at the architecture.",
			"Check compatibility with existing workflows.",
		},
	},
	{
		implications: []string{
			"This affects anyone responsible for {domain} reliability.",
			"Cost implications need review before rollout.",
			"Could help reduce toil in {domain} operations.",
			"Worth watching if you manage {domain} at scale.",
			"Security model here is different than most assume.",
		},
	},
}

// domainMap names the operational domain an item belongs to, keyed by the
// first matching keyword in title+summary.
var domainMap = []struct{ keyword, domain string }{
	{"kubernetes", "container orchestration"},
	{"docker", "containerization"},
	{"llm", "LLM deployments"},
	{"ml", "ML pipelines"},
	{"ai", "AI systems"},
	{"security", "production security"},
	{"devops", "DevOps"},
	{"cloud", "cloud infrastructure"},
	{"observability", "observability"},
	{"rust", "systems programming"},
	{"python", "Python development"},
}

var riskMap = []struct{ keyword, risk string }{
	{"llm", "unvetted LLM usage"},
	{"ai", "AI tooling creeping into prod"},
	{"security", "unpatched vulnerabilities"},
	{"kubernetes", "cluster misconfigurations"},
	{"cloud", "runaway cloud costs"},
}

const (
	defaultDomain = "production systems"
	defaultRisk   = "operational issues"
	maxHookRunes  = 50
)

// hookPrefixes are stripped from titles so hooks never read as reposted
// headlines.
var hookPrefixes = []string{
	"Show HN: ",
	"Ask HN: ",
	"Tell HN: ",
	"Launch HN: ",
	"Announcing ",
	"Introducing ",
}

// Composer generates drafts for the top ranked items.
type Composer struct {
	charLimit int
	topics    []string
	hashtags  *hashtag.Mapper
	llmClient llm.Client
	provider  string

	rng *rand.Rand
}

// Options configures a Composer. LLM is optional; Provider labels the
// generation mode when it is set.
type Options struct {
	CharLimit int
	Topics    []string
	Hashtags  *hashtag.Mapper
	LLM       llm.Client
	Provider  string
}

func NewComposer(opts Options) *Composer {
	limit := opts.CharLimit
	if limit <= 0 {
		limit = llm.MaxChars
	}
	return &Composer{
		charLimit: limit,
		topics:    opts.Topics,
		hashtags:  opts.Hashtags,
		llmClient: opts.LLM,
		provider:  opts.Provider,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Generate walks ranked items in order and produces up to count drafts, each
// within the character limit. Items whose title already produced a draft in
// this run are skipped.
func (c *Composer) Generate(ctx context.Context, ranked []model.RankedItem, count int) []model.Draft {
	mode := "template"
	if c.llmClient != nil {
		mode = "llm:" + c.provider
	}
	slog.Info("draft: generating posts", "count", count, "mode", mode, "char_limit", c.charLimit)

	drafts := make([]model.Draft, 0, count)
	usedTitles := make(map[string]bool)

	for _, ri := range ranked {
		if len(drafts) >= count {
			break
		}
		if usedTitles[ri.Item.Title] {
			slog.Debug("draft: skipping repeated title", "title", ri.Item.Title)
			continue
		}

		var d *model.Draft
		if c.llmClient != nil {
			d = c.composeWithLLM(ctx, ri, mode)
		}
		if d == nil {
			if c.llmClient != nil {
				slog.Debug("draft: llm generation failed, using template", "title", ri.Item.Title)
			}
			d = c.composeFromTemplate(ri)
		}
		if d == nil {
			continue
		}

		if d.CharCount > c.charLimit {
			d = c.trim(*d)
		}
		if d == nil {
			slog.Debug("draft: could not fit item under limit", "title", ri.Item.Title)
			continue
		}

		drafts = append(drafts, *d)
		usedTitles[ri.Item.Title] = true
		slog.Debug("draft: generated", "n", len(drafts), "chars", d.CharCount, "mode", d.GenerationMode)
	}

	slog.Info("draft: generation complete", "drafts", len(drafts))
	return drafts
}

func (c *Composer) composeWithLLM(ctx context.Context, ri model.RankedItem, mode string) *model.Draft {
	item := ri.Item
	req := llm.DraftRequest{
		Title:           item.Title,
		URL:             item.URL,
		Source:          item.Source,
		PublishedAt:     item.PublishedAt.Format(time.RFC3339),
		Summary:         item.Summary,
		MatchedTopics:   rank.MatchedTopics(item, c.topics),
		AllowedHashtags: c.tagsFor(item),
	}

	resp, err := c.llmClient.GenerateDraft(ctx, req)
	if err != nil {
		slog.Error("draft: llm generation error", "title", item.Title, "err", err)
		return nil
	}
	d := model.NewDraft(resp.FinalPost, item, resp.Hashtags, mode)
	return &d
}

func (c *Composer) composeFromTemplate(ri model.RankedItem) *model.Draft {
	item := ri.Item
	tmpl := templates[c.rng.Intn(len(templates))]

	hook := createHook(item.Title)
	implication := c.createImplication(item, tmpl)

	text := hook + " " + implication
	if len(tmpl.actions) > 0 && c.rng.Float64() > 0.5 {
		text += " " + tmpl.actions[c.rng.Intn(len(tmpl.actions))]
	}

	tags := c.tagsFor(item)
	content := assemble(text, item.URL, tags)
	d := model.NewDraft(content, item, tags, "template")
	return &d
}

func (c *Composer) tagsFor(item model.NewsItem) []string {
	if c.hashtags == nil {
		return nil
	}
	return c.hashtags.Tags(item, llm.MaxHashtags)
}

// assemble joins body, URL, and hashtags with the URL on its own line.
func assemble(body, url string, tags []string) string {
	var b strings.Builder
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(url)
	if len(tags) > 0 {
		b.WriteString("\n")
		prefixed := make([]string, len(tags))
		for i, t := range tags {
			prefixed[i] = "#" + t
		}
		b.WriteString(strings.Join(prefixed, " "))
	}
	return b.String()
}

// createHook rewrites a title into a short hook: strip submission prefixes,
// then shorten to at most maxHookRunes without leaving a dangling article or
// preposition.
func createHook(title string) string {
	for _, p := range hookPrefixes {
		if strings.HasPrefix(title, p) {
			title = title[len(p):]
		}
	}

	runes := []rune(title)
	if len(runes) <= maxHookRunes {
		return title
	}
	head := string(runes[:maxHookRunes])

	if i := strings.Index(head, "."); i >= 0 {
		return head[:i+1]
	}
	if i := strings.LastIndex(head, " "); i >= 0 {
		head = strings.TrimSpace(head[:i])
		words := strings.Fields(head)
		if len(words) > 0 && danglingWords[strings.ToLower(words[len(words)-1])] {
			words = words[:len(words)-1]
			head = strings.Join(words, " ")
		}
	}
	return strings.TrimRight(head, ",;:")
}

var danglingWords = map[string]bool{
	"a": true, "an": true, "the": true, "in": true, "of": true,
	"to": true, "for": true, "at": true, "by": true, "on": true,
}

func (c *Composer) createImplication(item model.NewsItem, tmpl template) string {
	text := strings.ToLower(item.Title + " " + item.Summary)

	domain := defaultDomain
	for _, m := range domainMap {
		if strings.Contains(text, m.keyword) {
			domain = m.domain
			break
		}
	}
	risk := defaultRisk
	for _, m := range riskMap {
		if strings.Contains(text, m.keyword) {
			risk = m.risk
			break
		}
	}

	line := tmpl.implications[c.rng.Intn(len(tmpl.implications))]
	line = strings.ReplaceAll(line, "{domain}", domain)
	line = strings.ReplaceAll(line, "{risk}", risk)
	return line
}

// trim shortens an over-limit draft in steps: drop the trailing action
// sentence, then cut to one hashtag, then drop hashtags entirely. Returns nil
// when no step gets under the limit.
func (c *Composer) trim(d model.Draft) *model.Draft {
	lines := strings.Split(d.Content, "\n")

	if len(lines) >= 2 {
		sentences := strings.Split(lines[0], ". ")
		if len(sentences) > 2 {
			body := strings.Join(sentences[:len(sentences)-1], ". ")
			if !strings.HasSuffix(body, ".") {
				body += "."
			}
			candidate := model.NewDraft(strings.Join(append([]string{body}, lines[1:]...), "\n"), d.Item, d.Hashtags, d.GenerationMode)
			if candidate.CharCount <= c.charLimit {
				return &candidate
			}
		}
	}

	if len(d.Hashtags) > 1 {
		if i := strings.LastIndex(d.Content, "\n#"); i >= 0 {
			reduced := d.Hashtags[:1]
			candidate := model.NewDraft(d.Content[:i]+"\n#"+reduced[0], d.Item, reduced, d.GenerationMode)
			if candidate.CharCount <= c.charLimit {
				return &candidate
			}
		}
	}

	if len(lines) >= 3 {
		candidate := model.NewDraft(strings.Join(lines[:len(lines)-1], "\n"), d.Item, nil, d.GenerationMode)
		if candidate.CharCount <= c.charLimit {
			return &candidate
		}
	}

	slog.Debug("draft: trim could not fit under limit", "chars", d.CharCount, "limit", c.charLimit)
	return nil
}
