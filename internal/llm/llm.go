// Package llm provides optional AI-assisted draft generation behind a small
// closed provider set. Providers are selected once at construction; there is
// no runtime type inspection. Every failure path degrades to "no draft" so
// the caller can fall back to template composition.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"
)

// Hard editorial limits enforced on every provider response.
const (
	MaxChars    = 260
	MaxHashtags = 3
)

// DraftRequest carries the item metadata a provider drafts from.
type DraftRequest struct {
	Title           string
	URL             string
	Source          string
	PublishedAt     string
	Summary         string
	MatchedTopics   []string
	AllowedHashtags []string
}

// DraftResponse is the structured reply every provider must produce.
type DraftResponse struct {
	Hook        string   `json:"hook"`
	Implication string   `json:"implication"`
	Action      string   `json:"action,omitempty"`
	Hashtags    []string `json:"hashtags"`
	FinalPost   string   `json:"final_post"`
}

// CharCount returns the rune length of the final post.
func (r *DraftResponse) CharCount() int {
	return utf8.RuneCountInString(r.FinalPost)
}

// Validate checks the response against the editorial rules. It returns a
// descriptive error used to build the correction prompt on retry.
func (r *DraftResponse) Validate(expectedURL string) error {
	if n := r.CharCount(); n > MaxChars {
		return fmt.Errorf("exceeds %d char limit: %d", MaxChars, n)
	}
	if len(strings.TrimSpace(r.Implication)) < 10 {
		return fmt.Errorf("missing or too short implication")
	}
	if len(r.Hashtags) > MaxHashtags {
		return fmt.Errorf("too many hashtags: %d > %d", len(r.Hashtags), MaxHashtags)
	}
	for _, tag := range r.Hashtags {
		if tag != strings.ToLower(tag) {
			return fmt.Errorf("hashtag not lowercase: %s", tag)
		}
	}
	if expectedURL != "" && !strings.Contains(r.FinalPost, expectedURL) {
		return fmt.Errorf("final post does not contain the item URL")
	}
	return nil
}

// Client is the drafting contract the composer consumes.
type Client interface {
	// GenerateDraft produces a validated draft or an error; it never panics
	// and respects the context deadline.
	GenerateDraft(ctx context.Context, req DraftRequest) (*DraftResponse, error)
}

// Options selects and tunes a provider.
type Options struct {
	Provider    string // openai|anthropic|gemini|none
	APIKey      string
	Model       string
	Temperature float32
	Timeout     time.Duration
	MaxRetries  int
}

// New builds the configured provider client. It returns nil (and logs) for
// provider "none" or a missing API key: template drafting takes over.
// Unknown provider names are an error.
func New(opts Options) (Client, error) {
	provider := strings.ToLower(strings.TrimSpace(opts.Provider))
	if provider == "" || provider == "none" {
		slog.Info("llm: provider set to none, using template drafting")
		return nil, nil
	}
	if opts.APIKey == "" {
		slog.Warn("llm: provider selected but API key missing, falling back to template drafting", "provider", provider)
		return nil, nil
	}
	if opts.Model == "" {
		opts.Model = defaultModel(provider)
		slog.Info("llm: using default model", "provider", provider, "model", opts.Model)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 2
	}

	switch provider {
	case "openai":
		return newOpenAI(opts), nil
	case "anthropic":
		return newAnthropic(opts), nil
	case "gemini":
		return newGemini(opts)
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", provider)
	}
}

func defaultModel(provider string) string {
	switch provider {
	case "openai":
		return "gpt-4o-mini"
	case "anthropic":
		return "claude-3-5-haiku-20241022"
	case "gemini":
		return "gemini-2.0-flash-exp"
	default:
		return ""
	}
}

// caller is the single provider-specific hook: send system+user messages,
// return raw model text.
type caller interface {
	call(ctx context.Context, system, user string) (string, error)
}

// generateDraft runs the shared attempt/correct/retry loop over a provider's
// raw call.
func generateDraft(ctx context.Context, c caller, req DraftRequest, maxRetries int) (*DraftResponse, error) {
	raw, err := c.call(ctx, systemPrompt, buildUserPrompt(req))
	if err != nil {
		return nil, err
	}
	resp, verr := parseResponse(raw, req.URL)
	if verr == nil {
		return resp, nil
	}

	for attempt := 0; attempt < maxRetries; attempt++ {
		slog.Debug("llm: response invalid, retrying with correction", "attempt", attempt+1, "err", verr)
		raw, err = c.call(ctx, systemPrompt, buildCorrectionPrompt(req.URL, verr))
		if err != nil {
			continue
		}
		if resp, verr = parseResponse(raw, req.URL); verr == nil {
			return resp, nil
		}
	}
	return nil, fmt.Errorf("llm: no valid draft after retries: %w", verr)
}

// parseResponse decodes and validates a raw model reply, tolerating markdown
// code fences around the JSON.
func parseResponse(raw, expectedURL string) (*DraftResponse, error) {
	raw = stripCodeFence(strings.TrimSpace(raw))

	var resp DraftResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := resp.Validate(expectedURL); err != nil {
		return nil, err
	}
	return &resp, nil
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	if i := strings.Index(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
