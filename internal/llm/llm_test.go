package llm

import (
	"strings"
	"testing"
)

func validResponseJSON(url string) string {
	return `{
  "hook": "Kubernetes 1.30 ships with in-place pod resizing.",
  "implication": "Clusters can rightsize workloads without restarts, cutting overprovisioning cost.",
  "action": "Test resize on a staging deployment.",
  "hashtags": ["kubernetes", "devops"],
  "final_post": "Kubernetes 1.30 ships in-place pod resizing. Rightsizing without restarts cuts overprovisioning cost. Test it on staging first.\n` + url + `\n#kubernetes #devops"
}`
}

func TestParseResponseValid(t *testing.T) {
	url := "https://example.org/k8s-130"
	resp, err := parseResponse(validResponseJSON(url), url)
	if err != nil {
		t.Fatalf("parseResponse: %v", err)
	}
	if resp.Hook == "" || resp.Implication == "" {
		t.Error("expected hook and implication populated")
	}
	if len(resp.Hashtags) != 2 {
		t.Errorf("hashtags = %v", resp.Hashtags)
	}
}

func TestParseResponseCodeFence(t *testing.T) {
	url := "https://example.org/k8s-130"
	fenced := "```json\n" + validResponseJSON(url) + "\n```"
	if _, err := parseResponse(fenced, url); err != nil {
		t.Fatalf("parseResponse with fence: %v", err)
	}
}

func TestParseResponseInvalidJSON(t *testing.T) {
	if _, err := parseResponse("not json at all", ""); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestValidateCharLimit(t *testing.T) {
	resp := &DraftResponse{
		Implication: "a meaningful implication here",
		FinalPost:   strings.Repeat("x", MaxChars+1),
	}
	if err := resp.Validate(""); err == nil {
		t.Fatal("expected char limit error")
	}
}

func TestValidateCharLimitCountsRunes(t *testing.T) {
	resp := &DraftResponse{
		Implication: "a meaningful implication here",
		FinalPost:   strings.Repeat("é", MaxChars),
	}
	if err := resp.Validate(""); err != nil {
		t.Fatalf("expected %d multibyte runes to pass, got %v", MaxChars, err)
	}
}

func TestValidateMissingImplication(t *testing.T) {
	resp := &DraftResponse{FinalPost: "short post"}
	if err := resp.Validate(""); err == nil {
		t.Fatal("expected implication error")
	}
}

func TestValidateHashtagRules(t *testing.T) {
	base := DraftResponse{
		Implication: "a meaningful implication here",
		FinalPost:   "short post",
	}

	tooMany := base
	tooMany.Hashtags = []string{"a", "b", "c", "d"}
	if err := tooMany.Validate(""); err == nil {
		t.Error("expected error for >3 hashtags")
	}

	upper := base
	upper.Hashtags = []string{"Kubernetes"}
	if err := upper.Validate(""); err == nil {
		t.Error("expected error for uppercase hashtag")
	}

	ok := base
	ok.Hashtags = []string{"kubernetes", "devops"}
	if err := ok.Validate(""); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateURLPresence(t *testing.T) {
	resp := &DraftResponse{
		Implication: "a meaningful implication here",
		FinalPost:   "a post without the link",
	}
	if err := resp.Validate("https://example.org/item"); err == nil {
		t.Fatal("expected missing URL error")
	}
	resp.FinalPost = "a post\nhttps://example.org/item"
	if err := resp.Validate("https://example.org/item"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStripCodeFence(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"```json\n{\"a\":1}", `{"a":1}`},
	}
	for _, c := range cases {
		if got := stripCodeFence(c.in); got != c.want {
			t.Errorf("stripCodeFence(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNewNoneProvider(t *testing.T) {
	for _, provider := range []string{"", "none", "NONE"} {
		client, err := New(Options{Provider: provider})
		if err != nil {
			t.Errorf("New(%q): %v", provider, err)
		}
		if client != nil {
			t.Errorf("New(%q): expected nil client", provider)
		}
	}
}

func TestNewMissingKey(t *testing.T) {
	client, err := New(Options{Provider: "openai"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if client != nil {
		t.Fatal("expected nil client without an API key")
	}
}

func TestNewUnknownProvider(t *testing.T) {
	if _, err := New(Options{Provider: "bard", APIKey: "k"}); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
