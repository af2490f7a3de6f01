package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"insightpress/internal/model"
)

func sampleReport() model.Report {
	item := model.NewsItem{
		ID:          "hn_1",
		Title:       "Kubernetes 1.30 released",
		URL:         "https://example.org/k8s",
		Source:      "HackerNews",
		PublishedAt: time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC),
	}
	draft := model.NewDraft(
		"Kubernetes 1.30 lands. Matters for anyone running container orchestration in production.\nhttps://example.org/k8s\n#kubernetes",
		item,
		[]string{"kubernetes"},
		"template",
	)
	return model.Report{
		Date:      "2025-06-15",
		Timestamp: "2025-06-15 12:00:00 UTC",
		Drafts:    []model.Draft{draft},
		OtherCandidates: []model.RankedItem{
			{
				Item:    model.NewsItem{Title: "eBPF observability deep dive", URL: "https://example.org/ebpf"},
				Score:   6.4,
				Reasons: []string{"Recent (2h ago)", "Relevant topics: observability"},
			},
		},
		Skipped: []model.SkipRecord{
			{Title: "Duplicate story", Reason: "Duplicate URL (original from RSS)"},
		},
		TotalFetched:      42,
		DuplicatesRemoved: 1,
	}
}

func TestRenderSections(t *testing.T) {
	text, err := Render(sampleReport())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, want := range []string{
		"date: 2025-06-15",
		"total_fetched: 42",
		"## Top Drafts",
		"### Draft 1 (",
		"https://example.org/k8s",
		"## Other Candidates",
		"score 6.40",
		"Reasons: Recent (2h ago); Relevant topics: observability",
		"## Skipped Items",
		"Duplicate story: Duplicate URL (original from RSS)",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("rendered report missing %q", want)
		}
	}
}

func TestFilename(t *testing.T) {
	if got := Filename("2025-06-15"); got != "drafts_2025-06-15.md" {
		t.Errorf("Filename = %q", got)
	}
}

func TestWriteAndParseRoundtrip(t *testing.T) {
	dir := t.TempDir()
	path, err := Write(sampleReport(), dir)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if filepath.Base(path) != "drafts_2025-06-15.md" {
		t.Errorf("unexpected filename %q", path)
	}

	s, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if s.Date != "2025-06-15" {
		t.Errorf("Date = %q", s.Date)
	}
	if s.TotalFetched != 42 || s.DuplicatesRemoved != 1 {
		t.Errorf("counts = %d/%d", s.TotalFetched, s.DuplicatesRemoved)
	}
	if s.DraftCount != 1 || s.CandidateCount != 1 {
		t.Errorf("draft/candidate counts = %d/%d", s.DraftCount, s.CandidateCount)
	}
	if !strings.Contains(s.Body, "## Top Drafts") {
		t.Error("body missing drafts section")
	}
}

func TestWriteToCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.md")
	got, err := WriteTo(sampleReport(), path)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if got != path {
		t.Errorf("path = %q, want %q", got, path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stat: %v", err)
	}
}

func TestParseFileWithoutFrontmatter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.md")
	if err := os.WriteFile(path, []byte("# just a heading\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if s.Date != "" {
		t.Errorf("expected empty Date, got %q", s.Date)
	}
	if !strings.Contains(s.Body, "just a heading") {
		t.Error("body not preserved")
	}
}
