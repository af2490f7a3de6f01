// Package report renders a pipeline run into a dated Markdown file with YAML
// frontmatter, and parses those files back for inspection.
package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"text/template"

	"insightpress/internal/model"
)

//go:embed report.tmpl
var reportTpl string

var compiled = template.Must(template.New("report").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
	"join": func(ss []string, sep string) string {
		var b bytes.Buffer
		for i, s := range ss {
			if i > 0 {
				b.WriteString(sep)
			}
			b.WriteString(s)
		}
		return b.String()
	},
}).Parse(reportTpl))

// Render produces the Markdown text for a report.
func Render(r model.Report) (string, error) {
	var buf bytes.Buffer
	if err := compiled.Execute(&buf, r); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Filename returns the canonical report name for a date string (YYYY-MM-DD).
func Filename(date string) string {
	return fmt.Sprintf("drafts_%s.md", date)
}

// Write renders the report into dir under its canonical name and returns the
// written path. The directory is created if missing.
func Write(r model.Report, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("report: create output dir: %w", err)
	}
	text, err := Render(r)
	if err != nil {
		return "", fmt.Errorf("report: render: %w", err)
	}
	path := filepath.Join(dir, Filename(r.Date))
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("report: write %s: %w", path, err)
	}
	slog.Info("report: written", "path", path, "drafts", len(r.Drafts), "candidates", len(r.OtherCandidates))
	return path, nil
}

// WriteTo renders the report to an explicit path, creating parent directories
// as needed. Used when the caller overrides the output location.
func WriteTo(r model.Report, path string) (string, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("report: create output dir: %w", err)
		}
	}
	text, err := Render(r)
	if err != nil {
		return "", fmt.Errorf("report: render: %w", err)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("report: write %s: %w", path, err)
	}
	slog.Info("report: written", "path", path, "drafts", len(r.Drafts))
	return path, nil
}
