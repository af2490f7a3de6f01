package report

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Summary is the frontmatter of a written report plus its body, read back
// without re-running the pipeline.
type Summary struct {
	Date              string `yaml:"date"`
	GeneratedAt       string `yaml:"generated_at"`
	TotalFetched      int    `yaml:"total_fetched"`
	DuplicatesRemoved int    `yaml:"duplicates_removed"`
	DraftCount        int    `yaml:"draft_count"`
	CandidateCount    int    `yaml:"candidate_count"`

	Body string `yaml:"-"`
}

// ParseFile reads a report file and extracts its YAML frontmatter and body.
// Frontmatter sits at the top between two lines containing only "---"; a file
// without it yields a zero Summary with the whole file as Body.
func ParseFile(path string) (Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return Summary{}, err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	peek, err := br.Peek(3)
	if err != nil && !errors.Is(err, io.EOF) {
		return Summary{}, err
	}
	hasFM := string(peek) == "---"

	var fmBuf strings.Builder
	if hasFM {
		if _, err := br.ReadString('\n'); err != nil && !errors.Is(err, io.EOF) {
			return Summary{}, err
		}
		for {
			l, err := br.ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				return Summary{}, err
			}
			if strings.TrimSpace(l) == "---" {
				break
			}
			fmBuf.WriteString(l)
			if errors.Is(err, io.EOF) {
				break
			}
		}
	}

	var bodyBuf strings.Builder
	for {
		l, err := br.ReadString('\n')
		bodyBuf.WriteString(l)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Summary{}, err
		}
	}

	var s Summary
	if hasFM {
		if err := yaml.Unmarshal([]byte(fmBuf.String()), &s); err != nil {
			return Summary{}, err
		}
	}
	s.Body = bodyBuf.String()
	return s, nil
}
