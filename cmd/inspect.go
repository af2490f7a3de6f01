package cmd

import (
	"fmt"

	"insightpress/internal/report"

	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <report_path>",
	Short: "Print the frontmatter summary of a written report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := report.ParseFile(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "date: %s\n", s.Date)
		fmt.Fprintf(out, "generated_at: %s\n", s.GeneratedAt)
		fmt.Fprintf(out, "total_fetched: %d\n", s.TotalFetched)
		fmt.Fprintf(out, "duplicates_removed: %d\n", s.DuplicatesRemoved)
		fmt.Fprintf(out, "drafts: %d\n", s.DraftCount)
		fmt.Fprintf(out, "candidates: %d\n", s.CandidateCount)
		fmt.Fprintf(out, "body bytes: %d\n", len(s.Body))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
