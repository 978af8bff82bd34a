package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yacobolo/pmgen"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check capture-group roles against the pattern's regexp",
	Long: `Report capture-group roles that reference groups the regexp does not have,
and pattern sequences the editor would reject. Issues are warnings unless --strict is set.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		m, err := buildMatcher()
		if err != nil {
			return fmt.Errorf("building matcher: %w", err)
		}

		issues := pmgen.Check(m)

		if !getBoolWithFallback("quiet", "quiet", false) {
			reporter := newReporter(os.Stdout)
			reporter.PrintIssues(issues)
			reporter.PrintIssueSummary(issues)
		}

		if getBoolWithFallback("strict", "strict", false) && len(issues) > 0 {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().Bool("strict", false, "Exit 1 on any issue (CI mode)")
}
