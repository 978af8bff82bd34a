package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yacobolo/pmgen"
)

var patchCmd = &cobra.Command{
	Use:   "patch",
	Short: "Write the problem matcher into the extension manifest",
	Long: `Build the problem matcher and replace contributes.problemMatchers in the
extension manifest with it. The manifest is copied to the backup directory first.
A missing manifest is reported and skipped.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runPatch,
}

// runPatch is shared between `pmgen patch` and bare `pmgen`.
func runPatch(_ *cobra.Command, _ []string) error {
	logger := newLogger(os.Stderr)
	reporter := newReporter(os.Stdout)
	quiet := getBoolWithFallback("quiet", "quiet", false)

	m, err := buildMatcher()
	if err != nil {
		return fmt.Errorf("building matcher: %w", err)
	}
	d := pmgen.ToSerializable(m)

	if !quiet {
		data, err := pmgen.EncodeJSON(d, pmgen.DefaultIndent)
		if err != nil {
			return fmt.Errorf("encoding preview: %w", err)
		}
		reporter.PrintPreview(data)
	}

	for _, issue := range pmgen.Check(m) {
		logger.Warn("Problem matcher check", "pattern", issue.Pattern, "issue", issue.Text)
	}

	path, err := manifestPath()
	if err != nil {
		return err
	}

	result, err := pmgen.Patch(path, d, buildPatchOptions(logger))
	if err != nil {
		return fmt.Errorf("patch failed: %w", err)
	}

	if !quiet {
		reporter.PrintPatchResult(result)
	}
	return nil
}
