package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yacobolo/pmgen"
)

var locateCmd = &cobra.Command{
	Use:   "locate [dir]",
	Short: "List extension manifests under a directory",
	Long: `Search a directory for package.json files that declare "contributes" or
"engines.vscode". node_modules and gitignored paths are skipped.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) > 0 {
			root = args[0]
		}
		globs, _ := cmd.Flags().GetStringSlice("glob")

		found, stats, err := pmgen.FindManifests(root, globs)
		if err != nil {
			return fmt.Errorf("locate failed: %w", err)
		}

		newReporter(os.Stdout).PrintManifests(found, stats)
		return nil
	},
}

func init() {
	locateCmd.Flags().StringSlice("glob", nil, "Glob patterns relative to dir (default: **/package.json)")
}
