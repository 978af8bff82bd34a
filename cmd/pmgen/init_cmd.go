package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default .pmgen.yaml config file",
	Long:  `Create a .pmgen.yaml configuration file in the current directory with the built-in defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")

		if _, err := os.Stat(".pmgen.yaml"); err == nil && !force {
			return fmt.Errorf(".pmgen.yaml already exists (use --force to overwrite)")
		}

		if err := os.WriteFile(".pmgen.yaml", []byte(defaultConfig), 0644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Created .pmgen.yaml")
		return nil
	},
}

const defaultConfig = `# pmgen configuration

# Extension manifest to patch (default: ../package.json next to the executable)
# manifest: editors/vscode/package.json
# backup-dir: /tmp
atomic: false
verbose: false

log:
  level: info              # debug | info | warn | error
  format: text             # text | json

matcher:
  preset: stylus
  # pattern: '/^(.*):(\d+):(\d+): (.*)$/'   # regex literal keeps the preset's groups
  # name: stylus
  # label: Stylus Compilation Error Matcher
  # owner: stylus
  # severity: error
  apply-to: allDocuments   # allDocuments | openDocuments | closedDocuments
  file-location:
    - autodetect
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
