package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pmgen",
	Short: "Problem matcher generator for editor extension manifests",
	Long: `Build an editor problem matcher and write it into an extension manifest.
The previous manifest is backed up to the temp directory before it is overwritten.`,
	// Default behavior: run patch when no subcommand is given.
	// We must call loadConfig here because PreRunE of patchCmd
	// is not triggered when delegating via rootCmd.RunE.
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}
		return runPatch(cmd, nil)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags (inherited by all subcommands)
	pf := rootCmd.PersistentFlags()
	pf.BoolP("verbose", "v", false, "Enable debug logging")
	pf.Bool("quiet", false, "Suppress all output except errors")
	pf.Bool("color", false, "Force color output")
	pf.String("config", ".pmgen.yaml", "Config file path")
	pf.String("log-level", "", "Log level: debug|info|warn|error (default: info)")
	pf.String("log-format", "", "Log format: text|json (default: text)")

	// Matcher definition
	pf.String("preset", "", "Matcher preset (default: stylus)")
	pf.String("pattern", "", "Pattern override: regex literal /src/flags or a pattern string")
	pf.String("name", "", "Override the matcher name")
	pf.String("label", "", "Override the matcher label")
	pf.String("owner", "", "Diagnostic owner of produced problems")
	pf.String("severity", "", "Default severity: error|warning|info")
	pf.String("apply-to", "", "Documents to apply to: allDocuments|openDocuments|closedDocuments")
	pf.StringSlice("file-location", nil, "File location tuple: mode[,base]")

	// Manifest
	pf.String("manifest", "", "Extension manifest path (default: ../package.json next to the executable)")
	pf.String("backup-dir", "", "Backup directory (default: system temp dir)")
	pf.Bool("atomic", false, "Write the manifest through a temp file and rename")

	rootCmd.AddCommand(patchCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(locateCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}
