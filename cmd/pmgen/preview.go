package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yacobolo/pmgen"
)

var previewCmd = &cobra.Command{
	Use:     "preview",
	Aliases: []string{"show"},
	Short:   "Print the problem matcher JSON without touching the manifest",
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		m, err := buildMatcher()
		if err != nil {
			return fmt.Errorf("building matcher: %w", err)
		}

		data, err := pmgen.EncodeJSON(pmgen.ToSerializable(m), pmgen.DefaultIndent)
		if err != nil {
			return fmt.Errorf("encoding matcher: %w", err)
		}

		newReporter(os.Stdout).PrintJSON(data)
		return nil
	},
}
