// Package main provides the pmgen CLI tool for writing problem matchers into extension manifests.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/yacobolo/pmgen"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)

		var cfgErr *pmgen.ConfigurationError
		if errors.As(err, &cfgErr) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
