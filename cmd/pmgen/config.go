package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/yacobolo/pmgen"
	"github.com/yacobolo/pmgen/internal/console"
)

var k = koanf.New(".")

// configSections are the nested blocks of .pmgen.yaml. Environment variables
// whose first segment names a section map to "section.key"; everything else
// is a top-level key with underscores turned into dashes.
var configSections = map[string]bool{
	"matcher": true,
	"log":     true,
}

// loadConfig loads configuration with precedence: flags > env > file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = ".pmgen.yaml"
	}

	if err := loadConfigFromPath(configPath); err != nil {
		return err
	}

	// 3. CLI flags (highest precedence — only flags that were explicitly set)
	if err := k.Load(posflag.Provider(cmd.Flags(), ".", k), nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	return nil
}

// loadConfigFromPath loads configuration from a file and environment variables.
// This is separated from loadConfig to allow testing without a cobra command.
func loadConfigFromPath(configPath string) error {
	// 1. Config file (lowest precedence among providers)
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	// 2. Environment variables (PMGEN_* prefix)
	if err := k.Load(env.Provider("PMGEN_", ".", envKey), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

// envKey maps an environment variable to a config key:
// PMGEN_MATCHER_APPLY_TO -> matcher.apply-to, PMGEN_BACKUP_DIR -> backup-dir.
func envKey(s string) string {
	parts := strings.Split(strings.ToLower(strings.TrimPrefix(s, "PMGEN_")), "_")
	if len(parts) > 1 && configSections[parts[0]] {
		return parts[0] + "." + strings.Join(parts[1:], "-")
	}
	return strings.Join(parts, "-")
}

// buildMatcher constructs the matcher from koanf state.
func buildMatcher() (pmgen.Matcher, error) {
	preset, err := pmgen.LookupPreset(getStringWithFallback("preset", "matcher.preset", pmgen.DefaultPreset))
	if err != nil {
		return pmgen.Matcher{}, err
	}

	preset.MatcherName = getStringWithFallback("name", "matcher.name", preset.MatcherName)
	preset.Label = getStringWithFallback("label", "matcher.label", preset.Label)
	preset.Owner = getStringWithFallback("owner", "matcher.owner", preset.Owner)
	preset.Severity = getStringWithFallback("severity", "matcher.severity", preset.Severity)
	preset.ApplyTo = pmgen.ApplyTo(getStringWithFallback("apply-to", "matcher.apply-to", string(preset.ApplyTo)))

	loc, err := buildFileLocation()
	if err != nil {
		return pmgen.Matcher{}, err
	}
	if loc != nil {
		preset.FileLocation = loc
	}

	var override any
	if p := getStringWithFallback("pattern", "matcher.pattern", ""); p != "" {
		override = p
		// Only text that lexes as a whole /source/flags literal is compiled;
		// anything else, e.g. /home/(\w+)/x, is a pattern string.
		if source, flags, err := pmgen.ParseRegexLiteral(p); err == nil {
			expr, err := pmgen.Compile(source, flags)
			if err != nil {
				return pmgen.Matcher{}, &pmgen.ConfigurationError{Reason: "pattern", Err: err}
			}
			override = expr
		}
	}

	return pmgen.NewMatcher(preset, override)
}

// buildFileLocation reads the file location override. The flag always gives
// the tuple form; in the config file a string gives the bare form and a list
// gives the tuple form.
func buildFileLocation() (*pmgen.FileLocation, error) {
	if values := k.Strings("file-location"); len(values) > 0 {
		return pmgen.ParseFileLocation(values, true)
	}

	switch v := k.Get("matcher.file-location").(type) {
	case nil:
		return nil, nil
	case string:
		if v == "" {
			return nil, nil
		}
		return pmgen.ParseFileLocation([]string{v}, false)
	default:
		return pmgen.ParseFileLocation(k.Strings("matcher.file-location"), true)
	}
}

// buildPatchOptions constructs pmgen.PatchOptions from koanf state.
func buildPatchOptions(logger *slog.Logger) pmgen.PatchOptions {
	return pmgen.PatchOptions{
		BackupDir: getStringWithFallback("backup-dir", "backup-dir", ""),
		Atomic:    getBoolWithFallback("atomic", "atomic", false),
		Logger:    logger,
	}
}

// manifestPath returns the configured manifest, or the one next to the executable.
func manifestPath() (string, error) {
	if p := getStringWithFallback("manifest", "manifest", ""); p != "" {
		return p, nil
	}
	return pmgen.DefaultManifestPath()
}

// newLogger builds the logger from the log settings. --verbose forces debug,
// --quiet keeps errors only.
func newLogger(w io.Writer) *slog.Logger {
	level := getStringWithFallback("log-level", "log.level", "info")
	switch {
	case getBoolWithFallback("quiet", "quiet", false):
		level = "error"
	case getBoolWithFallback("verbose", "verbose", false):
		level = "debug"
	}
	return console.NewLogger(level, getStringWithFallback("log-format", "log.format", "text"), w)
}

// newReporter builds the console reporter for stdout.
func newReporter(w io.Writer) *console.Reporter {
	return console.NewReporter(w, getBoolWithFallback("color", "color", false))
}

// getStringWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringWithFallback(flagKey, configKey, defaultVal string) string {
	if v := k.String(flagKey); v != "" {
		return v
	}
	if v := k.String(configKey); v != "" {
		return v
	}
	return defaultVal
}

// getBoolWithFallback checks the flag key first, then the config file key, then returns the default.
func getBoolWithFallback(flagKey, configKey string, defaultVal bool) bool {
	if k.Exists(flagKey) {
		return k.Bool(flagKey)
	}
	if k.Exists(configKey) {
		return k.Bool(configKey)
	}
	return defaultVal
}
