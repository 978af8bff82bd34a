package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"github.com/yacobolo/pmgen"
)

// resetKoanf creates a fresh koanf instance for each test.
func resetKoanf() {
	k = koanf.New(".")
}

func TestConfigFileLoading(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	configPath := filepath.Join(dir, ".pmgen.yaml")
	configContent := `
manifest: editors/vscode/package.json
atomic: true
verbose: true

log:
  level: warn
  format: json

matcher:
  preset: stylus
  owner: stylus
  apply-to: openDocuments
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))
	require.NoError(t, loadConfigFromPath(configPath))

	assert.Equal(t, "editors/vscode/package.json", k.String("manifest"))
	assert.True(t, k.Bool("atomic"))
	assert.True(t, k.Bool("verbose"))
	assert.Equal(t, "warn", k.String("log.level"))
	assert.Equal(t, "json", k.String("log.format"))
	assert.Equal(t, "stylus", k.String("matcher.preset"))
	assert.Equal(t, "stylus", k.String("matcher.owner"))
	assert.Equal(t, "openDocuments", k.String("matcher.apply-to"))
}

func TestConfigFileNotFound_UsesDefaults(t *testing.T) {
	resetKoanf()

	// Point to non-existent config — should not error
	require.NoError(t, loadConfigFromPath("/nonexistent/.pmgen.yaml"))

	m, err := buildMatcher()
	require.NoError(t, err)
	assert.Equal(t, "stylus", m.MatcherName)
	assert.Equal(t, "Stylus Compilation Error Matcher", m.Label)
	assert.Equal(t, pmgen.ApplyToAllDocuments, m.ApplyTo)
	require.NotNil(t, m.FileLocation)
	assert.Equal(t, pmgen.LocationAutodetect, m.FileLocation.Mode)
	assert.True(t, m.FileLocation.Tuple)

	opts := buildPatchOptions(nil)
	assert.Empty(t, opts.BackupDir)
	assert.False(t, opts.Atomic)
}

func TestEnvVarOverridesConfigFile(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	configPath := filepath.Join(dir, ".pmgen.yaml")
	configContent := `
matcher:
  owner: from-file
atomic: false
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	t.Setenv("PMGEN_MATCHER_OWNER", "from-env")
	t.Setenv("PMGEN_ATOMIC", "true")
	t.Setenv("PMGEN_BACKUP_DIR", "/var/backups")

	require.NoError(t, loadConfigFromPath(configPath))

	assert.Equal(t, "from-env", k.String("matcher.owner"))
	assert.True(t, k.Bool("atomic"))
	assert.Equal(t, "/var/backups", buildPatchOptions(nil).BackupDir)
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"PMGEN_MANIFEST", "manifest"},
		{"PMGEN_BACKUP_DIR", "backup-dir"},
		{"PMGEN_LOG_LEVEL", "log.level"},
		{"PMGEN_MATCHER_APPLY_TO", "matcher.apply-to"},
		{"PMGEN_MATCHER_FILE_LOCATION", "matcher.file-location"},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			assert.Equal(t, tt.want, envKey(tt.env))
		})
	}
}

func TestBuildMatcher_RegexLiteralFromConfigFile(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	configPath := filepath.Join(dir, ".pmgen.yaml")
	configContent := `
matcher:
  pattern: '/x(y)/i'
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))
	require.NoError(t, loadConfigFromPath(configPath))

	m, err := buildMatcher()
	require.NoError(t, err)

	d := pmgen.ToSerializable(m)
	require.Len(t, d.Pattern.Patterns, 1)
	assert.Equal(t, "x(y)", d.Pattern.Patterns[0].Regexp)
	assert.Equal(t, 3, d.Pattern.Patterns[0].File)
}

func TestBuildMatcher_StringPattern(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	configPath := filepath.Join(dir, ".pmgen.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("matcher:\n  pattern: $stylus\n"), 0644))
	require.NoError(t, loadConfigFromPath(configPath))

	m, err := buildMatcher()
	require.NoError(t, err)

	d := pmgen.ToSerializable(m)
	assert.True(t, d.Pattern.IsLiteral())
	assert.Equal(t, "$stylus", d.Pattern.Literal)
}

func TestBuildMatcher_PatternForms(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		regexp  string
		literal string
		wantErr bool
	}{
		{name: "regex literal", pattern: `/x(y)/i`, regexp: "x(y)"},
		{name: "problem matcher reference", pattern: "$stylus", literal: "$stylus"},
		{name: "path with groups is a string", pattern: `/home/(\w+)/x`, literal: `/home/(\w+)/x`},
		{name: "unknown flag is a string", pattern: "/home/x", literal: "/home/x"},
		{name: "literal that does not compile", pattern: "/(a/", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetKoanf()
			t.Setenv("PMGEN_MATCHER_PATTERN", tt.pattern)
			require.NoError(t, loadConfigFromPath("/nonexistent/.pmgen.yaml"))

			m, err := buildMatcher()
			if tt.wantErr {
				var cfgErr *pmgen.ConfigurationError
				require.True(t, errors.As(err, &cfgErr), "got %v", err)
				return
			}
			require.NoError(t, err)

			d := pmgen.ToSerializable(m)
			if tt.literal != "" {
				require.True(t, d.Pattern.IsLiteral())
				assert.Equal(t, tt.literal, d.Pattern.Literal)
				return
			}
			require.Len(t, d.Pattern.Patterns, 1)
			assert.Equal(t, tt.regexp, d.Pattern.Patterns[0].Regexp)
			assert.Equal(t, 3, d.Pattern.Patterns[0].File)
		})
	}
}

func TestBuildMatcher_FileLocationForms(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		want    string
		wantErr bool
	}{
		{
			name:   "string gives bare mode",
			config: "matcher:\n  file-location: relative\n",
			want:   `"relative"`,
		},
		{
			name:   "list gives tuple",
			config: "matcher:\n  file-location:\n    - relative\n    - ${workspaceFolder}/src\n",
			want:   `["relative","${workspaceFolder}/src"]`,
		},
		{
			name:    "absolute cannot take a base",
			config:  "matcher:\n  file-location:\n    - absolute\n    - /src\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetKoanf()

			configPath := filepath.Join(t.TempDir(), ".pmgen.yaml")
			require.NoError(t, os.WriteFile(configPath, []byte(tt.config), 0644))
			require.NoError(t, loadConfigFromPath(configPath))

			m, err := buildMatcher()
			if tt.wantErr {
				var cfgErr *pmgen.ConfigurationError
				require.True(t, errors.As(err, &cfgErr), "got %v", err)
				return
			}
			require.NoError(t, err)

			data, err := m.FileLocation.MarshalJSON()
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

func TestBuildMatcher_UnknownPreset(t *testing.T) {
	resetKoanf()

	t.Setenv("PMGEN_MATCHER_PRESET", "sass")
	require.NoError(t, loadConfigFromPath("/nonexistent/.pmgen.yaml"))

	_, err := buildMatcher()
	var cfgErr *pmgen.ConfigurationError
	require.True(t, errors.As(err, &cfgErr), "got %v", err)
}

func TestPatchCommand_WritesManifest(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	backupDir := t.TempDir()
	manifest := filepath.Join(dir, "package.json")
	require.NoError(t, os.WriteFile(manifest, []byte(`{"name":"ext","contributes":{"languages":[]}}`), 0644))

	cmd := rootCmd
	cmd.SetArgs([]string{
		"patch",
		"--config", filepath.Join(dir, "missing.yaml"),
		"--manifest", manifest,
		"--backup-dir", backupDir,
		"--quiet",
	})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(manifest)
	require.NoError(t, err)
	matchers := gjson.GetBytes(data, "contributes.problemMatchers")
	require.True(t, matchers.IsArray())
	require.Len(t, matchers.Array(), 1)
	assert.Equal(t, "stylus", matchers.Get("0.name").String())
	assert.Equal(t, pmgen.StylusRegexp, matchers.Get("0.pattern.regexp").String())
	assert.True(t, gjson.GetBytes(data, "contributes.languages").IsArray())

	backup, err := os.ReadFile(filepath.Join(backupDir, "package.json"))
	require.NoError(t, err)
	assert.False(t, gjson.GetBytes(backup, "contributes.problemMatchers").Exists())
}

func TestPatchCommand_MissingManifestSucceeds(t *testing.T) {
	resetKoanf()

	dir := t.TempDir()
	manifest := filepath.Join(dir, "package.json")

	cmd := rootCmd
	cmd.SetArgs([]string{
		"patch",
		"--config", filepath.Join(dir, "missing.yaml"),
		"--manifest", manifest,
		"--backup-dir", dir,
		"--quiet",
	})
	require.NoError(t, cmd.Execute())

	_, err := os.Stat(manifest)
	assert.True(t, os.IsNotExist(err))
}

func TestInitCommand_CreatesConfigFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(origDir)
	})

	cmd := rootCmd
	cmd.SetArgs([]string{"init"})
	require.NoError(t, cmd.Execute())

	// Verify file was created
	data, err := os.ReadFile(".pmgen.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "preset: stylus")
	assert.Contains(t, string(data), "matcher:")
	assert.Contains(t, string(data), "log:")
}

func TestInitCommand_DefaultConfigLoads(t *testing.T) {
	resetKoanf()

	configPath := filepath.Join(t.TempDir(), ".pmgen.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(defaultConfig), 0644))
	require.NoError(t, loadConfigFromPath(configPath))

	m, err := buildMatcher()
	require.NoError(t, err)
	assert.Equal(t, "stylus", m.MatcherName)
	require.NotNil(t, m.FileLocation)
	assert.True(t, m.FileLocation.Tuple)
	assert.Equal(t, pmgen.LocationAutodetect, m.FileLocation.Mode)
}

func TestInitCommand_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(origDir)
	})

	// Create existing file
	require.NoError(t, os.WriteFile(".pmgen.yaml", []byte("existing"), 0644))

	cmd := rootCmd
	cmd.SetArgs([]string{"init"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInitCommand_ForceOverwrite(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(origDir)
	})

	require.NoError(t, os.WriteFile(".pmgen.yaml", []byte("existing"), 0644))

	cmd := rootCmd
	cmd.SetArgs([]string{"init", "--force"})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(".pmgen.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "preset: stylus")
}

func TestVersionCommand(t *testing.T) {
	cmd := rootCmd
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
}

func TestGetStringWithFallback(t *testing.T) {
	resetKoanf()

	// No keys set - should return default
	assert.Equal(t, "default", getStringWithFallback("flag-key", "config.key", "default"))
}

func TestGetBoolWithFallback(t *testing.T) {
	resetKoanf()

	// No keys set - should return default
	assert.False(t, getBoolWithFallback("flag-key", "config.key", false))
	assert.True(t, getBoolWithFallback("flag-key", "config.key", true))
}

func TestNewLogger_FromConfigFile(t *testing.T) {
	resetKoanf()

	configPath := filepath.Join(t.TempDir(), ".pmgen.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("log:\n  level: error\n  format: json\n"), 0644))
	require.NoError(t, loadConfigFromPath(configPath))

	var buf bytes.Buffer
	logger := newLogger(&buf)
	logger.Warn("dropped")
	logger.Error("kept", "path", "package.json")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Equal(t, "kept", gjson.Get(buf.String(), "msg").String())
}
