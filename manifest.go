package pmgen

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ProblemMatchersPath is where the descriptor is written inside the manifest
const ProblemMatchersPath = "contributes.problemMatchers"

// ManifestName is the file name of an extension manifest
const ManifestName = "package.json"

var utf8BOM = []byte("\xef\xbb\xbf")

// PatchOptions configures Patch
type PatchOptions struct {
	BackupDir string       // Directory for the backup copy (default: os.TempDir())
	Indent    string       // Indentation of written JSON (default: 4 spaces)
	Atomic    bool         // Write through a temp file and rename into place
	Logger    *slog.Logger // Progress and error lines (default: slog.Default())
}

// PatchResult describes what Patch did
type PatchResult struct {
	ManifestPath string
	BackupPath   string
	Skipped      bool // Manifest did not exist; nothing was written
	Replaced     int  // Problem matchers present before patching
}

// DefaultManifestPath returns the manifest next to the running program's
// directory: <dir of executable>/../package.json.
func DefaultManifestPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locating executable: %w", err)
	}
	return filepath.Join(filepath.Dir(exe), "..", ManifestName), nil
}

// BackupPath returns the single backup slot for a manifest: its base name
// inside dir, or inside os.TempDir() when dir is empty. Every run reuses it.
func BackupPath(dir, manifestPath string) string {
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, filepath.Base(manifestPath))
}

// PatchDefault builds the default stylus matcher and patches it into the manifest.
func PatchDefault(manifestPath string, opts PatchOptions) (*PatchResult, error) {
	m, err := NewMatcher(Stylus, nil)
	if err != nil {
		return nil, err
	}
	return Patch(manifestPath, ToSerializable(m), opts)
}

// Patch replaces contributes.problemMatchers in the manifest with a single
// element holding d. The unmodified manifest is written to the backup path
// first. A missing manifest is logged and reported as Skipped with a nil
// error; every other failure is returned.
func Patch(manifestPath string, d Descriptor, opts PatchOptions) (*PatchResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	indent := opts.Indent
	if indent == "" {
		indent = DefaultIndent
	}

	result := &PatchResult{ManifestPath: manifestPath}

	info, err := os.Stat(manifestPath)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Error("Extension manifest not found", "path", manifestPath, "error", ErrManifestNotFound)
		result.Skipped = true
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat manifest: %w", err)
	}

	logger.Info("Importing manifest data", "path", manifestPath)
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("parsing manifest %s: invalid JSON", manifestPath)
	}
	if !gjson.GetBytes(data, "contributes").IsObject() {
		return nil, fmt.Errorf("%s: %w", manifestPath, ErrNoContributes)
	}
	if prev := gjson.GetBytes(data, ProblemMatchersPath); prev.IsArray() {
		result.Replaced = len(prev.Array())
	}

	result.BackupPath = BackupPath(opts.BackupDir, manifestPath)
	logger.Info("Backing up existing manifest", "path", result.BackupPath)
	original, err := Reindent(data, indent)
	if err != nil {
		return nil, fmt.Errorf("formatting backup: %w", err)
	}
	if err := os.WriteFile(result.BackupPath, original, 0o644); err != nil {
		return nil, fmt.Errorf("writing backup: %w", err)
	}

	matchers, err := EncodeJSON([]Descriptor{d}, "")
	if err != nil {
		return nil, fmt.Errorf("encoding problem matcher: %w", err)
	}
	patched, err := sjson.SetRawBytes(data, ProblemMatchersPath, matchers)
	if err != nil {
		return nil, fmt.Errorf("setting %s: %w", ProblemMatchersPath, err)
	}
	updated, err := Reindent(patched, indent)
	if err != nil {
		return nil, fmt.Errorf("formatting manifest: %w", err)
	}

	logger.Info("Writing updated manifest", "path", manifestPath, "replaced", result.Replaced)
	if opts.Atomic {
		err = writeFileAtomic(manifestPath, updated, info.Mode().Perm())
	} else {
		err = os.WriteFile(manifestPath, updated, info.Mode().Perm())
	}
	if err != nil {
		return nil, fmt.Errorf("writing manifest: %w", err)
	}

	return result, nil
}

// Reindent re-lays out JSON with one element per line, keeping key order.
func Reindent(data []byte, indent string) ([]byte, error) {
	var compact bytes.Buffer
	if err := json.Compact(&compact, data); err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", indent); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func writeFileAtomic(path string, data []byte, perm fs.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
