package pmgen

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
	"github.com/tidwall/gjson"
)

// DefaultManifestPatterns are the globs FindManifests uses when none are given
var DefaultManifestPatterns = []string{"**/" + ManifestName}

// ManifestCandidate is a JSON manifest found under a search root
type ManifestCandidate struct {
	Path      string // "editors/vscode/package.json"
	Name      string // "vscode-stylus"
	Extension bool   // Declares engines.vscode
	Matchers  int    // Entries currently in contributes.problemMatchers
}

// ScanStats tracks manifest discovery statistics
type ScanStats struct {
	FilesDiscovered int // Files matched by the glob patterns
	FilesSkipped    int // node_modules, gitignored, invalid JSON or not a manifest
	Manifests       int
}

// FindManifests lists files under root matching patterns that look like
// extension manifests: valid JSON with a "contributes" object or an
// "engines.vscode" requirement. node_modules and paths ignored by
// root/.gitignore are skipped.
func FindManifests(root string, patterns []string) ([]ManifestCandidate, ScanStats, error) {
	if len(patterns) == 0 {
		patterns = DefaultManifestPatterns
	}
	gi := loadGitIgnore(root)

	var stats ScanStats
	var found []ManifestCandidate
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(filepath.Join(root, pattern))
		if err != nil {
			return nil, stats, err
		}

		for _, match := range matches {
			if seen[match] {
				continue
			}
			seen[match] = true

			info, err := os.Stat(match)
			if err != nil || info.IsDir() {
				continue
			}
			stats.FilesDiscovered++

			if shouldSkipManifest(root, match, gi) {
				stats.FilesSkipped++
				continue
			}

			candidate, ok := inspectManifest(match)
			if !ok {
				stats.FilesSkipped++
				continue
			}
			found = append(found, candidate)
		}
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].Path < found[j].Path
	})
	stats.Manifests = len(found)
	return found, stats, nil
}

// loadGitIgnore reads root/.gitignore. No .gitignore is fine.
func loadGitIgnore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}

// shouldSkipManifest reports whether path is inside node_modules or gitignored
func shouldSkipManifest(root, path string, gi *ignore.GitIgnore) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)

	for _, part := range strings.Split(rel, "/") {
		if part == "node_modules" {
			return true
		}
	}

	return gi != nil && gi.MatchesPath(rel)
}

func inspectManifest(path string) (ManifestCandidate, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ManifestCandidate{}, false
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if !gjson.ValidBytes(data) {
		return ManifestCandidate{}, false
	}

	fields := gjson.GetManyBytes(data, "name", "contributes", "engines.vscode", ProblemMatchersPath)
	contributes := fields[1].IsObject()
	extension := fields[2].Exists()
	if !contributes && !extension {
		return ManifestCandidate{}, false
	}

	candidate := ManifestCandidate{
		Path:      path,
		Name:      fields[0].String(),
		Extension: extension,
	}
	if fields[3].IsArray() {
		candidate.Matchers = len(fields[3].Array())
	}
	return candidate, true
}
