package console

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/tidwall/pretty"
	"github.com/yacobolo/pmgen"
)

// Reporter writes human-readable output for the CLI
type Reporter struct {
	w         io.Writer
	useColors bool
}

// NewReporter creates a reporter. forceColor enables colors regardless of the terminal.
func NewReporter(w io.Writer, forceColor bool) *Reporter {
	return &Reporter{
		w:         w,
		useColors: shouldUseColors(w, forceColor),
	}
}

// shouldUseColors determines if colors should be enabled
func shouldUseColors(w io.Writer, force bool) bool {
	// Explicit flag wins
	if force {
		return true
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	// FORCE_COLOR is set by GitHub Actions and most CI runners that render ANSI
	if os.Getenv("FORCE_COLOR") != "" || os.Getenv("GITHUB_ACTIONS") == "true" {
		return true
	}

	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// UseColors returns whether colors are enabled
func (r *Reporter) UseColors() bool {
	return r.useColors
}

// PrintPreview writes indented descriptor JSON prefixed with "JSON Preview:".
func (r *Reporter) PrintPreview(data []byte) {
	if r.useColors {
		data = pretty.Color(data, nil)
	}
	fmt.Fprintf(r.w, "%s %s\n", RenderStyle(StyleCyan, "JSON Preview:", r.useColors), data)
}

// PrintJSON writes JSON only, for piping into other tools.
func (r *Reporter) PrintJSON(data []byte) {
	if r.useColors {
		data = pretty.Color(data, nil)
	}
	fmt.Fprintf(r.w, "%s\n", data)
}

// PrintPatchResult summarizes a Patch call
func (r *Reporter) PrintPatchResult(result *pmgen.PatchResult) {
	if result.Skipped {
		fmt.Fprintf(r.w, "%s %s\n",
			RenderStyle(StyleYellow, "Skipped:", r.useColors),
			fmt.Sprintf("manifest not found at %s", result.ManifestPath))
		return
	}

	fmt.Fprintf(r.w, "%s %s\n",
		RenderStyle(StyleGreen, "Updated", r.useColors),
		RenderStyle(StyleCyan, result.ManifestPath, r.useColors))
	fmt.Fprintf(r.w, "  Backup: %s\n", result.BackupPath)
	fmt.Fprintf(r.w, "  Problem matchers replaced: %d\n", result.Replaced)
}

// PrintIssues writes check issues ordered by pattern index, then role.
func (r *Reporter) PrintIssues(issues []pmgen.Issue) {
	sorted := append([]pmgen.Issue(nil), issues...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Pattern != sorted[j].Pattern {
			return sorted[i].Pattern < sorted[j].Pattern
		}
		return sorted[i].Role < sorted[j].Role
	})

	for _, issue := range sorted {
		r.printIssue(issue)
	}
}

// printIssue formats one issue as "pattern[i]: text (check)"
func (r *Reporter) printIssue(issue pmgen.Issue) {
	location := fmt.Sprintf("pattern[%d]:", issue.Pattern)

	style := StyleYellow
	if issue.Severity == pmgen.SeverityError {
		style = StyleRed
	}

	fmt.Fprintf(r.w, "%s %s %s%s\n",
		RenderStyle(StyleCyan, location, r.useColors),
		RenderStyle(style, issue.Severity, r.useColors),
		issue.Text,
		RenderStyle(StyleGray, fmt.Sprintf(" (%s)", issue.FromCheck), r.useColors))
}

// PrintIssueSummary writes the issue count line
func (r *Reporter) PrintIssueSummary(issues []pmgen.Issue) {
	if len(issues) == 0 {
		fmt.Fprintln(r.w, RenderStyle(StyleGreen, "No issues found", r.useColors))
		return
	}

	counts := make(map[string]int)
	for _, issue := range issues {
		counts[issue.FromCheck]++
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(r.w, "")
	fmt.Fprintf(r.w, "%s:\n", pluralizeCount(len(issues), "issue", "issues"))
	for _, name := range names {
		fmt.Fprintf(r.w, "* %s: %d\n", name, counts[name])
	}
}

// PrintManifests lists discovered manifests
func (r *Reporter) PrintManifests(found []pmgen.ManifestCandidate, stats pmgen.ScanStats) {
	for _, c := range found {
		kind := "manifest"
		if c.Extension {
			kind = "extension"
		}
		fmt.Fprintf(r.w, "%s %s %s\n",
			RenderStyle(StyleCyan, c.Path, r.useColors),
			c.Name,
			RenderStyle(StyleGray, fmt.Sprintf("(%s, %s)", kind, pluralizeCount(c.Matchers, "matcher", "matchers")), r.useColors))
	}

	fmt.Fprintf(r.w, "\n%s found (%d scanned, %d skipped)\n",
		pluralizeCount(stats.Manifests, "manifest", "manifests"),
		stats.FilesDiscovered, stats.FilesSkipped)
}

// pluralizeCount returns a formatted string with count and singular/plural form
func pluralizeCount(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}
