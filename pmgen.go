// Package pmgen builds editor problem matchers and patches them into an
// extension manifest.
//
// A problem matcher tells the editor how to find errors in build output: a
// regular expression plus the capture groups holding the file, line, column
// and message. pmgen builds one from a preset, normalizes it to plain JSON
// and writes it to contributes.problemMatchers in the manifest.
//
// # Building
//
//	m, err := pmgen.NewMatcher(pmgen.Stylus, nil)
//	d := pmgen.ToSerializable(m)
//
// The override argument of NewMatcher replaces the preset pattern: a native
// regex keeps the preset's group roles, a string is emitted as-is, and a
// Pattern or []Pattern is used verbatim.
//
// # Patching
//
//	result, err := pmgen.Patch("package.json", d, pmgen.PatchOptions{})
//
// The unmodified manifest is copied to os.TempDir() before it is
// overwritten. A missing manifest is logged and skipped, not returned as an
// error.
//
// # CLI Tool
//
//	go install github.com/yacobolo/pmgen/cmd/pmgen@latest
package pmgen
