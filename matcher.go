package pmgen

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/dlclark/regexp2"
)

// StylusRegexp recognizes stylus compiler errors such as
//
//	Error: /src/app.styl:12:5
//	ParseError: /src/theme.styl:3
//
// Groups: 1 error kind, 2 message (location clause), 3 file, 4 line, 5 column.
// A path of "stdin" is rejected. The group layout is relied on by existing
// editor configuration and must not change.
const StylusRegexp = `(?:^[ ]*(?:(?:[\[])?((?:Parse)?Error): *)(((?!stdin)\S(?:[^\n:\\]+|(?:\\.)+)+)(?::(\d+)(?::(\d+))?)?) *$)`

// Stylus is the built-in stylus compilation error matcher.
var Stylus = Preset{
	MatcherName:  "stylus",
	Label:        "Stylus Compilation Error Matcher",
	ApplyTo:      ApplyToAllDocuments,
	FileLocation: TupleLocation(LocationAutodetect, ""),
	Pattern: SinglePattern(Pattern{
		Regexp:  MustCompile(StylusRegexp, ""),
		File:    3,
		Line:    4,
		Column:  5,
		Message: 2,
	}),
}

var presets = map[string]Preset{
	Stylus.MatcherName: Stylus,
}

// DefaultPreset is used when no preset is configured.
const DefaultPreset = "stylus"

// LookupPreset returns the preset registered under name.
func LookupPreset(name string) (Preset, error) {
	p, ok := presets[name]
	if !ok {
		return Preset{}, configErrorf(nil, "unknown matcher preset %q (available: %v)", name, PresetNames())
	}
	return p, nil
}

// PresetNames returns the registered preset names, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewMatcher builds a Matcher from a preset and an optional pattern override.
//
// The override may be nil (use the preset's pattern), a native regex
// (*regexp2.Regexp, *regexp.Regexp or a compiled Expr) replacing the
// preset pattern's regexp, a string emitted as-is, or a Pattern, *Pattern,
// []Pattern or PatternValue used as-is. Any other type is a ConfigurationError.
func NewMatcher(preset Preset, override any) (Matcher, error) {
	pattern, err := resolvePattern(preset.Pattern, override)
	if err != nil {
		return Matcher{}, err
	}

	m := Matcher{
		MatcherName: preset.MatcherName,
		Label:       preset.Label,
		ApplyTo:     preset.ApplyTo,
		Owner:       preset.Owner,
		Severity:    preset.Severity,
		Base:        preset.Base,
		Pattern:     pattern.normalize(),
	}
	if preset.FileLocation != nil {
		loc := *preset.FileLocation
		if err := loc.Validate(); err != nil {
			return Matcher{}, err
		}
		m.FileLocation = &loc
	}
	if preset.Background != nil {
		bg := *preset.Background
		m.Background = &bg
	}
	return m, nil
}

func resolvePattern(def PatternValue, override any) (PatternValue, error) {
	switch v := override.(type) {
	case nil:
		if def.IsZero() {
			return PatternValue{}, &ConfigurationError{Err: ErrNoPattern}
		}
		return def, nil
	case *regexp2.Regexp:
		if v == nil {
			return resolvePattern(def, nil)
		}
		return def.withRegexp(Compiled(v, "")), nil
	case *regexp.Regexp:
		if v == nil {
			return resolvePattern(def, nil)
		}
		return def.withRegexp(FromStdlib(v)), nil
	case Expr:
		if v.IsCompiled() {
			return def.withRegexp(v), nil
		}
		return LiteralPattern(v.String()), nil
	case string:
		return LiteralPattern(v), nil
	case Pattern:
		return SinglePattern(v), nil
	case *Pattern:
		if v == nil {
			return resolvePattern(def, nil)
		}
		return SinglePattern(*v), nil
	case []Pattern:
		if len(v) == 0 {
			return resolvePattern(def, nil)
		}
		return MultiPattern(v...), nil
	case PatternValue:
		if v.IsZero() {
			return resolvePattern(def, nil)
		}
		return v, nil
	default:
		return PatternValue{}, configErrorf(ErrUnsupportedPattern, "%T", override)
	}
}

// String returns a short description used in log lines.
func (m Matcher) String() string {
	return fmt.Sprintf("%s (%s)", m.MatcherName, m.Label)
}
