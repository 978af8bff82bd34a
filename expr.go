package pmgen

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/js"
)

type exprKind uint8

const (
	exprSource exprKind = iota
	exprCompiled
)

// Expr is the regular expression of a pattern. It is either plain source text
// or a compiled regex value; both carry the same source text, which is never
// escaped or unescaped when converting between the two.
//
// Compiled expressions use regexp2 rather than the standard library because
// editor patterns are JavaScript regexes and routinely use lookarounds.
type Expr struct {
	kind   exprKind
	source string
	flags  string
	re     *regexp2.Regexp
}

// Source wraps regex source text that is already in its final form.
func Source(text string) Expr {
	return Expr{kind: exprSource, source: text}
}

// Compiled wraps a native regex value. Flags are the JavaScript flags the
// expression was written with; they are kept for matching only and are not
// part of the serialized source.
func Compiled(re *regexp2.Regexp, flags string) Expr {
	return Expr{kind: exprCompiled, source: re.String(), flags: flags, re: re}
}

// FromStdlib wraps a standard library regex as a native regex value.
func FromStdlib(re *regexp.Regexp) Expr {
	return Expr{kind: exprCompiled, source: re.String()}
}

// Compile compiles source with JavaScript-style flags ("i", "m", "s"; "g", "y",
// "u", "d" and "v" are accepted and ignored).
func Compile(source, flags string) (Expr, error) {
	opts, err := regexOptions(flags)
	if err != nil {
		return Expr{}, err
	}
	re, err := regexp2.Compile(source, opts)
	if err != nil {
		return Expr{}, fmt.Errorf("compile %q: %w", source, err)
	}
	return Compiled(re, flags), nil
}

// MustCompile is like Compile but panics on error. For package-level presets.
func MustCompile(source, flags string) Expr {
	e, err := Compile(source, flags)
	if err != nil {
		panic(err)
	}
	return e
}

// CompileLiteral compiles a JavaScript regex literal such as `/x(y)/i`.
func CompileLiteral(text string) (Expr, error) {
	source, flags, err := ParseRegexLiteral(text)
	if err != nil {
		return Expr{}, err
	}
	return Compile(source, flags)
}

// ParseRegexLiteral splits a JavaScript regex literal into source and flags.
func ParseRegexLiteral(text string) (source, flags string, err error) {
	text = strings.TrimSpace(text)
	l := js.NewLexer(parse.NewInputString(text))

	tt, _ := l.Next()
	if tt != js.DivToken && tt != js.DivEqToken {
		return "", "", fmt.Errorf("%q is not a regular expression literal", text)
	}

	tt, data := l.RegExp()
	if tt != js.RegExpToken {
		if lexErr := l.Err(); lexErr != nil {
			return "", "", fmt.Errorf("%q is not a regular expression literal: %w", text, lexErr)
		}
		return "", "", fmt.Errorf("%q is not a regular expression literal", text)
	}

	if tt, rest := l.Next(); tt != js.ErrorToken {
		return "", "", fmt.Errorf("unexpected %q after regular expression literal", rest)
	}

	lit := string(data)
	end := strings.LastIndexByte(lit, '/')
	source, flags = lit[1:end], lit[end+1:]
	if _, err := regexOptions(flags); err != nil {
		return "", "", fmt.Errorf("%q is not a regular expression literal: %w", text, err)
	}
	return source, flags, nil
}

// IsRegexLiteral reports whether text looks like `/source/flags`.
func IsRegexLiteral(text string) bool {
	text = strings.TrimSpace(text)
	return len(text) >= 2 && text[0] == '/' && strings.LastIndexByte(text, '/') > 0
}

// String returns the regex source text.
func (e Expr) String() string {
	return e.source
}

// Flags returns the flags of a compiled expression.
func (e Expr) Flags() string {
	return e.flags
}

// IsCompiled reports whether the expression holds a native regex value.
func (e Expr) IsCompiled() bool {
	return e.kind == exprCompiled
}

// IsZero reports whether no expression was set.
func (e Expr) IsZero() bool {
	return e.kind == exprSource && e.source == ""
}

// Normalize returns the expression as plain source text.
func (e Expr) Normalize() Expr {
	return Source(e.source)
}

// Regexp returns a compiled form of the expression, compiling source text on demand.
func (e Expr) Regexp() (*regexp2.Regexp, error) {
	if e.re != nil {
		return e.re, nil
	}
	if e.IsZero() {
		return nil, errors.New("empty regular expression")
	}
	opts, err := regexOptions(e.flags)
	if err != nil {
		return nil, err
	}
	return regexp2.Compile(e.source, opts)
}

// GroupCount returns the number of capture groups, not counting group 0.
func (e Expr) GroupCount() (int, error) {
	re, err := e.Regexp()
	if err != nil {
		return 0, err
	}
	return len(re.GetGroupNumbers()) - 1, nil
}

func regexOptions(flags string) (regexp2.RegexOptions, error) {
	opts := regexp2.None
	for _, f := range flags {
		switch f {
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'm':
			opts |= regexp2.Multiline
		case 's':
			opts |= regexp2.Singleline
		case 'g', 'y', 'u', 'd', 'v':
			// No effect on a single match against one line.
		default:
			return opts, fmt.Errorf("unknown regular expression flag %q", f)
		}
	}
	return opts, nil
}
