package pmgen

type patternValueKind uint8

const (
	patternNone patternValueKind = iota
	patternLiteral
	patternSingle
	patternMulti
)

// PatternValue is what a matcher's "pattern" field holds: the name or source
// text of a pattern, one inline pattern, or an ordered sequence of patterns
// matching a problem spread over several lines.
type PatternValue struct {
	kind     patternValueKind
	literal  string
	patterns []Pattern
}

// LiteralPattern is emitted unchanged as the "pattern" string.
func LiteralPattern(text string) PatternValue {
	return PatternValue{kind: patternLiteral, literal: text}
}

// SinglePattern holds one inline pattern.
func SinglePattern(p Pattern) PatternValue {
	return PatternValue{kind: patternSingle, patterns: []Pattern{p}}
}

// MultiPattern holds a multi-line pattern sequence. It is always emitted as
// an array, even with one element.
func MultiPattern(patterns ...Pattern) PatternValue {
	return PatternValue{kind: patternMulti, patterns: append([]Pattern(nil), patterns...)}
}

// IsZero reports whether no usable pattern is set. A sequence with no
// elements counts as unset.
func (v PatternValue) IsZero() bool {
	switch v.kind {
	case patternNone:
		return true
	case patternSingle, patternMulti:
		return len(v.patterns) == 0
	default:
		return false
	}
}

// IsMulti reports whether the value is a pattern sequence.
func (v PatternValue) IsMulti() bool {
	return v.kind == patternMulti
}

// Literal returns the literal string form, if that is what the value holds.
func (v PatternValue) Literal() (string, bool) {
	return v.literal, v.kind == patternLiteral
}

// Patterns returns a copy of the inline patterns. Nil for literal values.
func (v PatternValue) Patterns() []Pattern {
	if len(v.patterns) == 0 {
		return nil
	}
	return append([]Pattern(nil), v.patterns...)
}

// normalize converts every compiled regexp to source text.
func (v PatternValue) normalize() PatternValue {
	out := PatternValue{kind: v.kind, literal: v.literal}
	if len(v.patterns) > 0 {
		out.patterns = make([]Pattern, len(v.patterns))
		for i, p := range v.patterns {
			p.Regexp = p.Regexp.Normalize()
			out.patterns[i] = p
		}
	}
	return out
}

// withRegexp swaps the regexp of the first inline pattern, keeping its
// capture-group roles. Values without an inline pattern become a single
// pattern whose roles all point at the whole match.
func (v PatternValue) withRegexp(e Expr) PatternValue {
	if len(v.patterns) == 0 {
		return SinglePattern(Pattern{Regexp: e})
	}
	out := PatternValue{kind: v.kind, patterns: v.Patterns()}
	out.patterns[0].Regexp = e
	return out
}
