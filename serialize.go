package pmgen

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// DefaultIndent matches the indentation the manifest has always been written with.
const DefaultIndent = "    "

// Descriptor is the JSON form of a Matcher as it appears in
// contributes.problemMatchers. Regexps are source strings only.
type Descriptor struct {
	Name         string        `json:"name"`
	Label        string        `json:"label,omitempty"`
	Owner        string        `json:"owner,omitempty"`
	Severity     string        `json:"severity,omitempty"`
	Base         string        `json:"base,omitempty"`
	ApplyTo      ApplyTo       `json:"applyTo,omitempty"`
	FileLocation *FileLocation `json:"fileLocation,omitempty"`
	Pattern      PatternJSON   `json:"pattern"`
	Background   *Background   `json:"background,omitempty"`
}

// SerializedPattern is the JSON form of a Pattern
type SerializedPattern struct {
	Regexp    string      `json:"regexp"`
	Kind      PatternKind `json:"kind,omitempty"`
	File      int         `json:"file"`
	Location  int         `json:"location,omitempty"`
	Line      int         `json:"line,omitempty"`
	Column    int         `json:"column,omitempty"`
	EndLine   int         `json:"endLine,omitempty"`
	EndColumn int         `json:"endColumn,omitempty"`
	Severity  int         `json:"severity,omitempty"`
	Code      int         `json:"code,omitempty"`
	Message   int         `json:"message"`
	Loop      bool        `json:"loop,omitempty"`
}

// PatternJSON is the "pattern" field: a string, one object, or an array of objects.
type PatternJSON struct {
	Literal  string
	Patterns []SerializedPattern
	Multi    bool
}

// IsLiteral reports whether the pattern is emitted as a plain string.
func (p PatternJSON) IsLiteral() bool {
	return p.Patterns == nil
}

// MarshalJSON implements json.Marshaler.
func (p PatternJSON) MarshalJSON() ([]byte, error) {
	switch {
	case p.Patterns == nil:
		return marshalNoEscape(p.Literal)
	case p.Multi:
		return marshalNoEscape(p.Patterns)
	case len(p.Patterns) == 1:
		return marshalNoEscape(p.Patterns[0])
	default:
		return nil, fmt.Errorf("single pattern holds %d patterns", len(p.Patterns))
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *PatternJSON) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errors.New("pattern: empty value")
	}
	switch data[0] {
	case '"':
		*p = PatternJSON{}
		return json.Unmarshal(data, &p.Literal)
	case '[':
		var patterns []SerializedPattern
		if err := json.Unmarshal(data, &patterns); err != nil {
			return err
		}
		if patterns == nil {
			patterns = []SerializedPattern{}
		}
		*p = PatternJSON{Patterns: patterns, Multi: true}
		return nil
	case '{':
		var single SerializedPattern
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		*p = PatternJSON{Patterns: []SerializedPattern{single}}
		return nil
	default:
		return fmt.Errorf("pattern: unexpected JSON %s", data)
	}
}

// ToSerializable converts a Matcher into its JSON form. MatcherName becomes
// "name" and every regexp becomes its source text; m is not modified.
func ToSerializable(m Matcher) Descriptor {
	d := Descriptor{
		Name:     m.MatcherName,
		Label:    m.Label,
		Owner:    m.Owner,
		Severity: m.Severity,
		Base:     m.Base,
		ApplyTo:  m.ApplyTo,
	}
	if m.FileLocation != nil {
		loc := *m.FileLocation
		d.FileLocation = &loc
	}
	if m.Background != nil {
		bg := *m.Background
		d.Background = &bg
	}

	// A zero pattern only comes from a Matcher not built by NewMatcher; it
	// encodes as "".
	if literal, ok := m.Pattern.Literal(); ok || m.Pattern.IsZero() {
		d.Pattern = PatternJSON{Literal: literal}
		return d
	}

	patterns := m.Pattern.Patterns()
	out := make([]SerializedPattern, len(patterns))
	for i, p := range patterns {
		out[i] = serializePattern(p)
	}
	d.Pattern = PatternJSON{Patterns: out, Multi: m.Pattern.IsMulti()}
	return d
}

func serializePattern(p Pattern) SerializedPattern {
	return SerializedPattern{
		Regexp:    p.Regexp.String(),
		Kind:      p.Kind,
		File:      p.File,
		Location:  p.Location,
		Line:      p.Line,
		Column:    p.Column,
		EndLine:   p.EndLine,
		EndColumn: p.EndColumn,
		Severity:  p.Severity,
		Code:      p.Code,
		Message:   p.Message,
		Loop:      p.Loop,
	}
}

// EncodeJSON encodes v with the given indent and without HTML escaping, so
// regex sources keep characters like < and & as written.
func EncodeJSON(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func marshalNoEscape(v any) ([]byte, error) {
	return EncodeJSON(v, "")
}
