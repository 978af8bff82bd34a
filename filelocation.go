package pmgen

import (
	"encoding/json"
	"fmt"
)

// LocationMode controls how a matched file name is resolved to a path
type LocationMode string

// Location modes
const (
	LocationAbsolute   LocationMode = "absolute"
	LocationRelative   LocationMode = "relative"
	LocationAutodetect LocationMode = "autodetect"
)

// FileLocation is either a bare mode ("relative") or the tuple form
// (["autodetect"] or ["relative", "${workspaceFolder}/src"]).
type FileLocation struct {
	Mode  LocationMode
	Base  string // Only used in tuple form
	Tuple bool
}

// FixedLocation returns the bare-mode form.
func FixedLocation(mode LocationMode) *FileLocation {
	return &FileLocation{Mode: mode}
}

// TupleLocation returns the tuple form, with an optional base path.
func TupleLocation(mode LocationMode, base string) *FileLocation {
	return &FileLocation{Mode: mode, Base: base, Tuple: true}
}

// ParseFileLocation builds a FileLocation from config values: one element
// gives the bare form unless asTuple is set, two elements give mode and base.
func ParseFileLocation(values []string, asTuple bool) (*FileLocation, error) {
	var loc *FileLocation
	switch len(values) {
	case 0:
		return nil, nil
	case 1:
		loc = &FileLocation{Mode: LocationMode(values[0]), Tuple: asTuple}
	case 2:
		loc = TupleLocation(LocationMode(values[0]), values[1])
	default:
		return nil, configErrorf(nil, "fileLocation takes at most 2 values, got %d", len(values))
	}
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	return loc, nil
}

// Validate checks the mode name and that the tuple form is used with a mode that accepts it.
func (l FileLocation) Validate() error {
	switch l.Mode {
	case LocationAbsolute:
		if l.Tuple {
			return configErrorf(nil, "fileLocation %q cannot take a base path", l.Mode)
		}
	case LocationRelative, LocationAutodetect:
	default:
		return configErrorf(nil, "unknown fileLocation mode %q", l.Mode)
	}
	if l.Base != "" && !l.Tuple {
		return configErrorf(nil, "fileLocation base %q requires the tuple form", l.Base)
	}
	return nil
}

// MarshalJSON emits "mode", ["mode"] or ["mode", "base"].
func (l FileLocation) MarshalJSON() ([]byte, error) {
	if !l.Tuple {
		return marshalNoEscape(string(l.Mode))
	}
	if l.Base == "" {
		return marshalNoEscape([]string{string(l.Mode)})
	}
	return marshalNoEscape([]string{string(l.Mode), l.Base})
}

// UnmarshalJSON accepts every form MarshalJSON produces.
func (l *FileLocation) UnmarshalJSON(data []byte) error {
	var mode string
	if err := json.Unmarshal(data, &mode); err == nil {
		*l = FileLocation{Mode: LocationMode(mode)}
		return nil
	}

	var parts []string
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("fileLocation: %w", err)
	}
	loc, err := ParseFileLocation(parts, true)
	if err != nil {
		return err
	}
	if loc == nil {
		return fmt.Errorf("fileLocation: empty array")
	}
	*l = *loc
	return nil
}
