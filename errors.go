package pmgen

import (
	"errors"
	"fmt"
)

var (
	// ErrNoPattern means neither an override nor a preset default pattern was available.
	ErrNoPattern = errors.New("no pattern available")
	// ErrUnsupportedPattern means the pattern override has a type NewMatcher cannot use.
	ErrUnsupportedPattern = errors.New("unsupported pattern argument type")
	// ErrManifestNotFound is the one recovered patch failure: Patch logs it and returns a skipped result.
	ErrManifestNotFound = errors.New("extension manifest not found")
	// ErrNoContributes means the manifest has no "contributes" object to patch.
	ErrNoContributes = errors.New(`manifest has no "contributes" object`)
)

// ConfigurationError is returned when a matcher cannot be built from its inputs
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	switch {
	case e.Reason != "" && e.Err != nil:
		return fmt.Sprintf("configuration error: %s: %v", e.Reason, e.Err)
	case e.Err != nil:
		return "configuration error: " + e.Err.Error()
	default:
		return "configuration error: " + e.Reason
	}
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func configErrorf(err error, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...), Err: err}
}
