// Package reflow rewraps documentation comment blocks to a maximum width
// while preserving markup and paragraph structure.
package reflow

import (
	"fmt"
)

const (
	// DefaultMaxLineLength is the wrap width applied when none is configured.
	DefaultMaxLineLength = 120

	// errorInvalidWidthFormat reports a rejected maximum line length.
	errorInvalidWidthFormat = "maximum line length must be at least 1, got %d"
)

// Config carries the externally supplied formatting parameters. Values are
// immutable once constructed.
type Config struct {
	MaxLineLength      int
	UseCompactStyle    bool
	PreserveBlankLines bool
}

// NewConfig validates the formatting parameters. A non-positive maximum line
// length is the only contract violation this package rejects; it is refused
// here, before any reflow call.
func NewConfig(maxLineLength int, useCompactStyle bool, preserveBlankLines bool) (Config, error) {
	if maxLineLength < 1 {
		return Config{}, fmt.Errorf(errorInvalidWidthFormat, maxLineLength)
	}
	return Config{
		MaxLineLength:      maxLineLength,
		UseCompactStyle:    useCompactStyle,
		PreserveBlankLines: preserveBlankLines,
	}, nil
}

// DefaultConfig returns the configuration used when no overrides are supplied.
func DefaultConfig() Config {
	return Config{
		MaxLineLength:      DefaultMaxLineLength,
		UseCompactStyle:    true,
		PreserveBlankLines: true,
	}
}
