package mapper

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration marks a VisualConfig or Palette that must be
	// rejected before any layout attempt.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrEmptyWorkingSet means there is nothing to render.
	ErrEmptyWorkingSet = errors.New("empty working set")
)

// ConfigError names one violated configuration constraint.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidConfiguration, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfiguration
}
