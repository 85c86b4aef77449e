package sprite

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every ConfigError.
var ErrInvalidConfig = errors.New("sprite: invalid config")

// ErrClosed is returned by operations on a closed Context.
var ErrClosed = errors.New("sprite: context closed")

// ConfigError reports a configuration field that failed validation.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("sprite: invalid config: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }
