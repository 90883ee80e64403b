package roster

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is the sentinel every ConfigError unwraps to.
var ErrInvalidConfig = errors.New("invalid roster config")

// ConfigError reports a structurally invalid roster. It is fatal: the caller
// has to fix the input before anything can be scheduled.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidConfig, e.Field, e.Reason)
}

// Unwrap lets callers match with errors.Is(err, ErrInvalidConfig).
func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

func configErr(field, format string, args ...any) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
