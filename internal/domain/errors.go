package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidCombination is returned when numbers do not form a valid combination.
var ErrInvalidCombination = errors.New("invalid combination")

// ConfigError reports an invalid run configuration. It is fatal and
// always surfaced before any search work starts.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s: %s", e.Field, e.Reason)
}

// NewConfigError builds a ConfigError with a formatted reason.
func NewConfigError(field, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsConfigError reports whether err is or wraps a *ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
