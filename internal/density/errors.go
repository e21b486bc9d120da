package density

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrCycle     = errors.New("reference cycle")
	ErrUndefined = errors.New("undefined reference")
	ErrInvalid   = errors.New("invalid node")
)

// ConfigError is returned by Build and Bind. Chain holds the reference keys
// that were being resolved when the error was found.
type ConfigError struct {
	Key   string
	Chain []string
	Err   error
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("density: ")
	if e.Key != "" {
		fmt.Fprintf(&b, "%s: ", e.Key)
	}
	b.WriteString(e.Err.Error())
	if len(e.Chain) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(e.Chain, " -> "))
	}
	return b.String()
}

func (e *ConfigError) Unwrap() error { return e.Err }

func invalid(key string, format string, args ...any) *ConfigError {
	return &ConfigError{Key: key, Err: fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))}
}
