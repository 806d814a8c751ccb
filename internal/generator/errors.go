package generator

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig matches any *ConfigError
	ErrConfig = errors.New("invalid generation config")
	// ErrDuplicateOperation is returned when two operations share an identifier
	ErrDuplicateOperation = errors.New("duplicate operation identifier")
)

// ConfigError reports an invalid generation option
type ConfigError struct {
	Option  string
	Value   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Option, e.Value, e.Message)
}

// Is makes errors.Is(err, ErrConfig) match any ConfigError
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
