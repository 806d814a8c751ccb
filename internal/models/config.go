package models

import (
	"fmt"
	"strings"
)

// Dialect selects the flavour of emitted source
type Dialect string

const (
	// DialectTyped emits TypeScript
	DialectTyped Dialect = "typed"
	// DialectUntyped emits JavaScript annotated with JSDoc
	DialectUntyped Dialect = "untyped"
)

// ParseDialect accepts the dialect names and the usual language aliases
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "typed", "ts", "typescript":
		return DialectTyped, nil
	case "untyped", "js", "javascript":
		return DialectUntyped, nil
	default:
		return "", fmt.Errorf("invalid language '%s': must be 'ts' or 'js'", s)
	}
}

// Extension returns the file extension of the implementation file
func (d Dialect) Extension() string {
	if d == DialectUntyped {
		return ".mjs"
	}
	return ".ts"
}

// GenerationConfig holds the options of one generation run
type GenerationConfig struct {
	Dialect         Dialect `mapstructure:"language"`
	FullResponse    bool    `mapstructure:"full-response"`
	FullRequest     bool    `mapstructure:"full-request"`
	WithCredentials bool    `mapstructure:"with-credentials"`
	PropsOptional   bool    `mapstructure:"props-optional"`
	ClientName      string  `mapstructure:"name"`
}

// DefaultConfig returns the default generation configuration
func DefaultConfig() GenerationConfig {
	return GenerationConfig{
		Dialect:    DialectTyped,
		ClientName: "api",
	}
}

// Artifact is the output of a generation run
type Artifact struct {
	Types          string
	Implementation string
}
