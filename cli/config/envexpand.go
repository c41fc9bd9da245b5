// Package config handles YAML config file loading for the courier CLI.
package config

import (
	"fmt"
	"os"
	"regexp"
)

// placeholderPattern matches ${VAR} tokens. A placeholder may appear
// anywhere in a line, including as a prefix, suffix, or infix of a
// larger token, and a line may contain several of them.
var placeholderPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Source resolves placeholder names to values. Passing the source
// explicitly keeps expansion pure: nothing beyond the given source is
// ever consulted.
type Source interface {
	Lookup(name string) (string, bool)
}

// MapSource is an in-memory Source, convenient for tests.
type MapSource map[string]string

// Lookup implements Source.
func (m MapSource) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// OSEnv returns a Source backed by the process environment.
func OSEnv() Source { return osEnv{} }

type osEnv struct{}

func (osEnv) Lookup(name string) (string, bool) { return os.LookupEnv(name) }

// UndefinedVariableError is returned when a ${NAME} placeholder has no
// entry in the variable source.
type UndefinedVariableError struct {
	// Name is the unresolved variable name.
	Name string
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("undefined variable ${%s}", e.Name)
}

// Expand replaces every ${NAME} placeholder in input with its value
// from src. Every placeholder must resolve: the first undefined name
// (in document order) aborts the whole expansion with
// *UndefinedVariableError, and no partial result is returned. There is
// no default-value syntax; a missing secret must fail here rather than
// surface later as an empty credential.
func Expand(input string, src Source) (string, error) {
	var undefined *UndefinedVariableError
	expanded := placeholderPattern.ReplaceAllStringFunc(input, func(match string) string {
		if undefined != nil {
			return match
		}
		name := match[2 : len(match)-1]
		value, ok := src.Lookup(name)
		if !ok {
			undefined = &UndefinedVariableError{Name: name}
			return match
		}
		return value
	})
	if undefined != nil {
		return "", undefined
	}
	return expanded, nil
}
