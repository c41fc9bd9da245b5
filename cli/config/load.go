package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ParseError is returned when expanded configuration text is not
// valid YAML.
type ParseError struct {
	// Path is the source file, when the text came from one.
	Path string
	// Err is the underlying YAML error.
	Err error
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("invalid YAML in %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("invalid YAML: %v", e.Err)
}

// Unwrap returns the underlying error for errors.Is/As chain traversal.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// ExpandAndParse expands every ${NAME} placeholder in raw against src,
// then parses the result as a YAML mapping. Repeat calls with the same
// inputs yield the same result; neither argument is mutated.
func ExpandAndParse(raw string, src Source) (map[string]any, error) {
	expanded, err := Expand(raw, src)
	if err != nil {
		return nil, err
	}

	var parsed map[string]any
	if err := yaml.Unmarshal([]byte(expanded), &parsed); err != nil {
		return nil, &ParseError{Err: err}
	}
	return parsed, nil
}

// Load reads a YAML config file, expands placeholders from src, and
// unmarshals into a Config struct.
func Load(path string, src Source) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("cannot read config file %q: %w", path, err)
	}

	expanded, err := Expand(string(data), src)
	if err != nil {
		return nil, fmt.Errorf("expand %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	return &cfg, nil
}
