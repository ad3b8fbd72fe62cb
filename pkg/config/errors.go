package config

import (
	"fmt"

	"github.com/replicate/wheelforge/pkg/errors"
)

// ParseError indicates the YAML file could not be read or parsed.
type ParseError struct {
	Filename string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Filename, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Code() string {
	return errors.CodeConfiguration
}

// SchemaError indicates the project file structure doesn't match the schema.
// For example, wrong type for a field or unknown field.
type SchemaError struct {
	Field   string
	Message string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("There is a problem in your wheelforge.yaml file: %s %s", e.Field, e.Message)
}

func (e *SchemaError) Code() string {
	return errors.CodeConfiguration
}
