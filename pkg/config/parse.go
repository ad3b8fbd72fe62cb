package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"github.com/replicate/wheelforge/pkg/global"
	"github.com/replicate/wheelforge/pkg/util/files"
)

// LoadProject reads wheelforge.yaml from projectDir. A missing file yields the defaults.
func LoadProject(projectDir string, defaultTag string) (Project, error) {
	filename := filepath.Join(projectDir, global.ProjectConfigFile)
	exists, err := files.Exists(filename)
	if err != nil {
		return Project{}, &ParseError{Filename: filename, Err: err}
	}
	if !exists {
		return (*ProjectFile)(nil).Complete(defaultTag), nil
	}

	f, err := Parse(filename)
	if err != nil {
		return Project{}, err
	}
	return f.Complete(defaultTag), nil
}

// Parse reads, schema-checks, and parses a wheelforge.yaml file.
func Parse(filename string) (*ProjectFile, error) {
	contents, err := os.ReadFile(filename)
	if err != nil {
		return nil, &ParseError{Filename: filename, Err: err}
	}
	return ParseBytes(contents, filename)
}

// ParseBytes parses YAML content into a ProjectFile.
// The filename is used for error messages only.
func ParseBytes(contents []byte, filename string) (*ProjectFile, error) {
	f := &ProjectFile{}

	if len(contents) == 0 {
		// Empty file is valid, returns empty config
		return f, nil
	}

	if err := Validate(contents); err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(contents, f); err != nil {
		return nil, &ParseError{
			Filename: filename,
			Err:      fmt.Errorf("invalid YAML: %w", err),
		}
	}

	return f, nil
}
