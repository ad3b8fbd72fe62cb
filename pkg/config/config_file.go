package config

import (
	"path/filepath"
	"strings"

	"github.com/replicate/wheelforge/pkg/errors"
)

// ProjectFile represents the raw wheelforge.yaml as written by users.
// All fields are pointers/omitempty to distinguish "not set" from "set to zero value".
type ProjectFile struct {
	Descriptor    *string  `json:"descriptor,omitempty" yaml:"descriptor,omitempty"`
	StagingDir    *string  `json:"staging_dir,omitempty" yaml:"staging_dir,omitempty"`
	Prerequisites *string  `json:"prerequisites,omitempty" yaml:"prerequisites,omitempty"`
	Validator     *string  `json:"validator,omitempty" yaml:"validator,omitempty"`
	Discover      []string `json:"discover,omitempty" yaml:"discover,omitempty"`
	PlatformTag   *string  `json:"platform_tag,omitempty" yaml:"platform_tag,omitempty"`
	TailLines     *int     `json:"tail_lines,omitempty" yaml:"tail_lines,omitempty"`
}

const (
	DefaultDescriptor    = "pyproject.toml"
	DefaultStagingDir    = "build"
	DefaultPrerequisites = "scripts/install_prerequisites.sh"
	DefaultValidator     = "scripts/validate_wheel.py"
	DefaultTailLines     = 10
)

// Project is the completed project file: every field has a value.
type Project struct {
	Descriptor    string
	StagingDir    string
	Prerequisites string
	Validator     string
	// Discover is empty when assets are discovered in-process.
	Discover    []string
	PlatformTag string
	TailLines   int
}

// Complete fills in defaults. defaultTag is used when no platform tag is configured.
func (f *ProjectFile) Complete(defaultTag string) Project {
	p := Project{
		Descriptor:    DefaultDescriptor,
		StagingDir:    DefaultStagingDir,
		Prerequisites: DefaultPrerequisites,
		Validator:     DefaultValidator,
		PlatformTag:   defaultTag,
		TailLines:     DefaultTailLines,
	}
	if f == nil {
		return p
	}
	if f.Descriptor != nil {
		p.Descriptor = *f.Descriptor
	}
	if f.StagingDir != nil {
		p.StagingDir = *f.StagingDir
	}
	if f.Prerequisites != nil {
		p.Prerequisites = *f.Prerequisites
	}
	if f.Validator != nil {
		p.Validator = *f.Validator
	}
	if len(f.Discover) > 0 {
		p.Discover = append([]string{}, f.Discover...)
	}
	if f.PlatformTag != nil {
		p.PlatformTag = *f.PlatformTag
	}
	if f.TailLines != nil {
		p.TailLines = *f.TailLines
	}
	return p
}

// CheckStagingDir rejects a staging directory that is not strictly inside projectDir. The build
// removes the staging directory, so it must never be the project or anything above it.
func (p Project) CheckStagingDir(projectDir string) error {
	staging := p.StagingDir
	if !filepath.IsAbs(staging) {
		staging = filepath.Join(projectDir, staging)
	}
	rel, err := filepath.Rel(projectDir, staging)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return errors.Configuration("staging_dir", "%s must be a subdirectory of %s", staging, projectDir)
	}
	return nil
}
