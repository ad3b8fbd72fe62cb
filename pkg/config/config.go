package config

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/replicate/wheelforge/pkg/accelerator"
	"github.com/replicate/wheelforge/pkg/errors"
	"github.com/replicate/wheelforge/pkg/platform"
	"github.com/replicate/wheelforge/pkg/util/console"
	"github.com/replicate/wheelforge/pkg/util/files"
)

const (
	DefaultOutputDir = "dist"
	DefaultAssetsDir = "assets"
)

// Options are the raw invocation options, before defaults and implications are applied.
type Options struct {
	Variant        string
	OutputDir      string
	AssetsDir      string
	RunTests       bool
	QuickTest      bool
	InstallPrereqs bool
	Toolchain      string
	Verbose        bool
}

// AddFlags binds the options to fs using the short flags the build scripts have always used.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.Variant, "cuda", "c", "", "Accelerator variant to build ("+accelerator.VariantList()+"); required on Linux")
	fs.StringVarP(&o.OutputDir, "output", "o", DefaultOutputDir, "Directory the final wheel is written to")
	fs.StringVarP(&o.AssetsDir, "assets", "a", DefaultAssetsDir, "Directory holding optional external plugin libraries")
	fs.BoolVarP(&o.RunTests, "test", "t", false, "Validate the wheel after building")
	fs.BoolVarP(&o.QuickTest, "quick", "q", false, "Run the quick validation suite (implies -t)")
	fs.BoolVarP(&o.InstallPrereqs, "prereqs", "p", false, "Install build prerequisites first")
	fs.StringVarP(&o.Toolchain, "toolchain", "T", "", "Install prerequisites with the named toolchain (implies -p)")
	fs.BoolVarP(&o.Verbose, "verbose", "v", false, "Show unabridged output from external tools")
}

// BuildConfiguration is the fully resolved configuration. It is a value and is never mutated
// after Resolve returns it.
type BuildConfiguration struct {
	Variant        accelerator.Variant
	OutputDir      string
	AssetsDir      string
	RunTests       bool
	QuickTest      bool
	InstallPrereqs bool
	Toolchain      string
	Verbose        bool
}

// Resolve applies defaults and cross-option implications and validates opts for profile.
// Relative directories are resolved against baseDir. It has no side effects.
func Resolve(opts Options, profile platform.Profile, baseDir string) (BuildConfiguration, error) {
	cfg := BuildConfiguration{
		RunTests:       opts.RunTests || opts.QuickTest,
		QuickTest:      opts.QuickTest,
		InstallPrereqs: opts.InstallPrereqs || opts.Toolchain != "",
		Toolchain:      strings.TrimSpace(opts.Toolchain),
		Verbose:        opts.Verbose,
	}

	variant, err := resolveVariant(opts.Variant, profile)
	if err != nil {
		return BuildConfiguration{}, err
	}
	cfg.Variant = variant

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = DefaultOutputDir
	}
	if cfg.OutputDir, err = files.Expand(outputDir, baseDir); err != nil {
		return BuildConfiguration{}, errors.Configuration("-o", "%s", err)
	}

	assetsDir := opts.AssetsDir
	if assetsDir == "" {
		assetsDir = DefaultAssetsDir
	}
	if cfg.AssetsDir, err = files.Expand(assetsDir, baseDir); err != nil {
		return BuildConfiguration{}, errors.Configuration("-a", "%s", err)
	}

	return cfg, nil
}

func resolveVariant(value string, profile platform.Profile) (accelerator.Variant, error) {
	if !profile.MultiVariant() {
		if value != "" && value != string(accelerator.CPU) {
			console.Debugf("Ignoring -c %s: only %s builds are supported on %s", value, accelerator.CPU, profile.OS)
		}
		return accelerator.CPU, nil
	}

	if strings.TrimSpace(value) == "" {
		return "", errors.Configuration("-c", "an accelerator variant is required on %s (one of %s, %s)", profile.OS, accelerator.CUDA12, accelerator.CUDA13)
	}
	variant, err := accelerator.ParseVariant(value)
	if err != nil {
		return "", errors.Configuration("-c", "%s", err)
	}
	if !variant.IsCUDA() {
		return "", errors.Configuration("-c", "%s builds are not supported on %s, use %s or %s", variant, profile.OS, accelerator.CUDA12, accelerator.CUDA13)
	}
	return variant, nil
}
