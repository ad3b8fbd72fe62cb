package config

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/replicate/wheelforge/pkg/accelerator"
	"github.com/replicate/wheelforge/pkg/errors"
	"github.com/replicate/wheelforge/pkg/platform"
)

var (
	linux  = platform.Detect("linux", "amd64")
	darwin = platform.Detect("darwin", "arm64")
)

func TestResolveDefaults(t *testing.T) {
	cfg, err := Resolve(Options{Variant: "12"}, linux, "/src")
	require.NoError(t, err)
	require.Equal(t, BuildConfiguration{
		Variant:   accelerator.CUDA12,
		OutputDir: "/src/dist",
		AssetsDir: "/src/assets",
	}, cfg)
}

func TestResolveRequiresVariantOnLinux(t *testing.T) {
	_, err := Resolve(Options{}, linux, "/src")
	require.Error(t, err)

	var cerr *errors.ConfigurationError
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, "-c", cerr.Option)
}

func TestResolveRejectsUnknownVariant(t *testing.T) {
	_, err := Resolve(Options{Variant: "11"}, linux, "/src")
	require.True(t, errors.IsConfiguration(err))

	_, err = Resolve(Options{Variant: "cpu"}, linux, "/src")
	require.True(t, errors.IsConfiguration(err))
	require.ErrorContains(t, err, "not supported on linux")
}

func TestResolveForcesCPUOnDarwin(t *testing.T) {
	for _, value := range []string{"", "12", "13", "cpu", "whatever"} {
		cfg, err := Resolve(Options{Variant: value}, darwin, "/src")
		require.NoError(t, err, value)
		require.Equal(t, accelerator.CPU, cfg.Variant, value)
	}
}

func TestResolveImplications(t *testing.T) {
	cfg, err := Resolve(Options{Variant: "13", QuickTest: true}, linux, "/src")
	require.NoError(t, err)
	require.True(t, cfg.RunTests)
	require.True(t, cfg.QuickTest)

	cfg, err = Resolve(Options{Variant: "13", Toolchain: "gcc-13"}, linux, "/src")
	require.NoError(t, err)
	require.True(t, cfg.InstallPrereqs)
	require.Equal(t, "gcc-13", cfg.Toolchain)

	cfg, err = Resolve(Options{Variant: "13", RunTests: true}, linux, "/src")
	require.NoError(t, err)
	require.True(t, cfg.RunTests)
	require.False(t, cfg.QuickTest)
}

func TestQuickImpliesTestRegardlessOfFlagOrder(t *testing.T) {
	for _, args := range [][]string{
		{"-c", "12", "-q"},
		{"-q", "-c", "12"},
		{"-qv", "-c", "12"},
		{"-t=false", "-q", "-c", "12"},
		{"-q", "-t=false", "-c", "12"},
	} {
		opts := Options{}
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		opts.AddFlags(fs)
		require.NoError(t, fs.Parse(args))

		cfg, err := Resolve(opts, linux, "/src")
		require.NoError(t, err, args)
		require.True(t, cfg.RunTests, args)
	}
}

func TestFlagDefaults(t *testing.T) {
	opts := Options{}
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	opts.AddFlags(fs)
	require.NoError(t, fs.Parse([]string{"-c", "13", "-o", "out", "-a", "/opt/assets", "-T", "clang"}))

	cfg, err := Resolve(opts, linux, "/src")
	require.NoError(t, err)
	require.Equal(t, "/src/out", cfg.OutputDir)
	require.Equal(t, "/opt/assets", cfg.AssetsDir)
	require.True(t, cfg.InstallPrereqs)
}
