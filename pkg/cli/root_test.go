package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/replicate/wheelforge/pkg/command"
	"github.com/replicate/wheelforge/pkg/command/commandtest"
	"github.com/replicate/wheelforge/pkg/config"
	wferrors "github.com/replicate/wheelforge/pkg/errors"
	"github.com/replicate/wheelforge/pkg/forge"
	"github.com/replicate/wheelforge/pkg/platform"
	"github.com/replicate/wheelforge/pkg/util/console"
)

const fixedWheel = "fastkernels-0.0.0-cp312-cp312-manylinux_2_28_x86_64.whl"

func writeWheel(name string, flag string) commandtest.Handler {
	return func(cmd command.Command) (command.Result, error) {
		for i, a := range cmd.Args {
			if a == flag {
				return command.Result{}, os.WriteFile(filepath.Join(cmd.Args[i+1], name), nil, 0o644)
			}
		}
		return command.Result{}, nil
	}
}

func testRoot(t *testing.T, r *commandtest.FakeRunner, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	out := &bytes.Buffer{}
	c := &console.Console{Level: console.InfoLevel, Out: out, Err: &bytes.Buffer{}}
	cmd := newRootCommand(func(c *console.Console) *forge.Forge {
		return &forge.Forge{
			Runner:      r,
			Console:     c,
			Profile:     platform.Detect("linux", "amd64"),
			Environment: config.EnvironmentFrom([]string{"PATH=/usr/bin"}),
		}
	}, c)
	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	return out, cmd.ExecuteContext(context.Background())
}

func TestRootBuildsAndPrintsWheel(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pyproject.toml.12"), []byte("v12\n"), 0o644))
	r := commandtest.NewFakeRunner().
		WithPath("python3", "/usr/bin/python3").
		WithPath("auditwheel", "/usr/bin/auditwheel").
		On("/usr/bin/python3", []string{"-m", "build"}, writeWheel("fastkernels-0.0.0-cp312-cp312-linux_x86_64.whl", "--outdir")).
		On("/usr/bin/auditwheel", nil, writeWheel(fixedWheel, "-w"))

	out, err := testRoot(t, r, "-c", "12", "--project-dir", dir, "-o", filepath.Join(dir, "wheels"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "wheels", fixedWheel)+"\n", out.String())
}

func TestRootMissingVariant(t *testing.T) {
	r := commandtest.NewFakeRunner().WithPath("python3", "/usr/bin/python3")
	_, err := testRoot(t, r, "--project-dir", t.TempDir())
	require.True(t, wferrors.IsConfiguration(err))
	require.Contains(t, ErrorMessage(err), "[CONFIGURATION] invalid option -c")
	require.Empty(t, r.Calls)
}

func TestRootRejectsArguments(t *testing.T) {
	_, err := testRoot(t, commandtest.NewFakeRunner(), "-c", "12", "extra")
	require.Error(t, err)
}

func TestRootStageFailureMessage(t *testing.T) {
	dir := t.TempDir()
	r := commandtest.NewFakeRunner().WithPath("python3", "/usr/bin/python3")
	_, err := testRoot(t, r, "-c", "13", "--project-dir", dir)
	require.Equal(t, "stage select-variant failed [DESCRIPTOR_MISSING]: build descriptor "+filepath.Join(dir, "pyproject.toml.13")+" does not exist", ErrorMessage(err))
}

func TestErrorMessage(t *testing.T) {
	require.Equal(t, "boom", ErrorMessage(errors.New("boom")))
	require.Equal(t, "[TOOL_UNAVAILABLE] no python", ErrorMessage(wferrors.ToolUnavailable("no python")))
}
