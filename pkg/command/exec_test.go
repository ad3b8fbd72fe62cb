package command

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/replicate/wheelforge/pkg/util/console"
)

func newTestRunner() (*ExecRunner, *bytes.Buffer) {
	errOut := &bytes.Buffer{}
	return NewExecRunner(&console.Console{Level: console.InfoLevel, Out: &bytes.Buffer{}, Err: errOut}), errOut
}

func TestExecRunnerStreams(t *testing.T) {
	r, errOut := newTestRunner()
	res, err := r.Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "echo out; echo err >&2"},
		Env:  os.Environ(),
	})
	require.NoError(t, err)
	require.Equal(t, 0, res.ExitCode)
	require.Contains(t, errOut.String(), "out\n")
	require.Contains(t, errOut.String(), "err\n")
}

func TestExecRunnerFlushesUnterminatedLine(t *testing.T) {
	r, errOut := newTestRunner()
	_, err := r.Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "printf 'first\\nFATAL: last line' >&2"},
		Env:  os.Environ(),
	})
	require.NoError(t, err)
	require.Equal(t, "first\nFATAL: last line\n", errOut.String())
}

func TestExecRunnerCapture(t *testing.T) {
	r, _ := newTestRunner()
	res, err := r.Run(context.Background(), Command{
		Name:    "sh",
		Args:    []string{"-c", "printf 'libfoo.so\\nlibbar.so\\n'"},
		Env:     os.Environ(),
		Capture: true,
	})
	require.NoError(t, err)
	require.Equal(t, "libfoo.so\nlibbar.so\n", res.Stdout)
}

func TestExecRunnerQuietKeepsTail(t *testing.T) {
	r, errOut := newTestRunner()
	res, err := r.Run(context.Background(), Command{
		Name:      "sh",
		Args:      []string{"-c", "for i in 1 2 3 4 5; do echo line $i; done"},
		Env:       os.Environ(),
		Quiet:     true,
		TailLines: 2,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"line 4", "line 5"}, res.Tail)
	require.Equal(t, "    line 4\n    line 5\n", errOut.String())
}

func TestExecRunnerExitCode(t *testing.T) {
	r, _ := newTestRunner()
	res, err := r.Run(context.Background(), Command{
		Name:      "sh",
		Args:      []string{"-c", "echo failing; exit 3"},
		Env:       os.Environ(),
		Quiet:     true,
		TailLines: 5,
	})
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 3, exitErr.ExitCode)
	require.Equal(t, 3, res.ExitCode)
	require.Equal(t, []string{"failing"}, exitErr.Tail)
	require.Equal(t, "sh -c echo failing; exit 3 exited with status 3", exitErr.Error())
}

func TestExecRunnerMissingBinary(t *testing.T) {
	r, _ := newTestRunner()
	_, err := r.Run(context.Background(), Command{Name: "/nonexistent/wheelforge-tool"})
	require.Error(t, err)
	var exitErr *ExitError
	require.False(t, errors.As(err, &exitErr))
}

func TestExecRunnerDir(t *testing.T) {
	dir := t.TempDir()
	r, _ := newTestRunner()
	res, err := r.Run(context.Background(), Command{
		Name:    "pwd",
		Dir:     dir,
		Env:     os.Environ(),
		Capture: true,
	})
	require.NoError(t, err)
	require.Equal(t, filepath.Base(dir), filepath.Base(strings.TrimSpace(res.Stdout)))
}
