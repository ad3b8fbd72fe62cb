// Package command runs the external tools the pipeline drives: the Python build
// frontend, repair tools, prerequisite installers, and validators.
package command

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Command describes one external process invocation.
type Command struct {
	Name string
	Args []string
	Dir  string
	// Env is the complete environment of the process. Nil inherits nothing.
	Env []string
	// Quiet suppresses streaming; only the last TailLines lines are echoed when the command ends.
	Quiet     bool
	TailLines int
	// Capture keeps stdout in Result.Stdout instead of streaming it.
	Capture bool
}

// String renders the command line for logs.
func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Result of a finished command.
type Result struct {
	ExitCode int
	Stdout   string
	// Tail is the last lines of combined output when Quiet was set.
	Tail []string
}

// Runner is implemented by ExecRunner and by test fakes.
type Runner interface {
	// Run executes cmd and blocks until it exits. A non-zero exit is reported as an *ExitError.
	Run(ctx context.Context, cmd Command) (Result, error)
	// LookPath resolves an executable name the way the shell would.
	LookPath(name string) (string, error)
}

// ExitError reports a command that ran but exited non-zero.
type ExitError struct {
	Command  string
	ExitCode int
	Tail     []string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Command, e.ExitCode)
}

// WriteTail writes the captured trailing output, one line each, to w.
func (e *ExitError) WriteTail(w io.Writer) {
	for _, line := range e.Tail {
		fmt.Fprintln(w, line)
	}
}
