// Package commandtest provides a scriptable command.Runner for tests.
package commandtest

import (
	"context"
	"os/exec"
	"strings"
	"sync"

	"github.com/replicate/wheelforge/pkg/command"
)

// Handler produces the outcome of a faked command. It may create files to simulate side effects.
type Handler func(cmd command.Command) (command.Result, error)

type rule struct {
	name   string
	prefix []string
	fn     Handler
}

// FakeRunner records every command and answers with the first matching handler.
// Commands without a handler succeed with no output.
type FakeRunner struct {
	mu    sync.Mutex
	Calls []command.Command
	// Paths maps executable names LookPath can find. Anything else is not found.
	Paths map[string]string
	rules []rule
}

func NewFakeRunner() *FakeRunner {
	return &FakeRunner{Paths: map[string]string{}}
}

// On registers fn for commands named name whose arguments start with prefix.
func (f *FakeRunner) On(name string, prefix []string, fn Handler) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append(f.rules, rule{name: name, prefix: prefix, fn: fn})
	return f
}

// WithPath makes LookPath(name) succeed.
func (f *FakeRunner) WithPath(name string, path string) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Paths[name] = path
	return f
}

func (f *FakeRunner) LookPath(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.Paths[name]; ok {
		return p, nil
	}
	return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
}

func (f *FakeRunner) Run(ctx context.Context, cmd command.Command) (command.Result, error) {
	f.mu.Lock()
	f.Calls = append(f.Calls, cmd)
	var fn Handler
	for _, r := range f.rules {
		if r.name == cmd.Name && hasPrefix(cmd.Args, r.prefix) {
			fn = r.fn
			break
		}
	}
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return command.Result{ExitCode: -1}, err
	}
	if fn == nil {
		return command.Result{}, nil
	}
	return fn(cmd)
}

// Commands returns the recorded command lines.
func (f *FakeRunner) Commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		out[i] = c.String()
	}
	return out
}

// Find returns the first recorded call named name whose arguments start with prefix.
func (f *FakeRunner) Find(name string, prefix ...string) (command.Command, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.Calls {
		if c.Name == name && hasPrefix(c.Args, prefix) {
			return c, true
		}
	}
	return command.Command{}, false
}

// Exit is a handler that fails with the given exit code.
func Exit(code int) Handler {
	return func(cmd command.Command) (command.Result, error) {
		return command.Result{ExitCode: code}, &command.ExitError{Command: cmd.String(), ExitCode: code}
	}
}

// Stdout is a handler that succeeds printing lines.
func Stdout(lines ...string) Handler {
	return func(cmd command.Command) (command.Result, error) {
		out := strings.Join(lines, "\n")
		if out != "" {
			out += "\n"
		}
		return command.Result{Stdout: out}, nil
	}
}

// EnvValue returns the value of key in cmd's environment.
func EnvValue(cmd command.Command, key string) (string, bool) {
	for i := len(cmd.Env) - 1; i >= 0; i-- {
		if v, ok := strings.CutPrefix(cmd.Env[i], key+"="); ok {
			return v, true
		}
	}
	return "", false
}

func hasPrefix(args []string, prefix []string) bool {
	if len(prefix) > len(args) {
		return false
	}
	for i, p := range prefix {
		if args[i] != p {
			return false
		}
	}
	return true
}
