package command

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"

	"golang.org/x/sync/errgroup"

	"github.com/replicate/wheelforge/pkg/util"
	"github.com/replicate/wheelforge/pkg/util/console"
)

// ExecRunner runs commands with os/exec. Output is streamed to the console at info level
// unless the command is Quiet, in which case only a tail is kept and echoed on completion.
type ExecRunner struct {
	Console *console.Console
}

func NewExecRunner(c *console.Console) *ExecRunner {
	return &ExecRunner{Console: c}
}

func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (r *ExecRunner) Run(ctx context.Context, c Command) (Result, error) {
	cons := r.Console
	if cons == nil {
		cons = console.ConsoleInstance
	}

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = c.Env
	if cmd.Env == nil {
		cmd.Env = []string{}
	}

	cons.Debug("$ " + c.String())

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return Result{}, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return Result{}, err
	}

	// Each stream gets its own line writer so partial lines from stdout and stderr never mix.
	var stdoutSink, stderrSink io.Writer
	var tail *util.LineTail
	if c.Quiet {
		tail = util.NewLineTail(nil, c.TailLines)
		stdoutSink, stderrSink = tail, tail
	} else {
		stdoutSink, stderrSink = cons.Writer(console.InfoLevel), cons.Writer(console.InfoLevel)
	}
	var captured bytes.Buffer
	if c.Capture {
		stdoutSink = &captured
	}

	if err := cmd.Start(); err != nil {
		return Result{ExitCode: -1}, err
	}

	// Both pipes must be drained before Wait, otherwise a chatty tool blocks on a full pipe.
	var g errgroup.Group
	g.Go(func() error {
		_, err := io.Copy(stdoutSink, stdout)
		return err
	})
	g.Go(func() error {
		_, err := io.Copy(stderrSink, stderr)
		return err
	})
	copyErr := g.Wait()
	waitErr := cmd.Wait()
	flush(stdoutSink)
	flush(stderrSink)

	result := Result{Stdout: captured.String()}
	if tail != nil {
		result.Tail = tail.Lines()
		cons.Tail(result.Tail)
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) && exitErr.ExitCode() >= 0 {
			result.ExitCode = exitErr.ExitCode()
			return result, &ExitError{Command: c.String(), ExitCode: result.ExitCode, Tail: result.Tail}
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, ctxErr
		}
		return result, waitErr
	}
	return result, copyErr
}

// flush emits whatever unterminated line a console writer still holds.
func flush(w io.Writer) {
	if closer, ok := w.(io.Closer); ok {
		_ = closer.Close()
	}
}
