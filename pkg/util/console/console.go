// Package console provides levelled, optionally coloured output for the wheelforge CLI.
// Human-facing messages go to stderr so that stdout stays free for the final wheel path.
package console

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/logrusorgru/aurora"
)

// Console writes log lines to Err and primary output to Out.
type Console struct {
	Color bool
	Level Level
	Out   io.Writer
	Err   io.Writer
	mu    sync.Mutex
}

// New returns a console writing to os.Stdout and os.Stderr.
func New() *Console {
	return &Console{
		Color: IsTTY(os.Stderr),
		Level: InfoLevel,
		Out:   os.Stdout,
		Err:   os.Stderr,
	}
}

// Debug prints a verbose debugging message, that is not displayed by default to the user.
func (c *Console) Debug(msg string) {
	c.log(DebugLevel, msg)
}

// Info tells the user what's going on.
func (c *Console) Info(msg string) {
	c.log(InfoLevel, msg)
}

// Warn tells the user that something might break.
func (c *Console) Warn(msg string) {
	c.log(WarnLevel, msg)
}

// Error tells the user that something is broken.
func (c *Console) Error(msg string) {
	c.log(ErrorLevel, msg)
}

func (c *Console) Debugf(msg string, v ...interface{}) {
	c.log(DebugLevel, fmt.Sprintf(msg, v...))
}

func (c *Console) Infof(msg string, v ...interface{}) {
	c.log(InfoLevel, fmt.Sprintf(msg, v...))
}

func (c *Console) Warnf(msg string, v ...interface{}) {
	c.log(WarnLevel, fmt.Sprintf(msg, v...))
}

func (c *Console) Errorf(msg string, v ...interface{}) {
	c.log(ErrorLevel, fmt.Sprintf(msg, v...))
}

// Stage announces the start of a pipeline stage.
func (c *Console) Stage(name string) {
	msg := "==> " + name
	if c.Color {
		msg = aurora.Bold(msg).String()
	}
	c.log(InfoLevel, msg)
}

// Tail prints the trailing lines of an abridged tool output, indented.
func (c *Console) Tail(lines []string) {
	if len(lines) == 0 {
		return
	}
	width := 0
	if c.Color {
		if w, err := GetWidth(); err == nil {
			width = int(w)
		}
	}
	indented := make([]string, len(lines))
	for i, line := range lines {
		indented[i] = clip("    "+line, width)
	}
	c.log(InfoLevel, strings.Join(indented, "\n"))
}

// Output writes a line to stdout. A newline is added to the string.
func (c *Console) Output(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out(), s)
}

// Writer returns a writer that logs every line it receives at the given level. Close logs
// a trailing line that was never terminated by a newline.
func (c *Console) Writer(level Level) io.WriteCloser {
	return &lineWriter{console: c, level: level}
}

func (c *Console) log(level Level, msg string) {
	if level < c.Level {
		return
	}

	prompt := ""
	if c.Color {
		switch level {
		case WarnLevel:
			prompt = aurora.Yellow("⚠ ").String()
		case ErrorLevel, FatalLevel:
			prompt = aurora.Red("ⅹ ").String()
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, line := range strings.Split(msg, "\n") {
		if c.Color && level == DebugLevel {
			line = aurora.Faint(line).String()
		}
		fmt.Fprintln(c.err(), prompt+line)
	}
}

func (c *Console) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Console) err() io.Writer {
	if c.Err == nil {
		return os.Stderr
	}
	return c.Err
}

type lineWriter struct {
	console *Console
	level   Level
	partial []byte
	mu      sync.Mutex
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.partial = append(w.partial, p...)
	for {
		i := bytes.IndexByte(w.partial, '\n')
		if i < 0 {
			break
		}
		w.console.log(w.level, strings.TrimRight(string(w.partial[:i]), "\r"))
		w.partial = w.partial[i+1:]
	}
	return len(p), nil
}

func (w *lineWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.partial) > 0 {
		w.console.log(w.level, strings.TrimRight(string(w.partial), "\r"))
		w.partial = nil
	}
	return nil
}
