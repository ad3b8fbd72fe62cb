package console

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// ConsoleInstance is the global instance of console, so we don't have to pass it around everywhere
var ConsoleInstance = New()

// SetLevel sets log level
func SetLevel(level Level) {
	ConsoleInstance.Level = level
}

// SetColor sets whether to print colors
func SetColor(color bool) {
	ConsoleInstance.Color = color
}

// SetOutput redirects the global console, mostly for tests.
func SetOutput(out, err io.Writer) {
	ConsoleInstance.Out = out
	ConsoleInstance.Err = err
}

func Debug(msg string) {
	ConsoleInstance.Debug(msg)
}

func Info(msg string) {
	ConsoleInstance.Info(msg)
}

func Warn(msg string) {
	ConsoleInstance.Warn(msg)
}

func Error(msg string) {
	ConsoleInstance.Error(msg)
}

func Debugf(msg string, v ...interface{}) {
	ConsoleInstance.Debugf(msg, v...)
}

func Infof(msg string, v ...interface{}) {
	ConsoleInstance.Infof(msg, v...)
}

func Warnf(msg string, v ...interface{}) {
	ConsoleInstance.Warnf(msg, v...)
}

func Errorf(msg string, v ...interface{}) {
	ConsoleInstance.Errorf(msg, v...)
}

// Fatalf prints an error and exits with status 1.
func Fatalf(msg string, v ...interface{}) {
	ConsoleInstance.Errorf(msg, v...)
	os.Exit(1)
}

func Stage(name string) {
	ConsoleInstance.Stage(name)
}

func Tail(lines []string) {
	ConsoleInstance.Tail(lines)
}

// Output a line to stdout. Useful for printing primary output of a command, or the output of a subcommand.
func Output(s string) {
	ConsoleInstance.Output(s)
}

// IsTTY checks if a file is a TTY or not. E.g. IsTTY(os.Stdin)
func IsTTY(f *os.File) bool {
	return isatty.IsTerminal(f.Fd())
}
