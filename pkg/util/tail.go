package util

import (
	"bytes"
	"io"
	"strings"
	"sync"
)

// LineTail is a writer that forwards to an optional underlying writer and keeps
// the last N complete lines written, plus whatever partial line is pending.
type LineTail struct {
	writer  io.Writer
	lines   []string
	size    int
	pos     int
	full    bool
	partial []byte
	mu      sync.Mutex
}

// NewLineTail creates a LineTail keeping size lines. w may be nil.
func NewLineTail(w io.Writer, size int) *LineTail {
	if size < 1 {
		size = 1
	}
	return &LineTail{
		writer: w,
		lines:  make([]string, size),
		size:   size,
	}
}

// Write implements io.Writer interface
func (t *LineTail) Write(p []byte) (n int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.writer != nil {
		if n, err = t.writer.Write(p); err != nil {
			return n, err
		}
	}

	t.partial = append(t.partial, p...)
	for {
		i := bytes.IndexByte(t.partial, '\n')
		if i < 0 {
			break
		}
		t.push(strings.TrimRight(string(t.partial[:i]), "\r"))
		t.partial = t.partial[i+1:]
	}
	return len(p), nil
}

func (t *LineTail) push(line string) {
	t.lines[t.pos] = line
	t.pos = (t.pos + 1) % t.size
	if t.pos == 0 {
		t.full = true
	}
}

// Lines returns the retained lines, oldest first.
func (t *LineTail) Lines() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []string
	if t.full {
		out = append(out, t.lines[t.pos:]...)
	}
	out = append(out, t.lines[:t.pos]...)
	if len(t.partial) > 0 {
		out = append(out, string(t.partial))
		if len(out) > t.size {
			out = out[len(out)-t.size:]
		}
	}
	return out
}

// String returns the retained lines joined by newlines.
func (t *LineTail) String() string {
	return strings.Join(t.Lines(), "\n")
}
