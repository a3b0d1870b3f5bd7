// SPDX-License-Identifier: MPL-2.0

package console

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// maxLine bounds a single line of non-terminal input.
const maxLine = 1 << 20

type (
	// LineIO is a line-oriented, prompting terminal. *term.Terminal satisfies it.
	LineIO interface {
		io.Writer
		ReadLine() (string, error)
		SetPrompt(prompt string)
	}

	// scanIO reads newline-terminated input that does not come from a
	// terminal. The prompt and the line read are written back so the output
	// reads like an interactive transcript.
	scanIO struct {
		scanner *bufio.Scanner
		w       io.Writer
		prompt  string
	}

	stdio struct {
		io.Reader
		io.Writer
	}
)

// NewTerminalIO returns a LineIO with line editing and history over rw,
// which must already be a raw-mode terminal (or an SSH channel with a PTY).
func NewTerminalIO(rw io.ReadWriter) LineIO {
	return term.NewTerminal(rw, "")
}

// NewScanIO returns a LineIO reading plain lines from r and writing to w.
func NewScanIO(r io.Reader, w io.Writer) LineIO {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLine)
	return &scanIO{scanner: scanner, w: w}
}

func (s *scanIO) Write(p []byte) (int, error) {
	return s.w.Write(p)
}

func (s *scanIO) SetPrompt(prompt string) {
	s.prompt = prompt
}

func (s *scanIO) ReadLine() (string, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	line := s.scanner.Text()
	if _, err := fmt.Fprintf(s.w, "%s%s\n", s.prompt, line); err != nil {
		return "", err
	}
	return line, nil
}

// Stdio returns a LineIO over the process's stdin and stdout. When stdin is
// a terminal it is switched to raw mode; the returned restore function puts
// it back and must always be called.
func Stdio() (LineIO, func(), error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return NewScanIO(os.Stdin, os.Stdout), func() {}, nil
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to switch terminal to raw mode: %w", err)
	}
	t := term.NewTerminal(stdio{os.Stdin, os.Stdout}, "")
	if width, height, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		_ = t.SetSize(width, height)
	}
	return t, func() { _ = term.Restore(fd, oldState) }, nil
}
