// SPDX-License-Identifier: MPL-2.0

package console

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"golang.org/x/term"

	"github.com/vfsh/vfsh/internal/shell"
)

type (
	// Console runs an interpreter against a LineIO. It implements shell.Sink
	// so startup scripts print through the same terminal.
	Console struct {
		interp *shell.Interpreter
		lio    LineIO
		prompt shell.Prompt
		styles Styles
		logger *log.Logger
	}

	// Option configures a Console.
	Option func(*Console)
)

// WithStyles sets the output styles. The zero Styles renders plain text.
func WithStyles(styles Styles) Option {
	return func(c *Console) {
		c.styles = styles
	}
}

// WithLogger sets the logger for session lifecycle messages.
func WithLogger(logger *log.Logger) Option {
	return func(c *Console) {
		c.logger = logger
	}
}

// New creates a console for interp reading from and writing to lio.
func New(interp *shell.Interpreter, lio LineIO, prompt shell.Prompt, opts ...Option) *Console {
	c := &Console{
		interp: interp,
		lio:    lio,
		prompt: prompt,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Echo prints a script line as if it had been typed at the prompt.
func (c *Console) Echo(line string) {
	c.writeLine(line)
}

// Show prints the lines of res, highlighting the error line.
func (c *Console) Show(res shell.Result) {
	for _, line := range res.Lines {
		switch {
		case res.Err != nil && strings.HasPrefix(line, "Error: "):
			line = c.styles.Error.Render(line)
		case strings.HasPrefix(line, "~"):
			line = c.styles.Path.Render(line)
		}
		c.writeLine(line)
	}
}

// RunScript replays the script at path (read from fs) through the console.
func (c *Console) RunScript(fs afero.Fs, path string) (shell.ScriptReport, error) {
	runner := shell.NewScriptRunner(c.interp, fs, c.prompt, c, c.logger)
	return runner.Run(path)
}

// Loop reads and executes lines until end of input or exit. It returns the
// exit code: the one given to exit, or 0 at end of input.
func (c *Console) Loop() (int, error) {
	for {
		c.lio.SetPrompt(c.styles.Prompt.Render(c.prompt.Render(c.interp.Session())))

		line, err := c.lio.ReadLine()
		if err != nil && !errors.Is(err, term.ErrPasteIndicator) {
			if errors.Is(err, io.EOF) {
				c.logger.Debug("end of input")
				return 0, nil
			}
			return 0, fmt.Errorf("failed to read input: %w", err)
		}

		res := c.interp.Execute(line)
		c.Show(res)
		if res.Exit != nil {
			return res.Exit.Code, nil
		}
	}
}

func (c *Console) writeLine(line string) {
	if _, err := io.WriteString(c.lio, line+"\n"); err != nil {
		c.logger.Debug("write failed", "err", err)
	}
}
