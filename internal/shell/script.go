// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

const (
	// ScriptIdle is a runner that has not started.
	ScriptIdle ScriptState = iota
	// ScriptRunning is a runner executing lines.
	ScriptRunning
	// ScriptDone is a runner that reached the end of the script, an exit
	// command or a read failure (terminal).
	ScriptDone
	// ScriptFailedToOpen is a runner whose script could not be opened (terminal).
	ScriptFailedToOpen
)

// maxScriptLine bounds a single script line, terminator included. Longer
// lines are skipped.
const maxScriptLine = 1 << 20

type (
	// ScriptState is the lifecycle state of a ScriptRunner.
	ScriptState int

	// Sink receives everything a script run displays, in order.
	Sink interface {
		// Echo shows a script line as if it had been typed at the prompt.
		Echo(line string)
		// Show displays the result of a line.
		Show(res Result)
	}

	// LineFailure records a script line that failed.
	LineFailure struct {
		Line int
		Text string
		Err  error
	}

	// ScriptReport summarizes a script run.
	ScriptReport struct {
		Executed int
		Failures []LineFailure
		// Exit is set when the script invoked exit.
		Exit *Exit
	}

	// ScriptRunner replays a startup script through an Interpreter. A runner
	// is single-use.
	ScriptRunner struct {
		interp *Interpreter
		fs     afero.Fs
		prompt Prompt
		sink   Sink
		logger *log.Logger
		state  ScriptState
	}
)

func (s ScriptState) String() string {
	switch s {
	case ScriptIdle:
		return "idle"
	case ScriptRunning:
		return "running"
	case ScriptDone:
		return "done"
	case ScriptFailedToOpen:
		return "failed-to-open"
	default:
		return fmt.Sprintf("ScriptState(%d)", int(s))
	}
}

// NewScriptRunner creates a runner reading scripts from fs (the host
// filesystem, not the VFS) and echoing lines with prompt.
func NewScriptRunner(interp *Interpreter, fs afero.Fs, prompt Prompt, sink Sink, logger *log.Logger) *ScriptRunner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &ScriptRunner{
		interp: interp,
		fs:     fs,
		prompt: prompt,
		sink:   sink,
		logger: logger,
	}
}

// State returns the current lifecycle state.
func (r *ScriptRunner) State() ScriptState {
	return r.state
}

// Run executes the script at path. Failing lines, over-long ones included,
// are reported and skipped. The returned error is non-nil only when the
// script cannot be opened or read, and is a ScriptOpenError already shown
// through the sink.
func (r *ScriptRunner) Run(path string) (ScriptReport, error) {
	var report ScriptReport
	if r.state != ScriptIdle {
		return report, fmt.Errorf("script runner already %s", r.state)
	}

	f, err := r.open(path)
	if err != nil {
		r.state = ScriptFailedToOpen
		r.sink.Show(failure(err))
		r.logger.Warn("script not run", "script", path, "err", err.Cause)
		return report, err
	}
	defer f.Close()

	r.state = ScriptRunning
	r.logger.Debug("script started", "script", path)

	br := bufio.NewReader(f)
	for lineNo := 1; ; lineNo++ {
		raw, tooLong, readErr := readScriptLine(br)
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			r.state = ScriptDone
			err := newError(ScriptOpenError, "", readErr, "cannot read script %s: %s", path, reason(readErr))
			r.sink.Show(failure(err))
			r.logger.Warn("script read failed", "script", path, "line", lineNo, "err", readErr)
			return report, err
		}

		if tooLong {
			err := newError(SyntaxError, "", nil, "script line %d is longer than %d bytes; skipped", lineNo, maxScriptLine)
			r.sink.Show(failure(err))
			report.Failures = append(report.Failures, LineFailure{Line: lineNo, Err: err})
			r.logger.Warn("script line skipped", "script", path, "line", lineNo)
		} else if exit := r.runLine(path, lineNo, raw, &report); exit {
			return report, nil
		}

		if readErr != nil {
			break
		}
	}

	r.state = ScriptDone
	r.logger.Debug("script finished", "script", path, "executed", report.Executed, "failed", len(report.Failures))
	return report, nil
}

// runLine executes one script line and reports whether it invoked exit.
func (r *ScriptRunner) runLine(path string, lineNo int, raw string, report *ScriptReport) bool {
	text := strings.TrimSpace(raw)
	if text == "" || strings.HasPrefix(text, "#") {
		return false
	}

	r.sink.Echo(r.prompt.Render(r.interp.Session()) + text)
	res := r.interp.Execute(text)
	r.sink.Show(res)
	report.Executed++

	if res.Err != nil {
		report.Failures = append(report.Failures, LineFailure{Line: lineNo, Text: text, Err: res.Err})
		r.logger.Warn("script line failed", "script", path, "line", lineNo, "text", text, "kind", KindOf(res.Err))
	}
	if res.Exit == nil {
		return false
	}
	report.Exit = res.Exit
	r.state = ScriptDone
	r.logger.Debug("script exited", "script", path, "line", lineNo, "code", res.Exit.Code)
	return true
}

// readScriptLine reads up to and including the next newline. A line over
// maxScriptLine is consumed without being kept and reported as tooLong.
func readScriptLine(br *bufio.Reader) (string, bool, error) {
	var (
		buf     []byte
		tooLong bool
	)
	for {
		chunk, err := br.ReadSlice('\n')
		if !tooLong {
			buf = append(buf, chunk...)
			if len(buf) > maxScriptLine {
				tooLong, buf = true, nil
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		return string(buf), tooLong, err
	}
}

func (r *ScriptRunner) open(path string) (afero.File, *CommandError) {
	info, err := r.fs.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil, newError(ScriptOpenError, "", err, "script not found: %s", path)
	case err != nil:
		return nil, newError(ScriptOpenError, "", err, "cannot open script %s: %s", path, reason(err))
	case info.IsDir():
		return nil, newError(ScriptOpenError, "", errors.New("is a directory"), "cannot open script %s: is a directory", path)
	}

	f, err := r.fs.Open(path)
	if err != nil {
		return nil, newError(ScriptOpenError, "", err, "cannot open script %s: %s", path, reason(err))
	}
	return f, nil
}
