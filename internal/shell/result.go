// SPDX-License-Identifier: MPL-2.0

package shell

type (
	// Exit is the termination signal produced by the exit command.
	Exit struct {
		Code int
	}

	// Result is the outcome of one input line.
	Result struct {
		// Lines is the complete display output in order, error lines included.
		Lines []string
		// Err is the typed failure of the line, nil on success. When a command
		// fails on some arguments and succeeds on others, Err holds the first
		// failure.
		Err error
		// Exit is non-nil when the driving loop must stop.
		Exit *Exit
	}
)

func output(lines ...string) Result {
	return Result{Lines: lines}
}

func failure(err *CommandError) Result {
	return Result{Lines: []string{ErrorLine(err)}, Err: err}
}

// Failed reports whether the line failed.
func (r Result) Failed() bool {
	return r.Err != nil
}
