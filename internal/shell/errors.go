// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"errors"
	"fmt"
)

const (
	// SyntaxError is malformed quoting or an over-long script line.
	SyntaxError ErrorKind = iota + 1
	// UnknownCommand is a command name missing from the command table.
	UnknownCommand
	// UsageError is a wrong argument count or an unparsable argument.
	UsageError
	// OutOfBoundsError is an attempt to reach a path outside the VFS root.
	OutOfBoundsError
	// NotFound is a missing path, or a file where a directory is required.
	NotFound
	// ConfigError is an unusable startup configuration.
	ConfigError
	// ScriptOpenError is a startup script that cannot be opened or read.
	ScriptOpenError
)

var (
	ErrSyntax         = errors.New("syntax error")
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("usage error")
	ErrOutOfBounds    = errors.New("out of bounds")
	ErrNotFound       = errors.New("not found")
	ErrConfig         = errors.New("configuration error")
	ErrScriptOpen     = errors.New("script open error")
)

type (
	// ErrorKind classifies interpreter failures.
	ErrorKind int

	// CommandError is the typed failure of one input line. Its message is the
	// user-visible text; Result adds the "Error: " prefix.
	CommandError struct {
		Kind    ErrorKind
		Command string
		Msg     string
		Cause   error
	}
)

func (k ErrorKind) String() string {
	switch k {
	case SyntaxError:
		return "syntax"
	case UnknownCommand:
		return "unknown-command"
	case UsageError:
		return "usage"
	case OutOfBoundsError:
		return "out-of-bounds"
	case NotFound:
		return "not-found"
	case ConfigError:
		return "config"
	case ScriptOpenError:
		return "script-open"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case SyntaxError:
		return ErrSyntax
	case UnknownCommand:
		return ErrUnknownCommand
	case UsageError:
		return ErrUsage
	case OutOfBoundsError:
		return ErrOutOfBounds
	case NotFound:
		return ErrNotFound
	case ConfigError:
		return ErrConfig
	case ScriptOpenError:
		return ErrScriptOpen
	default:
		return nil
	}
}

func newError(kind ErrorKind, command string, cause error, format string, args ...any) *CommandError {
	return &CommandError{
		Kind:    kind,
		Command: command,
		Msg:     fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

func (e *CommandError) Error() string {
	return e.Msg
}

// Unwrap exposes the kind sentinel and the cause to errors.Is/As.
func (e *CommandError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// KindOf returns the ErrorKind of err, or 0 when err is not a CommandError.
func KindOf(err error) ErrorKind {
	var ce *CommandError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return 0
}

// ErrorLine formats err as the single line shown to the user.
func ErrorLine(err error) string {
	return "Error: " + err.Error()
}
