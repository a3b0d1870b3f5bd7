// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"errors"
	"io"

	"github.com/charmbracelet/log"
)

type (
	// Interpreter executes input lines against one Session. It is not safe
	// for concurrent use; each driver owns its own Interpreter.
	Interpreter struct {
		session   *Session
		tokenizer *Tokenizer
		commands  map[string]Command
		logger    *log.Logger
	}

	// Option configures an Interpreter.
	Option func(*Interpreter)
)

// WithLogger sets the logger used for dispatch diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(in *Interpreter) {
		in.logger = logger
	}
}

// NewInterpreter creates an interpreter for session. "~" in arguments names
// the VFS root.
func NewInterpreter(session *Session, opts ...Option) *Interpreter {
	in := &Interpreter{
		session:   session,
		tokenizer: NewTokenizer(session.Root()),
		commands:  builtinCommands(),
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Session returns the session the interpreter runs against.
func (in *Interpreter) Session() *Session {
	return in.session
}

// Lookup returns the command registered under name (exact match).
func (in *Interpreter) Lookup(name string) (Command, bool) {
	cmd, ok := in.commands[name]
	return cmd, ok
}

// Execute runs one input line to completion. Blank input produces an empty
// Result; every failure produces exactly one error line.
func (in *Interpreter) Execute(line string) Result {
	words, err := in.tokenizer.Tokenize(line)
	if err != nil {
		in.logger.Debug("tokenize failed", "line", line, "err", err)
		var ce *CommandError
		if !errors.As(err, &ce) {
			ce = newError(SyntaxError, "", err, "invalid argument syntax: %s", err)
		}
		return failure(ce)
	}
	if len(words) == 0 {
		return Result{}
	}

	name, args := words[0], words[1:]
	cmd, ok := in.Lookup(name)
	if !ok {
		return failure(newError(UnknownCommand, name, nil, "unknown command: '%s'", name))
	}

	res := cmd.Run(in.session, args)
	in.logger.Debug("executed",
		"command", name,
		"args", args,
		"cwd", in.session.Cwd(),
		"failed", res.Failed(),
		"kind", KindOf(res.Err),
	)
	return res
}
