// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"

	"github.com/vfsh/vfsh/internal/vfs"
)

// maxExitCode is the largest status a process can report.
const maxExitCode = 255

// Command is one entry of the dispatch table.
type Command interface {
	Name() string
	// Usage is the command name followed by its argument synopsis.
	Usage() string
	Summary() string
	Run(s *Session, args []string) Result
}

type (
	lsCommand   struct{}
	cdCommand   struct{}
	exitCommand struct{}
	// helpCommand lists the commands it was registered with, in order.
	helpCommand struct {
		commands []Command
	}
	confDumpCommand struct{}
)

var helpNotes = []string{
	"Arguments may be quoted to keep spaces: ls \"file name with spaces\"",
	"Paths are confined to the VFS root; '..' cannot leave it.",
}

// builtinCommands returns the dispatch table.
func builtinCommands() map[string]Command {
	help := &helpCommand{}
	help.commands = []Command{lsCommand{}, cdCommand{}, exitCommand{}, help, confDumpCommand{}}

	table := make(map[string]Command, len(help.commands))
	for _, c := range help.commands {
		table[c.Name()] = c
	}
	return table
}

func (lsCommand) Name() string    { return "ls" }
func (lsCommand) Usage() string   { return "ls [path...]" }
func (lsCommand) Summary() string { return "show the tree below the current directory or each path" }

func (c lsCommand) Run(s *Session, args []string) Result {
	if len(args) == 0 {
		return c.list(s, s.Cwd(), ".")
	}

	var res Result
	for _, arg := range args {
		path, err := s.Guard().Resolve(s.Cwd(), arg)
		if err != nil {
			res = merge(res, failure(resolveError("ls", arg, err)))
			continue
		}
		res = merge(res, c.list(s, path, arg))
	}
	return res
}

func (lsCommand) list(s *Session, path, arg string) Result {
	node, err := s.Guard().Tree(path)
	if err != nil {
		return failure(newError(NotFound, "ls", err, "ls: cannot access '%s': %s", arg, reason(err)))
	}
	return output(vfs.Render(s.Guard().Display(path), node)...)
}

func (cdCommand) Name() string    { return "cd" }
func (cdCommand) Usage() string   { return "cd [path]" }
func (cdCommand) Summary() string { return "change directory; without a path go to the VFS root (~)" }

func (cdCommand) Run(s *Session, args []string) Result {
	switch len(args) {
	case 0:
		s.chdir(s.Root())
		return Result{}
	case 1:
	default:
		return failure(newError(UsageError, "cd", nil, "cd accepts at most one argument"))
	}

	path, err := s.Guard().Resolve(s.Cwd(), args[0])
	if err != nil {
		return failure(resolveError("cd", args[0], err))
	}
	if !s.Guard().IsDir(path) || !s.chdir(path) {
		return failure(newError(NotFound, "cd", nil, "cd: no such directory: '%s'", args[0]))
	}
	return Result{}
}

func (exitCommand) Name() string    { return "exit" }
func (exitCommand) Usage() string   { return "exit [code]" }
func (exitCommand) Summary() string { return "leave the shell with an optional return code (0-255)" }

func (exitCommand) Run(_ *Session, args []string) Result {
	switch len(args) {
	case 0:
		return Result{Lines: []string{"exit"}, Exit: &Exit{Code: 0}}
	case 1:
		code, err := strconv.Atoi(args[0])
		if err != nil {
			return failure(newError(UsageError, "exit", err, "exit expects a numeric return code"))
		}
		if code < 0 || code > maxExitCode {
			return failure(newError(UsageError, "exit", nil, "exit code must be between 0 and %d", maxExitCode))
		}
		return Result{Lines: []string{"exit " + strconv.Itoa(code)}, Exit: &Exit{Code: code}}
	default:
		return failure(newError(UsageError, "exit", nil, "exit accepts at most one argument"))
	}
}

func (*helpCommand) Name() string    { return "help" }
func (*helpCommand) Usage() string   { return "help" }
func (*helpCommand) Summary() string { return "show this help" }

func (h *helpCommand) Run(*Session, []string) Result {
	lines := make([]string, 0, len(h.commands)+len(helpNotes)+1)
	lines = append(lines, "Supported commands:")
	for _, c := range h.commands {
		lines = append(lines, fmt.Sprintf("  %-16s %s", c.Usage(), c.Summary()))
	}
	return output(append(lines, helpNotes...)...)
}

func (confDumpCommand) Name() string    { return "conf-dump" }
func (confDumpCommand) Usage() string   { return "conf-dump" }
func (confDumpCommand) Summary() string { return "print the startup configuration and the current directory" }

func (confDumpCommand) Run(s *Session, _ []string) Result {
	cfg := s.Config()
	lines := make([]string, 0, len(cfg)+1)
	for _, key := range cfg.Keys() {
		lines = append(lines, key+"="+cfg[key])
	}
	return output(append(lines, "cwd="+s.Cwd())...)
}

func resolveError(command, arg string, err error) *CommandError {
	if errors.Is(err, vfs.ErrOutOfBounds) {
		return newError(OutOfBoundsError, command, err, "%s: escape forbidden: '%s'", command, arg)
	}
	return newError(NotFound, command, err, "%s: cannot resolve '%s': %s", command, arg, reason(err))
}

// merge appends next to prev, keeping the first error.
func merge(prev, next Result) Result {
	prev.Lines = append(prev.Lines, next.Lines...)
	if prev.Err == nil {
		prev.Err = next.Err
	}
	return prev
}

func reason(err error) string {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err.Error()
	}
	return err.Error()
}
