// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"golang.org/x/term"

	"github.com/vfsh/vfsh/internal/console"
	"github.com/vfsh/vfsh/internal/shell"
)

// sessionMiddleware dispatches exec requests to runExec and shell requests,
// which must carry a PTY, to runShell.
func (s *Server) sessionMiddleware() wish.Middleware {
	shellHandler := activeterm.Middleware()(s.runShell)
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			if len(sess.Command()) == 0 {
				shellHandler(sess)
			} else {
				s.runExec(sess)
			}
			next(sess)
		}
	}
}

// newInterpreter creates a fresh session for one connection.
func (s *Server) newInterpreter(sess ssh.Session) *shell.Interpreter {
	session := shell.NewSession(s.env.Guard, s.env.Table)
	return shell.NewInterpreter(session, shell.WithLogger(s.logger.With("user", sess.User())))
}

func (s *Server) prompt(sess ssh.Session) shell.Prompt {
	host := s.env.Host
	if host == "" {
		host = "vfsh"
	}
	return shell.Prompt{User: sess.User(), Host: host}
}

// runExec executes the requested command line. Output goes to stdout and the
// error line to stderr; the exit status is the exit code, 1 for a failed
// line, or 0.
func (s *Server) runExec(sess ssh.Session) {
	interp := s.newInterpreter(sess)
	res := interp.Execute(sess.RawCommand())

	for _, line := range res.Lines {
		var w io.Writer = sess
		if res.Err != nil && line == shell.ErrorLine(res.Err) {
			w = sess.Stderr()
		}
		_, _ = fmt.Fprintln(w, line)
	}

	code := 0
	switch {
	case res.Exit != nil:
		code = res.Exit.Code
	case res.Err != nil:
		code = 1
	}
	s.logger.Debug("exec finished", "user", sess.User(), "command", sess.RawCommand(), "code", code)
	_ = sess.Exit(code)
}

// runShell replays the startup script and then reads lines until the client
// disconnects or runs exit.
func (s *Server) runShell(sess ssh.Session) {
	interp := s.newInterpreter(sess)

	t := term.NewTerminal(sess, "")
	pty, winCh, _ := sess.Pty()
	_ = t.SetSize(pty.Window.Width, pty.Window.Height)
	go func() {
		for win := range winCh {
			_ = t.SetSize(win.Width, win.Height)
		}
	}()

	styles := console.NewStylesWithRenderer(lipgloss.NewRenderer(sess), s.env.ColorScheme)
	c := console.New(interp, t, s.prompt(sess), console.WithStyles(styles), console.WithLogger(s.logger))

	if strings.TrimSpace(s.env.Script) != "" {
		report, err := c.RunScript(s.env.ScriptFs, s.env.Script)
		if err == nil && report.Exit != nil {
			_ = sess.Exit(report.Exit.Code)
			return
		}
	}

	code, err := c.Loop()
	if err != nil {
		s.logger.Warn("session ended with error", "user", sess.User(), "err", err)
		code = 1
	}
	_ = sess.Exit(code)
}
