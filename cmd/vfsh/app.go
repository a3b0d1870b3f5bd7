// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"golang.org/x/term"

	"github.com/vfsh/vfsh/internal/config"
	"github.com/vfsh/vfsh/internal/console"
	"github.com/vfsh/vfsh/internal/issue"
	"github.com/vfsh/vfsh/internal/shell"
	"github.com/vfsh/vfsh/internal/vfs"
)

type (
	// TerminalOpener opens the interactive terminal. The returned function
	// restores the terminal and must always be called.
	TerminalOpener func() (console.LineIO, func(), error)

	// App wires CLI services and shared dependencies. All Cobra command
	// handlers receive an App reference.
	App struct {
		Config   config.Provider
		Fs       afero.Fs
		Terminal TerminalOpener
		stdout   io.Writer
		stderr   io.Writer

		// verbose is the effective verbosity once configuration is loaded.
		verbose bool
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config   config.Provider
		Fs       afero.Fs
		Terminal TerminalOpener
		Stdout   io.Writer
		Stderr   io.Writer
	}

	// shellEnv is everything needed to run commands against the configured VFS.
	shellEnv struct {
		cfg    *config.Config
		guard  *vfs.Guard
		logger *log.Logger
	}
)

// NewApp creates an App, filling unset dependencies with production defaults.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:   deps.Config,
		Fs:       deps.Fs,
		Terminal: deps.Terminal,
		stdout:   deps.Stdout,
		stderr:   deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.Fs == nil {
		app.Fs = afero.NewOsFs()
	}
	if app.Terminal == nil {
		app.Terminal = console.Stdio
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// loadConfig loads configuration with flag overrides and records the
// effective verbosity. Failures carry the configuration exit status.
func (a *App) loadConfig(ctx context.Context, opts config.LoadOptions) (*config.Config, error) {
	cfg, err := a.Config.Load(ctx, opts)
	if err != nil {
		return nil, a.configFailure(err, issue.ConfigLoadFailedId)
	}
	a.verbose = a.verbose || cfg.UI.Verbose
	return cfg, nil
}

// openShell loads configuration and validates the VFS root. Nothing runs
// before both succeed.
func (a *App) openShell(ctx context.Context, opts config.LoadOptions) (*shellEnv, error) {
	cfg, err := a.loadConfig(ctx, opts)
	if err != nil {
		return nil, err
	}

	logger := newLogger(a.stderr, a.verbose)

	guard, err := cfg.OpenVFS(a.Fs)
	if err != nil {
		return nil, a.configFailure(err, issue.VfsRootInvalidId)
	}
	logger.Debug("virtual filesystem ready", "root", guard.Root(), "config", cfg.Source())

	return &shellEnv{cfg: cfg, guard: guard, logger: logger}, nil
}

// newInterpreter creates a session confined to the configured root.
func (e *shellEnv) newInterpreter() *shell.Interpreter {
	session := shell.NewSession(e.guard, e.cfg.Table(e.guard))
	return shell.NewInterpreter(session, shell.WithLogger(e.logger))
}

// prompt applies the configured overrides to the OS user and hostname.
func (e *shellEnv) prompt() shell.Prompt {
	p := shell.DefaultPrompt()
	if e.cfg.Prompt.User != "" {
		p.User = e.cfg.Prompt.User
	}
	if e.cfg.Prompt.Host != "" {
		p.Host = e.cfg.Prompt.Host
	}
	return p
}

// configFailure shows the matching issue guide and wraps err with the
// configuration exit status.
func (a *App) configFailure(err error, id issue.Id) error {
	if rendered, renderErr := issue.Get(id).Render(a.guideStyle()); renderErr == nil {
		fmt.Fprint(a.stderr, rendered)
	}
	return &ExitError{Code: exitConfig, Err: err}
}

// guideStyle picks the glamour style for issue guides.
func (a *App) guideStyle() string {
	if f, ok := a.stderr.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "dark"
	}
	return "notty"
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// newLogger returns the stderr logger: warnings by default, debug when verbose.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: "vfsh",
		Level:  level,
	})
}
