// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for vfsh.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/vfsh/vfsh/internal/config"
	"github.com/vfsh/vfsh/internal/console"
	"github.com/vfsh/vfsh/internal/issue"
	"github.com/vfsh/vfsh/internal/shell"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlags holds the values of the root command's flags.
type rootFlags struct {
	configFile string
	verbose    bool
	vfs        string
	script     string
	command    string
	batch      bool
}

// newRootCommand creates the vfsh command tree bound to app.
func newRootCommand(app *App) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "vfsh",
		Short: "A shell emulator over a sandboxed directory",
		Long: TitleStyle.Render("vfsh") + SubtitleStyle.Render(" - A shell emulator over a sandboxed directory") + `

vfsh presents one directory on disk as a virtual filesystem and lets you
walk it with a handful of shell commands. No path can leave the root.

` + SubtitleStyle.Render("Commands inside the shell:") + `
  ls [path...]     Show a directory tree
  cd [path]        Change the current directory
  conf-dump        Print the active configuration
  help             Show usage
  exit [code]      Leave the shell

` + SubtitleStyle.Render("Examples:") + `
  vfsh --vfs ./sandbox                   Start an interactive shell
  vfsh --vfs ./sandbox --script init.vfsh --batch
  vfsh --vfs ./sandbox -c "ls dir1"      Run one line and exit
  vfsh serve --listen 127.0.0.1:2222     Serve the shell over SSH`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd, app, flags)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flags.configFile, "config", "", "config file (default is $HOME/.config/vfsh/config.cue)")
	rootCmd.PersistentFlags().StringVar(&flags.vfs, "vfs", "", "directory used as the virtual filesystem root (default is the current directory)")
	rootCmd.PersistentFlags().StringVar(&flags.script, "script", "", "startup script replayed before the prompt")

	rootCmd.Flags().StringVarP(&flags.command, "command", "c", "", "run a single command line and exit")
	rootCmd.Flags().BoolVar(&flags.batch, "batch", false, "run the startup script and exit without a prompt")
	rootCmd.MarkFlagsMutuallyExclusive("command", "batch")

	rootCmd.AddCommand(newConfigCommand(app, flags))
	rootCmd.AddCommand(newServeCommand(app, flags))

	return rootCmd
}

// loadOptions turns the flags that were set into configuration overrides.
func (f *rootFlags) loadOptions(cmd *cobra.Command) config.LoadOptions {
	overrides := make(map[string]any)
	if cmd.Flags().Changed("vfs") {
		overrides[config.KeyVFS] = f.vfs
	}
	if cmd.Flags().Changed("script") {
		overrides[config.KeyScript] = f.script
	}
	if cmd.Flags().Changed("verbose") {
		overrides["ui.verbose"] = f.verbose
	}
	return config.LoadOptions{ConfigFilePath: f.configFile, Overrides: overrides}
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute builds the command tree and runs it with fang. This is called by
// main.main().
func Execute() {
	app := NewApp(Dependencies{})
	rootCmd := newRootCommand(app)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(app.handleError),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// handleError prints command errors. A bare ExitError has already been
// reported and only sets the status.
func (a *App) handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		fmt.Fprintln(w, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, a.verbose))
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// runShell starts the shell: one line with -c, the startup script, and then
// the interactive prompt unless --batch is set.
func runShell(cmd *cobra.Command, app *App, flags *rootFlags) error {
	env, err := app.openShell(cmd.Context(), flags.loadOptions(cmd))
	if err != nil {
		return err
	}
	interp := env.newInterpreter()

	if flags.command != "" {
		return runCommandLine(app, interp, flags.command)
	}

	script := env.cfg.ScriptPath()
	if flags.batch {
		if script == "" {
			env.logger.Warn("batch mode without a startup script; nothing to run")
			return nil
		}
		lio := console.NewScanIO(strings.NewReader(""), app.stdout)
		c := console.New(interp, lio, env.prompt(),
			console.WithStyles(console.NewStyles(app.stdout, env.cfg.UI.ColorScheme)),
			console.WithLogger(env.logger))
		_, err := runStartupScript(app, env, c, script, true)
		return err
	}

	lio, restore, err := app.Terminal()
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	defer restore()

	c := console.New(interp, lio, env.prompt(),
		console.WithStyles(console.NewStyles(app.stdout, env.cfg.UI.ColorScheme)),
		console.WithLogger(env.logger))

	if script != "" {
		if stop, err := runStartupScript(app, env, c, script, false); stop || err != nil {
			return err
		}
	}

	code, err := c.Loop()
	if err != nil {
		return err
	}
	if code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}

// runStartupScript replays script through c. It reports stop when the
// script called exit, with an ExitError for a non-zero code. A script that
// cannot be read fails batch runs and is only reported otherwise; the
// not-found guide is shown only when the file is missing.
func runStartupScript(app *App, env *shellEnv, c *console.Console, script string, batch bool) (stop bool, err error) {
	report, err := c.RunScript(app.Fs, script)
	if err != nil {
		env.logger.Warn("startup script skipped", "script", script, "err", err)
		if batch {
			return true, &ExitError{Code: exitFailure}
		}
		if errors.Is(err, os.ErrNotExist) {
			if rendered, renderErr := issue.Get(issue.ScriptNotFoundId).Render(app.guideStyle()); renderErr == nil {
				fmt.Fprint(app.stderr, rendered)
			}
		}
		return false, nil
	}

	env.logger.Debug("startup script finished", "script", script,
		"executed", report.Executed, "failed", len(report.Failures))
	if report.Exit == nil {
		return false, nil
	}
	if report.Exit.Code != 0 {
		return true, &ExitError{Code: report.Exit.Code}
	}
	return true, nil
}

// runCommandLine executes one line. Output goes to stdout and the error line
// to stderr.
func runCommandLine(app *App, interp *shell.Interpreter, line string) error {
	res := interp.Execute(line)
	for _, l := range res.Lines {
		w := app.stdout
		if res.Err != nil && l == shell.ErrorLine(res.Err) {
			w = app.stderr
		}
		fmt.Fprintln(w, l)
	}

	switch {
	case res.Exit != nil && res.Exit.Code != 0:
		return &ExitError{Code: res.Exit.Code}
	case res.Exit != nil:
		return nil
	case res.Err != nil:
		return &ExitError{Code: exitFailure}
	}
	return nil
}
