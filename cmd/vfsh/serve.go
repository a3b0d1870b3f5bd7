// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vfsh/vfsh/internal/config"
	"github.com/vfsh/vfsh/internal/issue"
	"github.com/vfsh/vfsh/internal/sshserver"
)

// hostKeyFileName is the host key generated in the config directory when
// serve.host_key_path is not set.
const hostKeyFileName = "ssh_host_ed25519"

type serveFlags struct {
	listen         string
	hostKey        string
	authorizedKeys string
}

// newServeCommand creates `vfsh serve`, which exposes the shell over SSH.
func newServeCommand(app *App, root *rootFlags) *cobra.Command {
	flags := &serveFlags{}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the shell over SSH",
		Long: `Serve the shell over SSH.

Every connection gets its own session over the same root. Interactive
logins replay the startup script first and require a terminal; a remote
command ('ssh host ls dir1') runs one line and exits with its status.

Without an authorized keys file every client key is accepted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := root.loadOptions(cmd)
			flags.addOverrides(cmd, opts.Overrides)
			return runServe(cmd.Context(), app, opts)
		},
	}

	serveCmd.Flags().StringVar(&flags.listen, "listen", config.DefaultListenAddress, "address to listen on")
	serveCmd.Flags().StringVar(&flags.hostKey, "host-key", "", "host key path, generated when missing (default is <config dir>/"+hostKeyFileName+")")
	serveCmd.Flags().StringVar(&flags.authorizedKeys, "authorized-keys", "", "authorized_keys file restricting client keys")

	return serveCmd
}

func (f *serveFlags) addOverrides(cmd *cobra.Command, overrides map[string]any) {
	if cmd.Flags().Changed("listen") {
		overrides["serve.listen"] = f.listen
	}
	if cmd.Flags().Changed("host-key") {
		overrides["serve.host_key_path"] = f.hostKey
	}
	if cmd.Flags().Changed("authorized-keys") {
		overrides["serve.authorized_keys_path"] = f.authorizedKeys
	}
}

func runServe(ctx context.Context, app *App, opts config.LoadOptions) error {
	env, err := app.openShell(ctx, opts)
	if err != nil {
		return err
	}
	cfg := env.cfg

	hostKey := cfg.Serve.HostKeyPath
	if hostKey == "" {
		cfgDir, err := config.ConfigDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(cfgDir, 0o700); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
		hostKey = filepath.Join(cfgDir, hostKeyFileName)
	}

	// The server logs connections at info level even when the shell logger
	// only shows warnings.
	serverLogger := env.logger.WithPrefix("vfsh/ssh")
	if !app.verbose {
		serverLogger.SetLevel(log.InfoLevel)
	}

	prompt := env.prompt()
	srv, err := sshserver.New(sshserver.Config{
		Address:            cfg.Serve.Listen,
		HostKeyPath:        hostKey,
		AuthorizedKeysPath: cfg.Serve.AuthorizedKeysPath,
	}, sshserver.Environment{
		Guard:       env.guard,
		Table:       cfg.Table(env.guard),
		Script:      cfg.ScriptPath(),
		ScriptFs:    app.Fs,
		Host:        prompt.Host,
		ColorScheme: cfg.UI.ColorScheme,
	}, serverLogger)
	if err != nil {
		return err
	}

	if err := srv.Serve(ctx); err != nil {
		if rendered, renderErr := issue.Get(issue.ServeFailedId).Render(app.guideStyle()); renderErr == nil {
			fmt.Fprint(app.stderr, rendered)
		}
		return &ExitError{Code: exitFailure, Err: err}
	}
	return nil
}
