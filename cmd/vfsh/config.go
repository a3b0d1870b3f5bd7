// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vfsh/vfsh/internal/config"
)

const (
	formatCUE  = "cue"
	formatTOML = "toml"
)

// newConfigCommand creates the `vfsh config` command tree.
// Subcommands that read configuration use the App's Provider and honor the
// root flags, so `vfsh --vfs x config show` shows the effective value.
func newConfigCommand(app *App, flags *rootFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage vfsh configuration",
		Long: `Manage vfsh configuration.

Configuration is stored in:
  - Linux: ~/.config/vfsh/config.cue
  - macOS: ~/Library/Application Support/vfsh/config.cue
  - Windows: %APPDATA%\vfsh\config.cue

Values are resolved in this order: flags, VFSH_* environment variables,
the config file, built-in defaults.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showConfig(cmd.Context(), app, flags.loadOptions(cmd))
		},
	})

	var format string
	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE or TOML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return dumpConfig(cmd.Context(), app, flags.loadOptions(cmd), format)
		},
	}
	dumpCmd.Flags().StringVar(&format, "format", formatCUE, "output format (cue, toml)")
	cfgCmd.AddCommand(dumpCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(_ *cobra.Command, _ []string) error {
			return initConfig(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(_ *cobra.Command, _ []string) error {
			return showConfigPath(app, flags.configFile)
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App, opts config.LoadOptions) error {
	cfg, err := app.loadConfig(ctx, opts)
	if err != nil {
		return err
	}

	headerStyle := TitleStyle
	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	unset := SubtitleStyle.Render("(not set)")

	orUnset := func(v string) string {
		if v == "" {
			return unset
		}
		return valueStyle.Render(v)
	}

	w := app.stdout
	fmt.Fprintln(w, headerStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	if src := cfg.Source(); src != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), src)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	root, rootErr := cfg.VFSRoot()
	if rootErr != nil {
		root = ""
	}
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render(config.KeyVFS), orUnset(root))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render(config.KeyScript), orUnset(cfg.ScriptPath()))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("prompt"))
	fmt.Fprintf(w, "  user: %s\n", orUnset(cfg.Prompt.User))
	fmt.Fprintf(w, "  host: %s\n", orUnset(cfg.Prompt.Host))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("serve"))
	fmt.Fprintf(w, "  listen: %s\n", valueStyle.Render(cfg.Serve.Listen))
	fmt.Fprintf(w, "  host_key_path: %s\n", orUnset(cfg.Serve.HostKeyPath))
	fmt.Fprintf(w, "  authorized_keys_path: %s\n", orUnset(cfg.Serve.AuthorizedKeysPath))

	return nil
}

func dumpConfig(ctx context.Context, app *App, opts config.LoadOptions, format string) error {
	cfg, err := app.loadConfig(ctx, opts)
	if err != nil {
		return err
	}

	switch format {
	case formatCUE:
		fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
	case formatTOML:
		out, err := config.GenerateTOML(cfg)
		if err != nil {
			return err
		}
		fmt.Fprint(app.stdout, out)
	default:
		return fmt.Errorf("unknown format %q: must be %q or %q", format, formatCUE, formatTOML)
	}
	return nil
}

func initConfig(app *App) error {
	path, created, err := config.CreateDefaultConfig()
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	if !created {
		fmt.Fprintf(app.stdout, "%s Configuration already exists at %s\n", WarningStyle.Render("!"), path)
		return nil
	}
	fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}

func showConfigPath(app *App, configFile string) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)

	path, err := config.FilePath(config.LoadOptions{ConfigFilePath: configFile})
	if err != nil {
		return err
	}
	if path == "" {
		path = filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt)
		fmt.Fprintf(app.stdout, "Config file: %s %s\n", path, SubtitleStyle.Render("(not created)"))
		return nil
	}
	fmt.Fprintf(app.stdout, "Config file: %s\n", path)
	return nil
}
