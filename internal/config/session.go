// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/vfsh/vfsh/internal/issue"
	"github.com/vfsh/vfsh/internal/vfs"
)

// Keys exposed by conf-dump.
const (
	KeyVFS    = "vfs"
	KeyScript = "script"
)

// VFSRoot returns the configured VFS root, falling back to the working
// directory when none is set.
func (c *Config) VFSRoot() (string, error) {
	if c.VFS != "" {
		return c.VFS, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return wd, nil
}

// ScriptPath returns the startup script as an absolute path, or "" when none
// is configured.
func (c *Config) ScriptPath() string {
	if c.Script == "" {
		return ""
	}
	if abs, err := filepath.Abs(c.Script); err == nil {
		return abs
	}
	return c.Script
}

// OpenVFS validates the configured root on fs and returns its guard. An
// unusable root is reported as an actionable error wrapping vfs.ErrInvalidRoot.
func (c *Config) OpenVFS(fs afero.Fs) (*vfs.Guard, error) {
	root, err := c.VFSRoot()
	if err != nil {
		return nil, err
	}

	guard, err := vfs.NewGuard(fs, root)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("open virtual filesystem").
			WithResource(root).
			WithSuggestion("Pass an existing directory with --vfs or VFSH_VFS").
			WithSuggestion("Check the 'vfs' entry of your config file ('vfsh config path')").
			Wrap(err).
			BuildError()
	}
	return guard, nil
}

// Table returns the read-only option table shown by conf-dump, with the VFS
// root already resolved to the guard's absolute path.
func (c *Config) Table(guard *vfs.Guard) map[string]string {
	return map[string]string{
		KeyVFS:    guard.Root(),
		KeyScript: c.ScriptPath(),
	}
}
