// SPDX-License-Identifier: MPL-2.0

package shell

import (
	"maps"
	"slices"

	"github.com/vfsh/vfsh/internal/vfs"
)

// Keys of the ConfigTable populated at startup.
const (
	ConfigKeyVFS    = "vfs"
	ConfigKeyScript = "script"
)

type (
	// ConfigTable maps startup option names to their resolved values.
	ConfigTable map[string]string

	// Session is the mutable state of one interpreter: the VFS guard, the
	// current directory and the startup configuration. The current directory
	// is always inside the guard's root.
	Session struct {
		guard  *vfs.Guard
		cwd    string
		config ConfigTable
	}
)

// Keys returns the table keys in lexicographic order.
func (c ConfigTable) Keys() []string {
	return slices.Sorted(maps.Keys(c))
}

// NewSession starts a session at the root of guard. config is copied.
func NewSession(guard *vfs.Guard, config ConfigTable) *Session {
	return &Session{
		guard:  guard,
		cwd:    guard.Root(),
		config: maps.Clone(config),
	}
}

// Guard returns the path guard of the session.
func (s *Session) Guard() *vfs.Guard {
	return s.guard
}

// Root returns the absolute VFS root.
func (s *Session) Root() string {
	return s.guard.Root()
}

// Cwd returns the absolute current directory.
func (s *Session) Cwd() string {
	return s.cwd
}

// DisplayCwd returns the current directory relative to the root ("~", "~/a").
func (s *Session) DisplayCwd() string {
	return s.guard.Display(s.cwd)
}

// Config returns a copy of the startup configuration.
func (s *Session) Config() ConfigTable {
	return maps.Clone(s.config)
}

// chdir moves the session. Callers resolve path through the guard first;
// the containment check here only keeps the invariant local.
func (s *Session) chdir(path string) bool {
	if !s.guard.Contains(path) {
		return false
	}
	s.cwd = path
	return true
}
